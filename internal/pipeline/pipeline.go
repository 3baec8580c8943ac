// Package pipeline orchestrates one polling cycle: fetch, deduplicate,
// enrich with media, dispatch.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"olx-telegram-bot/internal/collage"
	"olx-telegram-bot/internal/metrics"
	"olx-telegram-bot/internal/models"
	"olx-telegram-bot/internal/notifier"
)

type Pipeline struct {
	source     OfferSource
	store      DedupStore
	fetcher    PhotoFetcher
	composer   Composer
	dispatcher Dispatcher
}

func New(source OfferSource, store DedupStore, fetcher PhotoFetcher, composer Composer, dispatcher Dispatcher) *Pipeline {
	return &Pipeline{
		source:     source,
		store:      store,
		fetcher:    fetcher,
		composer:   composer,
		dispatcher: dispatcher,
	}
}

// RunCycle performs one complete pass. It is safe to invoke repeatedly on
// a fixed interval and never lets an error escape: feed failures mean
// "nothing to do this cycle" and a single offer's failure never aborts the
// rest. Each offer is reserved in the dedup store before any network side
// effect, so a crash mid-offer drops the notification rather than
// duplicating it on the next cycle.
func (p *Pipeline) RunCycle(ctx context.Context) {
	defer metrics.CyclesTotal.Inc()

	offers, err := p.source.FetchOffers(ctx)
	if err != nil {
		slog.Error("Failed to fetch offers", "error", err)
		return
	}
	metrics.OffersFetched.Add(float64(len(offers)))
	if len(offers) == 0 {
		slog.Info("No offers received this cycle")
		return
	}

	var newCount, sentCount int
	for i := range offers {
		// Honor shutdown between offers, never mid-offer.
		if ctx.Err() != nil {
			slog.Info("Cycle interrupted", "remaining", len(offers)-i)
			break
		}

		offer := offers[i]
		if p.store.Exists(ctx, offer.ID) {
			continue
		}

		inserted, err := p.store.Reserve(ctx, offer.ID)
		if err != nil {
			slog.Error("Failed to reserve offer", "offer_id", offer.ID, "error", err)
			continue
		}
		if !inserted {
			// Duplicate within this batch, or a concurrent reservation.
			continue
		}
		newCount++
		metrics.OffersNew.Inc()

		media := p.buildMedia(ctx, offer)
		if p.dispatcher.Send(ctx, offer, media) {
			sentCount++
			slog.Info("Successfully processed offer", "offer_id", offer.ID, "url", offer.URL)
		} else {
			metrics.DispatchFailures.Inc()
			slog.Warn("Failed to send message for offer", "offer_id", offer.ID)
		}
	}

	slog.Info("Cycle finished", "fetched", len(offers), "new", newCount, "sent", sentCount)
}

// buildMedia produces the visual attachment for an offer: a passthrough
// URL for a single photo, a composed collage for several, nil when no
// displayable media is available. Failures degrade to nil, never abort.
func (p *Pipeline) buildMedia(ctx context.Context, offer models.Offer) *notifier.Media {
	urls := offer.PhotoURLs()
	if len(urls) == 0 {
		slog.Debug("No photos available for offer", "offer_id", offer.ID)
		return nil
	}
	if len(urls) == 1 {
		return &notifier.Media{URL: urls[0]}
	}

	photos := p.fetcher.FetchAll(ctx, urls)
	if len(photos) == 0 {
		slog.Warn("All photo downloads failed for offer", "offer_id", offer.ID)
		return nil
	}

	result, err := p.composer.Compose(photos)
	if err != nil {
		if !errors.Is(err, collage.ErrNoComposablePhoto) {
			metrics.CollageFailures.Inc()
		}
		slog.Warn("Collage unavailable for offer", "offer_id", offer.ID, "error", err)
		return nil
	}
	if result.Single != nil {
		return &notifier.Media{URL: result.Single.URL}
	}
	return &notifier.Media{Bytes: result.Collage}
}
