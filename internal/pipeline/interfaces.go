package pipeline

import (
	"context"

	"olx-telegram-bot/internal/collage"
	"olx-telegram-bot/internal/models"
	"olx-telegram-bot/internal/notifier"
)

// OfferSource abstracts the upstream feed.
type OfferSource interface {
	FetchOffers(ctx context.Context) ([]models.Offer, error)
}

// DedupStore abstracts the durable seen-offer record.
type DedupStore interface {
	Exists(ctx context.Context, offerID int64) bool
	Reserve(ctx context.Context, offerID int64) (bool, error)
}

// PhotoFetcher abstracts the bounded-concurrency image downloader.
type PhotoFetcher interface {
	FetchAll(ctx context.Context, urls []string) []*collage.Photo
}

// Composer abstracts collage composition.
type Composer interface {
	Compose(photos []*collage.Photo) (*collage.Result, error)
}

// Dispatcher abstracts the notification channel.
type Dispatcher interface {
	Send(ctx context.Context, offer models.Offer, media *notifier.Media) bool
}
