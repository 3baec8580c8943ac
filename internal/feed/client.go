// Package feed fetches candidate offers from the upstream listings API.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"olx-telegram-bot/internal/config"
	"olx-telegram-bot/internal/models"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	search     config.SearchParams
	validate   *validator.Validate
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.FeedTimeout},
		baseURL:    cfg.FeedBaseURL,
		search:     cfg.Search,
		validate:   validator.New(),
	}
}

// apiResponse is the upstream envelope. Records are kept raw so a single
// malformed entry cannot poison the whole batch.
type apiResponse struct {
	Data []json.RawMessage `json:"data"`
}

// FetchOffers retrieves the current candidate list, oldest first. The feed
// returns newest-first; the order is reversed so notifications go out
// chronologically. Records failing to parse or validate are skipped with a
// warning. A missing or empty data array yields an empty slice and no
// error; transport and JSON failures are returned to the caller.
func (c *Client) FetchOffers(ctx context.Context) ([]models.Offer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.URL.RawQuery = c.search.Values().Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("feed returned status %s", resp.Status)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	if len(envelope.Data) == 0 {
		slog.Warn("Feed response contains no data")
		return nil, nil
	}

	offers := make([]models.Offer, 0, len(envelope.Data))
	for _, raw := range envelope.Data {
		var offer models.Offer
		if err := json.Unmarshal(raw, &offer); err != nil {
			slog.Warn("Skipping malformed offer record", "error", err)
			continue
		}
		if err := c.validate.Struct(&offer); err != nil {
			slog.Warn("Skipping invalid offer record", "id", offer.ID, "error", err)
			continue
		}
		offers = append(offers, offer)
	}

	// Reverse to oldest-first.
	for i, j := 0, len(offers)-1; i < j; i, j = i+1, j-1 {
		offers[i], offers[j] = offers[j], offers[i]
	}

	slog.Debug("Fetched offers from feed", "count", len(offers))
	return offers, nil
}
