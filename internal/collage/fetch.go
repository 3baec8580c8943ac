package collage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Photos larger than this are almost certainly not listing photos.
const maxImageBytes = 20 << 20

// Fetcher downloads a batch of remote images on a bounded worker pool.
type Fetcher struct {
	client  *http.Client
	workers int
}

func NewFetcher(workers int, timeout time.Duration) *Fetcher {
	if workers <= 0 {
		workers = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		workers: workers,
	}
}

// FetchAll downloads and decodes every URL, preserving input order in the
// result. Individual failures are logged and dropped; the batch never
// fails as a whole. All downloads settle before FetchAll returns.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []*Photo {
	results := make([]*Photo, len(urls))

	var g errgroup.Group
	g.SetLimit(f.workers)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			photo, err := f.fetchOne(ctx, u)
			if err != nil {
				slog.Warn("Failed to download image", "url", u, "error", err)
				return nil
			}
			results[i] = photo
			return nil
		})
	}
	g.Wait()

	photos := make([]*Photo, 0, len(urls))
	for _, p := range results {
		if p != nil {
			photos = append(photos, p)
		}
	}
	return photos
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) (*Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	photo, err := decodePhoto(url, data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return photo, nil
}
