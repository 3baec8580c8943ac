package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"olx-telegram-bot/internal/config"
)

func newTestClient(serverURL string) *Client {
	cfg := &config.Config{
		FeedBaseURL: serverURL,
		FeedTimeout: 2 * time.Second,
		Search:      config.DefaultSearch(),
	}
	return New(cfg)
}

func TestFetchOffers_ReversesToOldestFirst(t *testing.T) {
	body := `{"data":[
		{"id": 3, "title": "newest"},
		{"id": 2, "title": "middle"},
		{"id": 1, "title": "oldest"}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sort_by"); got != "created_at:desc" {
			t.Errorf("Expected sort_by query param, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer server.Close()

	offers, err := newTestClient(server.URL).FetchOffers(context.Background())
	if err != nil {
		t.Fatalf("FetchOffers() returned unexpected error: %v", err)
	}

	if len(offers) != 3 {
		t.Fatalf("Expected 3 offers, got %d", len(offers))
	}
	wantIDs := []int64{1, 2, 3}
	for i, want := range wantIDs {
		if offers[i].ID != want {
			t.Errorf("Offer %d: expected id %d, got %d", i, want, offers[i].ID)
		}
	}
}

func TestFetchOffers_SkipsInvalidRecords(t *testing.T) {
	// One record with no id, one malformed, one valid.
	body := `{"data":[
		{"title": "no id"},
		{"id": "not-a-number"},
		{"id": 5, "title": "valid"}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	offers, err := newTestClient(server.URL).FetchOffers(context.Background())
	if err != nil {
		t.Fatalf("FetchOffers() returned unexpected error: %v", err)
	}

	if len(offers) != 1 {
		t.Fatalf("Expected 1 valid offer, got %d", len(offers))
	}
	if offers[0].ID != 5 {
		t.Errorf("Expected id 5, got %d", offers[0].ID)
	}
}

func TestFetchOffers_MissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"total":0}}`))
	}))
	defer server.Close()

	offers, err := newTestClient(server.URL).FetchOffers(context.Background())
	if err != nil {
		t.Fatalf("FetchOffers() should not error on a missing data array, got %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("Expected 0 offers, got %d", len(offers))
	}
}

func TestFetchOffers_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchOffers(context.Background()); err == nil {
		t.Error("FetchOffers() should return an error for a non-200 response")
	}
}

func TestFetchOffers_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchOffers(context.Background()); err == nil {
		t.Error("FetchOffers() should return an error for malformed JSON")
	}
}

func TestFetchOffers_ParsesNestedFields(t *testing.T) {
	body := `{"data":[{
		"id": 11,
		"url": "https://example.com/offers/11",
		"title": "Nice flat",
		"params": [{"key":"price","value":{"label":"250 у.е."}}],
		"photos": [{"link":"https://img.example.com/a.jpg;https://img.example.com/a_small.jpg"}],
		"location": {"city":{"id":5,"name":"Ташкент"},"district":{"id":26,"name":"Чиланзар"}},
		"map": {"lat":41.31,"lon":69.24},
		"unknown_field": {"nested": true}
	}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	offers, err := newTestClient(server.URL).FetchOffers(context.Background())
	if err != nil {
		t.Fatalf("FetchOffers() returned unexpected error: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("Expected 1 offer, got %d", len(offers))
	}

	offer := offers[0]
	if price, ok := offer.PriceLabel(); !ok || price != "250 у.е." {
		t.Errorf("Expected price label '250 у.е.', got %q (ok=%v)", price, ok)
	}
	urls := offer.PhotoURLs()
	if len(urls) != 1 || urls[0] != "https://img.example.com/a.jpg" {
		t.Errorf("Expected primary photo variant, got %v", urls)
	}
	if offer.Location == nil || offer.Location.City == nil || offer.Location.City.Name != "Ташкент" {
		t.Error("Expected nested location city to parse")
	}
	if offer.Map == nil || offer.Map.Lat != 41.31 {
		t.Error("Expected map coordinates to parse")
	}
}
