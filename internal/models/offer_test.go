package models

import (
	"testing"
	"time"
)

func TestPhotoURLs_PrimaryVariant(t *testing.T) {
	offer := Offer{Photos: []Photo{
		{Link: "https://img.example.com/a.jpg;https://img.example.com/a_small.jpg"},
		{Link: ""},
		{Link: "https://img.example.com/b.jpg"},
	}}

	urls := offer.PhotoURLs()
	if len(urls) != 2 {
		t.Fatalf("Expected 2 URLs, got %d", len(urls))
	}
	if urls[0] != "https://img.example.com/a.jpg" {
		t.Errorf("Expected first variant before the semicolon, got %s", urls[0])
	}
	if urls[1] != "https://img.example.com/b.jpg" {
		t.Errorf("Expected plain link untouched, got %s", urls[1])
	}
}

func TestPriceLabel(t *testing.T) {
	offer := Offer{Params: []Param{
		{Key: "rooms", Value: ParamValue{Label: "3"}},
		{Key: "price", Value: ParamValue{Label: "250 у.е."}},
	}}

	label, ok := offer.PriceLabel()
	if !ok || label != "250 у.е." {
		t.Errorf("Expected price label, got %q (ok=%v)", label, ok)
	}

	if _, ok := (&Offer{}).PriceLabel(); ok {
		t.Error("Offer without params should report no price")
	}

	unlabeled := Offer{Params: []Param{{Key: "price"}}}
	if _, ok := unlabeled.PriceLabel(); ok {
		t.Error("Price param without a label should report no price")
	}
}

func TestCreatedToday(t *testing.T) {
	now := time.Now().UTC()

	today := Offer{CreatedTime: now.Format(time.RFC3339)}
	if !today.CreatedToday() {
		t.Error("Offer created now should report CreatedToday=true")
	}

	yesterday := Offer{CreatedTime: now.Add(-48 * time.Hour).Format(time.RFC3339)}
	if yesterday.CreatedToday() {
		t.Error("Offer created two days ago should report CreatedToday=false")
	}

	garbage := Offer{CreatedTime: "not-a-timestamp"}
	if garbage.CreatedToday() {
		t.Error("Unparseable created time should report CreatedToday=false")
	}

	if (&Offer{}).CreatedToday() {
		t.Error("Missing created time should report CreatedToday=false")
	}
}
