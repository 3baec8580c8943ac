package models

import (
	"strings"
	"time"
)

// Offer is one marketplace listing as returned by the upstream feed.
// Every field is optional on the wire; unknown fields are ignored so the
// parser tolerates payload shape drift. An Offer lives for a single
// polling cycle only.
type Offer struct {
	ID              int64     `json:"id" validate:"required,gt=0"`
	URL             string    `json:"url" validate:"omitempty,url"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CreatedTime     string    `json:"created_time"`      // e.g. 2025-03-23T16:46:38+05:00
	LastRefreshTime string    `json:"last_refresh_time"` // same format
	Status          string    `json:"status"`
	Params          []Param   `json:"params"`
	Photos          []Photo   `json:"photos"`
	Map             *Map      `json:"map"`
	Location        *Location `json:"location"`
}

// Param is a key/value attribute of an offer. The feed labels prices as a
// param with key "price" and a human-readable value label.
type Param struct {
	Key   string     `json:"key"`
	Value ParamValue `json:"value"`
}

type ParamValue struct {
	Label string `json:"label"`
}

// Photo references a remote image. The link may carry several
// ";"-separated size variants; the first one is the primary.
type Photo struct {
	Link string `json:"link"`
}

type Map struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type District struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Location struct {
	City     *City     `json:"city"`
	District *District `json:"district"`
	Region   *Region   `json:"region"`
}

// PhotoURLs returns the primary URL of every photo, in feed order.
func (o *Offer) PhotoURLs() []string {
	var urls []string
	for _, p := range o.Photos {
		if p.Link == "" {
			continue
		}
		primary := strings.SplitN(p.Link, ";", 2)[0]
		if primary != "" {
			urls = append(urls, primary)
		}
	}
	return urls
}

// PriceLabel returns the label of the first "price" param and whether one
// was present.
func (o *Offer) PriceLabel() (string, bool) {
	for _, p := range o.Params {
		if p.Key == "price" && p.Value.Label != "" {
			return p.Value.Label, true
		}
	}
	return "", false
}

// RefreshedAt parses the last refresh timestamp.
func (o *Offer) RefreshedAt() (time.Time, error) {
	return time.Parse(time.RFC3339, o.LastRefreshTime)
}

// CreatedToday reports whether the offer was created on the current UTC
// date. Unparseable or missing timestamps count as not-today.
func (o *Offer) CreatedToday() bool {
	if o.CreatedTime == "" {
		return false
	}
	created, err := time.Parse(time.RFC3339, o.CreatedTime)
	if err != nil {
		return false
	}
	y1, m1, d1 := created.UTC().Date()
	y2, m2, d2 := time.Now().UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
