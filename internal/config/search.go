package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SearchParams is the upstream feed query. The defaults target the same
// real-estate segment the bot was originally deployed for; a YAML file can
// override any subset of them.
type SearchParams struct {
	Offset         int    `yaml:"offset"`
	Limit          int    `yaml:"limit"`
	CategoryID     int    `yaml:"category_id"`
	RegionID       int    `yaml:"region_id"`
	DistrictID     int    `yaml:"district_id"`
	CityID         int    `yaml:"city_id"`
	Distance       int    `yaml:"distance"`
	Currency       string `yaml:"currency"`
	SortBy         string `yaml:"sort_by"`
	PriceFrom      int    `yaml:"price_from"`
	PriceTo        int    `yaml:"price_to"`
	RoomsFrom      int    `yaml:"rooms_from"`
	RoomsTo        int    `yaml:"rooms_to"`
	FilterRefiners string `yaml:"filter_refiners"`
}

func DefaultSearch() SearchParams {
	return SearchParams{
		Offset:     0,
		Limit:      50,
		CategoryID: 1147, // real estate
		RegionID:   5,
		DistrictID: 26,
		CityID:     5,
		Distance:   10,
		Currency:   "UYE",
		SortBy:     "created_at:desc",
		PriceFrom:  100,
		PriceTo:    350,
		RoomsFrom:  1,
		RoomsTo:    6,
	}
}

// LoadSearch reads search parameters from the given YAML file, applied on
// top of the defaults. An empty path returns the defaults unchanged.
func LoadSearch(path string) (SearchParams, error) {
	search := DefaultSearch()
	if path == "" {
		return search, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return search, fmt.Errorf("read search config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &search); err != nil {
		return search, fmt.Errorf("parse search config %s: %w", path, err)
	}
	return search, nil
}

// Values renders the parameter set as the upstream query string keys.
func (s SearchParams) Values() url.Values {
	v := url.Values{}
	v.Set("offset", strconv.Itoa(s.Offset))
	v.Set("limit", strconv.Itoa(s.Limit))
	v.Set("category_id", strconv.Itoa(s.CategoryID))
	v.Set("region_id", strconv.Itoa(s.RegionID))
	v.Set("district_id", strconv.Itoa(s.DistrictID))
	v.Set("city_id", strconv.Itoa(s.CityID))
	v.Set("distance", strconv.Itoa(s.Distance))
	v.Set("currency", s.Currency)
	v.Set("sort_by", s.SortBy)
	v.Set("filter_float_price:from", strconv.Itoa(s.PriceFrom))
	v.Set("filter_float_price:to", strconv.Itoa(s.PriceTo))
	v.Set("filter_float_number_of_rooms:from", strconv.Itoa(s.RoomsFrom))
	v.Set("filter_float_number_of_rooms:to", strconv.Itoa(s.RoomsTo))
	v.Set("filter_refiners", s.FilterRefiners)
	return v
}
