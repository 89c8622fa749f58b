package domain

import "time"

// Review is a single public review as returned by the place data provider.
// Reviews are value objects: immutable once fetched, addressable only as
// members of a place's review set.
type Review struct {
	Author       string `json:"author_name"`
	Rating       int    `json:"rating"`
	Text         string `json:"text"`
	Time         int64  `json:"time"`
	RelativeTime string `json:"relative_time_description"`
}

// CachedReviews is the review-cache entry for one place. Freshness is a
// predicate evaluated by the caller, not by the store holding the entry.
type CachedReviews struct {
	Reviews  []Review  `json:"reviews"`
	CachedAt time.Time `json:"cached_at"`
}

// Fresh reports whether the entry is younger than the given window.
func (c CachedReviews) Fresh(window time.Duration, now time.Time) bool {
	return now.Sub(c.CachedAt) <= window
}

// PlaceDetails is the provider's full record for one place, reviews inline.
type PlaceDetails struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"formatted_address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Types       []string `json:"types"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"user_ratings_total"`
	PriceLevel  int      `json:"price_level"`
	Reviews     []Review `json:"reviews"`
}

// PlaceSummary is a text-search result row; no reviews attached.
type PlaceSummary struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"formatted_address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Types       []string `json:"types"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"user_ratings_total"`
}
