package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"storelens/internal/domain"
)

func reviewCacheKey(placeID string) string { return "reviews:" + placeID }

// ReviewSource obtains a place's reviews, consulting the cache before the
// provider. Place metadata is always fetched live: it is cheap and can
// change, while review bodies are the rate-limited resource worth caching.
type ReviewSource struct {
	places    domain.PlaceClient
	cache     domain.Cache
	freshness time.Duration
	now       func() time.Time
}

func NewReviewSource(p domain.PlaceClient, c domain.Cache, freshness time.Duration) *ReviewSource {
	return &ReviewSource{places: p, cache: c, freshness: freshness, now: time.Now}
}

// Fetch returns live place metadata and the place's review set. A cached
// review set within the freshness window is returned verbatim; otherwise the
// provider's inline reviews are used and written back wholesale. Cache errors
// degrade to a live fetch, they never fail the call.
func (s *ReviewSource) Fetch(ctx context.Context, placeID string) (domain.PlaceDetails, []domain.Review, error) {
	var cached domain.CachedReviews
	hit, err := s.cache.Get(ctx, reviewCacheKey(placeID), &cached)
	if err != nil {
		log.Warn().Err(err).Str("place_id", placeID).Msg("review cache read failed")
		hit = false
	}
	if hit && !cached.Fresh(s.freshness, s.now()) {
		hit = false // stale entries are treated as absent
	}

	details, err := s.places.GetPlaceDetails(ctx, placeID)
	if err != nil {
		return domain.PlaceDetails{}, nil, err
	}

	if hit {
		details.Reviews = cached.Reviews
		return details, cached.Reviews, nil
	}

	if len(details.Reviews) > 0 {
		entry := domain.CachedReviews{Reviews: details.Reviews, CachedAt: s.now()}
		if err := s.cache.Set(ctx, reviewCacheKey(placeID), entry, s.freshness); err != nil {
			log.Warn().Err(err).Str("place_id", placeID).Msg("review cache write failed")
		}
	}
	return details, details.Reviews, nil
}
