package app_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storelens/internal/app"
	"storelens/internal/domain"
)

// ---- shared fakes over the domain ports ----

type fakePlaces struct {
	details domain.PlaceDetails
	err     error
	calls   int
}

func (f *fakePlaces) GetPlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	f.calls++
	if f.err != nil {
		return domain.PlaceDetails{}, f.err
	}
	d := f.details
	if d.PlaceID == "" {
		d.PlaceID = placeID
	}
	return d, nil
}

func (f *fakePlaces) SearchPlaces(ctx context.Context, query, location string) ([]domain.PlaceSummary, error) {
	return nil, nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.CachedReviews:
		*d = v.(domain.CachedReviews)
	case *app.StoreAnalysis:
		*d = v.(app.StoreAnalysis)
	case *app.EmotionSnapshot:
		*d = v.(app.EmotionSnapshot)
	default:
		return false, fmt.Errorf("fakeCache: unsupported dst %T", dst)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// fakeGen replies with a canned text per prompt variant. Prompts are told
// apart by their schema keyword.
type fakeGen struct {
	factorReply  string
	emotionReply string
	err          error
	prompts      []string
}

func (g *fakeGen) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if strings.Contains(prompt, "emotion_scores") {
		return g.emotionReply, nil
	}
	return g.factorReply, nil
}

type fakeRepo struct {
	store    domain.Store
	storeErr error
	analysis domain.StoredAnalysis

	upserted   []domain.Store
	inserted   []domain.FactorAnalysis
	attached   []domain.EmotionScores
	nextStore  int64
	nextRow    int64
	latestErr  error
	emotions   domain.EmotionScores
	dominant   string
	emotionsAt time.Time
	emotionErr error
}

func (f *fakeRepo) UpsertStore(ctx context.Context, s domain.Store) (int64, error) {
	if f.storeErr != nil {
		return 0, f.storeErr
	}
	f.upserted = append(f.upserted, s)
	if f.nextStore == 0 {
		f.nextStore = 1
	}
	return f.nextStore, nil
}

func (f *fakeRepo) InsertAnalysis(ctx context.Context, storeID int64, a domain.FactorAnalysis) (int64, error) {
	f.inserted = append(f.inserted, a)
	f.nextRow++
	return f.nextRow, nil
}

func (f *fakeRepo) AttachEmotions(ctx context.Context, storeID int64, scores domain.EmotionScores, dominant string) error {
	f.attached = append(f.attached, scores)
	return nil
}

func (f *fakeRepo) GetStore(ctx context.Context, storeID int64) (domain.Store, error) {
	if f.storeErr != nil {
		return domain.Store{}, f.storeErr
	}
	return f.store, nil
}

func (f *fakeRepo) LatestAnalysis(ctx context.Context, storeID int64) (domain.StoredAnalysis, error) {
	if f.latestErr != nil {
		return domain.StoredAnalysis{}, f.latestErr
	}
	return f.analysis, nil
}

func (f *fakeRepo) LatestEmotions(ctx context.Context, storeID int64) (domain.EmotionScores, string, time.Time, error) {
	if f.emotionErr != nil {
		return domain.EmotionScores{}, "", time.Time{}, f.emotionErr
	}
	return f.emotions, f.dominant, f.emotionsAt, nil
}

// ---- builders ----

func review(rating int, textLen int) domain.Review {
	return domain.Review{
		Author: "reviewer",
		Rating: rating,
		Text:   strings.Repeat("a", textLen),
		Time:   1700000000,
	}
}

func reviews(rating, count, textLen int) []domain.Review {
	out := make([]domain.Review, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, review(rating, textLen))
	}
	return out
}
