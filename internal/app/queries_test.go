package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storelens/internal/app"
	"storelens/internal/domain"
)

func TestLatestAnalysisReadThrough(t *testing.T) {
	repo := &fakeRepo{
		store: domain.Store{ID: 3, Name: "Cafe Mikan"},
		analysis: domain.StoredAnalysis{
			ID: 11,
			FactorAnalysis: domain.FactorAnalysis{
				OverallScore: 82,
				Sentiment:    domain.SentimentPositive,
			},
		},
	}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	got, err := q.LatestAnalysis(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Store.Name != "Cafe Mikan" || got.Analysis == nil || got.Analysis.ID != 11 {
		t.Fatalf("read model wrong: %+v", got)
	}
	if _, ok := cache.store["analysis:3"]; !ok {
		t.Fatal("result was not written to the read cache")
	}
}

func TestLatestAnalysisServedFromCache(t *testing.T) {
	cached := app.StoreAnalysis{Store: domain.Store{ID: 3, Name: "cached"}}
	repo := &fakeRepo{storeErr: errors.New("repository must not be touched")}
	cache := &fakeCache{store: map[string]any{"analysis:3": cached}}

	got, err := app.NewQueryService(repo, cache, time.Minute).LatestAnalysis(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Store.Name != "cached" {
		t.Fatalf("got %+v, want cached value", got)
	}
}

func TestLatestAnalysisStoreWithoutAnalysis(t *testing.T) {
	repo := &fakeRepo{
		store:     domain.Store{ID: 4, Name: "New Place"},
		latestErr: domain.ErrNotFound,
	}
	got, err := app.NewQueryService(repo, &fakeCache{}, time.Minute).LatestAnalysis(context.Background(), 4)
	if err != nil {
		t.Fatalf("a store with no analyses is not an error: %v", err)
	}
	if got.Analysis != nil {
		t.Fatalf("analysis should be nil, got %+v", got.Analysis)
	}
}

func TestLatestAnalysisUnknownStore(t *testing.T) {
	repo := &fakeRepo{storeErr: domain.ErrNotFound}
	_, err := app.NewQueryService(repo, &fakeCache{}, time.Minute).LatestAnalysis(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLatestEmotionsSnapshot(t *testing.T) {
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		emotions:   domain.EmotionScores{Joy: 75, Satisfaction: 85, Expectation: 80},
		dominant:   "satisfaction",
		emotionsAt: at,
	}
	cache := &fakeCache{}

	got, err := app.NewQueryService(repo, cache, time.Minute).LatestEmotions(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Dominant != "satisfaction" || !got.AnalyzedAt.Equal(at) {
		t.Fatalf("snapshot wrong: %+v", got)
	}
	if len(got.Distribution) != 6 {
		t.Fatalf("distribution has %d entries, want 6", len(got.Distribution))
	}
	// joy>70, satisfaction>80, expectation>75 all fire.
	if len(got.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3: %v", len(got.Recommendations), got.Recommendations)
	}
	if _, ok := cache.store["emotions:5"]; !ok {
		t.Fatal("snapshot was not written to the read cache")
	}
}

func TestLatestEmotionsNotFound(t *testing.T) {
	repo := &fakeRepo{emotionErr: domain.ErrNotFound}
	_, err := app.NewQueryService(repo, &fakeCache{}, time.Minute).LatestEmotions(context.Background(), 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
