package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storelens/internal/app"
	"storelens/internal/domain"
)

func newService(places *fakePlaces, gen *fakeGen, repo *fakeRepo, cache *fakeCache) *app.AnalysisService {
	src := app.NewReviewSource(places, cache, week)
	return app.NewAnalysisService(src, app.NewAnalyzer(gen), repo, cache, 50, 0)
}

func TestAnalyzeStorePersistsAfterSuccess(t *testing.T) {
	places := &fakePlaces{details: domain.PlaceDetails{
		Name:    "Cafe Mikan",
		Address: "1-2-3 Ginza",
		Rating:  4.2,
		Types:   []string{"cafe", "food"},
		Reviews: reviews(4, 5, 80),
	}}
	gen := &fakeGen{factorReply: factorJSON}
	repo := &fakeRepo{nextStore: 7}

	report, err := newService(places, gen, repo, &fakeCache{}).AnalyzeStore(context.Background(), "p1", "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.StoreID != 7 || report.AnalysisID != 1 {
		t.Fatalf("report ids = %d/%d, want 7/1", report.StoreID, report.AnalysisID)
	}
	if report.StoreName != "Cafe Mikan" {
		t.Fatalf("store name = %q", report.StoreName)
	}
	if len(repo.upserted) != 1 || len(repo.inserted) != 1 {
		t.Fatalf("persisted %d stores / %d analyses, want 1/1", len(repo.upserted), len(repo.inserted))
	}
	if got := repo.upserted[0].Category; got != "cafe" {
		t.Fatalf("category = %q, want first place type", got)
	}
	if repo.inserted[0].ReviewCount != 5 {
		t.Fatalf("stored review count = %d, want 5", repo.inserted[0].ReviewCount)
	}
}

func TestAnalyzeStoreFailureLeavesNoRows(t *testing.T) {
	places := &fakePlaces{details: domain.PlaceDetails{Reviews: reviews(4, 3, 80)}}
	gen := &fakeGen{factorReply: "not json at all"}
	repo := &fakeRepo{}

	_, err := newService(places, gen, repo, &fakeCache{}).AnalyzeStore(context.Background(), "p1", "owner-1")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("got %v, want ErrMalformedResponse", err)
	}
	if len(repo.upserted) != 0 || len(repo.inserted) != 0 {
		t.Fatal("a failed analysis must not write store or analysis rows")
	}
}

func TestAnalyzeStoreValidatesInput(t *testing.T) {
	svc := newService(&fakePlaces{}, &fakeGen{}, &fakeRepo{}, &fakeCache{})
	for _, c := range []struct{ place, owner string }{{"", "o"}, {"p", ""}, {"  ", "o"}} {
		if _, err := svc.AnalyzeStore(context.Background(), c.place, c.owner); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("AnalyzeStore(%q, %q) = %v, want ErrValidation", c.place, c.owner, err)
		}
	}
}

func TestAnalyzeStoreNoUsableReviews(t *testing.T) {
	// All bodies below the signal threshold.
	places := &fakePlaces{details: domain.PlaceDetails{Reviews: reviews(5, 10, 20)}}
	svc := newService(places, &fakeGen{}, &fakeRepo{}, &fakeCache{})
	if _, err := svc.AnalyzeStore(context.Background(), "p1", "o"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestAnalyzeStoreInvalidatesReadCache(t *testing.T) {
	places := &fakePlaces{details: domain.PlaceDetails{Reviews: reviews(4, 2, 80)}}
	cache := &fakeCache{}
	repo := &fakeRepo{nextStore: 3}

	if _, err := newService(places, &fakeGen{factorReply: factorJSON}, repo, cache).AnalyzeStore(context.Background(), "p1", "o"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]bool{"analysis:3": false, "emotions:3": false}
	for _, k := range cache.dels {
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("read-model key %q was not invalidated", k)
		}
	}
}

func TestAnalyzeStoreEmotionsAttachesWhenStoreKnown(t *testing.T) {
	places := &fakePlaces{details: domain.PlaceDetails{Name: "Cafe Mikan", Reviews: reviews(4, 3, 80)}}
	gen := &fakeGen{emotionReply: emotionJSON}
	repo := &fakeRepo{}

	report, err := newService(places, gen, repo, &fakeCache{}).AnalyzeStoreEmotions(context.Background(), "p1", 42, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.attached) != 1 {
		t.Fatalf("attached %d emotion sets, want 1", len(repo.attached))
	}
	if report.ReviewCount != 3 {
		t.Fatalf("review count = %d, want 3", report.ReviewCount)
	}
	if len(report.Recommendations) == 0 {
		t.Fatal("expected recommendations for high satisfaction/joy scores")
	}
}

func TestAnalyzeStoreEmotionsStandalone(t *testing.T) {
	places := &fakePlaces{details: domain.PlaceDetails{Reviews: reviews(4, 2, 80)}}
	repo := &fakeRepo{}

	_, err := newService(places, &fakeGen{emotionReply: emotionJSON}, repo, &fakeCache{}).AnalyzeStoreEmotions(context.Background(), "p1", 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.attached) != 0 {
		t.Fatal("storeID 0 must not touch the repository")
	}
}

func TestBatchAnalyzeSkipsFailures(t *testing.T) {
	places := &fakePlaces{details: domain.PlaceDetails{Reviews: reviews(4, 2, 80)}}
	gen := &fakeGen{factorReply: factorJSON}
	repo := &fakeRepo{}
	svc := newService(places, gen, repo, &fakeCache{})

	targets := []app.BatchTarget{
		{PlaceID: "p1", OwnerID: "batch"},
		{PlaceID: "", OwnerID: "batch"}, // fails validation
		{PlaceID: "p3", OwnerID: "batch"},
	}
	got := svc.BatchAnalyze(context.Background(), targets)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 (failure skipped)", len(got))
	}
	if _, ok := got["p1"]; !ok {
		t.Error("missing result for p1")
	}
	if _, ok := got["p3"]; !ok {
		t.Error("missing result for p3")
	}
}

func TestBatchAnalyzeStopsOnCancel(t *testing.T) {
	places := &fakePlaces{details: domain.PlaceDetails{Reviews: reviews(4, 2, 80)}}
	svc := app.NewAnalysisService(
		app.NewReviewSource(places, &fakeCache{}, week),
		app.NewAnalyzer(&fakeGen{factorReply: factorJSON}),
		&fakeRepo{}, &fakeCache{}, 50, 50*time.Millisecond,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := svc.BatchAnalyze(ctx, []app.BatchTarget{
		{PlaceID: "p1", OwnerID: "b"},
		{PlaceID: "p2", OwnerID: "b"},
	})
	// First target runs before any pacing wait; the second is abandoned.
	if len(got) > 1 {
		t.Fatalf("canceled batch still produced %d results", len(got))
	}
}
