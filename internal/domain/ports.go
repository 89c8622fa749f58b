package domain

import (
	"context"
	"time"
)

// PlaceClient is the map-data provider boundary.
type PlaceClient interface {
	GetPlaceDetails(ctx context.Context, placeID string) (PlaceDetails, error)
	SearchPlaces(ctx context.Context, query, location string) ([]PlaceSummary, error)
}

// GenerateOptions tune a single text-generation call.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int64
}

// TextGenerator is the text-generation provider boundary. The provider is a
// black box: this side owns prompt construction and response parsing only.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Cache is an atomic key-value store with last-write-wins upsert semantics.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// StoreRepository persists store rows and their append-only analysis history.
type StoreRepository interface {
	// Write paths
	UpsertStore(ctx context.Context, s Store) (int64, error)
	InsertAnalysis(ctx context.Context, storeID int64, a FactorAnalysis) (int64, error)
	AttachEmotions(ctx context.Context, storeID int64, scores EmotionScores, dominant string) error

	// Read paths
	GetStore(ctx context.Context, storeID int64) (Store, error)
	LatestAnalysis(ctx context.Context, storeID int64) (StoredAnalysis, error)
	LatestEmotions(ctx context.Context, storeID int64) (EmotionScores, string, time.Time, error)
}
