package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"storelens/internal/domain"
)

// AnalysisService sequences fetch -> filter -> sample -> analyze -> persist.
// The store row is written only after analysis succeeds, so a failed run
// leaves no partial side effects behind.
type AnalysisService struct {
	source    *ReviewSource
	analyzer  *Analyzer
	repo      domain.StoreRepository
	cache     domain.Cache
	sampleMax int
	pace      time.Duration
}

func NewAnalysisService(src *ReviewSource, an *Analyzer, repo domain.StoreRepository, cache domain.Cache, sampleMax int, pace time.Duration) *AnalysisService {
	if sampleMax <= 0 {
		sampleMax = 50
	}
	return &AnalysisService{source: src, analyzer: an, repo: repo, cache: cache, sampleMax: sampleMax, pace: pace}
}

// AnalysisReport is the submit-analysis response payload.
type AnalysisReport struct {
	StoreID    int64                 `json:"store_id"`
	AnalysisID int64                 `json:"analysis_id"`
	StoreName  string                `json:"store_name"`
	Result     domain.FactorAnalysis `json:"result"`
}

// EmotionReport is the submit-emotion-analysis response payload.
type EmotionReport struct {
	StoreName       string                 `json:"store_name"`
	ReviewCount     int                    `json:"review_count"`
	Result          domain.EmotionAnalysis `json:"result"`
	Recommendations []string               `json:"recommendations"`
}

func (s *AnalysisService) sampledReviews(ctx context.Context, placeID string) (domain.PlaceDetails, []domain.Review, error) {
	details, reviews, err := s.source.Fetch(ctx, placeID)
	if err != nil {
		return domain.PlaceDetails{}, nil, err
	}
	if len(reviews) == 0 {
		return domain.PlaceDetails{}, nil, fmt.Errorf("%w: no reviews for place", domain.ErrNotFound)
	}
	sampled := Sample(FilterQuality(reviews), s.sampleMax)
	if len(sampled) == 0 {
		return domain.PlaceDetails{}, nil, fmt.Errorf("%w: no reviews with enough text", domain.ErrNotFound)
	}
	return details, sampled, nil
}

// AnalyzeStore runs the factor pipeline for a place and persists the result.
func (s *AnalysisService) AnalyzeStore(ctx context.Context, placeID, ownerID string) (AnalysisReport, error) {
	if strings.TrimSpace(placeID) == "" || strings.TrimSpace(ownerID) == "" {
		return AnalysisReport{}, fmt.Errorf("%w: place_id and owner_id are required", domain.ErrValidation)
	}

	details, sampled, err := s.sampledReviews(ctx, placeID)
	if err != nil {
		return AnalysisReport{}, err
	}

	log.Info().Str("place_id", placeID).Int("reviews", len(sampled)).Msg("analyzing reviews")
	analysis, err := s.analyzer.AnalyzeFactors(ctx, sampled, details.Name)
	if err != nil {
		return AnalysisReport{}, err
	}

	storeID, err := s.repo.UpsertStore(ctx, storeFromDetails(details, ownerID))
	if err != nil {
		return AnalysisReport{}, err
	}
	analysisID, err := s.repo.InsertAnalysis(ctx, storeID, analysis)
	if err != nil {
		return AnalysisReport{}, err
	}
	s.invalidateStore(ctx, storeID)

	log.Info().Int64("store_id", storeID).Int64("analysis_id", analysisID).Msg("analysis saved")
	return AnalysisReport{StoreID: storeID, AnalysisID: analysisID, StoreName: details.Name, Result: analysis}, nil
}

// AnalyzeStoreEmotions runs the emotion pipeline. When storeID is non-zero
// the scores are attached to the store's most recent analysis row.
func (s *AnalysisService) AnalyzeStoreEmotions(ctx context.Context, placeID string, storeID int64, storeName string) (EmotionReport, error) {
	if strings.TrimSpace(placeID) == "" {
		return EmotionReport{}, fmt.Errorf("%w: place_id is required", domain.ErrValidation)
	}

	details, sampled, err := s.sampledReviews(ctx, placeID)
	if err != nil {
		return EmotionReport{}, err
	}
	name := storeName
	if name == "" {
		name = details.Name
	}

	log.Info().Str("place_id", placeID).Int("reviews", len(sampled)).Msg("analyzing emotions")
	result, err := s.analyzer.AnalyzeEmotions(ctx, sampled, name)
	if err != nil {
		return EmotionReport{}, err
	}

	if storeID != 0 {
		if err := s.repo.AttachEmotions(ctx, storeID, result.Scores, result.Dominant); err != nil {
			return EmotionReport{}, err
		}
		s.invalidateStore(ctx, storeID)
	}

	return EmotionReport{
		StoreName:       details.Name,
		ReviewCount:     len(sampled),
		Result:          result,
		Recommendations: EmotionRecommendations(result.Scores, result.Dominant),
	}, nil
}

func storeFromDetails(d domain.PlaceDetails, ownerID string) domain.Store {
	category := "restaurant"
	if len(d.Types) > 0 {
		category = d.Types[0]
	}
	st := domain.Store{
		OwnerID:  ownerID,
		PlaceID:  d.PlaceID,
		Name:     d.Name,
		Address:  d.Address,
		Category: category,
	}
	if d.Lat != 0 || d.Lng != 0 {
		lat, lng := d.Lat, d.Lng
		st.Lat, st.Lng = &lat, &lng
	}
	if d.Rating != 0 {
		r := d.Rating
		st.Rating = &r
	}
	if d.RatingCount != 0 {
		n := d.RatingCount
		st.ReviewCount = &n
	}
	if d.PriceLevel != 0 {
		p := d.PriceLevel
		st.PriceLevel = &p
	}
	return st
}

func (s *AnalysisService) invalidateStore(ctx context.Context, storeID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, analysisCacheKey(storeID))
	_ = s.cache.Del(ctx, emotionsCacheKey(storeID))
}

// BatchTarget names one store for batch analysis.
type BatchTarget struct {
	PlaceID string
	OwnerID string
}

// BatchAnalyze processes targets sequentially with a fixed pacing delay
// between calls to stay under the text-generation provider's rate limit.
// A failed target is logged and skipped; the rest keep going.
func (s *AnalysisService) BatchAnalyze(ctx context.Context, targets []BatchTarget) map[string]domain.FactorAnalysis {
	results := make(map[string]domain.FactorAnalysis, len(targets))
	for i, tgt := range targets {
		if i > 0 && !sleepCtx(ctx, s.pace) {
			log.Warn().Msg("batch analysis canceled")
			return results
		}
		report, err := s.AnalyzeStore(ctx, tgt.PlaceID, tgt.OwnerID)
		if err != nil {
			log.Warn().Err(err).Str("place_id", tgt.PlaceID).Msg("batch target failed")
			continue
		}
		results[tgt.PlaceID] = report.Result
	}
	return results
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
