package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"storelens/internal/domain"
)

func analysisCacheKey(storeID int64) string { return fmt.Sprintf("analysis:%d", storeID) }
func emotionsCacheKey(storeID int64) string { return fmt.Sprintf("emotions:%d", storeID) }

// QueryService serves read paths: cache-aside over the repository, with
// concurrent identical lookups collapsed into one repository call.
type QueryService struct {
	repo     domain.StoreRepository
	cache    domain.Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

func NewQueryService(r domain.StoreRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// StoreAnalysis is the fetch-latest-analysis read model. Analysis is nil
// when the store exists but has not been analyzed yet.
type StoreAnalysis struct {
	Store    domain.Store           `json:"store"`
	Analysis *domain.StoredAnalysis `json:"analysis"`
}

func (s *QueryService) LatestAnalysis(ctx context.Context, storeID int64) (StoreAnalysis, error) {
	key := analysisCacheKey(storeID)
	var out StoreAnalysis
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		st, err := s.repo.GetStore(ctx, storeID)
		if err != nil {
			return StoreAnalysis{}, err
		}
		res := StoreAnalysis{Store: st}
		a, err := s.repo.LatestAnalysis(ctx, storeID)
		switch {
		case err == nil:
			res.Analysis = &a
		case !errors.Is(err, domain.ErrNotFound):
			return StoreAnalysis{}, err
		}
		return res, nil
	})
	if err != nil {
		return StoreAnalysis{}, err
	}
	out = v.(StoreAnalysis)
	_ = s.cache.Set(ctx, key, out, s.cacheTTL)
	return out, nil
}

// EmotionSnapshot is the fetch-latest-emotions read model, with
// recommendations regenerated from the stored scores.
type EmotionSnapshot struct {
	Scores          domain.EmotionScores  `json:"emotion_scores"`
	Dominant        string                `json:"dominant_emotion"`
	Distribution    []domain.EmotionShare `json:"emotion_distribution"`
	AnalyzedAt      time.Time             `json:"analyzed_at"`
	Recommendations []string              `json:"recommendations"`
}

func (s *QueryService) LatestEmotions(ctx context.Context, storeID int64) (EmotionSnapshot, error) {
	key := emotionsCacheKey(storeID)
	var out EmotionSnapshot
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		scores, dominant, at, err := s.repo.LatestEmotions(ctx, storeID)
		if err != nil {
			return EmotionSnapshot{}, err
		}
		return EmotionSnapshot{
			Scores:          scores,
			Dominant:        dominant,
			Distribution:    EmotionDistribution(scores),
			AnalyzedAt:      at,
			Recommendations: EmotionRecommendations(scores, dominant),
		}, nil
	})
	if err != nil {
		return EmotionSnapshot{}, err
	}
	out = v.(EmotionSnapshot)
	_ = s.cache.Set(ctx, key, out, s.cacheTTL)
	return out, nil
}
