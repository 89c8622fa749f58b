package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"storelens/internal/domain"
)

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertStore(ctx context.Context, s domain.Store) (int64, error) {
	res, err := r.db.ExecContext(ctx, upsertStoreSQL,
		s.OwnerID,
		s.PlaceID,
		s.Name,
		s.Address,
		valF64(s.Lat),
		valF64(s.Lng),
		s.Category,
		valF64(s.Rating),
		valInt(s.ReviewCount),
		valInt(s.PriceLevel),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) InsertAnalysis(ctx context.Context, storeID int64, a domain.FactorAnalysis) (int64, error) {
	scores, err := json.Marshal(a.FactorScores)
	if err != nil {
		return 0, err
	}
	keywords, err := json.Marshal(a.TrendingKeywords)
	if err != nil {
		return 0, err
	}
	improvements, err := json.Marshal(a.Improvements)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, insertAnalysisSQL,
		storeID,
		string(scores),
		a.OverallScore,
		string(a.Sentiment),
		string(keywords),
		a.Summary,
		string(improvements),
		a.ReviewCount,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) AttachEmotions(ctx context.Context, storeID int64, scores domain.EmotionScores, dominant string) error {
	b, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, attachEmotionsSQL, string(b), dominant, storeID)
	return err
}

func (r *Repo) GetStore(ctx context.Context, storeID int64) (domain.Store, error) {
	row := r.db.QueryRowContext(ctx, getStoreSQL, storeID)

	var st domain.Store
	var lat, lng, rating sql.NullFloat64
	var reviewCount, priceLevel sql.NullInt64
	if err := row.Scan(
		&st.ID, &st.OwnerID, &st.PlaceID, &st.Name, &st.Address,
		&lat, &lng, &st.Category, &rating, &reviewCount, &priceLevel, &st.LastAnalyzed,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Store{}, domain.ErrNotFound
		}
		return domain.Store{}, err
	}

	if lat.Valid {
		st.Lat = &lat.Float64
	}
	if lng.Valid {
		st.Lng = &lng.Float64
	}
	if rating.Valid {
		st.Rating = &rating.Float64
	}
	if reviewCount.Valid {
		n := int(reviewCount.Int64)
		st.ReviewCount = &n
	}
	if priceLevel.Valid {
		p := int(priceLevel.Int64)
		st.PriceLevel = &p
	}
	return st, nil
}

func (r *Repo) LatestAnalysis(ctx context.Context, storeID int64) (domain.StoredAnalysis, error) {
	row := r.db.QueryRowContext(ctx, latestAnalysisSQL, storeID)

	var out domain.StoredAnalysis
	var scoresJSON, keywordsJSON, improvementsJSON []byte
	var sentiment string
	var emotionJSON []byte
	var dominant sql.NullString
	if err := row.Scan(
		&out.ID, &out.StoreID,
		&scoresJSON, &out.FactorAnalysis.OverallScore, &sentiment,
		&keywordsJSON, &out.FactorAnalysis.Summary, &improvementsJSON,
		&out.FactorAnalysis.ReviewCount,
		&emotionJSON, &dominant, &out.AnalyzedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.StoredAnalysis{}, domain.ErrNotFound
		}
		return domain.StoredAnalysis{}, err
	}

	out.FactorAnalysis.Sentiment = domain.Sentiment(sentiment)
	if err := json.Unmarshal(scoresJSON, &out.FactorAnalysis.FactorScores); err != nil {
		return domain.StoredAnalysis{}, err
	}
	if len(keywordsJSON) > 0 {
		if err := json.Unmarshal(keywordsJSON, &out.FactorAnalysis.TrendingKeywords); err != nil {
			return domain.StoredAnalysis{}, err
		}
	}
	if len(improvementsJSON) > 0 {
		if err := json.Unmarshal(improvementsJSON, &out.FactorAnalysis.Improvements); err != nil {
			return domain.StoredAnalysis{}, err
		}
	}
	if len(emotionJSON) > 0 {
		var es domain.EmotionScores
		if err := json.Unmarshal(emotionJSON, &es); err != nil {
			return domain.StoredAnalysis{}, err
		}
		out.EmotionScores = &es
	}
	if dominant.Valid {
		out.DominantEmotion = &dominant.String
	}
	return out, nil
}

func (r *Repo) LatestEmotions(ctx context.Context, storeID int64) (domain.EmotionScores, string, time.Time, error) {
	row := r.db.QueryRowContext(ctx, latestEmotionsSQL, storeID)

	var scoresJSON []byte
	var dominant string
	var at time.Time
	if err := row.Scan(&scoresJSON, &dominant, &at); err != nil {
		if err == sql.ErrNoRows {
			return domain.EmotionScores{}, "", time.Time{}, domain.ErrNotFound
		}
		return domain.EmotionScores{}, "", time.Time{}, err
	}

	var scores domain.EmotionScores
	if err := json.Unmarshal(scoresJSON, &scores); err != nil {
		return domain.EmotionScores{}, "", time.Time{}, err
	}
	return scores, dominant, at, nil
}
