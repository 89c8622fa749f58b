package domain

import "time"

// Sentiment is the 5-value ordinal label produced by factor analysis.
type Sentiment string

const (
	SentimentVeryPositive Sentiment = "very_positive"
	SentimentPositive     Sentiment = "positive"
	SentimentNeutral      Sentiment = "neutral"
	SentimentNegative     Sentiment = "negative"
	SentimentVeryNegative Sentiment = "very_negative"
)

// FactorScores are the six quality dimensions, nominally 0-100. Values are
// taken from the model as-is, without clamping.
type FactorScores struct {
	TasteQuality   int `json:"taste_quality"`
	Service        int `json:"service"`
	Atmosphere     int `json:"atmosphere"`
	Cleanliness    int `json:"cleanliness"`
	ValueForMoney  int `json:"value_for_money"`
	LocationAccess int `json:"location_accessibility"`
}

// FactorAnalysis is one factor-scoring run over a sampled review set.
type FactorAnalysis struct {
	FactorScores     FactorScores `json:"factor_scores"`
	OverallScore     int          `json:"overall_score"`
	Sentiment        Sentiment    `json:"sentiment"`
	TrendingKeywords []string     `json:"trending_keywords"`
	Summary          string       `json:"summary"`
	Improvements     []string     `json:"improvements"`
	ReviewCount      int          `json:"review_count"`
}

// EmotionScores are the six affect dimensions, nominally 0-100.
type EmotionScores struct {
	Joy            int `json:"joy"`
	Satisfaction   int `json:"satisfaction"`
	Disappointment int `json:"disappointment"`
	Surprise       int `json:"surprise"`
	Anger          int `json:"anger"`
	Expectation    int `json:"expectation"`
}

// EmotionAxes is the fixed axis ordering used everywhere a per-axis list is
// produced (distributions, recommendations, trend partitions).
var EmotionAxes = []string{"joy", "satisfaction", "disappointment", "surprise", "anger", "expectation"}

// ByAxis returns the score for a named axis; ok is false for unknown names.
func (e EmotionScores) ByAxis(name string) (int, bool) {
	switch name {
	case "joy":
		return e.Joy, true
	case "satisfaction":
		return e.Satisfaction, true
	case "disappointment":
		return e.Disappointment, true
	case "surprise":
		return e.Surprise, true
	case "anger":
		return e.Anger, true
	case "expectation":
		return e.Expectation, true
	}
	return 0, false
}

// EmotionShare is one axis of the percentage distribution.
type EmotionShare struct {
	Emotion    string `json:"emotion"`
	Percentage int    `json:"percentage"`
}

// EmotionAnalysis is one emotion-scoring run over a sampled review set.
type EmotionAnalysis struct {
	Scores       EmotionScores       `json:"emotion_scores"`
	Dominant     string              `json:"dominant_emotion"`
	Distribution []EmotionShare      `json:"emotion_distribution"`
	Insights     map[string][]string `json:"emotion_insights"`
}

// EmotionTrendPoint pairs a snapshot of emotion scores with its capture time.
// Used only as trend-comparison input; history persistence lives elsewhere.
type EmotionTrendPoint struct {
	At       time.Time     `json:"at"`
	Scores   EmotionScores `json:"emotion_scores"`
	Dominant string        `json:"dominant_emotion"`
}

// Store is the persisted record for an analyzed place, keyed internally by a
// numeric id and externally by the provider's opaque place id.
type Store struct {
	ID           int64     `json:"id"`
	OwnerID      string    `json:"owner_id"`
	PlaceID      string    `json:"place_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Category     string    `json:"category"`
	Rating       *float64  `json:"rating,omitempty"`
	ReviewCount  *int      `json:"review_count,omitempty"`
	PriceLevel   *int      `json:"price_level,omitempty"`
	LastAnalyzed time.Time `json:"last_analyzed"`
}

// StoredAnalysis is an analysis row read back from the record store. Emotion
// fields are present only after an emotion run was attached to the row.
type StoredAnalysis struct {
	ID              int64          `json:"id"`
	StoreID         int64          `json:"store_id"`
	FactorAnalysis  FactorAnalysis `json:"analysis"`
	EmotionScores   *EmotionScores `json:"emotion_scores,omitempty"`
	DominantEmotion *string        `json:"dominant_emotion,omitempty"`
	AnalyzedAt      time.Time      `json:"analyzed_at"`
}
