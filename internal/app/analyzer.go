package app

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"storelens/internal/domain"
)

const (
	analysisTemperature = 0.2 // stability over creativity
	factorMaxTokens     = 4096
	emotionMaxTokens    = 2048
)

// Analyzer renders task prompts, submits them to the text-generation
// provider, and extracts structured results from its prose-wrapped replies.
type Analyzer struct {
	gen domain.TextGenerator
}

func NewAnalyzer(gen domain.TextGenerator) *Analyzer {
	return &Analyzer{gen: gen}
}

// renderReviews demarcates each review so boundaries stay unambiguous to the
// model regardless of review content.
func renderReviews(reviews []domain.Review) string {
	var b strings.Builder
	for i, r := range reviews {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "[Review %d] Rating: %d/5\n%s", i+1, r.Rating, r.Text)
	}
	return b.String()
}

func factorPrompt(reviews []domain.Review, storeName string) string {
	return fmt.Sprintf(`You are an expert store-review analyst. Analyze the following %d reviews of "%s" and return a structured JSON response.

# Review data
%s

# Analysis task
Score each of these six factors out of 100:

1. **taste_quality**: food and product quality
2. **service**: staff attitude and responsiveness
3. **atmosphere**: interior comfort and design
4. **cleanliness**: cleanliness of the premises
5. **value_for_money**: satisfaction relative to price
6. **location_accessibility**: distance from transit, parking

# Response format (reply with exactly this shape)
`+"```json"+`
{
  "factor_scores": {
    "taste_quality": 85,
    "service": 72,
    "atmosphere": 90,
    "cleanliness": 88,
    "value_for_money": 75,
    "location_accessibility": 80
  },
  "overall_score": 82,
  "sentiment": "positive",
  "trending_keywords": ["delicious", "stylish", "crowded", "good value", "near station"],
  "summary": "Highly rated overall. Taste and atmosphere stand out; service has room to improve.",
  "improvements": [
    "Add staff during peak hours for smoother service",
    "Introduce reservations to cut waiting times",
    "Expand menu descriptions"
  ]
}
`+"```"+`

## Important instructions
- sentiment must be one of "very_positive", "positive", "neutral", "negative", "very_negative"
- trending_keywords: at most 10
- improvements: 3 to 5 concrete, actionable suggestions
- Reply with JSON only, no comments
`, len(reviews), storeName, renderReviews(reviews))
}

func emotionPrompt(reviews []domain.Review, storeName string) string {
	return fmt.Sprintf(`You are an emotion-analysis expert. Analyze the following reviews of "%s" and score six emotion axes.

# Review data
%s

# Emotion axes (score each 0-100)

## 1. joy — positive surprise, fun, excitement
## 2. satisfaction — met expectations, reassurance
## 3. disappointment — unmet expectations, letdown
## 4. surprise — unexpected experiences, good or bad
## 5. anger — strong complaints, resentment
## 6. expectation — intent to revisit, recommend, repeat

# Response format (reply with exactly this shape)
`+"```json"+`
{
  "emotion_scores": {
    "joy": 75,
    "satisfaction": 85,
    "disappointment": 20,
    "surprise": 45,
    "anger": 5,
    "expectation": 80
  },
  "dominant_emotion": "satisfaction",
  "emotion_insights": {
    "joy_examples": ["The food was genuinely moving"],
    "satisfaction_examples": ["Exactly the quality I expected"],
    "disappointment_examples": ["Wished the portions were bigger"],
    "surprise_examples": ["Never knew this hidden gem existed"],
    "anger_examples": [],
    "expectation_examples": ["Will absolutely come back!"]
  }
}
`+"```"+`

## Important instructions
- Each emotion score is an integer 0-100
- dominant_emotion is the highest-scoring emotion
- emotion_insights quotes actual review fragments
- Reply with JSON only, no comments
`, storeName, renderReviews(reviews))
}

var fencedJSON = regexp.MustCompile("```json\\s*\\n([\\s\\S]*?)\\n\\s*```")

// extractJSON pulls a fenced ```json block out of a reply; absent a fence
// the whole reply is treated as JSON.
func extractJSON(raw string) string {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

// AnalyzeFactors runs the factor-scoring variant over a sampled review set.
// The returned result carries the input review count.
func (a *Analyzer) AnalyzeFactors(ctx context.Context, reviews []domain.Review, storeName string) (domain.FactorAnalysis, error) {
	raw, err := a.gen.Generate(ctx, factorPrompt(reviews, storeName), domain.GenerateOptions{
		Temperature: analysisTemperature,
		MaxTokens:   factorMaxTokens,
	})
	if err != nil {
		return domain.FactorAnalysis{}, err
	}

	var parsed struct {
		FactorScores     *domain.FactorScores `json:"factor_scores"`
		OverallScore     int                  `json:"overall_score"`
		Sentiment        domain.Sentiment     `json:"sentiment"`
		TrendingKeywords []string             `json:"trending_keywords"`
		Summary          string               `json:"summary"`
		Improvements     []string             `json:"improvements"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("factor analysis response did not parse")
		return domain.FactorAnalysis{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if parsed.FactorScores == nil || parsed.Sentiment == "" {
		log.Error().Str("raw", raw).Msg("factor analysis response missing required fields")
		return domain.FactorAnalysis{}, fmt.Errorf("%w: missing factor_scores or sentiment", domain.ErrMalformedResponse)
	}

	return domain.FactorAnalysis{
		FactorScores:     *parsed.FactorScores,
		OverallScore:     parsed.OverallScore,
		Sentiment:        parsed.Sentiment,
		TrendingKeywords: parsed.TrendingKeywords,
		Summary:          parsed.Summary,
		Improvements:     parsed.Improvements,
		ReviewCount:      len(reviews),
	}, nil
}

// AnalyzeEmotions runs the multi-axis emotion variant. The dominant label is
// taken from the model when it names a known axis, else re-derived as the
// highest-scoring axis.
func (a *Analyzer) AnalyzeEmotions(ctx context.Context, reviews []domain.Review, storeName string) (domain.EmotionAnalysis, error) {
	raw, err := a.gen.Generate(ctx, emotionPrompt(reviews, storeName), domain.GenerateOptions{
		Temperature: analysisTemperature,
		MaxTokens:   emotionMaxTokens,
	})
	if err != nil {
		return domain.EmotionAnalysis{}, err
	}

	var parsed struct {
		EmotionScores *domain.EmotionScores `json:"emotion_scores"`
		Dominant      string                `json:"dominant_emotion"`
		Insights      map[string][]string   `json:"emotion_insights"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("emotion analysis response did not parse")
		return domain.EmotionAnalysis{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if parsed.EmotionScores == nil {
		log.Error().Str("raw", raw).Msg("emotion analysis response missing emotion_scores")
		return domain.EmotionAnalysis{}, fmt.Errorf("%w: missing emotion_scores", domain.ErrMalformedResponse)
	}

	scores := *parsed.EmotionScores
	dominant := parsed.Dominant
	if _, ok := scores.ByAxis(dominant); !ok {
		dominant = DominantEmotion(scores)
	}
	insights := parsed.Insights
	if insights == nil {
		insights = map[string][]string{}
	}

	return domain.EmotionAnalysis{
		Scores:       scores,
		Dominant:     dominant,
		Distribution: EmotionDistribution(scores),
		Insights:     insights,
	}, nil
}
