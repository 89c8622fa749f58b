package app

import (
	"math"

	"storelens/internal/domain"
)

// Pure derivations over analysis results. No I/O, deterministic.

// AverageFactorScore is the arithmetic mean of the six factor values,
// rounded to the nearest integer.
func AverageFactorScore(f domain.FactorScores) int {
	sum := f.TasteQuality + f.Service + f.Atmosphere + f.Cleanliness + f.ValueForMoney + f.LocationAccess
	return int(math.Round(float64(sum) / 6))
}

// SentimentScore maps the five sentiment labels onto {0,25,50,75,100}.
// ok is false for anything outside the five defined labels.
func SentimentScore(s domain.Sentiment) (int, bool) {
	switch s {
	case domain.SentimentVeryPositive:
		return 100, true
	case domain.SentimentPositive:
		return 75, true
	case domain.SentimentNeutral:
		return 50, true
	case domain.SentimentNegative:
		return 25, true
	case domain.SentimentVeryNegative:
		return 0, true
	}
	return 0, false
}

// EmotionDistribution derives per-axis percentages in the fixed axis order.
// A zero-sum score set yields all-zero percentages; there is nothing
// meaningful to distribute and division is never attempted.
func EmotionDistribution(scores domain.EmotionScores) []domain.EmotionShare {
	out := make([]domain.EmotionShare, 0, len(domain.EmotionAxes))
	total := 0
	for _, axis := range domain.EmotionAxes {
		v, _ := scores.ByAxis(axis)
		total += v
	}
	for _, axis := range domain.EmotionAxes {
		v, _ := scores.ByAxis(axis)
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(v) / float64(total) * 100))
		}
		out = append(out, domain.EmotionShare{Emotion: axis, Percentage: pct})
	}
	return out
}

// DominantEmotion returns the highest-scoring axis, first axis winning ties.
func DominantEmotion(scores domain.EmotionScores) string {
	best := domain.EmotionAxes[0]
	bestV, _ := scores.ByAxis(best)
	for _, axis := range domain.EmotionAxes[1:] {
		if v, _ := scores.ByAxis(axis); v > bestV {
			best, bestV = axis, v
		}
	}
	return best
}

type emotionRule struct {
	axis      string
	threshold int
	advice    string
}

// Rules fire independently; several advisories can apply at once. Output
// order follows the fixed axis ordering.
var emotionRules = []emotionRule{
	{"joy", 70, "Customers feel strong joy here; promote the elements driving it"},
	{"satisfaction", 80, "Satisfaction is high; keeping current quality steady matters most"},
	{"disappointment", 40, "Expectation gaps are showing; review what guests are promised up front"},
	{"surprise", 60, "Guests report unexpected experiences; this uniqueness can be a selling point"},
	{"anger", 20, "Complaints detected; strengthen the customer-support response"},
	{"expectation", 75, "Repeat intent is high; consider a loyalty program"},
}

// EmotionRecommendations returns one advisory per threshold crossed.
func EmotionRecommendations(scores domain.EmotionScores, dominant string) []string {
	out := make([]string, 0, len(emotionRules))
	for _, rule := range emotionRules {
		if v, _ := scores.ByAxis(rule.axis); v > rule.threshold {
			out = append(out, rule.advice)
		}
	}
	return out
}

// EmotionTrend partitions the emotion axes by the difference between the two
// most recent snapshots. A diff must strictly exceed +5 to count as
// improving and fall strictly below -5 to count as declining. With fewer
// than two snapshots all partitions are empty.
type EmotionTrend struct {
	Improving []string `json:"improving_emotions"`
	Declining []string `json:"declining_emotions"`
	Stable    []string `json:"stable_emotions"`
}

func CompareEmotionTrend(history []domain.EmotionTrendPoint) EmotionTrend {
	t := EmotionTrend{Improving: []string{}, Declining: []string{}, Stable: []string{}}
	if len(history) < 2 {
		return t
	}
	prev := history[len(history)-2].Scores
	curr := history[len(history)-1].Scores
	for _, axis := range domain.EmotionAxes {
		p, _ := prev.ByAxis(axis)
		c, _ := curr.ByAxis(axis)
		switch diff := c - p; {
		case diff > 5:
			t.Improving = append(t.Improving, axis)
		case diff < -5:
			t.Declining = append(t.Declining, axis)
		default:
			t.Stable = append(t.Stable, axis)
		}
	}
	return t
}
