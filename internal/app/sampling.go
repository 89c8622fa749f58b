package app

import (
	"math/rand"
	"unicode/utf8"

	"storelens/internal/domain"
)

// minReviewTextLen is the minimum body length, in characters, for a review to
// carry enough signal for scoring. Ratings are never filtered: excluding
// extreme stars would bias the sentiment of the sample.
const minReviewTextLen = 50

// FilterQuality drops reviews whose body text is shorter than the signal
// threshold. Length is counted in runes, not bytes, so multibyte scripts are
// held to the same bar as ASCII. Order is preserved.
func FilterQuality(reviews []domain.Review) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if utf8.RuneCountInString(r.Text) < minReviewTextLen {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sample bounds the review set to maxCount while keeping the rating
// distribution representative. A non-positive cap yields an empty set. Sets
// at or under the cap are returned unchanged. Otherwise reviews are bucketed
// by rating, each bucket yields up to ceil(maxCount/#buckets) randomly chosen
// reviews, and the concatenation is truncated to exactly maxCount. Selection
// order is not deterministic; only the size bound and per-bucket
// representation are contractual.
func Sample(reviews []domain.Review, maxCount int) []domain.Review {
	if maxCount <= 0 {
		return []domain.Review{}
	}
	if len(reviews) <= maxCount {
		return reviews
	}

	byRating := make(map[int][]domain.Review)
	for _, r := range reviews {
		byRating[r.Rating] = append(byRating[r.Rating], r)
	}

	quota := (maxCount + len(byRating) - 1) / len(byRating)

	sampled := make([]domain.Review, 0, maxCount)
	for _, bucket := range byRating {
		rand.Shuffle(len(bucket), func(i, j int) { bucket[i], bucket[j] = bucket[j], bucket[i] })
		n := quota
		if n > len(bucket) {
			n = len(bucket)
		}
		sampled = append(sampled, bucket[:n]...)
	}

	if len(sampled) > maxCount {
		sampled = sampled[:maxCount]
	}
	return sampled
}
