// internal/matching/scorer.go
// Compatibility scoring between two profile snapshots.
// Pure and deterministic: no I/O, no state, missing data handled by branching.

package matching

import (
	"math"

	"github.com/lumadating/luma-backend/internal/profile"
)

// Score computes the compatibility of requester a with candidate b.
//
// interest: Jaccard similarity over the two interest sets.
// goal:     1 when both declared the same relationship goal, else 0.
// ocean:    cosine similarity of the five personality traits, only when both
//           sides have taken the assessment.
//
// The total always averages over three components, even when the ocean score
// is absent. Profiles without an assessment therefore score lower than they
// would under a two-way average; that is the established product behavior and
// callers rely on it.
func Score(a, b *profile.Snapshot) *CompatibilityScore {
	interest := jaccard(a.Profile.Interests, b.Profile.Interests)
	goal := goalAgreement(a.Profile.RelationshipGoal, b.Profile.RelationshipGoal)

	score := &CompatibilityScore{
		InterestScore: roundPct(interest),
		GoalScore:     roundPct(goal),
	}

	if a.Personality != nil && b.Personality != nil {
		ocean := cosine(normalizeTraits(a.Personality.Traits()), normalizeTraits(b.Personality.Traits()))
		o := roundPct(ocean)
		score.OceanScore = &o
		score.TotalScore = roundPct((interest + goal + ocean) / 3)
	} else {
		score.TotalScore = roundPct((interest + goal) / 3)
	}

	if b.Personality != nil {
		score.PersonalityDetails = &PersonalityDetails{
			Openness:          int(math.Round(b.Personality.Openness)),
			Conscientiousness: int(math.Round(b.Personality.Conscientiousness)),
			Extraversion:      int(math.Round(b.Personality.Extraversion)),
			Agreeableness:     int(math.Round(b.Personality.Agreeableness)),
			Neuroticism:       int(math.Round(b.Personality.Neuroticism)),
		}
	}

	return score
}

// jaccard returns |A ∩ B| / |A ∪ B|, 0 when the union is empty
func jaccard(interests1, interests2 []string) float64 {
	set := make(map[string]bool, len(interests1))
	for _, interest := range interests1 {
		set[interest] = true
	}

	matches := 0
	seen := make(map[string]bool, len(interests2))
	for _, interest := range interests2 {
		if seen[interest] {
			continue
		}
		seen[interest] = true
		if set[interest] {
			matches++
		}
	}

	union := len(set) + len(seen) - matches
	if union == 0 {
		return 0
	}

	return float64(matches) / float64(union)
}

// goalAgreement returns 1 only when both goals are declared and equal
func goalAgreement(goal1, goal2 *string) float64 {
	if goal1 == nil || goal2 == nil {
		return 0
	}
	if *goal1 != *goal2 {
		return 0
	}
	return 1
}

// normalizeTraits scales trait percentages into [0,1] vectors
func normalizeTraits(traits [5]float64) [5]float64 {
	var vec [5]float64
	for i, t := range traits {
		vec[i] = t / 100
	}
	return vec
}

// cosine returns dot(a,b) / (|a|*|b|), 0 when either magnitude is 0
func cosine(a, b [5]float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// roundPct converts an internal [0,1] value to a rounded percentage
func roundPct(v float64) int {
	return int(math.Round(v * 100))
}
