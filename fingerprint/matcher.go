// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

// Matching thresholds. Empirical constants from the original system;
// preserved exactly for behavioral compatibility.
const (
	// ScreeningFloor is the pass-1 cutoff: candidates scoring at or
	// below it are discarded before the expensive validation pass.
	ScreeningFloor = 15.0

	// Pass-2 gates. All three must pass simultaneously.
	byteEqualityGate = 25.0
	patternGate      = 10.0
	structuralGate   = 20.0

	// Final-score combination weights.
	finalSimilarityWeight = 0.6
	finalByteWeight       = 0.2
	finalPatternWeight    = 0.1
	finalStructuralWeight = 0.1

	// Confidence tier cutoffs.
	exactTier  = 85.0
	highTier   = 70.0
	mediumTier = 55.0
)

// DefaultMatchThreshold is the minimum final score matching callers
// must accept. A medium_confidence result exactly at this boundary is
// the weakest acceptable match; anything below is surfaced as not
// found, never silently accepted.
const DefaultMatchThreshold = 55.0

// StoredTemplate is one enrolled template as seen by the matcher.
type StoredTemplate struct {
	ID      string
	VoterID string
	Data    []byte
}

// MatchResult is the outcome of matching one incoming template against
// the enrolled population.
type MatchResult struct {
	Matched    bool
	TemplateID string
	VoterID    string
	Score      float64
	MatchType  string
}

// Match runs the two-pass search over the enrolled population: a cheap
// similarity screening pass, then independent validation checks and
// ranking for the survivors. Ties keep whichever candidate was scanned
// first. Match never mutates its inputs; running it twice on the same
// data yields the same result.
func Match(incoming []byte, stored []StoredTemplate) MatchResult {
	none := MatchResult{MatchType: matchTypeNone}
	if len(incoming) == 0 {
		return none
	}

	best := none
	for _, cand := range stored {
		// One bad enrollment record must not block matching for
		// everyone else.
		if len(cand.Data) == 0 || len(cand.Data) != len(incoming) {
			continue
		}

		// Pass 1: screening.
		sim := Similarity(incoming, cand.Data)
		if sim <= ScreeningFloor {
			continue
		}

		// Pass 2: independent validation checks.
		byteEq := hammingSimilarity(incoming, cand.Data)
		pattern := patternSimilarity(incoming, cand.Data)
		structural := keyPositionSimilarity(incoming, cand.Data)

		if byteEq < byteEqualityGate || pattern < patternGate || structural < structuralGate {
			continue
		}

		final := finalSimilarityWeight*sim +
			finalByteWeight*byteEq +
			finalPatternWeight*pattern +
			finalStructuralWeight*structural
		final = round2(final)

		// Strictly-greater keeps the first-scanned candidate on ties.
		if final > best.Score {
			best = MatchResult{
				Matched:    true,
				TemplateID: cand.ID,
				VoterID:    cand.VoterID,
				Score:      final,
				MatchType:  classifyScore(final),
			}
		}
	}

	return best
}

const matchTypeNone = "no_match"

// classifyScore maps a final match score to its confidence tier.
func classifyScore(score float64) string {
	switch {
	case score >= exactTier:
		return "exact_match"
	case score >= highTier:
		return "high_confidence"
	case score >= mediumTier:
		return "medium_confidence"
	default:
		return "low_confidence"
	}
}

// keyPositionSimilarity checks five fixed structural positions: the
// first byte, quarter, half, three-quarter, and last byte.
func keyPositionSimilarity(a, b []byte) float64 {
	n := len(a)
	positions := [5]int{0, n / 4, n / 2, 3 * n / 4, n - 1}

	matches := 0
	for _, p := range positions {
		if a[p] == b[p] {
			matches++
		}
	}
	return float64(matches) / float64(len(positions)) * 100.0
}
