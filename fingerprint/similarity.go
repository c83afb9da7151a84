// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import "math"

// Similarity sub-metric parameters.
const (
	patternWindow    = 4
	structuralStride = 8
)

// Combined-score weights. The exact weighting is preserved for
// bit-for-bit-reproducible score vectors.
const (
	hammingWeight    = 0.4
	patternWeight    = 0.3
	frequencyWeight  = 0.2
	structuralWeight = 0.1
)

// Similarity computes a composite similarity score between two
// templates, 0-100 rounded to two decimals. Templates are only
// comparable when their lengths are equal; a length mismatch or an
// empty input scores 0.
func Similarity(a, b []byte) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	score := hammingWeight*hammingSimilarity(a, b) +
		patternWeight*patternSimilarity(a, b) +
		frequencyWeight*frequencySimilarity(a, b) +
		structuralWeight*structuralSimilarity(a, b)

	return round2(score)
}

// hammingSimilarity is the fraction of byte positions that match
// exactly, scaled to 0-100.
func hammingSimilarity(a, b []byte) float64 {
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a)) * 100.0
}

// patternSimilarity slides a 4-byte window across both templates and
// counts offsets where the windows are byte-identical.
func patternSimilarity(a, b []byte) float64 {
	if len(a) < patternWindow {
		return 0.0
	}

	windows := len(a) - patternWindow + 1
	matches := 0
	for i := 0; i < windows; i++ {
		if windowEqual(a, b, i) {
			matches++
		}
	}
	return float64(matches) / float64(windows) * 100.0
}

func windowEqual(a, b []byte, offset int) bool {
	for j := 0; j < patternWindow; j++ {
		if a[offset+j] != b[offset+j] {
			return false
		}
	}
	return true
}

// frequencySimilarity compares the byte-value histograms of the two
// templates. Only byte values present in both contribute to the
// difference sum; no overlap at all scores 0.
func frequencySimilarity(a, b []byte) float64 {
	var histA, histB [256]int
	for _, v := range a {
		histA[v]++
	}
	for _, v := range b {
		histB[v]++
	}

	totalA := len(a)
	totalB := len(b)
	if totalA == 0 || totalB == 0 {
		return 0.0
	}

	overlap := false
	diff := 0
	for v := 0; v < 256; v++ {
		if histA[v] > 0 && histB[v] > 0 {
			overlap = true
			d := histA[v] - histB[v]
			if d < 0 {
				d = -d
			}
			diff += d
		}
	}
	if !overlap {
		return 0.0
	}

	maxTotal := totalA
	if totalB > maxTotal {
		maxTotal = totalB
	}
	return float64(maxTotal-diff) / float64(maxTotal) * 100.0
}

// structuralSimilarity samples every 8th byte position and reports the
// fraction of sampled positions that match.
func structuralSimilarity(a, b []byte) float64 {
	sampled := 0
	matches := 0
	for i := 0; i < len(a); i += structuralStride {
		sampled++
		if a[i] == b[i] {
			matches++
		}
	}
	if sampled == 0 {
		return 0.0
	}
	return float64(matches) / float64(sampled) * 100.0
}

func round2(v float64) float64 {
	return math.Round(v*100.0) / 100.0
}
