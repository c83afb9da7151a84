// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import (
	"encoding/hex"
	"math"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("Bad hex fixture: %v", err)
	}
	return b
}

func TestSimilaritySelfIsMaximal(t *testing.T) {
	cases := [][]byte{
		diverseTemplate(512),
		diverseTemplate(256),
		mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899"),
	}

	for _, c := range cases {
		if score := Similarity(c, c); score != 100.0 {
			t.Errorf("Expected self-similarity 100 for %d bytes, got %f", len(c), score)
		}
	}
}

func TestSimilarityLengthMismatchIsZero(t *testing.T) {
	a := diverseTemplate(512)
	b := diverseTemplate(256)

	if score := Similarity(a, b); score != 0.0 {
		t.Errorf("Expected 0 for differing lengths, got %f", score)
	}
	if score := Similarity(a, nil); score != 0.0 {
		t.Errorf("Expected 0 for empty input, got %f", score)
	}
	if score := Similarity(nil, nil); score != 0.0 {
		t.Errorf("Expected 0 for two empty inputs, got %f", score)
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	a := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899")
	b := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778898")

	if Similarity(a, b) != Similarity(b, a) {
		t.Error("Expected similarity to be symmetric")
	}
}

func TestSimilaritySingleByteDifference(t *testing.T) {
	a := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899")
	b := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778898")

	score := Similarity(a, b)
	if score >= 100.0 {
		t.Errorf("Expected score below 100 for differing templates, got %f", score)
	}
	if score < 90.0 {
		t.Errorf("Expected near-identical templates to score high, got %f", score)
	}
}

func TestSimilaritySubMetrics(t *testing.T) {
	// a shifted by 128: no positional agreement but identical
	// histograms, so only the frequency metric contributes.
	a := diverseTemplate(512)
	b := make([]byte, 512)
	for i := range b {
		b[i] = byte((i + 128) % 256)
	}

	if got := hammingSimilarity(a, b); got != 0.0 {
		t.Errorf("Expected Hamming 0, got %f", got)
	}
	if got := patternSimilarity(a, b); got != 0.0 {
		t.Errorf("Expected pattern 0, got %f", got)
	}
	if got := frequencySimilarity(a, b); got != 100.0 {
		t.Errorf("Expected frequency 100 for identical histograms, got %f", got)
	}
	if got := structuralSimilarity(a, b); got != 0.0 {
		t.Errorf("Expected structural 0, got %f", got)
	}

	// Combined: 0.2 * 100 = 20
	if got := Similarity(a, b); got != 20.0 {
		t.Errorf("Expected combined score 20.00, got %f", got)
	}
}

func TestFrequencySimilarityNoOverlap(t *testing.T) {
	a := repeatTemplate(256, 0x01)
	b := repeatTemplate(256, 0x02)

	if got := frequencySimilarity(a, b); got != 0.0 {
		t.Errorf("Expected 0 for disjoint histograms, got %f", got)
	}
}

func TestPatternSimilarityShortInput(t *testing.T) {
	a := []byte{0x01, 0x02}
	b := []byte{0x01, 0x02}

	if got := patternSimilarity(a, b); got != 0.0 {
		t.Errorf("Expected 0 when input is shorter than the window, got %f", got)
	}
}

func TestSimilarityRounding(t *testing.T) {
	// One byte of 32 differs: every sub-metric is a clean fraction, and
	// the combined score must come out rounded to two decimals.
	a := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899")
	b := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778800")

	score := Similarity(a, b)
	scaled := score * 100.0
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		t.Errorf("Expected two-decimal score, got %v", score)
	}
}
