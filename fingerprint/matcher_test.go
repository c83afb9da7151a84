// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import "testing"

func TestMatchExactTemplate(t *testing.T) {
	tmpl := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899")
	other := mustHex(t, "112233445566778899AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00")

	stored := []StoredTemplate{
		{ID: "t1", VoterID: "v1", Data: tmpl},
		{ID: "t2", VoterID: "v2", Data: other},
	}

	result := Match(tmpl, stored)
	if !result.Matched {
		t.Fatal("Expected a match for an exact template")
	}
	if result.VoterID != "v1" {
		t.Errorf("Expected voter v1, got %s", result.VoterID)
	}
	if result.Score != 100.0 {
		t.Errorf("Expected score 100, got %f", result.Score)
	}
	if result.MatchType != "exact_match" {
		t.Errorf("Expected exact_match, got %s", result.MatchType)
	}
}

func TestMatchNearIdenticalTemplate(t *testing.T) {
	tmpl := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899")
	near := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778898")

	stored := []StoredTemplate{
		{ID: "t1", VoterID: "v1", Data: near},
	}

	result := Match(tmpl, stored)
	if !result.Matched {
		t.Fatal("Expected a match for a near-identical template")
	}
	if result.Score < exactTier {
		t.Errorf("Expected score >= %f for one differing byte, got %f", exactTier, result.Score)
	}
}

func TestMatchTieKeepsFirstScanned(t *testing.T) {
	tmpl := diverseTemplate(512)

	// Two voters enrolled with byte-identical templates: matching must
	// resolve deterministically to the first, never both.
	stored := []StoredTemplate{
		{ID: "t1", VoterID: "v1", Data: diverseTemplate(512)},
		{ID: "t2", VoterID: "v2", Data: diverseTemplate(512)},
	}

	result := Match(tmpl, stored)
	if result.VoterID != "v1" {
		t.Errorf("Expected tie to keep first-scanned voter v1, got %s", result.VoterID)
	}

	// Both templates produce the same best score.
	only2 := Match(tmpl, stored[1:])
	if only2.Score != result.Score {
		t.Errorf("Expected identical templates to score identically: %f vs %f", only2.Score, result.Score)
	}
}

func TestMatchRejectsUnrelatedTemplate(t *testing.T) {
	// Shift by 128 defeats every positional metric but keeps the
	// histogram identical, so the candidate survives screening and must
	// be caught by the pass-2 byte-equality gate.
	enrolled := diverseTemplate(512)
	probe := make([]byte, 512)
	for i := range probe {
		probe[i] = byte((i + 128) % 256)
	}

	result := Match(probe, []StoredTemplate{{ID: "t1", VoterID: "v1", Data: enrolled}})
	if result.Matched {
		t.Errorf("Expected no match, got voter %s with score %f", result.VoterID, result.Score)
	}
	if result.MatchType != "no_match" {
		t.Errorf("Expected no_match, got %s", result.MatchType)
	}
	if result.Score != 0.0 {
		t.Errorf("Expected score 0, got %f", result.Score)
	}
}

func TestMatchSkipsLengthMismatches(t *testing.T) {
	probe := diverseTemplate(256)
	stored := []StoredTemplate{
		{ID: "t1", VoterID: "v1", Data: diverseTemplate(512)},
		{ID: "t2", VoterID: "v2", Data: diverseTemplate(128)},
	}

	result := Match(probe, stored)
	if result.Matched {
		t.Errorf("Expected no match across differing lengths, got %s", result.VoterID)
	}
}

func TestMatchSkipsCorruptCandidates(t *testing.T) {
	tmpl := diverseTemplate(512)
	stored := []StoredTemplate{
		{ID: "bad", VoterID: "vx", Data: nil},
		{ID: "t1", VoterID: "v1", Data: diverseTemplate(512)},
	}

	result := Match(tmpl, stored)
	if !result.Matched || result.VoterID != "v1" {
		t.Errorf("Expected corrupt candidate to be skipped, got %+v", result)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	if result := Match(nil, []StoredTemplate{{ID: "t1", VoterID: "v1", Data: diverseTemplate(512)}}); result.Matched {
		t.Error("Expected no match for empty probe")
	}
	if result := Match(diverseTemplate(512), nil); result.Matched {
		t.Error("Expected no match against empty population")
	}
}

func TestMatchIsIdempotent(t *testing.T) {
	tmpl := mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899")
	stored := []StoredTemplate{
		{ID: "t1", VoterID: "v1", Data: tmpl},
		{ID: "t2", VoterID: "v2", Data: mustHex(t, "AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778898")},
	}

	first := Match(tmpl, stored)
	second := Match(tmpl, stored)
	if first != second {
		t.Errorf("Expected identical results across runs: %+v vs %+v", first, second)
	}
}

func TestClassifyScore(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100.0, "exact_match"},
		{85.0, "exact_match"},
		{84.99, "high_confidence"},
		{70.0, "high_confidence"},
		{69.99, "medium_confidence"},
		{55.0, "medium_confidence"},
		{54.99, "low_confidence"},
		{0.0, "low_confidence"},
	}

	for _, c := range cases {
		if got := classifyScore(c.score); got != c.want {
			t.Errorf("classifyScore(%f) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestKeyPositionSimilarity(t *testing.T) {
	a := diverseTemplate(512)

	b := make([]byte, 512)
	copy(b, a)
	if got := keyPositionSimilarity(a, b); got != 100.0 {
		t.Errorf("Expected 100 for identical templates, got %f", got)
	}

	// Break the first byte and the midpoint: 3 of 5 positions left.
	b[0] ^= 0xFF
	b[256] ^= 0xFF
	if got := keyPositionSimilarity(a, b); got != 60.0 {
		t.Errorf("Expected 60 with two broken key positions, got %f", got)
	}
}
