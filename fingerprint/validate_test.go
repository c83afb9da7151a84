// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import (
	"errors"
	"testing"
)

// diverseTemplate builds a template of the given length cycling through
// all 256 byte values.
func diverseTemplate(n int) []byte {
	t := make([]byte, n)
	for i := range t {
		t[i] = byte(i % 256)
	}
	return t
}

func repeatTemplate(n int, b byte) []byte {
	t := make([]byte, n)
	for i := range t {
		t[i] = b
	}
	return t
}

func TestValidateTemplateAcceptsDiverseCapture(t *testing.T) {
	if err := ValidateTemplate(diverseTemplate(512)); err != nil {
		t.Errorf("Expected valid template, got error: %v", err)
	}
	if err := ValidateTemplate(diverseTemplate(256)); err != nil {
		t.Errorf("Expected minimum-length template to validate, got: %v", err)
	}
}

func TestValidateTemplateRejectsShortInput(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		diverseTemplate(255),
		diverseTemplate(32),
	}

	for _, c := range cases {
		err := ValidateTemplate(c)
		if !errors.Is(err, ErrTemplateTooShort) {
			t.Errorf("Expected ErrTemplateTooShort for %d bytes, got %v", len(c), err)
		}
	}
}

func TestValidateTemplateRejectsExtremeValues(t *testing.T) {
	if err := ValidateTemplate(repeatTemplate(256, 0x00)); !errors.Is(err, ErrTemplateExtreme) {
		t.Errorf("Expected ErrTemplateExtreme for all-zero template, got %v", err)
	}
	if err := ValidateTemplate(repeatTemplate(512, 0xFF)); !errors.Is(err, ErrTemplateExtreme) {
		t.Errorf("Expected ErrTemplateExtreme for all-0xFF template, got %v", err)
	}

	// 90% zeros with a diverse tail is still a sensor failure
	tmpl := repeatTemplate(512, 0x00)
	for i := 461; i < 512; i++ {
		tmpl[i] = byte(i % 256)
	}
	if err := ValidateTemplate(tmpl); !errors.Is(err, ErrTemplateExtreme) {
		t.Errorf("Expected ErrTemplateExtreme for zero-dominated template, got %v", err)
	}
}

func TestValidateTemplateRejectsDegenerateData(t *testing.T) {
	// Alternating two non-extreme values: length is fine, extremes are
	// fine, but only 2 distinct values in 512 bytes.
	tmpl := make([]byte, 512)
	for i := range tmpl {
		if i%2 == 0 {
			tmpl[i] = 0x41
		} else {
			tmpl[i] = 0x42
		}
	}

	if err := ValidateTemplate(tmpl); !errors.Is(err, ErrTemplateDegenerate) {
		t.Errorf("Expected ErrTemplateDegenerate, got %v", err)
	}
}

func TestQualityScoreIdealTemplate(t *testing.T) {
	// Ideal length, every byte value present, no extreme skew.
	score := QualityScore(diverseTemplate(512))
	if score != 100.0 {
		t.Errorf("Expected quality 100 for ideal template, got %f", score)
	}
}

func TestQualityScoreRange(t *testing.T) {
	cases := [][]byte{
		diverseTemplate(512),
		diverseTemplate(256),
		repeatTemplate(512, 0x00),
		repeatTemplate(64, 0xAB),
		{},
	}

	for _, c := range cases {
		score := QualityScore(c)
		if score < 0.0 || score > 100.0 {
			t.Errorf("Quality score out of range for %d bytes: %f", len(c), score)
		}
	}
}

func TestQualityScorePenalizesShortCaptures(t *testing.T) {
	full := QualityScore(diverseTemplate(512))
	half := QualityScore(diverseTemplate(256))

	if half >= full {
		t.Errorf("Expected shorter template to score lower: %f >= %f", half, full)
	}
}

func TestQualityScorePenalizesZeroDominance(t *testing.T) {
	// 60% zeros triggers the distribution penalty.
	skewed := make([]byte, 512)
	for i := 308; i < 512; i++ {
		skewed[i] = byte(i % 255)
	}

	clean := diverseTemplate(512)
	if QualityScore(skewed) >= QualityScore(clean) {
		t.Error("Expected zero-dominated template to score below a clean one")
	}
}

func TestQualityScoreBelowEnrollmentFloor(t *testing.T) {
	// A short all-zero capture fails every component at once.
	score := QualityScore(repeatTemplate(64, 0x00))
	if score >= DefaultQualityFloor {
		t.Errorf("Expected degenerate short capture below the quality floor, got %f", score)
	}
}
