// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import "errors"

// Template length bounds. Captures shorter than MinTemplateLength are
// rejected outright; IdealTemplateLength is the length at which the
// length component of the quality score saturates.
const (
	MinTemplateLength   = 256
	IdealTemplateLength = 512
)

// Degenerate-capture detection thresholds.
const (
	// ExtremeValueRatio is the fraction of a template allowed to be a
	// single extreme byte (0x00 or 0xFF) before it is treated as a
	// sensor failure.
	ExtremeValueRatio = 0.8

	// MinDistinctRatio is the minimum distinct-byte-value count
	// relative to template length.
	MinDistinctRatio = 0.1
)

// Quality score weights and penalties. These are empirical constants
// carried over from the original system; do not retune them without an
// explicit decision to change matching behavior.
const (
	qualityLengthWeight       = 0.3
	qualityEntropyWeight      = 0.4
	qualityDistributionWeight = 0.3

	distributionPenalty      = 30.0
	distributionPenaltyRatio = 0.5
)

// DefaultQualityFloor is the minimum quality score enrollment callers
// should accept. Below this floor a template degrades downstream
// matching accuracy even when individually valid.
const DefaultQualityFloor = 30.0

var (
	ErrTemplateTooShort  = errors.New("template shorter than minimum length")
	ErrTemplateExtreme   = errors.New("template dominated by a single extreme byte value")
	ErrTemplateDegenerate = errors.New("template byte diversity too low")
)

// ValidateTemplate rejects malformed or degenerate captures. A nil
// error means the template is structurally plausible, not that it is
// high quality; see QualityScore.
func ValidateTemplate(t []byte) error {
	if len(t) < MinTemplateLength {
		return ErrTemplateTooShort
	}

	zeros, ffs, distinct := byteStats(t)

	limit := int(float64(len(t)) * ExtremeValueRatio)
	if zeros > limit || ffs > limit {
		return ErrTemplateExtreme
	}

	if distinct < int(float64(len(t))*MinDistinctRatio) {
		return ErrTemplateDegenerate
	}

	return nil
}

// QualityScore rates a template 0-100: 30% length adequacy, 40% byte
// diversity, 30% value-distribution penalty.
func QualityScore(t []byte) float64 {
	if len(t) == 0 {
		return 0.0
	}

	zeros, ffs, distinct := byteStats(t)

	lengthScore := float64(len(t)) / float64(IdealTemplateLength) * 100.0
	if lengthScore > 100.0 {
		lengthScore = 100.0
	}

	entropyScore := float64(distinct) / 256.0 * 100.0

	distributionScore := 100.0
	penaltyLimit := int(float64(len(t)) * distributionPenaltyRatio)
	if zeros > penaltyLimit {
		distributionScore -= distributionPenalty
	}
	if ffs > penaltyLimit {
		distributionScore -= distributionPenalty
	}

	score := qualityLengthWeight*lengthScore +
		qualityEntropyWeight*entropyScore +
		qualityDistributionWeight*distributionScore

	if score < 0.0 {
		return 0.0
	}
	if score > 100.0 {
		return 100.0
	}
	return score
}

// byteStats counts zero bytes, 0xFF bytes, and distinct byte values in
// a single pass.
func byteStats(t []byte) (zeros, ffs, distinct int) {
	var seen [256]bool
	for _, b := range t {
		switch b {
		case 0x00:
			zeros++
		case 0xFF:
			ffs++
		}
		if !seen[b] {
			seen[b] = true
			distinct++
		}
	}
	return zeros, ffs, distinct
}
