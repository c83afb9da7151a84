// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fingerprint implements template validation, quality scoring,
similarity scoring, and population matching for raw fingerprint
captures.

Templates are opaque byte sequences as delivered by the sensor; this is
heuristic byte-level matching, not minutiae extraction.

# Validation

ValidateTemplate rejects structurally implausible captures:

  - shorter than 256 bytes
  - more than 80% a single extreme value (0x00 or 0xFF)
  - fewer distinct byte values than 10% of the length

QualityScore rates a capture 0-100 from length adequacy, byte
diversity, and value-distribution penalties. Enrollment callers should
reject templates below DefaultQualityFloor even when ValidateTemplate
passes.

# Similarity

Similarity combines four sub-metrics over equal-length templates:

	0.4 Hamming + 0.3 pattern + 0.2 frequency + 0.1 structural

scaled to 0-100 and rounded to two decimals. Templates of differing
length score 0. Similarity(t, t) == 100 for any non-empty t.

# Matching

Match runs a two-pass search over the enrolled population. Pass 1
screens every equal-length candidate by Similarity against
ScreeningFloor. Pass 2 recomputes three independent gating checks for
survivors (byte equality, sliding-window pattern consistency, five
fixed key positions), combines them into a final score, and classifies
the best candidate into a confidence tier:

	>= 85 exact_match
	>= 70 high_confidence
	>= 55 medium_confidence
	 < 55 low_confidence

Callers must additionally enforce DefaultMatchThreshold: results below
it are reported as not found regardless of tier label.

All thresholds are package constants carried over from the original
system so that score vectors stay reproducible.
*/
package fingerprint
