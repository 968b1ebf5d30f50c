// Package nonverbal measures how much of a transcript the recognizer
// marked as laughter, background noise, or unknown words.
package nonverbal

import (
	"context"
	"math"

	"github.com/kmatton/speech-feature-io/transcript"
)

const FeatureSet = `non_verbal`

// Extract computes the ratio of each non verbal token to the total
// token count. The transcript is used as written, before any cleaning.
func Extract(ctx context.Context, segments []transcript.Segment) map[string]float64 {
	counts := map[string]float64{`laughter`: 0, `noise`: 0, `unk`: 0}
	total := 0.0
	for _, seg := range segments {
		for _, word := range seg.Words {
			total++
			switch word {
			case `[laughter]`:
				counts[`laughter`]++
			case `[noise]`:
				counts[`noise`]++
			case `<unk>`:
				counts[`unk`]++
			}
		}
	}
	features := make(map[string]float64)
	for name, count := range counts {
		if total > 0 {
			features[name] = count / total
		} else {
			features[name] = math.NaN()
		}
	}
	return features
}
