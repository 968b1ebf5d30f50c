// Package rumination summarizes the emotional content of the segments
// where a speaker refers to themself. Self-references are detected from
// personal pronoun usage; the emotion values come from the LIWC emotion
// categories and, when a per segment emotion table is supplied, from
// activation and valence scores.
package rumination

import (
	"context"

	"github.com/kmatton/speech-feature-io/liwc"
	"github.com/kmatton/speech-feature-io/transcript"
	"github.com/kmatton/speech-feature-io/utility/summary"
)

const FeatureSet = `rumination`

// LIWCEmotions are the emotional LIWC categories summarized over
// self-reference segments.
var LIWCEmotions = []string{`affect`, `posemo`, `negemo`, `anx`, `anger`, `sad`}

// DimEmotions are the activation and valence bins an emotion table
// carries per segment.
var DimEmotions = []string{`act_low`, `act_mid`, `act_high`, `val_low`, `val_mid`, `val_high`}

// SegmentHypotheses is every ASR hypothesis of one segment.
type SegmentHypotheses struct {
	Id         string
	Hypotheses []transcript.Segment
}

// Extract finds the self-reference segments and summarizes their
// emotion values. A segment counts as a self-reference when its
// personal pronoun fraction reaches one pronoun per hypothesis. LIWC
// values weigh every hypothesis word equally. emotions may be nil, in
// which case only the LIWC summaries are produced; with no
// self-reference segments every statistic is NaN.
func Extract(ctx context.Context, segments []SegmentHypotheses, emotions map[string]map[string]float64, dict *liwc.Dictionary) map[string]float64 {
	liwcValues := make(map[string][]float64)
	dimValues := make(map[string][]float64)
	for _, seg := range segments {
		if len(seg.Hypotheses) == 0 {
			continue
		}
		segLiwc := liwc.Extract(ctx, seg.Hypotheses, dict)
		// NaN pronoun values (segments empty after cleaning) fail
		// the comparison and are skipped
		if !(segLiwc[`ppron_liwc`] >= 1.0/float64(len(seg.Hypotheses))) {
			continue
		}
		for _, emo := range LIWCEmotions {
			liwcValues[emo] = append(liwcValues[emo], segLiwc[emo+`_liwc`])
		}
		if emotions == nil {
			continue
		}
		segEmotion, ok := emotions[seg.Id]
		if !ok {
			continue
		}
		for _, emo := range DimEmotions {
			dimValues[emo] = append(dimValues[emo], segEmotion[emo])
		}
	}
	features := make(map[string]float64)
	for _, emo := range LIWCEmotions {
		addStats(features, `i_`+emo+`_liwc`, liwcValues[emo])
	}
	if emotions != nil {
		for _, emo := range DimEmotions {
			addStats(features, `i_`+emo, dimValues[emo])
		}
	}
	return features
}

func addStats(feats map[string]float64, name string, values []float64) {
	s := summary.Describe(values)
	feats[name+`_mean`] = s.Mean
	feats[name+`_max`] = s.Max
	feats[name+`_min`] = s.Min
	feats[name+`_median`] = s.Median
	feats[name+`_std`] = s.StdDev
}
