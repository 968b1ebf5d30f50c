package liwc

import (
	"context"
	"math"
	"strings"

	"github.com/kmatton/speech-feature-io/transcript"
)

const FeatureSet = `liwc`

// Extract computes the fraction of words in each LIWC category. Unigrams,
// bigrams, and trigrams are all looked up, because phrase entries like
// `you know` only match on the longer grams, but every count is
// normalized by the unigram word count.
func Extract(ctx context.Context, segments []transcript.Segment, dict *Dictionary) map[string]float64 {
	cleaned := transcript.RemoveNonVerbal(segments)
	counts := make(map[string]int)
	totalWords := 0
	for _, seg := range cleaned {
		totalWords += len(seg.Words)
		// Bigrams and trigrams stay within a segment; phrase entries
		// never span a segment boundary.
		for n := 1; n <= 3; n++ {
			for i := 0; i+n <= len(seg.Words); i++ {
				gram := strings.Join(seg.Words[i:i+n], ` `)
				for _, cat := range dict.Parse(gram) {
					counts[cat]++
				}
			}
		}
	}
	features := make(map[string]float64)
	for _, cat := range dict.Categories() {
		if totalWords == 0 {
			features[cat+`_liwc`] = math.NaN()
		} else {
			features[cat+`_liwc`] = float64(counts[cat]) / float64(totalWords)
		}
	}
	return features
}
