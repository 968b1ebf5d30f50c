// Package verbosity computes how much and with what kind of words a
// speaker talks: word counts per segment, long word usage, word length,
// and syllable counts.
package verbosity

import (
	"context"
	"math"
	"strings"

	"github.com/kmatton/speech-feature-io/transcript"
	"github.com/kmatton/speech-feature-io/utility/summary"
)

const FeatureSet = `verbosity`

const longWordLen = 6 // words longer than this count as long

// Extract computes verbosity features over one hypothesis. Word counts
// are summarized per segment; word length and syllables per word.
func Extract(ctx context.Context, segments []transcript.Segment) map[string]float64 {
	segments = transcript.RemoveNonVerbal(segments)
	features := make(map[string]float64)
	var wordCounts []float64
	var wordLens []float64
	var syllables []float64
	longWords := 0.0
	totalWords := 0.0
	for _, seg := range segments {
		wordCounts = append(wordCounts, float64(len(seg.Words)))
		for _, word := range seg.Words {
			totalWords++
			length := float64(len([]rune(word)))
			wordLens = append(wordLens, length)
			if length > longWordLen {
				longWords++
			}
			syllables = append(syllables, float64(CountSyllables(word)))
		}
	}
	addNamed(features, `wc`, summary.Describe(wordCounts))
	features[`total_count`] = summary.Sum(wordCounts)
	if totalWords > 0 {
		features[`lw_count`] = longWords / totalWords
		features[`word_len`] = summary.Sum(wordLens) / totalWords
	} else {
		features[`lw_count`] = math.NaN()
		features[`word_len`] = math.NaN()
	}
	addNamed(features, `syll`, summary.Describe(syllables))
	return features
}

// addNamed writes summary stats under the full stat names
// (wc_median, wc_stdev) rather than the short suffixes of AddTo.
func addNamed(feats map[string]float64, prefix string, s summary.Stats) {
	feats[prefix+`_max`] = s.Max
	feats[prefix+`_min`] = s.Min
	feats[prefix+`_mean`] = s.Mean
	feats[prefix+`_median`] = s.Median
	feats[prefix+`_stdev`] = s.StdDev
}

// CountSyllables estimates syllables by counting vowel groups, with the
// usual silent-e adjustment. Always at least one for a non-empty word.
func CountSyllables(word string) int {
	word = strings.ToLower(word)
	if word == `` {
		return 0
	}
	count := 0
	prevVowel := false
	for _, char := range word {
		vowel := strings.ContainsRune(`aeiouy`, char)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, `e`) && !strings.HasSuffix(word, `le`) && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
