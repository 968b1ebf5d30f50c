// Package lexdiv computes lexical diversity measures: the moving average
// type-token ratio (MATTR) and Honore's statistic.
package lexdiv

import (
	"context"
	"math"
	"strconv"

	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/transcript"
	"gonum.org/v1/gonum/stat"
)

const FeatureSet = `lexical_diversity`

// Extract computes MATTR for each window size plus Honore's statistic.
// Non-verbal tokens are removed first.
func Extract(ctx context.Context, segments []transcript.Segment, windows []int) map[string]float64 {
	cleaned := transcript.RemoveNonVerbal(segments)
	words := transcript.Words(cleaned)
	feats := make(map[string]float64)
	for _, window := range windows {
		feats[`MATTR_`+strconv.Itoa(window)] = mattr(ctx, words, window)
	}
	feats[`HS`] = honore(words)
	return feats
}

// mattr slides a window over the word sequence, keeping a count map of the
// window's vocabulary, and averages the per-window type-token ratios. A
// window larger than the transcript is clamped to the transcript length.
func mattr(ctx context.Context, words []string, window int) float64 {
	if len(words) == 0 {
		return math.NaN()
	}
	if len(words) < window {
		log.Warn(ctx, `MATTR window`, window, `greater than word count`, len(words),
			`using window`, len(words))
		window = len(words)
	}
	vocab := make(map[string]int)
	for i := 0; i < window; i++ {
		vocab[words[i]]++
	}
	ttrs := []float64{float64(len(vocab)) / float64(window)}
	for i := 1; i <= len(words)-window; i++ {
		first := words[i-1]
		vocab[first]--
		if vocab[first] == 0 {
			delete(vocab, first)
		}
		vocab[words[i+window-1]]++
		ttrs = append(ttrs, float64(len(vocab))/float64(window))
	}
	return stat.Mean(ttrs, nil)
}

// honore emphasizes words used exactly once:
// HS = 100 * ln(N / (1 - V1/(V + eps))). The epsilon keeps the statistic
// defined when every distinct word occurs exactly once.
func honore(words []string) float64 {
	total := len(words)
	if total == 0 {
		return math.NaN()
	}
	counts := make(map[string]int)
	for _, word := range words {
		counts[word]++
	}
	unique := len(counts)
	singles := 0
	for _, count := range counts {
		if count == 1 {
			singles++
		}
	}
	const epsilon = 1e-5
	return 100.0 * math.Log(float64(total)/(1.0-float64(singles)/(float64(unique)+epsilon)))
}
