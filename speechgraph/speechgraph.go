package speechgraph

import (
	"context"
	"math"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/pos"
	"github.com/kmatton/speech-feature-io/transcript"
)

const FeatureSet = `speech_graph`

var (
	lemmaOnce sync.Once
	lemmaInst *golem.Lemmatizer
	lemmaErr  error
)

func lemmatizer() (*golem.Lemmatizer, error) {
	lemmaOnce.Do(func() {
		lemmaInst, lemmaErr = golem.New(en.New())
	})
	return lemmaInst, lemmaErr
}

// Extract builds the naive, lemma, and part of speech graph variants
// and computes the full measure set for each, plus a per word normalized
// copy of every measure.
func Extract(ctx context.Context, segments []transcript.Segment, removeStops bool, stopwords map[string]bool) (map[string]float64, *log.Status) {
	segments = transcript.RemoveNonVerbal(segments)
	if removeStops {
		segments = transcript.RemoveStopwords(segments, stopwords)
	}
	wordSegs := make([][]string, 0, len(segments))
	wordCount := 0
	for _, seg := range segments {
		wordSegs = append(wordSegs, seg.Words)
		wordCount += len(seg.Words)
	}
	features := make(map[string]float64)
	buildGraph(wordSegs).metrics(`naive`, features)
	lemmaSegs, status := lemmatizeSegments(ctx, wordSegs)
	if status != nil {
		return nil, status
	}
	buildGraph(lemmaSegs).metrics(`lemma`, features)
	posSegs, status := pos.TagSegments(ctx, segments)
	if status != nil {
		return nil, status
	}
	buildGraph(posSegs).metrics(`pos`, features)
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	for _, name := range names {
		if wordCount > 0 {
			features[name+`_norm`] = features[name] / float64(wordCount)
		} else {
			features[name+`_norm`] = math.NaN()
		}
	}
	return features, nil
}

func lemmatizeSegments(ctx context.Context, segments [][]string) ([][]string, *log.Status) {
	lemma, err := lemmatizer()
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error loading lemmatizer`)
	}
	results := make([][]string, len(segments))
	for i, words := range segments {
		lemmas := make([]string, len(words))
		for j, word := range words {
			lemmas[j] = lemma.Lemma(word)
		}
		results[i] = lemmas
	}
	return results, nil
}
