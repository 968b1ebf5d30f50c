// Package pos tags transcript words with part of speech classes and
// computes usage counts, proportions, and class ratios.
package pos

import (
	"context"
	"math"
	"strings"

	"github.com/jdkato/prose/v2"

	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/transcript"
)

const FeatureSet = `pos`

// Classes is every coarse part of speech class, in output order.
var Classes = []string{`ADJ`, `VERB`, `NOUN`, `ADV`, `DET`, `INT`, `PREP`, `CC`, `PNOUN`, `PSNOUN`}

// TagSegments runs the tagger over one hypothesis and returns the Penn
// Treebank tags for each segment. Segments are tagged one at a time so
// sentence context does not leak across segment boundaries.
func TagSegments(ctx context.Context, segments []transcript.Segment) ([][]string, *log.Status) {
	results := make([][]string, 0, len(segments))
	for _, seg := range segments {
		text := strings.Join(seg.Words, ` `)
		if text == `` {
			results = append(results, nil)
			continue
		}
		doc, err := prose.NewDocument(text,
			prose.WithExtraction(false),
			prose.WithSegmentation(false))
		if err != nil {
			return nil, log.Error(ctx, 500, err, `Error tagging segment`, seg.Id)
		}
		var tags []string
		for _, token := range doc.Tokens() {
			tags = append(tags, token.Tag)
		}
		results = append(results, tags)
	}
	return results, nil
}

// Tag returns one flat tag sequence for the whole hypothesis.
func Tag(ctx context.Context, segments []transcript.Segment) ([]string, *log.Status) {
	perSegment, status := TagSegments(ctx, segments)
	if status != nil {
		return nil, status
	}
	var tags []string
	for _, segTags := range perSegment {
		tags = append(tags, segTags...)
	}
	return tags, nil
}

// CoarseClasses maps a Penn Treebank tag to zero or more coarse classes.
// Personal pronouns count as both nouns and pronouns, matching how the
// ratios below are defined.
func CoarseClasses(tag string) []string {
	switch {
	case tag == `PRP`:
		return []string{`NOUN`, `PNOUN`}
	case tag == `PRP$`:
		return []string{`NOUN`, `PSNOUN`}
	case tag == `CC`:
		return []string{`CC`}
	case tag == `UH`:
		return []string{`INT`}
	case tag == `IN` || tag == `TO`:
		return []string{`PREP`}
	case tag == `WDT`:
		return []string{`DET`}
	case tag == `WP`:
		return []string{`NOUN`, `PNOUN`}
	case tag == `WP$`:
		return []string{`NOUN`, `PSNOUN`}
	case tag == `WRB`:
		return []string{`ADV`}
	case strings.HasPrefix(tag, `J`):
		return []string{`ADJ`}
	case strings.HasPrefix(tag, `V`) || tag == `MD`:
		return []string{`VERB`}
	case strings.HasPrefix(tag, `N`):
		return []string{`NOUN`}
	case strings.HasPrefix(tag, `R`):
		return []string{`ADV`}
	case strings.HasPrefix(tag, `D`):
		return []string{`DET`}
	}
	return nil
}

// Extract computes per-class word proportions and the class ratios used
// in the clinical literature. Empty transcripts yield NaN throughout.
func Extract(ctx context.Context, segments []transcript.Segment) (map[string]float64, *log.Status) {
	segments = transcript.RemoveNonVerbal(segments)
	tags, status := Tag(ctx, segments)
	if status != nil {
		return nil, status
	}
	counts := make(map[string]float64)
	for _, tag := range tags {
		for _, class := range CoarseClasses(tag) {
			counts[class]++
		}
	}
	features := make(map[string]float64)
	total := float64(len(tags))
	for _, class := range Classes {
		if total > 0 {
			features[class] = counts[class] / total
		} else {
			features[class] = math.NaN()
		}
	}
	features[`adj_ratio`] = ratio(counts[`ADJ`], counts[`VERB`])
	features[`v_ratio`] = ratio(counts[`NOUN`], counts[`VERB`])
	features[`n_ratio`] = ratio(counts[`NOUN`], counts[`NOUN`]+counts[`VERB`])
	features[`pn_ratio`] = ratio(counts[`PNOUN`], counts[`NOUN`])
	features[`sc_ratio`] = ratio(counts[`PREP`], counts[`CC`])
	return features, nil
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
