// Package match compares the ASR hypotheses of one call against each
// other, producing agreement features and a color coded diff report.
package match

import (
	"context"
	"math"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/kmatton/speech-feature-io/transcript"
)

const FeatureSet = `hyp_agreement`

// Pair is one hypothesis comparison for one data group.
type Pair struct {
	GroupId     string
	BaseNum     int
	CompNum     int
	Base        string
	Comp        string
	Diffs       []diffmatchpatch.Diff
	Similarity  float64
	EditDist    float64
	InsertRatio float64
	DeleteRatio float64
}

// ComparePair diffs two hypothesis texts. Similarity is one minus the
// levenshtein distance over the longer text length; insert and delete
// ratios are changed characters over that same length.
func ComparePair(groupId string, baseNum int, compNum int, base string, comp string) Pair {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(base, comp, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	longest := len([]rune(base))
	if len([]rune(comp)) > longest {
		longest = len([]rune(comp))
	}
	similarity := math.NaN()
	insertRatio := math.NaN()
	deleteRatio := math.NaN()
	distance := dmp.DiffLevenshtein(diffs)
	if longest > 0 {
		similarity = 1 - float64(distance)/float64(longest)
		inserted := 0
		deleted := 0
		for _, diff := range diffs {
			switch diff.Type {
			case diffmatchpatch.DiffInsert:
				inserted += len([]rune(diff.Text))
			case diffmatchpatch.DiffDelete:
				deleted += len([]rune(diff.Text))
			}
		}
		insertRatio = float64(inserted) / float64(longest)
		deleteRatio = float64(deleted) / float64(longest)
	}
	return Pair{
		GroupId:     groupId,
		BaseNum:     baseNum,
		CompNum:     compNum,
		Base:        base,
		Comp:        comp,
		Diffs:       diffs,
		Similarity:  similarity,
		EditDist:    float64(distance),
		InsertRatio: insertRatio,
		DeleteRatio: deleteRatio,
	}
}

// CompareHypotheses diffs every hypothesis pair of one group.
func CompareHypotheses(ctx context.Context, groupId string, hypotheses [][]transcript.Segment) []Pair {
	texts := make([]string, len(hypotheses))
	for i, segments := range hypotheses {
		texts[i] = strings.Join(transcript.Texts(segments), ` `)
	}
	var pairs []Pair
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			pairs = append(pairs, ComparePair(groupId, i, j, texts[i], texts[j]))
		}
	}
	return pairs
}

// AgreementFeatures summarizes how well the hypotheses of one group
// agree. Groups with fewer than two hypotheses get NaN agreement.
func AgreementFeatures(pairs []Pair, numHypotheses int) map[string]float64 {
	features := make(map[string]float64)
	features[`num_hyps`] = float64(numHypotheses)
	if len(pairs) == 0 {
		for _, name := range []string{`agreement_mean`, `agreement_min`,
			`edit_dist_mean`, `insert_ratio_mean`, `delete_ratio_mean`} {
			features[name] = math.NaN()
		}
		return features
	}
	lowest := math.Inf(1)
	var similarity, editDist, inserts, deletes float64
	for _, pair := range pairs {
		similarity += pair.Similarity
		editDist += pair.EditDist
		inserts += pair.InsertRatio
		deletes += pair.DeleteRatio
		if pair.Similarity < lowest {
			lowest = pair.Similarity
		}
	}
	count := float64(len(pairs))
	features[`agreement_mean`] = similarity / count
	features[`agreement_min`] = lowest
	features[`edit_dist_mean`] = editDist / count
	features[`insert_ratio_mean`] = inserts / count
	features[`delete_ratio_mean`] = deletes / count
	return features
}
