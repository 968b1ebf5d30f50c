package rumination

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kmatton/speech-feature-io/liwc"
	"github.com/kmatton/speech-feature-io/transcript"
)

const testDic = `%
1	ppron
2	affect
3	posemo
4	negemo
5	anx
6	anger
7	sad
%
i	1
me	1
my	1
happy	2	3
sad	2	4	7
worried	2	5
mad	2	6
`

func loadTestDic(t *testing.T) *liwc.Dictionary {
	t.Helper()
	path := filepath.Join(t.TempDir(), `test.dic`)
	err := os.WriteFile(path, []byte(testDic), 0644)
	if err != nil {
		t.Fatal(err)
	}
	dict, status := liwc.LoadDictionary(context.Background(), path)
	if status != nil {
		t.Fatal(status)
	}
	return dict
}

func TestExtractSelfReference(t *testing.T) {
	ctx := context.Background()
	dict := loadTestDic(t)
	segments := []SegmentHypotheses{
		// 3 pronouns in 4 words, above the 1/2 threshold
		{Id: `c1_0_1000`, Hypotheses: []transcript.Segment{
			{Id: `c1_0_1000`, Words: []string{`i`, `me`}},
			{Id: `c1_0_1000`, Words: []string{`i`, `sad`}},
		}},
		// no pronouns at all
		{Id: `c1_1000_2000`, Hypotheses: []transcript.Segment{
			{Id: `c1_1000_2000`, Words: []string{`happy`, `day`}},
			{Id: `c1_1000_2000`, Words: []string{`happy`, `day`}},
		}},
	}
	features := Extract(ctx, segments, nil, dict)
	// only the first segment is a self-reference; sad is 1 of its 4 words
	if features[`i_sad_liwc_mean`] != 0.25 {
		t.Fatal(`i_sad_liwc_mean expected 0.25, got`, features[`i_sad_liwc_mean`])
	}
	if features[`i_affect_liwc_mean`] != 0.25 {
		t.Fatal(`i_affect_liwc_mean expected 0.25, got`, features[`i_affect_liwc_mean`])
	}
	if features[`i_posemo_liwc_max`] != 0 {
		t.Fatal(`i_posemo_liwc_max expected 0, got`, features[`i_posemo_liwc_max`])
	}
	if features[`i_sad_liwc_std`] != 0 {
		t.Fatal(`i_sad_liwc_std expected 0, got`, features[`i_sad_liwc_std`])
	}
	if _, ok := features[`i_act_low_mean`]; ok {
		t.Fatal(`dimensional emotions produced without an emotion table`)
	}
}

func TestExtractThresholdPerHypothesis(t *testing.T) {
	ctx := context.Background()
	dict := loadTestDic(t)
	// with a single hypothesis the threshold is a pronoun fraction of 1
	segments := []SegmentHypotheses{
		{Id: `c1_0_1000`, Hypotheses: []transcript.Segment{
			{Id: `c1_0_1000`, Words: []string{`i`, `worried`}},
		}},
	}
	features := Extract(ctx, segments, nil, dict)
	if !math.IsNaN(features[`i_anx_liwc_mean`]) {
		t.Fatal(`expected NaN with no qualifying segments, got`, features[`i_anx_liwc_mean`])
	}
	segments[0].Hypotheses[0].Words = []string{`me`}
	features = Extract(ctx, segments, nil, dict)
	if features[`i_anx_liwc_mean`] != 0 {
		t.Fatal(`i_anx_liwc_mean expected 0, got`, features[`i_anx_liwc_mean`])
	}
}

func TestExtractWithEmotionTable(t *testing.T) {
	ctx := context.Background()
	dict := loadTestDic(t)
	emotions := map[string]map[string]float64{
		`c1_0_1000`: {`act_low`: 0.1, `act_mid`: 0.6, `act_high`: 0.3,
			`val_low`: 0.5, `val_mid`: 0.25, `val_high`: 0.25},
	}
	segments := []SegmentHypotheses{
		{Id: `c1_0_1000`, Hypotheses: []transcript.Segment{
			{Id: `c1_0_1000`, Words: []string{`i`, `me`, `mad`}},
			{Id: `c1_0_1000`, Words: []string{`my`, `mad`}},
		}},
	}
	features := Extract(ctx, segments, emotions, dict)
	if features[`i_act_mid_mean`] != 0.6 {
		t.Fatal(`i_act_mid_mean expected 0.6, got`, features[`i_act_mid_mean`])
	}
	if features[`i_val_low_max`] != 0.5 {
		t.Fatal(`i_val_low_max expected 0.5, got`, features[`i_val_low_max`])
	}
	if features[`i_anger_liwc_mean`] != 0.4 {
		t.Fatal(`i_anger_liwc_mean expected 0.4, got`, features[`i_anger_liwc_mean`])
	}
}

func TestLoadEmotions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), `emotions.csv`)
	content := "segment_id,act_low,act_mid,act_high,val_low,val_mid,val_high\n" +
		"c1_0_1000,0.1,0.2,0.7,0.3,0.3,0.4\n" +
		"c1_1000_2000,0.5,0.25,0.25,0.6,0.2,0.2\n"
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}
	emotions, status := LoadEmotions(ctx, path)
	if status != nil {
		t.Fatal(status)
	}
	if len(emotions) != 2 {
		t.Fatal(`expected 2 segments, got`, len(emotions))
	}
	if emotions[`c1_0_1000`][`act_high`] != 0.7 {
		t.Fatal(`act_high expected 0.7, got`, emotions[`c1_0_1000`][`act_high`])
	}
	if emotions[`c1_1000_2000`][`val_low`] != 0.6 {
		t.Fatal(`val_low expected 0.6, got`, emotions[`c1_1000_2000`][`val_low`])
	}
}

func TestLoadEmotionsMissingIdColumn(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), `emotions.csv`)
	err := os.WriteFile(path, []byte("act_low,act_mid\n0.1,0.9\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, status := LoadEmotions(ctx, path)
	if status == nil {
		t.Fatal(`expected error for emotion table without segment_id`)
	}
}
