package liwc

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kmatton/speech-feature-io/transcript"
)

const testDic = `%
1	funct
2	posemo
3	filler
%
i	1
happy	2
happi*	2
you know	3
like*	3
`

func writeTestDic(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), `test.dic`)
	err := os.WriteFile(path, []byte(testDic), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDictionary(t *testing.T) {
	ctx := context.Background()
	dict, status := LoadDictionary(ctx, writeTestDic(t))
	if status != nil {
		t.Fatal(status)
	}
	cats := dict.Categories()
	if len(cats) != 3 {
		t.Fatal(`expected 3 categories, got`, cats)
	}
	if cats[0] != `filler` || cats[1] != `funct` || cats[2] != `posemo` {
		t.Fatal(`categories not sorted`, cats)
	}
}

func TestParseExactAndWildcard(t *testing.T) {
	ctx := context.Background()
	dict, status := LoadDictionary(ctx, writeTestDic(t))
	if status != nil {
		t.Fatal(status)
	}
	cats := dict.Parse(`i`)
	if len(cats) != 1 || cats[0] != `funct` {
		t.Fatal(`exact match failed`, cats)
	}
	cats = dict.Parse(`happiness`)
	if len(cats) != 1 || cats[0] != `posemo` {
		t.Fatal(`wildcard match failed`, cats)
	}
	// exact entry wins over the happi* wildcard
	cats = dict.Parse(`happy`)
	if len(cats) != 1 || cats[0] != `posemo` {
		t.Fatal(`exact over wildcard failed`, cats)
	}
	cats = dict.Parse(`zebra`)
	if cats != nil {
		t.Fatal(`expected no match`, cats)
	}
}

func TestExtractProportions(t *testing.T) {
	ctx := context.Background()
	dict, status := LoadDictionary(ctx, writeTestDic(t))
	if status != nil {
		t.Fatal(status)
	}
	segments := []transcript.Segment{
		{Id: `s1_0_1000`, Words: []string{`i`, `was`, `happy`, `you`, `know`}},
	}
	features := Extract(ctx, segments, dict)
	if features[`funct_liwc`] != 0.2 {
		t.Fatal(`funct_liwc expected 0.2, got`, features[`funct_liwc`])
	}
	if features[`posemo_liwc`] != 0.2 {
		t.Fatal(`posemo_liwc expected 0.2, got`, features[`posemo_liwc`])
	}
	// `you know` matches as a bigram but is still divided by word count
	if features[`filler_liwc`] != 0.2 {
		t.Fatal(`filler_liwc expected 0.2, got`, features[`filler_liwc`])
	}
}

func TestExtractGramsStayWithinSegment(t *testing.T) {
	ctx := context.Background()
	dict, status := LoadDictionary(ctx, writeTestDic(t))
	if status != nil {
		t.Fatal(status)
	}
	// `you know` straddles the segment break, so the phrase entry
	// must not match
	segments := []transcript.Segment{
		{Id: `s1_0_1000`, Words: []string{`i`, `see`, `you`}},
		{Id: `s1_1000_2000`, Words: []string{`know`, `what`}},
	}
	features := Extract(ctx, segments, dict)
	if features[`filler_liwc`] != 0 {
		t.Fatal(`filler_liwc expected 0, got`, features[`filler_liwc`])
	}
	if features[`funct_liwc`] != 0.2 {
		t.Fatal(`funct_liwc expected 0.2, got`, features[`funct_liwc`])
	}
}

func TestExtractEmpty(t *testing.T) {
	ctx := context.Background()
	dict, status := LoadDictionary(ctx, writeTestDic(t))
	if status != nil {
		t.Fatal(status)
	}
	features := Extract(ctx, nil, dict)
	for cat, value := range features {
		if !math.IsNaN(value) {
			t.Fatal(`expected NaN for`, cat, `got`, value)
		}
	}
}

func TestMissingHeader(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), `bad.dic`)
	err := os.WriteFile(path, []byte("happy\t2\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, status := LoadDictionary(ctx, path)
	if status == nil {
		t.Fatal(`expected error for dictionary without header`)
	}
}
