package kaldiasr

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseConfidenceFile(t *testing.T) {
	ctx := context.Background()
	content := `sub1_call1_2000_4000 1 0.1 0.5 hello 0.9
sub1_call1_2000_4000 1 0.6 0.4 world 0.8
sub1_call1_0_2000 1 0.0 0.5 hi 0.7
`
	path := writeFile(t, ConfidenceFile, content)
	segments, status := ParseConfidenceFile(ctx, path)
	if status != nil {
		t.Fatal(status)
	}
	if len(segments) != 2 {
		t.Fatal(`expected 2 segments, got`, len(segments))
	}
	// ordered by start time
	if segments[0].SegmentId != `sub1_call1_0_2000` {
		t.Fatal(`segments not ordered`, segments[0].SegmentId)
	}
	if len(segments[1].Scores) != 2 || segments[1].Scores[0] != 0.9 {
		t.Fatal(`scores wrong`, segments[1].Scores)
	}
}

func TestConfidenceFeatures(t *testing.T) {
	features := ConfidenceFeatures([]float64{0.5, 0.7, 0.9})
	if features[`conf_mean`] != 0.7 {
		t.Fatal(`conf_mean expected 0.7, got`, features[`conf_mean`])
	}
	if features[`conf_max`] != 0.9 || features[`conf_min`] != 0.5 {
		t.Fatal(`conf_max/min wrong`, features)
	}
	if features[`conf_med`] != 0.7 {
		t.Fatal(`conf_med expected 0.7, got`, features[`conf_med`])
	}
	empty := ConfidenceFeatures(nil)
	if !math.IsNaN(empty[`conf_mean`]) {
		t.Fatal(`expected NaN for empty scores`)
	}
}

const timingContent = `"sub1_call1_0_2000
0 10 1 1 sil
10 20 1 1 hello
20 30 1 1
30 40 1 1 there
40 44 1 1
"sub1_call1_2000_4000
0 8 1 1 [noise]
8 16 1 1 sil
`

func TestParseTimingFile(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, TimingFile, timingContent)
	segments, status := ParseTimingFile(ctx, path)
	if status != nil {
		t.Fatal(status)
	}
	if len(segments) != 2 {
		t.Fatal(`expected 2 segments, got`, len(segments))
	}
	if segments[0].SegmentId != `sub1_call1_0_2000` || len(segments[0].Lines) != 5 {
		t.Fatal(`first segment wrong`, segments[0])
	}
	if segments[0].BeginMS != 0 || segments[0].EndMS != 2000 {
		t.Fatal(`segment times wrong`, segments[0])
	}
}

func TestCollectTimes(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, TimingFile, timingContent)
	segments, status := ParseTimingFile(ctx, path)
	if status != nil {
		t.Fatal(status)
	}
	times, status := CollectTimes(ctx, segments)
	if status != nil {
		t.Fatal(status)
	}
	// hello spans frames 10-30, there spans 30-44
	if len(times.Words) != 2 || times.Words[0] != 500 || times.Words[1] != 350 {
		t.Fatal(`word durations wrong`, times.Words)
	}
	// one silence per segment: frames 0-10 and 8-16
	if len(times.Silences) != 2 || times.Silences[0] != 250 || times.Silences[1] != 200 {
		t.Fatal(`silence durations wrong`, times.Silences)
	}
	// second segment has no words, so only one speaking segment
	if len(times.Segments) != 1 || times.Segments[0] != 1.1 {
		t.Fatal(`segment durations wrong`, times.Segments)
	}
	// 4 phone rows in first segment (sil rows not counted)
	if len(times.Phones) != 4 {
		t.Fatal(`phone count wrong`, times.Phones)
	}
	if math.Abs(times.WPS[0]-2/1.1) > 1e-12 {
		t.Fatal(`wps wrong`, times.WPS)
	}
}

func TestTimingFeatures(t *testing.T) {
	times := Times{
		Segments: []float64{1.0, 3.0},
		Silences: []float64{500, 1500},
		Words:    []float64{200, 400},
		Phones:   []float64{100, 100, 200},
		WPS:      []float64{2.0, 1.0},
		PPS:      []float64{3.0, 2.0},
	}
	features := TimingFeatures(times, 60)
	if features[`spk_duration`] != 4.0 {
		t.Fatal(`spk_duration expected 4, got`, features[`spk_duration`])
	}
	if features[`sil_duration`] != 2.0 {
		t.Fatal(`sil_duration expected 2, got`, features[`sil_duration`])
	}
	if features[`spk_sil_ratio`] != 2.0 {
		t.Fatal(`spk_sil_ratio expected 2, got`, features[`spk_sil_ratio`])
	}
	if features[`short_utt_count`] != 1 {
		t.Fatal(`short_utt_count expected 1, got`, features[`short_utt_count`])
	}
	if features[`segs_per_min`] != 2 {
		t.Fatal(`segs_per_min expected 2, got`, features[`segs_per_min`])
	}
	if features[`spk_ratio`] != 4.0/60.0 {
		t.Fatal(`spk_ratio wrong`, features[`spk_ratio`])
	}
	if features[`segments_mean`] != 2.0 {
		t.Fatal(`segments_mean expected 2, got`, features[`segments_mean`])
	}
	if features[`wps`] != 0.5 {
		t.Fatal(`overall wps expected 0.5, got`, features[`wps`])
	}
}

func TestTimingFeaturesEmpty(t *testing.T) {
	features := TimingFeatures(Times{}, 0)
	if !math.IsNaN(features[`segments_mean`]) {
		t.Fatal(`expected NaN segments_mean`)
	}
	if !math.IsNaN(features[`spk_sil_ratio`]) {
		t.Fatal(`expected NaN spk_sil_ratio`)
	}
	if !math.IsNaN(features[`segs_per_min`]) {
		t.Fatal(`expected NaN segs_per_min`)
	}
	if features[`word_count`] != 0 {
		t.Fatal(`word_count expected 0`)
	}
}
