package kaldiasr

import (
	"bufio"
	"context"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/transcript"
	"github.com/kmatton/speech-feature-io/utility/summary"
)

const TimingFeatureSet = `timing`

// TimingFile is the per call word-phone alignment file.
const TimingFile = `word_phone_ali_timing.txt`

// frameMS is the Kaldi frame shift used in the alignment files.
const frameMS = 25

// SegmentTiming holds the raw alignment lines of one segment. A line
// with five fields starts a new word (or silence); shorter lines are
// the remaining phones of the current word. Times are frame indexes.
type SegmentTiming struct {
	SegmentId string
	BeginMS   int
	EndMS     int
	Lines     []string
}

// ParseTimingFile reads an alignment file where each segment block
// opens with a quoted segment id line followed by one line per phone.
func ParseTimingFile(ctx context.Context, filePath string) ([]SegmentTiming, *log.Status) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error opening timing file`, filePath)
	}
	defer file.Close()
	var results []SegmentTiming
	var current *SegmentTiming
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `` {
			continue
		}
		if strings.HasPrefix(line, `"`) {
			if current != nil {
				results = append(results, *current)
			}
			segId := strings.Trim(line, `"`)
			begin, end, status := transcript.ParseSegmentId(ctx, segId)
			if status != nil {
				return nil, status
			}
			current = &SegmentTiming{SegmentId: segId, BeginMS: begin, EndMS: end}
			continue
		}
		if current == nil {
			return nil, log.ErrorNoErr(ctx, 400, `Timing line before segment header`, filePath, line)
		}
		current.Lines = append(current.Lines, line)
	}
	err = scanner.Err()
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error reading timing file`, filePath)
	}
	if current != nil {
		results = append(results, *current)
	}
	return results, nil
}

// Times collects the durations found in a group of segments. Segment
// durations are in seconds; silences, words, and phones are in ms.
type Times struct {
	Segments []float64
	Silences []float64
	Words    []float64
	Phones   []float64
	WPS      []float64
	PPS      []float64
}

// CollectTimes walks the alignment lines of each segment, closing a
// word when the next five field line starts. Noise and laughter rows
// reset the current word without contributing a duration.
func CollectTimes(ctx context.Context, segments []SegmentTiming) (Times, *log.Status) {
	var times Times
	for _, seg := range segments {
		if len(seg.Lines) == 0 {
			continue
		}
		wordCount := 0
		phoneCount := 0
		wordStart := -1
		for _, line := range seg.Lines {
			fields := strings.Fields(line)
			begin, end, status := frameRange(ctx, seg.SegmentId, fields)
			if status != nil {
				return times, status
			}
			if len(fields) == 5 {
				if wordStart != -1 {
					times.Words = append(times.Words, float64((begin-wordStart)*frameMS))
				}
				word := fields[4]
				if word == `[noise]` || word == `[laughter]` {
					wordStart = -1
					continue
				}
				if word == `sil` {
					times.Silences = append(times.Silences, float64((end-begin)*frameMS))
					wordStart = -1
					continue
				}
				wordStart = begin
				wordCount++
			}
			phoneCount++
			times.Phones = append(times.Phones, float64((end-begin)*frameMS))
		}
		lastFields := strings.Fields(seg.Lines[len(seg.Lines)-1])
		_, lastEnd, status := frameRange(ctx, seg.SegmentId, lastFields)
		if status != nil {
			return times, status
		}
		if wordStart != -1 {
			times.Words = append(times.Words, float64((lastEnd-wordStart)*frameMS))
		}
		if wordCount == 0 {
			continue
		}
		segDuration := float64(lastEnd) * frameMS * 0.001
		times.Segments = append(times.Segments, segDuration)
		times.WPS = append(times.WPS, float64(wordCount)/segDuration)
		times.PPS = append(times.PPS, float64(phoneCount)/segDuration)
	}
	return times, nil
}

func frameRange(ctx context.Context, segId string, fields []string) (int, int, *log.Status) {
	if len(fields) < 2 {
		return 0, 0, log.ErrorNoErr(ctx, 400, `Malformed timing line in segment`, segId)
	}
	begin, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, log.Error(ctx, 400, err, `Malformed frame index in segment`, segId)
	}
	end, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, log.Error(ctx, 400, err, `Malformed frame index in segment`, segId)
	}
	return begin, end, nil
}

// Merge appends the durations of another group, used when segments are
// pooled above the call level.
func (t *Times) Merge(other Times) {
	t.Segments = append(t.Segments, other.Segments...)
	t.Silences = append(t.Silences, other.Silences...)
	t.Words = append(t.Words, other.Words...)
	t.Phones = append(t.Phones, other.Phones...)
	t.WPS = append(t.WPS, other.WPS...)
	t.PPS = append(t.PPS, other.PPS...)
}

// TimingFeatures summarizes the collected durations and adds the rates
// computed against the total recording time in seconds.
func TimingFeatures(times Times, totalDuration float64) map[string]float64 {
	features := make(map[string]float64)
	summary.Describe(times.Segments).AddTo(features, `segments`)
	summary.Describe(times.Silences).AddTo(features, `silences`)
	summary.Describe(times.Words).AddTo(features, `words`)
	summary.Describe(times.Phones).AddTo(features, `phones`)
	summary.Describe(times.WPS).AddTo(features, `wps`)
	summary.Describe(times.PPS).AddTo(features, `pps`)
	silDuration := summary.Sum(times.Silences) * 0.001
	spkDuration := summary.Sum(times.Segments)
	features[`sil_duration`] = silDuration
	features[`spk_duration`] = spkDuration
	features[`spk_sil_ratio`] = safeDiv(spkDuration, silDuration)
	features[`sps`] = safeDiv(float64(len(times.Silences)), spkDuration)
	features[`wps`] = safeDiv(float64(len(times.Words)), spkDuration)
	features[`pps`] = safeDiv(float64(len(times.Phones)), spkDuration)
	features[`phone_count`] = float64(len(times.Phones))
	features[`sil_count`] = float64(len(times.Silences))
	features[`segment_count`] = float64(len(times.Segments))
	features[`word_count`] = float64(len(times.Words))
	shortUtts := 0.0
	for _, dur := range times.Segments {
		if dur <= 1 {
			shortUtts++
		}
	}
	features[`short_utt_count`] = shortUtts
	features[`total_duration`] = totalDuration
	features[`spk_ratio`] = safeDiv(spkDuration, totalDuration)
	features[`sil_ratio`] = safeDiv(silDuration, totalDuration)
	features[`segs_per_min`] = safeDiv(float64(len(times.Segments)), totalDuration/60)
	features[`short_utts_per_min`] = safeDiv(shortUtts, totalDuration/60)
	return features
}

func safeDiv(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) {
		return math.NaN()
	}
	return num / den
}
