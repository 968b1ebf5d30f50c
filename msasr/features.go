package msasr

import (
	"context"
	"fmt"
	"strings"

	"github.com/kmatton/speech-feature-io/kaldiasr"
	"github.com/kmatton/speech-feature-io/transcript"
	"github.com/kmatton/speech-feature-io/utility/summary"
)

const ConfidenceFeatureSet = `asr_confidence`
const TimingFeatureSet = `timing`

// ticksPerSecond converts the 100 nanosecond ticks of the speech
// service into seconds.
const ticksPerSecond = 1e7
const ticksPerMS = 1e4

// ConfidenceFeatures summarizes the per segment confidence scores of
// one group of records.
func ConfidenceFeatures(records []Record) map[string]float64 {
	var scores []float64
	for _, rec := range records {
		scores = append(scores, rec.Confidence)
	}
	features := make(map[string]float64)
	summary.Describe(scores).AddTo(features, `conf`)
	return features
}

// CollectTimes gathers segment, word, and between word silence
// durations from one group of records. Segment durations are in
// seconds; words and silences are in ms, matching the Kaldi features.
func CollectTimes(records []Record) kaldiasr.Times {
	var times kaldiasr.Times
	for _, rec := range records {
		segDuration := rec.Duration / ticksPerSecond
		if segDuration > 0 {
			times.Segments = append(times.Segments, segDuration)
			times.WPS = append(times.WPS, float64(len(rec.WordTiming))/segDuration)
		}
		for i, wt := range rec.WordTiming {
			times.Words = append(times.Words, wt.Duration/ticksPerMS)
			if i > 0 {
				prev := rec.WordTiming[i-1]
				gap := (wt.Offset - (prev.Offset + prev.Duration)) / ticksPerMS
				if gap > 0 {
					times.Silences = append(times.Silences, gap)
				}
			}
		}
	}
	return times
}

// TotalDuration spans from the first segment offset to the end of the
// last one, in seconds.
func TotalDuration(records []Record) float64 {
	if len(records) == 0 {
		return 0.0
	}
	first := records[0].Offset
	last := records[len(records)-1].Offset + records[len(records)-1].Duration
	return (last - first) / ticksPerSecond
}

// TimingFeatures computes the shared timing feature set for one group.
func TimingFeatures(records []Record) map[string]float64 {
	return kaldiasr.TimingFeatures(CollectTimes(records), TotalDuration(records))
}

// BasicSegments turns the text_basic column of one group into
// transcript segments so the text feature sets can run on recognizer
// output. Segment ids carry the offset and end time in ms.
func BasicSegments(ctx context.Context, groupId string, records []Record) []transcript.Segment {
	var segments []transcript.Segment
	for _, rec := range records {
		words := strings.Fields(strings.ToLower(rec.TextBasic))
		if len(words) == 0 {
			continue
		}
		begin := int(rec.Offset / ticksPerMS)
		end := int((rec.Offset + rec.Duration) / ticksPerMS)
		segments = append(segments, transcript.Segment{
			Id:      fmt.Sprintf(`%s_%d_%d`, groupId, begin, end),
			BeginMS: begin,
			EndMS:   end,
			Words:   words,
		})
	}
	return segments
}
