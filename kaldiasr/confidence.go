// Package kaldiasr reads the confidence and word-phone alignment files
// produced by a Kaldi recognizer and turns them into intelligibility
// and speaking rate features.
package kaldiasr

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/transcript"
	"github.com/kmatton/speech-feature-io/utility/summary"
)

const ConfidenceFeatureSet = `asr_confidence`

// ConfidenceFile is the per call file holding one line per word.
const ConfidenceFile = `conf_sym.txt`

// SegmentConf holds the word confidence scores of one segment.
type SegmentConf struct {
	SegmentId string
	BeginMS   int
	EndMS     int
	Scores    []float64
}

// ParseConfidenceFile reads lines of the form
// `SEGID channel begin duration word conf`, keeping the segment id and
// the confidence score. Segments come back ordered by start time.
func ParseConfidenceFile(ctx context.Context, filePath string) ([]SegmentConf, *log.Status) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error opening confidence file`, filePath)
	}
	defer file.Close()
	byId := make(map[string]*SegmentConf)
	var order []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `` {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, log.ErrorNoErr(ctx, 400, `Malformed confidence line`, filePath, line)
		}
		segId := fields[0]
		score, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, log.Error(ctx, 400, err, `Malformed confidence score`, filePath, line)
		}
		seg, ok := byId[segId]
		if !ok {
			begin, end, status := transcript.ParseSegmentId(ctx, segId)
			if status != nil {
				return nil, status
			}
			seg = &SegmentConf{SegmentId: segId, BeginMS: begin, EndMS: end}
			byId[segId] = seg
			order = append(order, segId)
		}
		seg.Scores = append(seg.Scores, score)
	}
	err = scanner.Err()
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error reading confidence file`, filePath)
	}
	results := make([]SegmentConf, 0, len(order))
	for _, segId := range order {
		results = append(results, *byId[segId])
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].BeginMS < results[j].BeginMS })
	return results, nil
}

// ConfidenceFeatures summarizes word confidence scores for one group.
func ConfidenceFeatures(scores []float64) map[string]float64 {
	features := make(map[string]float64)
	summary.Describe(scores).AddTo(features, `conf`)
	return features
}
