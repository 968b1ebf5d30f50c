// Package transcript reads kaldi hypothesis transcripts and prepares
// segment word lists for the feature packages.
package transcript

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	log "github.com/kmatton/speech-feature-io/logger"
)

// Segment is one speech segment of a single ASR hypothesis.
type Segment struct {
	Id      string
	BeginMS int
	EndMS   int
	Words   []string
}

// ParseSegmentId extracts the begin and end times (ms) encoded in the last
// two fields of a segment id such as call_001_a_2000_4000.
func ParseSegmentId(ctx context.Context, segId string) (int, int, *log.Status) {
	parts := strings.Split(segId, `_`)
	if len(parts) < 3 {
		return 0, 0, log.ErrorNoErr(ctx, 400, `Malformed segment id`, segId)
	}
	begin, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0, 0, log.Error(ctx, 400, err, `Segment begin time is not numeric`, segId)
	}
	end, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, 0, log.Error(ctx, 400, err, `Segment end time is not numeric`, segId)
	}
	return begin, end, nil
}

// ParseHypothesisFile reads one transcript file of lines `SEGID w1 w2 ...`
// and returns its segments ordered by begin time.
func ParseHypothesisFile(ctx context.Context, filePath string) ([]Segment, *log.Status) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error opening transcript`, filePath)
	}
	defer file.Close()
	var results []Segment
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `` {
			continue
		}
		fields := strings.Fields(line)
		var seg Segment
		seg.Id = fields[0]
		var status *log.Status
		seg.BeginMS, seg.EndMS, status = ParseSegmentId(ctx, seg.Id)
		if status != nil {
			return nil, status
		}
		seg.Words = fields[1:]
		results = append(results, seg)
	}
	err = scanner.Err()
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error reading transcript`, filePath)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].BeginMS < results[j].BeginMS
	})
	return results, nil
}

// ReadCallDir reads every transcript file in a call directory. Each file is
// one ASR hypothesis; files are taken in name order so hypothesis indexes
// are stable between runs.
func ReadCallDir(ctx context.Context, callDir string) ([][]Segment, *log.Status) {
	entries, err := os.ReadDir(callDir)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error reading call directory`, callDir)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), `.txt`) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	var hypotheses [][]Segment
	for _, name := range names {
		segments, status := ParseHypothesisFile(ctx, filepath.Join(callDir, name))
		if status != nil {
			return nil, status
		}
		hypotheses = append(hypotheses, segments)
	}
	return hypotheses, nil
}

// Text returns the space joined words of the segment.
func (s *Segment) Text() string {
	return strings.Join(s.Words, ` `)
}

// Words flattens segments into a single word list.
func Words(segments []Segment) []string {
	var results []string
	for _, seg := range segments {
		results = append(results, seg.Words...)
	}
	return results
}

// Texts returns the space joined text of each segment.
func Texts(segments []Segment) []string {
	var results []string
	for _, seg := range segments {
		results = append(results, strings.Join(seg.Words, ` `))
	}
	return results
}
