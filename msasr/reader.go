// Package msasr reads the recognition_results.csv files produced by the
// Microsoft speech to text service and computes confidence and timing
// features, plus a plain transcript for the text feature sets.
package msasr

import (
	"context"
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	log "github.com/kmatton/speech-feature-io/logger"
)

// Record is one recognizer entry. Duration and Offset are in ticks of
// 100 nanoseconds, as reported by the service.
type Record struct {
	GroupId    string
	SortKey    float64
	Confidence float64
	Duration   float64
	Offset     float64
	WordTiming []WordTiming
	Text       string
	TextBasic  string
}

// ReadResultFiles reads one or more result csv files and groups entries by
// feature_id, falling back to audio_file_id when no feature_id column
// exists. Entries within a group are ordered by the order column when
// present, otherwise by segment_number.
func ReadResultFiles(ctx context.Context, filePaths []string) (map[string][]Record, *log.Status) {
	groups := make(map[string][]Record)
	for _, filePath := range filePaths {
		status := readResultFile(ctx, filePath, groups)
		if status != nil {
			return nil, status
		}
	}
	for _, records := range groups {
		sort.SliceStable(records, func(i, j int) bool { return records[i].SortKey < records[j].SortKey })
	}
	return groups, nil
}

func readResultFile(ctx context.Context, filePath string, groups map[string][]Record) *log.Status {
	file, err := os.Open(filePath)
	if err != nil {
		return log.Error(ctx, 500, err, `Error opening recognition results`, filePath)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return log.Error(ctx, 400, err, `Error reading recognition results`, filePath)
	}
	if len(rows) < 2 {
		return nil
	}
	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[name] = i
	}
	idColumn, ok := columns[`feature_id`]
	if !ok {
		idColumn, ok = columns[`audio_file_id`]
		if !ok {
			return log.ErrorNoErr(ctx, 400, `Recognition results need a feature_id or audio_file_id column`, filePath)
		}
	}
	sortColumn, ok := columns[`order`]
	if !ok {
		sortColumn, ok = columns[`segment_number`]
		if !ok {
			return log.ErrorNoErr(ctx, 400, `Recognition results need an order or segment_number column`, filePath)
		}
	}
	for _, row := range rows[1:] {
		var rec Record
		rec.GroupId = row[idColumn]
		var status *log.Status
		rec.SortKey, status = floatColumn(ctx, filePath, row, sortColumn)
		if status != nil {
			return status
		}
		if i, ok := columns[`confidence`]; ok {
			rec.Confidence, status = floatColumn(ctx, filePath, row, i)
			if status != nil {
				return status
			}
		}
		if i, ok := columns[`duration`]; ok {
			rec.Duration, status = floatColumn(ctx, filePath, row, i)
			if status != nil {
				return status
			}
		}
		if i, ok := columns[`offset`]; ok {
			rec.Offset, status = floatColumn(ctx, filePath, row, i)
			if status != nil {
				return status
			}
		}
		if i, ok := columns[`word_timing`]; ok {
			rec.WordTiming, status = ParseWordTiming(ctx, row[i])
			if status != nil {
				return status
			}
		}
		if i, ok := columns[`text`]; ok {
			rec.Text = row[i]
		}
		if i, ok := columns[`text_basic`]; ok {
			rec.TextBasic = row[i]
		}
		groups[rec.GroupId] = append(groups[rec.GroupId], rec)
	}
	return nil
}

func floatColumn(ctx context.Context, filePath string, row []string, index int) (float64, *log.Status) {
	if index >= len(row) {
		return 0, log.ErrorNoErr(ctx, 400, `Short row in recognition results`, filePath)
	}
	value, err := strconv.ParseFloat(row[index], 64)
	if err != nil {
		return 0, log.Error(ctx, 400, err, `Malformed numeric column in recognition results`, filePath, row[index])
	}
	return value, nil
}
