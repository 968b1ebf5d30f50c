package rumination

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	log "github.com/kmatton/speech-feature-io/logger"
)

// LoadEmotions reads a per segment emotion csv into a map keyed by
// segment id. The file needs a segment_id column; every DimEmotions
// column that is present is kept.
func LoadEmotions(ctx context.Context, filePath string) (map[string]map[string]float64, *log.Status) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error opening emotion table`, filePath)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, log.Error(ctx, 400, err, `Error reading emotion table`, filePath)
	}
	if len(rows) < 2 {
		return nil, log.ErrorNoErr(ctx, 400, `Emotion table has no rows`, filePath)
	}
	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[name] = i
	}
	idColumn, ok := columns[`segment_id`]
	if !ok {
		return nil, log.ErrorNoErr(ctx, 400, `Emotion table needs a segment_id column`, filePath)
	}
	emotions := make(map[string]map[string]float64)
	for _, row := range rows[1:] {
		if idColumn >= len(row) {
			return nil, log.ErrorNoErr(ctx, 400, `Short row in emotion table`, filePath)
		}
		values := make(map[string]float64)
		for _, emo := range DimEmotions {
			i, ok := columns[emo]
			if !ok || i >= len(row) {
				continue
			}
			value, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, log.Error(ctx, 400, err, `Malformed emotion value`, filePath, row[i])
			}
			values[emo] = value
		}
		emotions[row[idColumn]] = values
	}
	return emotions, nil
}
