package msasr

import (
	"context"
	"strconv"
	"strings"

	log "github.com/kmatton/speech-feature-io/logger"
)

// WordTiming is one word entry from the word_timing column. Duration
// and Offset are in ticks of 100 nanoseconds.
type WordTiming struct {
	Duration float64
	Offset   float64
	Word     string
}

// ParseWordTiming parses the word_timing column, which the upstream
// collection script writes as a Python list literal:
// [{'Duration': 5000000, 'Offset': 1000000, 'Word': 'hello'}, ...]
func ParseWordTiming(ctx context.Context, value string) ([]WordTiming, *log.Status) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, `[`)
	value = strings.TrimSuffix(value, `]`)
	if strings.TrimSpace(value) == `` {
		return nil, nil
	}
	var results []WordTiming
	for _, entry := range strings.Split(value, `},`) {
		entry = strings.Trim(entry, " {}")
		var wt WordTiming
		for _, pair := range strings.Split(entry, `,`) {
			key, val, found := strings.Cut(pair, `:`)
			if !found {
				return nil, log.ErrorNoErr(ctx, 400, `Malformed word_timing entry`, entry)
			}
			key = strings.Trim(key, ` '"`)
			val = strings.Trim(val, ` '"`)
			switch key {
			case `Duration`:
				ticks, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return nil, log.Error(ctx, 400, err, `Malformed word_timing duration`, entry)
				}
				wt.Duration = ticks
			case `Offset`:
				ticks, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return nil, log.Error(ctx, 400, err, `Malformed word_timing offset`, entry)
				}
				wt.Offset = ticks
			case `Word`:
				wt.Word = val
			}
		}
		results = append(results, wt)
	}
	return results, nil
}
