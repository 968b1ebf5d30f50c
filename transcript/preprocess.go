package transcript

import (
	"bufio"
	"context"
	"os"
	"strings"

	log "github.com/kmatton/speech-feature-io/logger"
)

// Tokens the ASR model emits for sounds that are not words.
var nonVerbalTokens = map[string]bool{
	`[noise]`:    true,
	`[laughter]`: true,
	`<unk>`:      true,
}

// RemoveNonVerbal drops [noise], [laughter], and <unk> tokens, and drops
// segments that contained nothing else.
func RemoveNonVerbal(segments []Segment) []Segment {
	var results []Segment
	for _, seg := range segments {
		var words []string
		for _, word := range seg.Words {
			if !nonVerbalTokens[word] {
				words = append(words, word)
			}
		}
		if len(words) > 0 {
			seg.Words = words
			results = append(results, seg)
		}
	}
	return results
}

// RemoveStopwords drops stopword tokens and segments emptied by that.
func RemoveStopwords(segments []Segment, stops map[string]bool) []Segment {
	var results []Segment
	for _, seg := range segments {
		var words []string
		for _, word := range seg.Words {
			if !stops[word] {
				words = append(words, word)
			}
		}
		if len(words) > 0 {
			seg.Words = words
			results = append(results, seg)
		}
	}
	return results
}

// LoadStopwords reads a stopword file of one word per line.
func LoadStopwords(ctx context.Context, filePath string) (map[string]bool, *log.Status) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error opening stopword file`, filePath)
	}
	defer file.Close()
	results := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != `` {
			results[word] = true
		}
	}
	err = scanner.Err()
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error reading stopword file`, filePath)
	}
	return results, nil
}
