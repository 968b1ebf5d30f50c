// Package liwc parses LIWC 2007 dictionaries and computes the proportion
// of transcript words falling in each category.
package liwc

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/kmatton/speech-feature-io/logger"
)

// Dictionary holds the category names and the token matching structures
// from one .dic file. Entries ending in * match any token with that
// prefix; matching prefers an exact entry over a wildcard one.
type Dictionary struct {
	catNames map[int]string
	exact    map[string][]int
	prefixes *trieNode
}

type trieNode struct {
	children map[rune]*trieNode
	cats     []int // set when a wildcard entry ends here
}

// LoadDictionary reads a LIWC .dic file. The category id/name section sits
// between the first two lines containing only `%`; entries follow as
// `word<TAB>id id ...`. Phrase entries (`you know`) keep their spaces.
func LoadDictionary(ctx context.Context, filePath string) (*Dictionary, *log.Status) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error opening LIWC dictionary`, filePath)
	}
	defer file.Close()
	var d Dictionary
	d.catNames = make(map[int]string)
	d.exact = make(map[string][]int)
	d.prefixes = &trieNode{children: make(map[rune]*trieNode)}
	percents := 0
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == `%` {
			percents++
			continue
		}
		if line == `` {
			continue
		}
		if percents == 1 {
			status := d.parseCategory(ctx, line, lineNum)
			if status != nil {
				return nil, status
			}
			continue
		}
		status := d.parseEntry(ctx, line, lineNum)
		if status != nil {
			return nil, status
		}
	}
	err = scanner.Err()
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error reading LIWC dictionary`, filePath)
	}
	if len(d.catNames) == 0 {
		return nil, log.ErrorNoErr(ctx, 400, `LIWC dictionary has no category header`, filePath)
	}
	return &d, nil
}

func (d *Dictionary) parseCategory(ctx context.Context, line string, lineNum int) *log.Status {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return log.ErrorNoErr(ctx, 400, `Malformed LIWC category line`, lineNum, line)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return log.Error(ctx, 400, err, `LIWC category id is not numeric`, lineNum, line)
	}
	d.catNames[id] = fields[1]
	return nil
}

func (d *Dictionary) parseEntry(ctx context.Context, line string, lineNum int) *log.Status {
	// the word column may contain spaces (phrases), so split on tabs
	// first and fall back to the last run of numeric fields
	var word string
	var catFields []string
	if strings.Contains(line, "\t") {
		columns := strings.Split(line, "\t")
		word = strings.TrimSpace(columns[0])
		catFields = columns[1:]
	} else {
		fields := strings.Fields(line)
		split := len(fields)
		for split > 1 {
			if _, err := strconv.Atoi(fields[split-1]); err != nil {
				break
			}
			split--
		}
		word = strings.Join(fields[:split], ` `)
		catFields = fields[split:]
	}
	var cats []int
	for _, field := range catFields {
		field = strings.TrimSpace(field)
		if field == `` {
			continue
		}
		id, err := strconv.Atoi(field)
		if err != nil {
			return log.Error(ctx, 400, err, `LIWC category id is not numeric`, lineNum, line)
		}
		cats = append(cats, id)
	}
	if word == `` || len(cats) == 0 {
		return log.ErrorNoErr(ctx, 400, `Malformed LIWC entry`, lineNum, line)
	}
	word = strings.ToLower(word)
	if strings.HasSuffix(word, `*`) {
		d.addPrefix(strings.TrimSuffix(word, `*`), cats)
	} else {
		d.exact[word] = cats
	}
	return nil
}

func (d *Dictionary) addPrefix(prefix string, cats []int) {
	node := d.prefixes
	for _, char := range prefix {
		child, ok := node.children[char]
		if !ok {
			child = &trieNode{children: make(map[rune]*trieNode)}
			node.children[char] = child
		}
		node = child
	}
	node.cats = cats
}

// Parse returns the category names a token belongs to. The longest
// wildcard prefix wins when no exact entry matches.
func (d *Dictionary) Parse(token string) []string {
	token = strings.ToLower(token)
	cats, ok := d.exact[token]
	if !ok {
		node := d.prefixes
		for _, char := range token {
			node = node.children[char]
			if node == nil {
				break
			}
			if node.cats != nil {
				cats = node.cats
			}
		}
	}
	var results []string
	for _, id := range cats {
		name, ok := d.catNames[id]
		if ok {
			results = append(results, name)
		}
	}
	return results
}

// Categories returns every category name in sorted order.
func (d *Dictionary) Categories() []string {
	var results []string
	for _, name := range d.catNames {
		results = append(results, name)
	}
	sort.Strings(results)
	return results
}
