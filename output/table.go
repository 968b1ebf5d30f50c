// Package output collects feature values into tables and writes them
// as csv, xlsx, or rows in the dataset database.
package output

import (
	"math"
	"sort"

	"github.com/kmatton/speech-feature-io/db"
	"github.com/kmatton/speech-feature-io/decode_yaml/request"
	"github.com/kmatton/speech-feature-io/utility/summary"
)

// Table holds one feature set at one level, one row per data group.
type Table struct {
	Level      request.Level
	FeatureSet string
	Rows       []Row
}

type Row struct {
	GroupId string
	Values  map[string]float64
}

func NewTable(level request.Level, featureSet string) *Table {
	return &Table{Level: level, FeatureSet: featureSet}
}

func (t *Table) AddRow(groupId string, values map[string]float64) {
	t.Rows = append(t.Rows, Row{GroupId: groupId, Values: values})
}

// Columns returns the union of feature names across rows, sorted so
// output files are stable between runs.
func (t *Table) Columns() []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range t.Rows {
		for name := range row.Values {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// FeatureValues flattens the table into database rows.
func (t *Table) FeatureValues() []db.FeatureValue {
	columns := t.Columns()
	var records []db.FeatureValue
	for _, row := range t.Rows {
		for _, name := range columns {
			value, ok := row.Values[name]
			if !ok {
				value = math.NaN()
			}
			records = append(records, db.FeatureValue{
				GroupId:    row.GroupId,
				Level:      string(t.Level),
				FeatureSet: t.FeatureSet,
				Name:       name,
				Value:      value,
			})
		}
	}
	return records
}

// MeanAcrossHypotheses averages the feature maps computed from each ASR
// hypothesis of the same data group, skipping NaN values per feature so
// one empty hypothesis does not blank the group.
func MeanAcrossHypotheses(perHypothesis []map[string]float64) map[string]float64 {
	values := make(map[string][]float64)
	for _, features := range perHypothesis {
		for name, value := range features {
			values[name] = append(values[name], value)
		}
	}
	results := make(map[string]float64)
	for name, series := range values {
		results[name] = summary.NaNMean(series)
	}
	return results
}
