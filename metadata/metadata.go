// Package metadata reads the call metadata file that maps calls to
// subjects, dates, and assessment weeks, and groups calls for feature
// extraction at the requested level.
package metadata

import (
	"context"
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kmatton/speech-feature-io/db"
	"github.com/kmatton/speech-feature-io/decode_yaml/request"
	log "github.com/kmatton/speech-feature-io/logger"
)

// ReadFile reads a metadata csv. Required columns are subject_id and
// call_id; call_datetime (or separate date and time columns), week,
// is_assessment, and duration are used when present. Calls come back
// ordered by subject, date, and time.
func ReadFile(ctx context.Context, filePath string) ([]db.Call, *log.Status) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error opening metadata file`, filePath)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, log.Error(ctx, 400, err, `Error reading metadata file`, filePath)
	}
	if len(rows) < 1 {
		return nil, log.ErrorNoErr(ctx, 400, `Metadata file is empty`, filePath)
	}
	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{`subject_id`, `call_id`} {
		if _, ok := columns[required]; !ok {
			return nil, log.ErrorNoErr(ctx, 400, `Metadata file is missing column`, required, filePath)
		}
	}
	var calls []db.Call
	for _, row := range rows[1:] {
		call, status := parseRow(ctx, filePath, columns, row)
		if status != nil {
			return nil, status
		}
		calls = append(calls, call)
	}
	sort.SliceStable(calls, func(i, j int) bool {
		if calls[i].SubjectId != calls[j].SubjectId {
			return calls[i].SubjectId < calls[j].SubjectId
		}
		if calls[i].Date != calls[j].Date {
			return calls[i].Date < calls[j].Date
		}
		return calls[i].Time < calls[j].Time
	})
	return calls, nil
}

func parseRow(ctx context.Context, filePath string, columns map[string]int, row []string) (db.Call, *log.Status) {
	var call db.Call
	value := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ``
		}
		return strings.TrimSpace(row[i])
	}
	call.SubjectId = value(`subject_id`)
	call.CallId = value(`call_id`)
	if call.SubjectId == `` || call.CallId == `` {
		return call, log.ErrorNoErr(ctx, 400, `Metadata row is missing subject_id or call_id`, filePath)
	}
	datetime := value(`call_datetime`)
	if datetime != `` {
		date, time, _ := strings.Cut(datetime, ` `)
		call.Date = date
		call.Time = time
	} else {
		call.Date = value(`date`)
		call.Time = value(`time`)
	}
	week := value(`week`)
	if week != `` {
		num, err := strconv.Atoi(week)
		if err != nil {
			return call, log.Error(ctx, 400, err, `Malformed week in metadata`, call.CallId)
		}
		call.Week = num
	}
	call.IsAssessment = parseBool(value(`is_assessment`))
	duration := value(`duration`)
	if duration != `` {
		num, err := strconv.ParseFloat(duration, 64)
		if err != nil {
			return call, log.Error(ctx, 400, err, `Malformed duration in metadata`, call.CallId)
		}
		call.Duration = num
	}
	return call, nil
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case `t`, `true`, `1`, `yes`:
		return true
	}
	return false
}

// FilterCallType drops calls outside the requested type.
func FilterCallType(calls []db.Call, callType request.CallType) []db.Call {
	if callType == request.CallAll || callType == `` {
		return calls
	}
	var results []db.Call
	for _, call := range calls {
		if (callType == request.CallAssessment) == call.IsAssessment {
			results = append(results, call)
		}
	}
	return results
}

// GroupId returns the id that identifies a call's feature group at the
// given level. Segment level ids are the segment ids themselves, so the
// call id stands in here.
func GroupId(call *db.Call, level request.Level) string {
	switch level {
	case request.LevelSubject:
		return call.SubjectId
	case request.LevelWeek:
		return call.SubjectId + `_week` + strconv.Itoa(call.Week)
	case request.LevelDay:
		return call.DayId()
	default:
		return call.CallId
	}
}

// GroupedCalls is one feature group: the calls sharing a group id at
// the requested level, in metadata order.
type GroupedCalls struct {
	GroupId string
	Calls   []db.Call
}

// Group partitions calls into ordered feature groups for one level.
func Group(calls []db.Call, level request.Level) []GroupedCalls {
	byId := make(map[string]*GroupedCalls)
	var order []string
	for _, call := range calls {
		id := GroupId(&call, level)
		group, ok := byId[id]
		if !ok {
			group = &GroupedCalls{GroupId: id}
			byId[id] = group
			order = append(order, id)
		}
		group.Calls = append(group.Calls, call)
	}
	results := make([]GroupedCalls, 0, len(order))
	for _, id := range order {
		results = append(results, *byId[id])
	}
	return results
}
