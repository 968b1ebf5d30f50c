package db

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) DBAdapter {
	t.Helper()
	ctx := context.Background()
	conn, status := NewDBAdapter(ctx, filepath.Join(t.TempDir(), `test.db`))
	if status != nil {
		t.Fatal(status)
	}
	t.Cleanup(conn.Close)
	return conn
}

func TestInsertSelectCalls(t *testing.T) {
	conn := openTestDB(t)
	calls := []Call{
		{CallId: `call_002`, SubjectId: `S01`, Week: 2, Date: `2019-03-12`,
			Time: `10:15:00`, IsAssessment: true, Duration: 312.5},
		{CallId: `call_001`, SubjectId: `S01`, Week: 1, Date: `2019-03-05`,
			Time: `09:00:00`},
	}
	status := conn.InsertCalls(calls)
	if status != nil {
		t.Fatal(status)
	}
	results, status := conn.SelectCalls()
	if status != nil {
		t.Fatal(status)
	}
	if len(results) != 2 {
		t.Fatal(`got calls`, len(results))
	}
	if results[0].CallId != `call_001` {
		t.Error(`expected date ordering, got`, results[0].CallId)
	}
	if !results[1].IsAssessment {
		t.Error(`expected assessment flag`)
	}
	if results[1].DayId() != `S01_2019-03-12` {
		t.Error(`got day id`, results[1].DayId())
	}
}

func TestInsertSelectSegments(t *testing.T) {
	conn := openTestDB(t)
	segments := []Segment{
		{SegmentId: `call_001_a_2000_4000`, CallId: `call_001`, HypNum: 0,
			BeginMS: 2000, EndMS: 4000, Text: `i am feeling okay today`},
		{SegmentId: `call_001_a_0_2000`, CallId: `call_001`, HypNum: 0,
			BeginMS: 0, EndMS: 2000, Text: `hello`},
	}
	status := conn.InsertSegments(segments)
	if status != nil {
		t.Fatal(status)
	}
	results, status := conn.SelectSegments(`call_001`)
	if status != nil {
		t.Fatal(status)
	}
	if len(results) != 2 {
		t.Fatal(`got segments`, len(results))
	}
	if results[0].Text != `hello` {
		t.Error(`expected begin_ms ordering, got`, results[0].Text)
	}
	results, status = conn.SelectSegments(`no_such_call`)
	if status != nil {
		t.Fatal(status)
	}
	if len(results) != 0 {
		t.Error(`expected no segments`)
	}
}

func TestInsertFeaturesNaN(t *testing.T) {
	conn := openTestDB(t)
	features := []FeatureValue{
		{GroupId: `call_001`, Level: `call`, FeatureSet: `lexdiv`, Name: `HS`, Value: 1432.7},
		{GroupId: `call_002`, Level: `call`, FeatureSet: `lexdiv`, Name: `HS`, Value: math.NaN()},
	}
	status := conn.InsertFeatures(features)
	if status != nil {
		t.Fatal(status)
	}
	results, status := conn.SelectFeatures(`lexdiv`)
	if status != nil {
		t.Fatal(status)
	}
	if len(results) != 2 {
		t.Fatal(`got features`, len(results))
	}
	if results[0].Value != 1432.7 {
		t.Error(`got value`, results[0].Value)
	}
	if !math.IsNaN(results[1].Value) {
		t.Error(`expected NaN round trip, got`, results[1].Value)
	}
}

func TestEmptyInsertsAreNoOps(t *testing.T) {
	conn := openTestDB(t)
	if status := conn.InsertCalls(nil); status != nil {
		t.Fatal(status)
	}
	if status := conn.InsertSegments(nil); status != nil {
		t.Fatal(status)
	}
	if status := conn.InsertFeatures(nil); status != nil {
		t.Fatal(status)
	}
}
