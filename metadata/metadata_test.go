package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kmatton/speech-feature-io/db"
	"github.com/kmatton/speech-feature-io/decode_yaml/request"
)

const metaCSV = `subject_id,call_id,call_datetime,week,is_assessment,duration
sub2,call3,2019-03-02 10:00:00,1,f,120.5
sub1,call2,2019-03-01 18:30:00,1,t,300
sub1,call1,2019-03-01 09:15:00,1,f,60
sub1,call4,2019-03-08 09:00:00,2,f,90
`

func readTestMeta(t *testing.T) []db.Call {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), `metadata.csv`)
	err := os.WriteFile(path, []byte(metaCSV), 0644)
	if err != nil {
		t.Fatal(err)
	}
	calls, status := ReadFile(ctx, path)
	if status != nil {
		t.Fatal(status)
	}
	return calls
}

func TestReadFile(t *testing.T) {
	calls := readTestMeta(t)
	if len(calls) != 4 {
		t.Fatal(`expected 4 calls, got`, len(calls))
	}
	// ordered by subject, date, time
	if calls[0].CallId != `call1` || calls[1].CallId != `call2` {
		t.Fatal(`calls not ordered`, calls)
	}
	if calls[3].CallId != `call3` {
		t.Fatal(`subjects not ordered`, calls)
	}
	if calls[0].Date != `2019-03-01` || calls[0].Time != `09:15:00` {
		t.Fatal(`datetime split wrong`, calls[0])
	}
	if !calls[1].IsAssessment || calls[0].IsAssessment {
		t.Fatal(`is_assessment wrong`)
	}
	if calls[3].Duration != 120.5 {
		t.Fatal(`duration wrong`, calls[3].Duration)
	}
}

func TestFilterCallType(t *testing.T) {
	calls := readTestMeta(t)
	personal := FilterCallType(calls, request.CallPersonal)
	if len(personal) != 3 {
		t.Fatal(`expected 3 personal calls, got`, len(personal))
	}
	assessment := FilterCallType(calls, request.CallAssessment)
	if len(assessment) != 1 || assessment[0].CallId != `call2` {
		t.Fatal(`assessment filter wrong`, assessment)
	}
	all := FilterCallType(calls, request.CallAll)
	if len(all) != 4 {
		t.Fatal(`all filter should keep everything`)
	}
}

func TestGroup(t *testing.T) {
	calls := readTestMeta(t)
	byCall := Group(calls, request.LevelCall)
	if len(byCall) != 4 {
		t.Fatal(`expected 4 call groups, got`, len(byCall))
	}
	byDay := Group(calls, request.LevelDay)
	if len(byDay) != 3 {
		t.Fatal(`expected 3 day groups, got`, len(byDay))
	}
	if byDay[0].GroupId != `sub1_2019-03-01` || len(byDay[0].Calls) != 2 {
		t.Fatal(`day grouping wrong`, byDay[0])
	}
	byWeek := Group(calls, request.LevelWeek)
	if len(byWeek) != 3 {
		t.Fatal(`expected 3 week groups, got`, len(byWeek))
	}
	if byWeek[0].GroupId != `sub1_week1` {
		t.Fatal(`week group id wrong`, byWeek[0].GroupId)
	}
	bySubject := Group(calls, request.LevelSubject)
	if len(bySubject) != 2 || bySubject[0].GroupId != `sub1` {
		t.Fatal(`subject grouping wrong`, bySubject)
	}
	if len(bySubject[0].Calls) != 3 {
		t.Fatal(`sub1 should have 3 calls`)
	}
}

func TestMissingColumn(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), `metadata.csv`)
	err := os.WriteFile(path, []byte("call_id\ncall1\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, status := ReadFile(ctx, path)
	if status == nil {
		t.Fatal(`expected error for missing subject_id column`)
	}
}
