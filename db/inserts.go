package db

import (
	"database/sql"
	"math"

	log "github.com/kmatton/speech-feature-io/logger"
)

func (d *DBAdapter) InsertCalls(records []Call) *log.Status {
	if len(records) == 0 {
		return nil
	}
	query := `REPLACE INTO calls (call_id, subject_id, week, call_date, call_time,
		is_assessment, duration) VALUES (?,?,?,?,?,?,?)`
	return d.insertBatch(query, len(records), func(stmt *sql.Stmt, i int) error {
		rec := records[i]
		assess := 0
		if rec.IsAssessment {
			assess = 1
		}
		_, err := stmt.Exec(rec.CallId, rec.SubjectId, rec.Week, rec.Date, rec.Time,
			assess, rec.Duration)
		return err
	})
}

func (d *DBAdapter) InsertSegments(records []Segment) *log.Status {
	if len(records) == 0 {
		return nil
	}
	query := `REPLACE INTO segments (segment_id, call_id, hyp_num, begin_ms, end_ms,
		segment_text) VALUES (?,?,?,?,?,?)`
	return d.insertBatch(query, len(records), func(stmt *sql.Stmt, i int) error {
		rec := records[i]
		_, err := stmt.Exec(rec.SegmentId, rec.CallId, rec.HypNum, rec.BeginMS,
			rec.EndMS, rec.Text)
		return err
	})
}

func (d *DBAdapter) InsertFeatures(records []FeatureValue) *log.Status {
	if len(records) == 0 {
		return nil
	}
	query := `REPLACE INTO features (group_id, level, feature_set, feature_name,
		value) VALUES (?,?,?,?,?)`
	return d.insertBatch(query, len(records), func(stmt *sql.Stmt, i int) error {
		rec := records[i]
		// sqlite has no NaN, store NULL
		var value any
		if !math.IsNaN(rec.Value) {
			value = rec.Value
		}
		_, err := stmt.Exec(rec.GroupId, rec.Level, rec.FeatureSet, rec.Name, value)
		return err
	})
}

func (d *DBAdapter) insertBatch(query string, count int, bind func(*sql.Stmt, int) error) *log.Status {
	tx, err := d.DB.BeginTx(d.Ctx, nil)
	if err != nil {
		return log.Error(d.Ctx, 500, err, `Error beginning transaction`)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return log.Error(d.Ctx, 500, err, `Error preparing insert`)
	}
	defer stmt.Close()
	for i := 0; i < count; i++ {
		err = bind(stmt, i)
		if err != nil {
			_ = tx.Rollback()
			return log.Error(d.Ctx, 500, err, `Error executing insert`)
		}
	}
	err = tx.Commit()
	if err != nil {
		return log.Error(d.Ctx, 500, err, `Error committing insert`)
	}
	return nil
}
