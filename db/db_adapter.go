package db

import (
	"context"
	"database/sql"

	log "github.com/kmatton/speech-feature-io/logger"
	_ "github.com/mattn/go-sqlite3"
)

// DBAdapter wraps the sqlite dataset file. One database holds the calls,
// their transcript segments, and the feature values computed from them.
type DBAdapter struct {
	Ctx          context.Context
	DB           *sql.DB
	DatabasePath string
}

func NewDBAdapter(ctx context.Context, databasePath string) (DBAdapter, *log.Status) {
	var d DBAdapter
	d.Ctx = ctx
	d.DatabasePath = databasePath
	var err error
	d.DB, err = sql.Open(`sqlite3`, databasePath)
	if err != nil {
		return d, log.Error(ctx, 500, err, `Error opening database`, databasePath)
	}
	status := d.createTables()
	return d, status
}

func (d *DBAdapter) Close() {
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

var createStmts = []string{
	`CREATE TABLE IF NOT EXISTS calls (
		call_id TEXT PRIMARY KEY,
		subject_id TEXT NOT NULL,
		week INTEGER,
		call_date TEXT,
		call_time TEXT,
		is_assessment INTEGER DEFAULT 0,
		duration REAL DEFAULT 0)`,
	`CREATE TABLE IF NOT EXISTS segments (
		segment_id TEXT NOT NULL,
		call_id TEXT NOT NULL,
		hyp_num INTEGER NOT NULL,
		begin_ms INTEGER NOT NULL,
		end_ms INTEGER NOT NULL,
		segment_text TEXT NOT NULL,
		PRIMARY KEY (segment_id, hyp_num))`,
	`CREATE INDEX IF NOT EXISTS segments_call_idx ON segments (call_id)`,
	`CREATE TABLE IF NOT EXISTS features (
		group_id TEXT NOT NULL,
		level TEXT NOT NULL,
		feature_set TEXT NOT NULL,
		feature_name TEXT NOT NULL,
		value REAL,
		PRIMARY KEY (group_id, feature_set, feature_name))`,
}

func (d *DBAdapter) createTables() *log.Status {
	for _, stmt := range createStmts {
		_, err := d.DB.ExecContext(d.Ctx, stmt)
		if err != nil {
			return log.Error(d.Ctx, 500, err, `Error creating table in`, d.DatabasePath)
		}
	}
	return nil
}
