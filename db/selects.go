package db

import (
	"math"

	log "github.com/kmatton/speech-feature-io/logger"
)

func (d *DBAdapter) SelectCalls() ([]Call, *log.Status) {
	query := `SELECT call_id, subject_id, week, call_date, call_time, is_assessment,
		duration FROM calls ORDER BY subject_id, call_date, call_time`
	rows, err := d.DB.QueryContext(d.Ctx, query)
	if err != nil {
		return nil, log.Error(d.Ctx, 500, err, `Error in SQL query of calls`)
	}
	defer rows.Close()
	var results []Call
	for rows.Next() {
		var c Call
		var assess int
		err = rows.Scan(&c.CallId, &c.SubjectId, &c.Week, &c.Date, &c.Time,
			&assess, &c.Duration)
		if err != nil {
			return nil, log.Error(d.Ctx, 500, err, `Error scanning calls`)
		}
		c.IsAssessment = assess != 0
		results = append(results, c)
	}
	err = rows.Err()
	if err != nil {
		return nil, log.Error(d.Ctx, 500, err, `Error at end of rows in calls`)
	}
	return results, nil
}

func (d *DBAdapter) SelectSegments(callId string) ([]Segment, *log.Status) {
	query := `SELECT segment_id, call_id, hyp_num, begin_ms, end_ms, segment_text
		FROM segments WHERE call_id = ? ORDER BY begin_ms, hyp_num`
	rows, err := d.DB.QueryContext(d.Ctx, query, callId)
	if err != nil {
		return nil, log.Error(d.Ctx, 500, err, `Error in SQL query of segments`)
	}
	defer rows.Close()
	var results []Segment
	for rows.Next() {
		var s Segment
		err = rows.Scan(&s.SegmentId, &s.CallId, &s.HypNum, &s.BeginMS, &s.EndMS, &s.Text)
		if err != nil {
			return nil, log.Error(d.Ctx, 500, err, `Error scanning segments`)
		}
		results = append(results, s)
	}
	err = rows.Err()
	if err != nil {
		return nil, log.Error(d.Ctx, 500, err, `Error at end of rows in segments`)
	}
	return results, nil
}

func (d *DBAdapter) SelectFeatures(featureSet string) ([]FeatureValue, *log.Status) {
	query := `SELECT group_id, level, feature_set, feature_name, value
		FROM features WHERE feature_set = ? ORDER BY group_id, feature_name`
	rows, err := d.DB.QueryContext(d.Ctx, query, featureSet)
	if err != nil {
		return nil, log.Error(d.Ctx, 500, err, `Error in SQL query of features`)
	}
	defer rows.Close()
	var results []FeatureValue
	for rows.Next() {
		var f FeatureValue
		var value *float64
		err = rows.Scan(&f.GroupId, &f.Level, &f.FeatureSet, &f.Name, &value)
		if err != nil {
			return nil, log.Error(d.Ctx, 500, err, `Error scanning features`)
		}
		if value == nil {
			f.Value = math.NaN()
		} else {
			f.Value = *value
		}
		results = append(results, f)
	}
	err = rows.Err()
	if err != nil {
		return nil, log.Error(d.Ctx, 500, err, `Error at end of rows in features`)
	}
	return results, nil
}
