package db

// Call is one phone call in the dataset, joined from the metadata file.
type Call struct {
	CallId       string
	SubjectId    string
	Week         int
	Date         string // YYYY-MM-DD
	Time         string // HH:MM:SS
	IsAssessment bool
	Duration     float64 // seconds, 0 when unknown
}

// DayId groups calls of one subject on one date.
func (c *Call) DayId() string {
	return c.SubjectId + `_` + c.Date
}

// Segment is one transcribed speech segment of one ASR hypothesis.
type Segment struct {
	SegmentId string
	CallId    string
	HypNum    int
	BeginMS   int
	EndMS     int
	Text      string
}

// FeatureValue is one cell of an output feature table.
type FeatureValue struct {
	GroupId    string
	Level      string
	FeatureSet string
	Name       string
	Value      float64
}
