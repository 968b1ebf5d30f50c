package request

// Request describes one feature extraction job. It is decoded from a yaml
// file by the decode_yaml package.
type Request struct {
	DatasetName  string       `yaml:"dataset_name"`
	Username     string       `yaml:"username"`
	Level        Level        `yaml:"level"`
	CallType     CallType     `yaml:"call_type"`
	MetadataPath string       `yaml:"metadata_path"`
	OutputDir    string       `yaml:"output_dir"`
	NotifyOk     []string     `yaml:"notify_ok"`
	NotifyErr    []string     `yaml:"notify_err"`
	Transcripts  Transcripts  `yaml:"transcripts"`
	AsrData      AsrData      `yaml:"asr_data"`
	TextFeatures TextFeatures `yaml:"text_features"`
	AsrFeatures  AsrFeatures  `yaml:"asr_features"`
	Compare      Compare      `yaml:"compare"`
	Output       Output       `yaml:"output"`
}

// Level is the unit of data that one output feature row describes.
type Level string

const (
	LevelSegment Level = `segment`
	LevelCall    Level = `call`
	LevelDay     Level = `day`
	LevelWeek    Level = `week`
	LevelSubject Level = `subject`
)

func (l Level) IsValid() bool {
	switch l {
	case LevelSegment, LevelCall, LevelDay, LevelWeek, LevelSubject:
		return true
	}
	return false
}

// CallType filters which calls contribute rows.
type CallType string

const (
	CallAll        CallType = `all`
	CallPersonal   CallType = `personal`
	CallAssessment CallType = `assessment`
)

func (c CallType) IsValid() bool {
	switch c {
	case CallAll, CallPersonal, CallAssessment:
		return true
	}
	return false
}

// Transcripts selects the transcript source. At most one may be set.
type Transcripts struct {
	TranscriptDir string   `yaml:"transcript_dir"` // kaldi hypothesis files per call dir
	MSAsrFiles    []string `yaml:"ms_asr_files"`   // recognition_results csv files, glob patterns allowed
	NoTranscripts bool     `yaml:"no_transcripts"`
}

// AsrData locates kaldi alignment artifacts and call audio.
type AsrData struct {
	ConfDir   string `yaml:"conf_dir"`
	TimingDir string `yaml:"timing_dir"`
	AudioDir  string `yaml:"audio_dir"` // call audio for ffprobe durations
	NoAsrData bool   `yaml:"no_asr_data"`
}

type TextFeatures struct {
	Graph            bool   `yaml:"graph"`
	GraphRemoveStops bool   `yaml:"graph_remove_stops"`
	LexicalDiversity bool   `yaml:"lexical_diversity"`
	MattrWindows     []int  `yaml:"mattr_windows"`
	LIWC             bool   `yaml:"liwc"`
	LIWCDictPath     string `yaml:"liwc_dict_path"`
	POS              bool   `yaml:"pos"`
	Verbosity        bool   `yaml:"verbosity"`
	NonVerbal        bool   `yaml:"non_verbal"`
	Rumination       bool   `yaml:"rumination"`
	EmotionPath      string `yaml:"emotion_path"` // per segment emotion csv for rumination
	StopwordsPath    string `yaml:"stopwords_path"`
	NoTextFeatures   bool   `yaml:"no_text_features"`
}

func (t *TextFeatures) Any() bool {
	return t.Graph || t.LexicalDiversity || t.LIWC || t.POS || t.Verbosity || t.NonVerbal || t.Rumination
}

type AsrFeatures struct {
	Confidence    bool `yaml:"confidence"`
	Timing        bool `yaml:"timing"`
	NoAsrFeatures bool `yaml:"no_asr_features"`
}

func (a *AsrFeatures) Any() bool {
	return a.Confidence || a.Timing
}

// Compare turns on hypothesis agreement features for calls that have more
// than one ASR hypothesis transcript.
type Compare struct {
	Hypotheses bool `yaml:"hypotheses"`
	XLSXReport bool `yaml:"xlsx_report"`
	NoCompare  bool `yaml:"no_compare"`
}

type Output struct {
	CSV      bool `yaml:"csv"`
	XLSX     bool `yaml:"xlsx"`
	Sqlite   bool `yaml:"sqlite"`
	NoOutput bool `yaml:"no_output"`
}
