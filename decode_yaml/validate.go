package decode_yaml

import (
	"sort"
	"strings"

	"github.com/kmatton/speech-feature-io/decode_yaml/request"
)

func (r *RequestDecoder) Validate(req *request.Request) {
	r.checkRequired(req)
	r.checkLevel(req)
	r.checkCallType(req)
	r.checkTranscripts(&req.Transcripts)
	r.checkAsrData(&req.AsrData)
	r.checkTextFeatures(req)
	r.checkAsrFeatures(req)
	r.checkCompare(req)
	r.checkOutput(&req.Output)
}

func (r *RequestDecoder) checkRequired(req *request.Request) {
	if req.DatasetName == `` {
		r.errors = append(r.errors, `Required field dataset_name: is empty`)
	}
	if req.Username == `` {
		r.errors = append(r.errors, `Required field username: is empty`)
	}
	req.DatasetName = strings.Replace(req.DatasetName, ` `, `_`, -1)
	if req.OutputDir == `` {
		req.OutputDir = `.`
	}
}

func (r *RequestDecoder) checkLevel(req *request.Request) {
	if req.Level == `` {
		req.Level = request.LevelCall
	} else if !req.Level.IsValid() {
		r.errors = append(r.errors, `Unknown level: `+string(req.Level)+
			` (expected segment, call, day, week, or subject)`)
	}
}

func (r *RequestDecoder) checkCallType(req *request.Request) {
	if req.CallType == `` {
		req.CallType = request.CallAll
	} else if !req.CallType.IsValid() {
		r.errors = append(r.errors, `Unknown call_type: `+string(req.CallType)+
			` (expected personal, assessment, or all)`)
	}
}

// checkTranscripts enforces that no more than one transcript source is
// selected. If none is, NoTranscripts is set.
func (r *RequestDecoder) checkTranscripts(req *request.Transcripts) {
	var wasSet []string
	if req.TranscriptDir != `` {
		wasSet = append(wasSet, `transcript_dir`)
	}
	if len(req.MSAsrFiles) > 0 {
		wasSet = append(wasSet, `ms_asr_files`)
	}
	if len(wasSet) > 1 {
		r.errors = append(r.errors, `Only 1 field can be set on transcripts: `+strings.Join(wasSet, `,`))
	}
	if len(wasSet) == 0 {
		req.NoTranscripts = true
	}
}

func (r *RequestDecoder) checkAsrData(req *request.AsrData) {
	if req.ConfDir == `` && req.TimingDir == `` && req.AudioDir == `` {
		req.NoAsrData = true
	}
}

func (r *RequestDecoder) checkTextFeatures(req *request.Request) {
	tf := &req.TextFeatures
	if !tf.Any() {
		tf.NoTextFeatures = true
		return
	}
	if req.Transcripts.NoTranscripts {
		r.errors = append(r.errors, `Text features require a transcript source`)
	}
	if tf.LIWC && tf.LIWCDictPath == `` {
		r.errors = append(r.errors, `liwc: requires liwc_dict_path:`)
	}
	if tf.Rumination && tf.LIWCDictPath == `` {
		r.errors = append(r.errors, `rumination: requires liwc_dict_path:`)
	}
	if tf.GraphRemoveStops && tf.StopwordsPath == `` {
		r.errors = append(r.errors, `graph_remove_stops: requires stopwords_path:`)
	}
	if tf.LexicalDiversity {
		if len(tf.MattrWindows) == 0 {
			tf.MattrWindows = []int{10, 25, 50}
		}
		for _, w := range tf.MattrWindows {
			if w < 2 {
				r.errors = append(r.errors, `mattr_windows: entries must be 2 or greater`)
				break
			}
		}
		sort.Ints(tf.MattrWindows)
	}
}

func (r *RequestDecoder) checkAsrFeatures(req *request.Request) {
	af := &req.AsrFeatures
	if !af.Any() {
		af.NoAsrFeatures = true
		return
	}
	msInput := len(req.Transcripts.MSAsrFiles) > 0
	if af.Confidence && req.AsrData.ConfDir == `` && !msInput {
		r.errors = append(r.errors, `confidence: requires asr_data conf_dir: or ms_asr_files:`)
	}
	if af.Timing && req.AsrData.TimingDir == `` && !msInput {
		r.errors = append(r.errors, `timing: requires asr_data timing_dir: or ms_asr_files:`)
	}
}

func (r *RequestDecoder) checkCompare(req *request.Request) {
	if !req.Compare.Hypotheses {
		req.Compare.NoCompare = true
		return
	}
	if req.Transcripts.TranscriptDir == `` {
		r.errors = append(r.errors, `compare hypotheses: requires transcript_dir:`)
	}
}

func (r *RequestDecoder) checkOutput(req *request.Output) {
	if !req.CSV && !req.XLSX && !req.Sqlite {
		req.CSV = true
	}
}
