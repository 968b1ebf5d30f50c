package decode_yaml

import (
	"context"
	"strings"
	"testing"

	"github.com/kmatton/speech-feature-io/decode_yaml/request"
)

var goodRequest = `dataset_name: priori_v1 text
username: kmatton
level: day
call_type: personal
metadata_path: test_data/metadata.csv
transcripts:
    transcript_dir: test_data/transcripts
text_features:
    graph: true
    lexical_diversity: true
    mattr_windows: [50, 10, 25]
    non_verbal: true
output:
    csv: true
`

func TestDecodeRequest(t *testing.T) {
	decoder := NewRequestDecoder(context.Background())
	req, status := decoder.Process([]byte(goodRequest))
	if status != nil {
		t.Fatal(status)
	}
	if req.DatasetName != `priori_v1_text` {
		t.Error(`got dataset_name`, req.DatasetName)
	}
	if req.Level != request.LevelDay {
		t.Error(`got level`, req.Level)
	}
	if req.CallType != request.CallPersonal {
		t.Error(`got call_type`, req.CallType)
	}
	windows := req.TextFeatures.MattrWindows
	if len(windows) != 3 || windows[0] != 10 || windows[2] != 50 {
		t.Error(`mattr windows not sorted:`, windows)
	}
	if req.Compare.NoCompare != true {
		t.Error(`expected no compare default`)
	}
	if req.AsrFeatures.NoAsrFeatures != true {
		t.Error(`expected no asr features default`)
	}
}

func TestDecodeDefaults(t *testing.T) {
	decoder := NewRequestDecoder(context.Background())
	req, status := decoder.Process([]byte("dataset_name: d\nusername: u\n"))
	if status != nil {
		t.Fatal(status)
	}
	if req.Level != request.LevelCall {
		t.Error(`got default level`, req.Level)
	}
	if req.CallType != request.CallAll {
		t.Error(`got default call_type`, req.CallType)
	}
	if !req.Output.CSV {
		t.Error(`expected csv output default`)
	}
	if !req.Transcripts.NoTranscripts {
		t.Error(`expected no transcripts default`)
	}
}

func TestValidateErrors(t *testing.T) {
	var bad = `level: lifetime
transcripts:
    transcript_dir: a
    ms_asr_files: [b.csv]
text_features:
    liwc: true
    rumination: true
`
	decoder := NewRequestDecoder(context.Background())
	_, status := decoder.Process([]byte(bad))
	if status == nil {
		t.Fatal(`expected validation failure`)
	}
	msg := status.Message
	for _, expect := range []string{
		`dataset_name`, `username`, `Unknown level`,
		`Only 1 field can be set on transcripts`, `liwc_dict_path`,
		`rumination: requires liwc_dict_path:`,
	} {
		if !strings.Contains(msg, expect) {
			t.Error(`message missing`, expect, `in`, msg)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	decoder := NewRequestDecoder(context.Background())
	req, status := decoder.Process([]byte(goodRequest))
	if status != nil {
		t.Fatal(status)
	}
	text, status := decoder.Encode(req)
	if status != nil {
		t.Fatal(status)
	}
	decoder2 := NewRequestDecoder(context.Background())
	req2, status := decoder2.Process([]byte(text))
	if status != nil {
		t.Fatal(status)
	}
	if req2.DatasetName != req.DatasetName || req2.Level != req.Level {
		t.Error(`round trip mismatch`)
	}
}
