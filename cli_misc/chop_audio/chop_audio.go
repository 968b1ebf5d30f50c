package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/kmatton/speech-feature-io/transcript"
)

// Cuts one call recording into per segment wav files, named by segment
// id, so individual utterances can be reviewed against their features.

func main() {
	var (
		audioFile  = flag.String("audio", "", "Path to the call recording (required)")
		hypFile    = flag.String("transcript", "", "Path to a hypothesis transcript file (required)")
		outputDir  = flag.String("output", "", "Output directory (default: same as audio file)")
		sampleRate = flag.Int("rate", 16000, "Output sample rate in Hz")
	)
	flag.Parse()

	if *audioFile == "" || *hypFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -audio <call.wav> -transcript <hyp.txt> [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nTranscript format:\n")
		fmt.Fprintf(os.Stderr, "  One segment per line: SEGID w1 w2 ... where SEGID ends in\n")
		fmt.Fprintf(os.Stderr, "  _<begin_ms>_<end_ms>, e.g. call1_2500_4000 the weather is nice\n")
		os.Exit(1)
	}
	if _, err := os.Stat(*audioFile); os.IsNotExist(err) {
		log.Fatalf("Audio file not found: %s", *audioFile)
	}
	if *outputDir == "" {
		*outputDir = filepath.Dir(*audioFile)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	ctx := context.Background()
	segments, status := transcript.ParseHypothesisFile(ctx, *hypFile)
	if status != nil {
		log.Fatalf("Failed to read transcript: %v", status)
	}
	if len(segments) == 0 {
		log.Fatalf("No segments in %s", *hypFile)
	}

	written := 0
	for _, seg := range segments {
		outPath := filepath.Join(*outputDir, seg.Id+".wav")
		err := chopSegment(*audioFile, outPath, seg.BeginMS, seg.EndMS, *sampleRate)
		if err != nil {
			log.Printf("Skipping %s: %v", seg.Id, err)
			continue
		}
		written++
	}
	fmt.Printf("Wrote %d of %d segments to %s\n", written, len(segments), *outputDir)
}

func chopSegment(audioFile string, outPath string, beginMS int, endMS int, rate int) error {
	if endMS <= beginMS {
		return fmt.Errorf("segment has no duration: %d-%d", beginMS, endMS)
	}
	begin := msToSeconds(beginMS)
	duration := msToSeconds(endMS - beginMS)
	return ffmpeg.Input(audioFile, ffmpeg.KwArgs{"ss": begin}).
		Output(outPath, ffmpeg.KwArgs{
			"t":  duration,
			"ar": strconv.Itoa(rate),
			"ac": "1",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
}

func msToSeconds(ms int) string {
	seconds := strconv.FormatFloat(float64(ms)/1000.0, 'f', 3, 64)
	return strings.TrimRight(strings.TrimRight(seconds, "0"), ".")
}
