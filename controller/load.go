package controller

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kmatton/speech-feature-io/db"
	"github.com/kmatton/speech-feature-io/input"
	"github.com/kmatton/speech-feature-io/kaldiasr"
	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/msasr"
	"github.com/kmatton/speech-feature-io/transcript"
	"github.com/kmatton/speech-feature-io/utility/ffmpeg"
)

// timesData holds the collected durations of one call plus the total
// recording time in seconds that the timing rates divide by.
type timesData struct {
	times    kaldiasr.Times
	totalSec float64
	present  bool
}

// loadCalls reads transcripts and alignment artifacts for every call in
// the metadata, in parallel across calls.
func (c *Controller) loadCalls(calls []db.Call) *log.Status {
	c.calls = make([]callData, len(calls))
	for i := range calls {
		c.calls[i].call = calls[i]
	}
	var status *log.Status
	if c.req.Transcripts.TranscriptDir != `` {
		status = c.loadKaldiTranscripts()
	} else if len(c.req.Transcripts.MSAsrFiles) > 0 {
		status = c.loadMicrosoftResults()
	}
	if status != nil {
		return status
	}
	if c.req.AsrFeatures.Any() && !c.req.AsrData.NoAsrData {
		status = c.loadAlignments()
	}
	return status
}

func (c *Controller) loadKaldiTranscripts() *log.Status {
	dataDir, status := input.ResolveDataDir(c.ctx, c.req.Transcripts.TranscriptDir)
	if status != nil {
		return status
	}
	callDirs, status := input.CallDirs(c.ctx, dataDir)
	if status != nil {
		return status
	}
	g, gctx := errgroup.WithContext(c.ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range c.calls {
		callDir, ok := callDirs[c.calls[i].call.CallId]
		if !ok {
			log.Warn(c.ctx, `No transcript directory for call`, c.calls[i].call.CallId)
			continue
		}
		i := i
		g.Go(func() error {
			hypotheses, st := transcript.ReadCallDir(gctx, callDir)
			if st != nil {
				return st
			}
			c.calls[i].hypotheses = hypotheses
			return nil
		})
	}
	return waitGroup(c.ctx, g)
}

func (c *Controller) loadMicrosoftResults() *log.Status {
	var paths []string
	for _, remote := range c.req.Transcripts.MSAsrFiles {
		local, status := c.resolveFile(remote)
		if status != nil {
			return status
		}
		if strings.ContainsAny(local, `*?[`) {
			files, status := input.Glob(c.ctx, local)
			if status != nil {
				return status
			}
			for _, file := range files {
				paths = append(paths, file.FilePath())
			}
		} else {
			paths = append(paths, local)
		}
	}
	groups, status := msasr.ReadResultFiles(c.ctx, paths)
	if status != nil {
		return status
	}
	for i := range c.calls {
		callId := c.calls[i].call.CallId
		records, ok := groups[callId]
		if !ok {
			log.Warn(c.ctx, `No recognition results for call`, callId)
			continue
		}
		segments := msasr.BasicSegments(c.ctx, callId, records)
		if len(segments) > 0 {
			c.calls[i].hypotheses = [][]transcript.Segment{segments}
		}
		if c.req.AsrFeatures.Confidence {
			for _, rec := range records {
				c.calls[i].confScores = append(c.calls[i].confScores, rec.Confidence)
			}
		}
		if c.req.AsrFeatures.Timing {
			c.calls[i].times = timesData{
				times:    msasr.CollectTimes(records),
				totalSec: msasr.TotalDuration(records),
				present:  true,
			}
		}
	}
	return nil
}

// loadAlignments reads the Kaldi per call confidence and word-phone
// timing files. Recognition result requests already carry both, so this
// only runs for the directory layout.
func (c *Controller) loadAlignments() *log.Status {
	if len(c.req.Transcripts.MSAsrFiles) > 0 {
		return nil
	}
	confDirs, status := c.callDirsOf(c.req.AsrData.ConfDir)
	if status != nil {
		return status
	}
	timingDirs, status := c.callDirsOf(c.req.AsrData.TimingDir)
	if status != nil {
		return status
	}
	audioDir := ``
	if c.req.AsrData.AudioDir != `` {
		audioDir, status = input.ResolveDataDir(c.ctx, c.req.AsrData.AudioDir)
		if status != nil {
			return status
		}
	}
	g, gctx := errgroup.WithContext(c.ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range c.calls {
		i := i
		g.Go(func() error {
			if c.req.AsrFeatures.Confidence {
				if st := c.loadConfidence(confDirs, i); st != nil {
					return st
				}
			}
			if c.req.AsrFeatures.Timing {
				if st := c.loadTiming(gctx, timingDirs, audioDir, i); st != nil {
					return st
				}
			}
			return nil
		})
	}
	return waitGroup(c.ctx, g)
}

func (c *Controller) callDirsOf(dataPath string) (map[string]string, *log.Status) {
	if dataPath == `` {
		return nil, nil
	}
	dataDir, status := input.ResolveDataDir(c.ctx, dataPath)
	if status != nil {
		return nil, status
	}
	return input.CallDirs(c.ctx, dataDir)
}

func (c *Controller) loadConfidence(confDirs map[string]string, i int) *log.Status {
	callId := c.calls[i].call.CallId
	callDir, ok := confDirs[callId]
	if !ok {
		log.Warn(c.ctx, `No confidence file for call`, callId)
		return nil
	}
	segments, status := kaldiasr.ParseConfidenceFile(c.ctx,
		filepath.Join(callDir, kaldiasr.ConfidenceFile))
	if status != nil {
		return status
	}
	for _, seg := range segments {
		c.calls[i].confScores = append(c.calls[i].confScores, seg.Scores...)
	}
	return nil
}

func (c *Controller) loadTiming(ctx context.Context, timingDirs map[string]string,
	audioDir string, i int) *log.Status {
	callId := c.calls[i].call.CallId
	callDir, ok := timingDirs[callId]
	if !ok {
		log.Warn(c.ctx, `No timing file for call`, callId)
		return nil
	}
	segments, status := kaldiasr.ParseTimingFile(ctx,
		filepath.Join(callDir, kaldiasr.TimingFile))
	if status != nil {
		return status
	}
	times, status := kaldiasr.CollectTimes(ctx, segments)
	if status != nil {
		return status
	}
	c.calls[i].times = timesData{
		times:    times,
		totalSec: c.totalDuration(ctx, audioDir, i),
		present:  true,
	}
	return nil
}

// totalDuration prefers the probed audio length and falls back to the
// duration column of the metadata file.
func (c *Controller) totalDuration(ctx context.Context, audioDir string, i int) float64 {
	callId := c.calls[i].call.CallId
	if audioDir != `` {
		matches, _ := filepath.Glob(filepath.Join(audioDir, callId+`.*`))
		if len(matches) > 0 {
			seconds, status := ffmpeg.GetAudioDuration(ctx, audioDir, filepath.Base(matches[0]))
			if status == nil {
				return seconds
			}
			log.Warn(c.ctx, `Could not probe audio for call`, callId, status.Message)
		}
	}
	return c.calls[i].call.Duration
}

// waitGroup converts the first error of a parallel load back to a
// status.
func waitGroup(ctx context.Context, g *errgroup.Group) *log.Status {
	err := g.Wait()
	if err == nil {
		return nil
	}
	var status *log.Status
	if errors.As(err, &status) {
		return status
	}
	return log.Error(ctx, 500, err, `Error loading call data`)
}
