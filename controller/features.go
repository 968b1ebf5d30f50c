package controller

import (
	"github.com/kmatton/speech-feature-io/db"
	"github.com/kmatton/speech-feature-io/decode_yaml/request"
	"github.com/kmatton/speech-feature-io/kaldiasr"
	"github.com/kmatton/speech-feature-io/lexdiv"
	"github.com/kmatton/speech-feature-io/liwc"
	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/match"
	"github.com/kmatton/speech-feature-io/metadata"
	"github.com/kmatton/speech-feature-io/nonverbal"
	"github.com/kmatton/speech-feature-io/output"
	"github.com/kmatton/speech-feature-io/pos"
	"github.com/kmatton/speech-feature-io/rumination"
	"github.com/kmatton/speech-feature-io/speechgraph"
	"github.com/kmatton/speech-feature-io/transcript"
	"github.com/kmatton/speech-feature-io/utility/summary"
	"github.com/kmatton/speech-feature-io/verbosity"
)

// buildTables extracts every enabled feature set and shapes the results
// into one table per set at the requested level.
func (c *Controller) buildTables() ([]*output.Table, *log.Status) {
	var tables []*output.Table
	if c.req.TextFeatures.Any() {
		textTables, status := c.textTables()
		if status != nil {
			return nil, status
		}
		tables = append(tables, textTables...)
	}
	if c.req.TextFeatures.Rumination {
		if c.req.Level == request.LevelSegment {
			log.Warn(c.ctx, `Rumination summarizes across segments, skipped at segment level`)
		} else {
			tables = append(tables, c.ruminationTable())
		}
	}
	if c.req.AsrFeatures.Any() {
		if c.req.Level == request.LevelSegment {
			log.Warn(c.ctx, `ASR features are per call artifacts, skipped at segment level`)
		} else {
			tables = append(tables, c.asrTables()...)
		}
	}
	if c.req.Compare.Hypotheses {
		compareTable, status := c.compareTable()
		if status != nil {
			return nil, status
		}
		tables = append(tables, compareTable)
	}
	return tables, nil
}

func (c *Controller) enabledTextSets() []string {
	var sets []string
	tf := c.req.TextFeatures
	if tf.Graph {
		sets = append(sets, speechgraph.FeatureSet)
	}
	if tf.LexicalDiversity {
		sets = append(sets, lexdiv.FeatureSet)
	}
	if tf.LIWC {
		sets = append(sets, liwc.FeatureSet)
	}
	if tf.POS {
		sets = append(sets, pos.FeatureSet)
	}
	if tf.Verbosity {
		sets = append(sets, verbosity.FeatureSet)
	}
	if tf.NonVerbal {
		sets = append(sets, nonverbal.FeatureSet)
	}
	return sets
}

func (c *Controller) extractText(set string, segments []transcript.Segment) (map[string]float64, *log.Status) {
	switch set {
	case speechgraph.FeatureSet:
		return speechgraph.Extract(c.ctx, segments, c.req.TextFeatures.GraphRemoveStops, c.stopwords)
	case lexdiv.FeatureSet:
		return lexdiv.Extract(c.ctx, segments, c.req.TextFeatures.MattrWindows), nil
	case liwc.FeatureSet:
		return liwc.Extract(c.ctx, segments, c.liwcDict), nil
	case pos.FeatureSet:
		return pos.Extract(c.ctx, segments)
	case verbosity.FeatureSet:
		return verbosity.Extract(c.ctx, segments), nil
	case nonverbal.FeatureSet:
		return nonverbal.Extract(c.ctx, segments), nil
	}
	return nil, log.ErrorNoErr(c.ctx, 500, `Unknown text feature set`, set)
}

func (c *Controller) textTables() ([]*output.Table, *log.Status) {
	var tables []*output.Table
	for _, set := range c.enabledTextSets() {
		log.Info(c.ctx, `Extracting`, set, `features at`, string(c.req.Level), `level`)
		var table *output.Table
		var status *log.Status
		if c.req.Level == request.LevelSegment {
			table, status = c.segmentTextTable(set)
		} else {
			table, status = c.groupedTextTable(set)
		}
		if status != nil {
			return nil, status
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// segmentTextTable gives each segment its own row. Hypotheses that
// share a segment id are averaged.
func (c *Controller) segmentTextTable(set string) (*output.Table, *log.Status) {
	table := output.NewTable(c.req.Level, set)
	for _, cd := range c.calls {
		var segIds []string
		perSegment := make(map[string][]map[string]float64)
		for _, hypothesis := range cd.hypotheses {
			for _, seg := range hypothesis {
				features, status := c.extractText(set, []transcript.Segment{seg})
				if status != nil {
					return nil, status
				}
				if _, seen := perSegment[seg.Id]; !seen {
					segIds = append(segIds, seg.Id)
				}
				perSegment[seg.Id] = append(perSegment[seg.Id], features)
			}
		}
		for _, segId := range segIds {
			table.AddRow(segId, output.MeanAcrossHypotheses(perSegment[segId]))
		}
	}
	return table, nil
}

// groupedTextTable concatenates the segments of each group's calls and
// extracts once per hypothesis, then averages across hypotheses.
func (c *Controller) groupedTextTable(set string) (*output.Table, *log.Status) {
	table := output.NewTable(c.req.Level, set)
	for _, group := range c.groups() {
		maxHyp := 1
		for _, cd := range group.calls {
			if len(cd.hypotheses) > maxHyp {
				maxHyp = len(cd.hypotheses)
			}
		}
		var perHypothesis []map[string]float64
		for hyp := 0; hyp < maxHyp; hyp++ {
			var segments []transcript.Segment
			for _, cd := range group.calls {
				if len(cd.hypotheses) == 0 {
					continue
				}
				use := hyp
				if use >= len(cd.hypotheses) {
					use = len(cd.hypotheses) - 1
				}
				segments = append(segments, cd.hypotheses[use]...)
			}
			features, status := c.extractText(set, segments)
			if status != nil {
				return nil, status
			}
			perHypothesis = append(perHypothesis, features)
		}
		table.AddRow(group.groupId, output.MeanAcrossHypotheses(perHypothesis))
	}
	return table, nil
}

// ruminationTable builds per group self-reference emotion summaries.
// Hypotheses are zipped per segment, so the pronoun threshold adapts
// to how many hypotheses each call carries.
func (c *Controller) ruminationTable() *output.Table {
	table := output.NewTable(c.req.Level, rumination.FeatureSet)
	for _, group := range c.groups() {
		var segments []rumination.SegmentHypotheses
		for _, cd := range group.calls {
			segments = append(segments, zipHypotheses(cd.hypotheses)...)
		}
		table.AddRow(group.groupId, rumination.Extract(c.ctx, segments, c.emotions, c.liwcDict))
	}
	return table
}

// zipHypotheses regroups per hypothesis transcripts into per segment
// hypothesis sets, keyed by segment id.
func zipHypotheses(hypotheses [][]transcript.Segment) []rumination.SegmentHypotheses {
	var ids []string
	bySegment := make(map[string][]transcript.Segment)
	for _, hypothesis := range hypotheses {
		for _, seg := range hypothesis {
			if _, seen := bySegment[seg.Id]; !seen {
				ids = append(ids, seg.Id)
			}
			bySegment[seg.Id] = append(bySegment[seg.Id], seg)
		}
	}
	results := make([]rumination.SegmentHypotheses, 0, len(ids))
	for _, id := range ids {
		results = append(results, rumination.SegmentHypotheses{Id: id, Hypotheses: bySegment[id]})
	}
	return results
}

// callGroup is the loaded calls behind one output row.
type callGroup struct {
	groupId string
	calls   []*callData
}

// groups orders the loaded calls by the group ids of the requested
// level, preserving the metadata order.
func (c *Controller) groups() []callGroup {
	byCall := make(map[string]*callData, len(c.calls))
	metaCalls := make([]db.Call, len(c.calls))
	for i := range c.calls {
		byCall[c.calls[i].call.CallId] = &c.calls[i]
		metaCalls[i] = c.calls[i].call
	}
	var results []callGroup
	for _, grouped := range metadata.Group(metaCalls, c.req.Level) {
		group := callGroup{groupId: grouped.GroupId}
		for _, call := range grouped.Calls {
			group.calls = append(group.calls, byCall[call.CallId])
		}
		results = append(results, group)
	}
	return results
}

func (c *Controller) asrTables() []*output.Table {
	var tables []*output.Table
	if c.req.AsrFeatures.Confidence {
		table := output.NewTable(c.req.Level, kaldiasr.ConfidenceFeatureSet)
		for _, group := range c.groups() {
			var scores []float64
			for _, cd := range group.calls {
				scores = append(scores, cd.confScores...)
			}
			table.AddRow(group.groupId, kaldiasr.ConfidenceFeatures(scores))
		}
		tables = append(tables, table)
	}
	if c.req.AsrFeatures.Timing {
		table := output.NewTable(c.req.Level, kaldiasr.TimingFeatureSet)
		for _, group := range c.groups() {
			var times kaldiasr.Times
			var totalSec float64
			for _, cd := range group.calls {
				if !cd.times.present {
					continue
				}
				times.Merge(cd.times.times)
				totalSec += cd.times.totalSec
			}
			table.AddRow(group.groupId, kaldiasr.TimingFeatures(times, totalSec))
		}
		tables = append(tables, table)
	}
	return tables
}

// compareTable scores hypothesis agreement per call and averages the
// per call rows into the requested level. Calls with a single
// hypothesis contribute NaN rows.
func (c *Controller) compareTable() (*output.Table, *log.Status) {
	table := output.NewTable(c.req.Level, match.FeatureSet)
	var allPairs []match.Pair
	perCall := make(map[string]map[string]float64, len(c.calls))
	for i := range c.calls {
		cd := &c.calls[i]
		pairs := match.CompareHypotheses(c.ctx, cd.call.CallId, cd.hypotheses)
		allPairs = append(allPairs, pairs...)
		perCall[cd.call.CallId] = match.AgreementFeatures(pairs, len(cd.hypotheses))
	}
	if c.req.Level == request.LevelCall || c.req.Level == request.LevelSegment {
		for i := range c.calls {
			table.AddRow(c.calls[i].call.CallId, perCall[c.calls[i].call.CallId])
		}
	} else {
		for _, group := range c.groups() {
			merged := make(map[string]float64)
			names := make(map[string]bool)
			for _, cd := range group.calls {
				for name := range perCall[cd.call.CallId] {
					names[name] = true
				}
			}
			for name := range names {
				var values []float64
				for _, cd := range group.calls {
					if value, ok := perCall[cd.call.CallId][name]; ok {
						values = append(values, value)
					}
				}
				merged[name] = summary.NaNMean(values)
			}
			table.AddRow(group.groupId, merged)
		}
	}
	status := c.writeCompareReport(allPairs)
	if status != nil {
		return nil, status
	}
	return table, nil
}
