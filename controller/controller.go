package controller

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/kmatton/speech-feature-io/cleanup"
	"github.com/kmatton/speech-feature-io/courier"
	"github.com/kmatton/speech-feature-io/db"
	"github.com/kmatton/speech-feature-io/decode_yaml"
	"github.com/kmatton/speech-feature-io/decode_yaml/request"
	"github.com/kmatton/speech-feature-io/input"
	"github.com/kmatton/speech-feature-io/liwc"
	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/metadata"
	"github.com/kmatton/speech-feature-io/rumination"
	"github.com/kmatton/speech-feature-io/transcript"
)

// Controller runs one feature extraction request end to end: decode the
// yaml, load call metadata and transcripts, extract the requested
// feature sets, write the outputs, and persist artifacts.
type Controller struct {
	ctx       context.Context
	yamlRaw   []byte
	req       request.Request
	courier   courier.Courier
	database  db.DBAdapter
	calls     []callData
	stopwords map[string]bool
	liwcDict  *liwc.Dictionary
	emotions  map[string]map[string]float64
}

// callData is everything loaded for one call before feature extraction.
type callData struct {
	call       db.Call
	hypotheses [][]transcript.Segment
	confScores []float64
	times      timesData
}

func NewController(ctx context.Context, yamlContent []byte) Controller {
	var c Controller
	c.ctx = ctx
	c.yamlRaw = yamlContent
	c.courier = courier.NewCourier(ctx, yamlContent)
	return c
}

// Process runs the request and always sends the completion
// notification, whether the run succeeded or not.
func (c *Controller) Process() *log.Status {
	start := time.Now()
	cleanup.CleanupDownloadDirectory(c.ctx)
	status := c.processSteps()
	if c.database.DB != nil {
		c.database.Close()
	}
	persist := c.courier.PersistToBucket()
	if persist != nil && status == nil {
		status = persist
	}
	c.courier.PublishCompletion(status == nil)
	_ = c.courier.Notification(status, c.req.NotifyOk, c.req.NotifyErr, time.Since(start))
	return status
}

func (c *Controller) processSteps() *log.Status {
	decoder := decode_yaml.NewRequestDecoder(c.ctx)
	var status *log.Status
	c.req, status = decoder.Process(c.yamlRaw)
	if status != nil {
		return status
	}
	done := courier.LongRunNotify(c.ctx, c.req)
	defer close(done)
	log.Info(c.ctx, `Begin run:`, c.req.Username, c.req.DatasetName)
	if err := os.MkdirAll(c.req.OutputDir, 0755); err != nil {
		return log.Error(c.ctx, 500, err, `Error creating output directory`)
	}
	calls, status := c.loadMetadata()
	if status != nil {
		return status
	}
	status = c.loadCalls(calls)
	if status != nil {
		return status
	}
	status = c.openDatabase()
	if status != nil {
		return status
	}
	status = c.loadResources()
	if status != nil {
		return status
	}
	tables, status := c.buildTables()
	if status != nil {
		return status
	}
	return c.writeOutputs(tables)
}

func (c *Controller) loadMetadata() ([]db.Call, *log.Status) {
	metaPath, status := c.resolveFile(c.req.MetadataPath)
	if status != nil {
		return nil, status
	}
	calls, status := metadata.ReadFile(c.ctx, metaPath)
	if status != nil {
		return nil, status
	}
	calls = metadata.FilterCallType(calls, c.req.CallType)
	if len(calls) == 0 {
		return nil, log.ErrorNoErr(c.ctx, 400, `No calls of type`, string(c.req.CallType),
			`in metadata file`, c.req.MetadataPath)
	}
	log.Info(c.ctx, `Loaded metadata for`, len(calls), `calls`)
	return calls, nil
}

func (c *Controller) openDatabase() *log.Status {
	if !c.req.Output.Sqlite {
		return nil
	}
	databasePath := filepath.Join(c.req.OutputDir, c.req.DatasetName+`.db`)
	var status *log.Status
	c.database, status = db.NewDBAdapter(c.ctx, databasePath)
	if status != nil {
		return status
	}
	c.courier.AddDatabase(c.database)
	var callRecs []db.Call
	var segRecs []db.Segment
	for _, cd := range c.calls {
		callRecs = append(callRecs, cd.call)
		for hyp, segments := range cd.hypotheses {
			for _, seg := range segments {
				segRecs = append(segRecs, db.Segment{
					SegmentId: seg.Id,
					CallId:    cd.call.CallId,
					HypNum:    hyp + 1,
					BeginMS:   seg.BeginMS,
					EndMS:     seg.EndMS,
					Text:      seg.Text(),
				})
			}
		}
	}
	status = c.database.InsertCalls(callRecs)
	if status != nil {
		return status
	}
	return c.database.InsertSegments(segRecs)
}

// loadResources reads the lexicons the enabled text feature sets need.
func (c *Controller) loadResources() *log.Status {
	var status *log.Status
	if c.req.TextFeatures.StopwordsPath != `` {
		var stopPath string
		stopPath, status = c.resolveFile(c.req.TextFeatures.StopwordsPath)
		if status != nil {
			return status
		}
		c.stopwords, status = transcript.LoadStopwords(c.ctx, stopPath)
		if status != nil {
			return status
		}
	}
	if c.req.TextFeatures.LIWC || c.req.TextFeatures.Rumination {
		var dictPath string
		dictPath, status = c.resolveFile(c.req.TextFeatures.LIWCDictPath)
		if status != nil {
			return status
		}
		c.liwcDict, status = liwc.LoadDictionary(c.ctx, dictPath)
		if status != nil {
			return status
		}
	}
	if c.req.TextFeatures.Rumination && c.req.TextFeatures.EmotionPath != `` {
		var emoPath string
		emoPath, status = c.resolveFile(c.req.TextFeatures.EmotionPath)
		if status != nil {
			return status
		}
		c.emotions, status = rumination.LoadEmotions(c.ctx, emoPath)
		if status != nil {
			return status
		}
	}
	return nil
}

// resolveFile downloads one s3:// file to a temp path, and passes local
// paths through.
func (c *Controller) resolveFile(path string) (string, *log.Status) {
	if !input.IsS3Path(path) {
		return path, nil
	}
	tempDir, err := os.MkdirTemp(os.Getenv(`SPEECH_FEATURE_TMP`), `speech_input_`)
	if err != nil {
		return ``, log.Error(c.ctx, 500, err, `Error creating temp directory`)
	}
	localPath := filepath.Join(tempDir, filepath.Base(path))
	status := input.DownloadFile(c.ctx, path, localPath)
	if status != nil {
		return ``, status
	}
	return localPath, nil
}
