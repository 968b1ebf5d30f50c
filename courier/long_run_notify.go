package courier

import (
	"context"
	"strconv"
	"time"

	"github.com/kmatton/speech-feature-io/decode_yaml/request"
	log "github.com/kmatton/speech-feature-io/logger"
)

// LongRunNotify emails the error recipients if a run exceeds its
// estimated duration. The estimate grows with each enabled feature
// family, since the tagger and graph metrics dominate run time.
func LongRunNotify(ctx context.Context, req request.Request) chan struct{} {
	var estimateMin float64 = 5.0
	if req.TextFeatures.Graph || req.TextFeatures.POS {
		estimateMin += 30.0
	}
	if req.TextFeatures.LexicalDiversity || req.TextFeatures.LIWC || req.TextFeatures.Verbosity {
		estimateMin += 10.0
	}
	if req.AsrFeatures.Any() {
		estimateMin += 10.0
	}
	if !req.Compare.NoCompare {
		estimateMin += 10.0
	}
	estimateMin *= 2.0
	log.Info(ctx, `Process will email if runs over`, strconv.FormatFloat(estimateMin, 'g', 0, 64),
		`minutes.`)
	threshold := time.Duration(estimateMin*60.0) * time.Second
	done := make(chan struct{})
	go func() {
		select {
		case <-time.After(threshold):
			recipients := emails(req.NotifyErr)
			msg := `username: ` + req.Username + "\n" +
				`dataset_name: ` + req.DatasetName + "\n" +
				`Has been running for ` + strconv.FormatFloat(estimateMin, 'f', 1, 64) + ` minutes.`
			_ = SendEmail(ctx, recipients, `Long Running Feature Extraction`, msg, nil)
		case <-done:
			// run finished before the threshold
		}
	}()
	return done
}
