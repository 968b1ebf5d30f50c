package courier

import (
	"os"
	"testing"
	"time"
)

// CompletionEvent is the message published when a run finishes, so a
// downstream stage can pick up the uploaded feature files.
type CompletionEvent struct {
	Username   string   `json:"username"`
	Dataset    string   `json:"dataset"`
	Run        int      `json:"run"`
	Succeeded  bool     `json:"succeeded"`
	OutputKeys []string `json:"output_keys"`
	FinishedAt string   `json:"finished_at"`
}

// PublishCompletion sends the event to the configured topic and queue.
// Either destination may be unset.
func (c *Courier) PublishCompletion(succeeded bool) {
	if testing.Testing() && !c.IsUnitTest {
		return
	}
	event := CompletionEvent{
		Username:   c.username,
		Dataset:    c.dataset,
		Run:        c.run,
		Succeeded:  succeeded,
		OutputKeys: c.outputKeys,
		FinishedAt: time.Now().Format(time.RFC3339),
	}
	if topicArn := os.Getenv(`SPEECH_FEATURE_TOPIC_ARN`); topicArn != `` {
		_, _ = PublishSNSMessage(c.ctx, topicArn, `Feature extraction finished`, event)
	}
	if queueURL := os.Getenv(`SPEECH_FEATURE_QUEUE_URL`); queueURL != `` {
		_, _ = SQSEnqueue(c.ctx, queueURL, event)
	}
}
