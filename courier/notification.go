package courier

import (
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	log "github.com/kmatton/speech-feature-io/logger"
)

// Notification tells the requester how the run ended, by text message
// for phone numbers and email for addresses in the notify lists.
func (c *Courier) Notification(status *log.Status, notifyOk []string, notifyErr []string,
	duration time.Duration) *log.Status {
	var st *log.Status
	if !testing.Testing() || c.IsUnitTest {
		var subject string
		var message string
		var targets []string
		if status == nil {
			subject = `SUCCESS: ` + c.dataset
			message = c.successMsg(duration)
			targets = notifyOk
		} else {
			subject = `FAILED: ` + c.dataset
			message = c.failureMsg(status, duration)
			targets = notifyErr
		}
		st = SendMessage(c.ctx, phones(targets), subject, message)
		st = SendEmail(c.ctx, emails(targets), subject, message, c.GetOutputByExt(`.csv`))
	}
	return st
}

func (c *Courier) failureMsg(status *log.Status, duration time.Duration) string {
	var message []string
	message = append(message, `FAILED: `+c.dataset)
	message = append(message, status.Message)
	message = append(message, `Duration: `+duration.String())
	message = append(message, status.Trace)
	message = append(message, status.Request)
	return strings.Join(message, "\n")
}

func (c *Courier) successMsg(duration time.Duration) string {
	var message []string
	message = append(message, `SUCCESS: `+c.dataset)
	message = append(message, `Duration: `+duration.String())
	presign, status := c.presignClient()
	if status == nil {
		for i, output := range c.outputs {
			message = append(message, output)
			if i < len(c.outputKeys) {
				message = append(message, c.genPresignedURL(presign, c.outputKeys[i]))
			}
		}
	}
	return strings.Join(message, "\n")
}

func (c *Courier) presignClient() (*s3.PresignClient, *log.Status) {
	cfg, err := config.LoadDefaultConfig(c.ctx, config.WithRegion(`us-west-2`))
	if err != nil {
		return nil, log.Error(c.ctx, 500, err, `unable to create S3 presign client`)
	}
	return s3.NewPresignClient(s3.NewFromConfig(cfg)), nil
}

// genPresignedURL signs a download link for an uploaded output. Seven
// days is the longest expiry SigV4 allows.
func (c *Courier) genPresignedURL(presign *s3.PresignClient, key string) string {
	request, err := presign.PresignGetObject(c.ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(7*24*time.Hour))
	if err != nil {
		log.Warn(c.ctx, err, `unable to sign URL for`, key)
		return ``
	}
	return request.URL
}

func phones(addresses []string) []string {
	var result []string
	for _, a := range addresses {
		if strings.HasPrefix(a, `+`) {
			result = append(result, a)
		}
	}
	return result
}

func emails(addresses []string) []string {
	var result []string
	for _, a := range addresses {
		if strings.Contains(a, `@`) {
			result = append(result, a)
		}
	}
	return result
}
