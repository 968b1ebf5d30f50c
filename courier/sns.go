package courier

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	log "github.com/kmatton/speech-feature-io/logger"
)

// SendMessage sends a text message to each phone number.
func SendMessage(ctx context.Context, recipients []string, subject string, msg string) *log.Status {
	if len(recipients) == 0 {
		return nil
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(`us-west-2`))
	if err != nil {
		return log.Error(ctx, 500, err, `Failed to load AWS config to send message`)
	}
	client := sns.NewFromConfig(cfg)
	for _, phone := range recipients {
		input := &sns.PublishInput{
			Subject:     aws.String(subject),
			Message:     aws.String(msg),
			PhoneNumber: aws.String(phone),
		}
		result, err := client.Publish(ctx, input)
		if err != nil {
			log.Warn(ctx, err, `Failed to send message to SNS`)
			continue
		}
		log.Info(ctx, `message Sent`, *result.MessageId)
	}
	return nil
}
