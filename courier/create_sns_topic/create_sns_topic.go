package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// One time setup for the completion event topic. Put the printed ARN in
// SPEECH_FEATURE_TOPIC_ARN.

const SNSTopic = "speech_feature_events"

func main() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		panic(err)
	}
	client := sns.NewFromConfig(cfg)
	input := &sns.CreateTopicInput{
		Name: aws.String(SNSTopic),
	}
	result, err := client.CreateTopic(ctx, input)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Created topic: %s\n", *result.TopicArn)
}
