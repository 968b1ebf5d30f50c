package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Starts the feature extraction server when request yamls are waiting
// in the queue folder, and stops it once the folder is empty.
//
//{
//  "operation": "start", or "stop",
//   "instance_id": "i-0b22222aa0f43d1a5",
//   "bucket": "speech-feature-queue",
//   "folder": "requests/"
//}

func handler(ctx context.Context, event map[string]any) error {
	fmt.Println("Starting AWS lambda handler", event)
	operation := event["operation"].(string)
	instanceId := event["instance_id"].(string)
	bucket := event["bucket"].(string)
	folder := event["folder"].(string)
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-west-2"))
	if err != nil {
		return fmt.Errorf("error loading AWS config: %v", err)
	}
	ec2Client := ec2.NewFromConfig(cfg)
	if operation == "start_asap" {
		return startServer(ctx, ec2Client, instanceId)
	}
	if operation == "stop_asap" {
		return stopServer(ctx, ec2Client, instanceId)
	}
	serverState, err := instanceState(ctx, ec2Client, instanceId)
	if err != nil {
		return err
	}
	if serverState != "running" && serverState != "stopped" {
		return nil // transitioning, let the next scheduled run decide
	}
	pending, err := pendingRequests(ctx, s3.NewFromConfig(cfg), bucket, folder)
	if err != nil {
		return err
	}
	if operation == "start" && serverState == "stopped" && pending {
		return startServer(ctx, ec2Client, instanceId)
	}
	if operation == "stop" && serverState == "running" && !pending {
		return stopServer(ctx, ec2Client, instanceId)
	}
	return nil
}

func instanceState(ctx context.Context, client *ec2.Client, instanceId string) (string, error) {
	output, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceId},
	})
	if err != nil {
		return "", fmt.Errorf("error describing instance: %v", err)
	}
	if len(output.Reservations) == 0 || len(output.Reservations[0].Instances) == 0 {
		return "", fmt.Errorf("instance %s not found", instanceId)
	}
	instance := output.Reservations[0].Instances[0]
	if instance.State == nil {
		return "", fmt.Errorf("instance state is nil")
	}
	return string(instance.State.Name), nil
}

// pendingRequests reports whether any request yaml is waiting in the
// queue folder.
func pendingRequests(ctx context.Context, client *s3.Client, bucket string, folder string) (bool, error) {
	result, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(folder),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("error listing request queue: %v", err)
	}
	return len(result.Contents) > 0, nil
}

func startServer(ctx context.Context, client *ec2.Client, instanceId string) error {
	_, err := client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{instanceId},
	})
	if err != nil {
		return fmt.Errorf("error starting instance: %v", err)
	}
	return nil
}

func stopServer(ctx context.Context, client *ec2.Client, instanceId string) error {
	_, err := client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{instanceId},
	})
	if err != nil {
		return fmt.Errorf("error stopping instance %s: %v", instanceId, err)
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
