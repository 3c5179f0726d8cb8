package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

//{
//  "operation": "start", "stop", "start_asap" or "stop_asap",
//  "instance_id": "i-0b22222aa0f43d1a5",
//  "queue_url": "https://sqs.us-west-2.amazonaws.com/123456789/tsasr-train-queue"
//}
// instance_id and queue_url fall back to TSASR_TRAIN_INSTANCE and
// TSASR_TRAIN_QUEUE when absent from the event.

// handler starts or stops the GPU training server. The plain start/stop
// operations are gated on the training queue that passing smoke runs
// enqueue full requests to: start only when jobs are waiting, stop only
// when the queue has drained. The _asap variants act unconditionally.
func handler(ctx context.Context, event map[string]any) error {
	fmt.Println("Starting AWS lambda handler", event)
	operation, _ := event["operation"].(string)
	instanceId, err := eventString(event, "instance_id", "TSASR_TRAIN_INSTANCE")
	if err != nil {
		return err
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-west-2"))
	if err != nil {
		return fmt.Errorf("error loading AWS config: %v", err)
	}
	ec2Client := ec2.NewFromConfig(cfg)
	switch operation {
	case "start_asap":
		return startServer(ctx, ec2Client, instanceId)
	case "stop_asap":
		return stopServer(ctx, ec2Client, instanceId)
	case "start", "stop":
		var queueURL string
		queueURL, err = eventString(event, "queue_url", "TSASR_TRAIN_QUEUE")
		if err != nil {
			return err
		}
		var state ec2types.InstanceStateName
		state, err = instanceState(ctx, ec2Client, instanceId)
		if err != nil {
			return err
		}
		var waiting int
		waiting, err = queueDepth(ctx, sqs.NewFromConfig(cfg), queueURL)
		if err != nil {
			return err
		}
		switch nextAction(operation, state, waiting) {
		case "start":
			return startServer(ctx, ec2Client, instanceId)
		case "stop":
			return stopServer(ctx, ec2Client, instanceId)
		}
		return nil
	default:
		return fmt.Errorf("unknown operation %s", operation)
	}
}

// nextAction decides whether the server state should change: a stopped
// server starts only when training jobs are waiting, a running server
// stops only when the queue is empty.
func nextAction(operation string, state ec2types.InstanceStateName, waiting int) string {
	if operation == "start" && state == ec2types.InstanceStateNameStopped && waiting > 0 {
		return "start"
	}
	if operation == "stop" && state == ec2types.InstanceStateNameRunning && waiting == 0 {
		return "stop"
	}
	return "none"
}

func eventString(event map[string]any, key string, envName string) (string, error) {
	if value, ok := event[key].(string); ok && value != "" {
		return value, nil
	}
	value := os.Getenv(envName)
	if value == "" {
		return "", fmt.Errorf("%s missing from event and %s is unset", key, envName)
	}
	return value, nil
}

func instanceState(ctx context.Context, client *ec2.Client, instanceId string) (ec2types.InstanceStateName, error) {
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
		return "", fmt.Errorf("instance %s state is nil", instanceId)
	}
	return instance.State.Name, nil
}

// queueDepth returns the approximate number of requests waiting on the
// training queue.
func queueDepth(ctx context.Context, client *sqs.Client, queueURL string) (int, error) {
	output, err := client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl: aws.String(queueURL),
		AttributeNames: []sqstypes.QueueAttributeName{
			sqstypes.QueueAttributeNameApproximateNumberOfMessages,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("error reading queue attributes: %v", err)
	}
	depth, err := strconv.Atoi(output.Attributes[string(sqstypes.QueueAttributeNameApproximateNumberOfMessages)])
	if err != nil {
		return 0, fmt.Errorf("error parsing queue depth: %v", err)
	}
	return depth, nil
}

func startServer(ctx context.Context, client *ec2.Client, instanceId string) error {
	input := &ec2.StartInstancesInput{
		InstanceIds: []string{instanceId},
	}
	_, err := client.StartInstances(ctx, input)
	if err != nil {
		return fmt.Errorf("error starting instance: %v", err)
	}
	return nil
}

func stopServer(ctx context.Context, client *ec2.Client, instanceId string) error {
	input := &ec2.StopInstancesInput{
		InstanceIds: []string{instanceId},
	}
	_, err := client.StopInstances(ctx, input)
	if err != nil {
		return fmt.Errorf("error stopping instance: %v", err)
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
