package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/analyzer"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient wraps AWS SNS client for analysis notifications
type SNSClient struct {
	svc      snsAPI
	topicArn string
}

// NewSNSClient creates a new SNS client instance
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

func (c *SNSClient) Name() string { return "sns" }

// SendAlert publishes a subject/message pair to the topic
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}

	result, err := c.svc.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Debug().Str("message_id", aws.ToString(result.MessageId)).Msg("sns notification sent")
	return nil
}

// Publish sends a readable summary of a completed analysis
func (c *SNSClient) Publish(ctx context.Context, a domain.Analysis) error {
	subject := fmt.Sprintf("Carbon-Aware Scheduler: %s window ready", taskLabel(a.Task.Name))
	return c.SendAlert(ctx, subject, FormatAnalysis(a))
}

// FormatAnalysis renders the notification body for one analysis.
func FormatAnalysis(a domain.Analysis) string {
	return fmt.Sprintf(
		"Task Analysis Result\n\n"+
			"Task: %s\n"+
			"Duration: %d h\n"+
			"Resource: %s\n"+
			"Recommended Window: %s\n"+
			"Carbon Reduction: %.2f%%\n"+
			"CO2 Saved: %.2f kg\n"+
			"Current Intensity: %d gCO2/kWh\n"+
			"Optimized Intensity: %d gCO2/kWh\n"+
			"Confidence: %s\n"+
			"Analysis ID: %s",
		taskLabel(a.Task.Name),
		a.Task.DurationHours,
		a.Task.Tier,
		analyzer.WindowLabel(a.Result.WindowStart, a.Result.WindowEnd),
		a.Result.ReductionPercent,
		a.Result.CO2SavedKg,
		a.Sample.BaseIntensity,
		a.Sample.OptimizedIntensity,
		a.Confidence,
		a.ID,
	)
}

func taskLabel(name string) string {
	if name == "" {
		return "untitled task"
	}
	return name
}
