// Package publish serializes metric records into the CloudWatch wire
// shape and submits them in bounded batches.
package publish

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/buildkite/cloudwatch-metrics-agent/common"
	"github.com/buildkite/cloudwatch-metrics-agent/config"
	"github.com/buildkite/cloudwatch-metrics-agent/internal/chunk"
)

// MetricsAPI is the CloudWatch surface the publisher depends on.
type MetricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Publisher submits metric records to CloudWatch, at most BatchSize data
// points per PutMetricData call.
type Publisher struct {
	client    MetricsAPI
	namespace string
	batchSize int
	logger    *zap.Logger
}

// NewPublisher creates a publisher over the given transport client
func NewPublisher(client MetricsAPI, cfg *config.Config, agentCfg *config.AgentConfig) *Publisher {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	namespace := agentCfg.Namespace
	if namespace == "" {
		namespace = config.DefaultNamespace
	}
	batchSize := agentCfg.BatchSize
	if batchSize <= 0 || batchSize > config.MaxBatchSize {
		batchSize = config.MaxBatchSize
	}

	return &Publisher{
		client:    client,
		namespace: namespace,
		batchSize: batchSize,
		logger:    cfg.GetLogger(),
	}
}

// Publish submits records in order, one transport call per batch. A
// failed batch is logged with its index and the remaining batches are
// still attempted; the cycle counts as completed either way. Only
// context cancellation aborts the run early.
func (p *Publisher) Publish(ctx context.Context, records []common.MetricRecord) error {
	batches := chunk.Slices(records, p.batchSize)

	var failed int
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}

		input := &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: buildMetricData(batch),
		}

		out, err := p.client.PutMetricData(ctx, input)
		if err != nil {
			failed++
			p.logger.Error("Failed to publish metric batch",
				zap.Int("batch", i),
				zap.Int("size", len(batch)),
				zap.Error(err),
			)
			continue
		}

		requestID, _ := awsmiddleware.GetRequestIDMetadata(out.ResultMetadata)
		p.logger.Debug("Published metric batch",
			zap.Int("batch", i),
			zap.Int("size", len(batch)),
			zap.String("request_id", requestID),
		)
	}

	p.logger.Info("Finished publishing metrics",
		zap.String("namespace", p.namespace),
		zap.Int("records", len(records)),
		zap.Int("batches", len(batches)),
		zap.Int("failed_batches", failed),
	)

	return nil
}

// buildMetricData serializes one batch into CloudWatch metric data.
// Dimension order follows the record's dimension list.
func buildMetricData(batch []common.MetricRecord) []types.MetricDatum {
	data := make([]types.MetricDatum, 0, len(batch))
	for _, rec := range batch {
		datum := types.MetricDatum{
			MetricName: aws.String(rec.DisplayName),
			Unit:       types.StandardUnitCount,
			Value:      aws.Float64(float64(rec.Value)),
		}
		for _, dim := range rec.Dimensions {
			datum.Dimensions = append(datum.Dimensions, types.Dimension{
				Name:  aws.String(dim.Name),
				Value: aws.String(dim.Value),
			})
		}
		data = append(data, datum)
	}
	return data
}
