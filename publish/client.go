package publish

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/buildkite/cloudwatch-metrics-agent/config"
)

// NewCloudWatchClient builds the CloudWatch client from agent
// configuration. Region and credentials fall back to the SDK's default
// resolution chain when not set explicitly.
func NewCloudWatchClient(ctx context.Context, agentCfg *config.AgentConfig) (*cloudwatch.Client, error) {
	var configOptions []func(*awsconfig.LoadOptions) error

	if agentCfg.Region != "" {
		configOptions = append(configOptions, awsconfig.WithRegion(agentCfg.Region))
	}

	if a := agentCfg.AWS; a != nil && a.AccessKey != "" && a.SecretAccessKey != "" {
		staticCredentials := credentials.NewStaticCredentialsProvider(
			a.AccessKey,
			a.SecretAccessKey,
			a.SessionToken,
		)
		configOptions = append(configOptions, awsconfig.WithCredentialsProvider(staticCredentials))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Assume role takes precedence over static credentials
	if a := agentCfg.AWS; a != nil && a.AssumeRoleARN != "" {
		cfg.Credentials = aws.NewCredentialsCache(
			stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), a.AssumeRoleARN))
	}

	return cloudwatch.NewFromConfig(cfg), nil
}
