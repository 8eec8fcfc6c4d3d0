package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/buildkite/cloudwatch-metrics-agent/aggregate"
	"github.com/buildkite/cloudwatch-metrics-agent/common"
	"github.com/buildkite/cloudwatch-metrics-agent/config"
	"github.com/buildkite/cloudwatch-metrics-agent/publish"
	"github.com/buildkite/cloudwatch-metrics-agent/source"
	"github.com/buildkite/cloudwatch-metrics-agent/source/buildkite"
)

// Version information
const (
	Version = "v0.1.0"
)

// Re-export main types for user convenience
type (
	// Config common configuration
	Config = config.Config
	// AgentConfig agent configuration
	AgentConfig = config.AgentConfig
	// MetricRecord one aggregated data point
	MetricRecord = common.MetricRecord
	// ProjectSource upstream project-status capability
	ProjectSource = source.ProjectSource
)

// Re-export main functions
var (
	// DefaultConfig creates default configuration
	DefaultConfig = config.DefaultConfig
	// NewDebugConfig creates debug configuration
	NewDebugConfig = config.NewDebugConfig
	// NewAgentConfig creates agent configuration with defaults
	NewAgentConfig = config.NewAgentConfig
	// LoadAgentConfig loads and validates agent configuration
	LoadAgentConfig = config.LoadAgentConfig
)

// SleepFunc delays between polling cycles. Implementations return early
// with the context error when the context is cancelled.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Agent runs the fetch, aggregate, publish cycle on a fixed cadence.
// Cycles never overlap; the next fetch starts only after the previous
// publish phase and the delay have completed.
type Agent struct {
	source     source.ProjectSource
	aggregator *aggregate.Aggregator
	publisher  *publish.Publisher
	interval   time.Duration
	sleep      SleepFunc
	logger     *zap.Logger
}

// New builds an Agent from explicit collaborators.
func New(src source.ProjectSource, pub *publish.Publisher, cfg *config.Config, agentCfg *config.AgentConfig) *Agent {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Agent{
		source:     src,
		aggregator: aggregate.NewAggregator(cfg),
		publisher:  pub,
		interval:   agentCfg.Interval(),
		sleep:      sleepWithContext,
		logger:     cfg.GetLogger(),
	}
}

// NewFromConfig builds an Agent with the real Buildkite source and
// CloudWatch transport. The configuration is validated before any cycle
// runs.
func NewFromConfig(ctx context.Context, cfg *config.Config, agentCfg *config.AgentConfig) (*Agent, error) {
	if err := agentCfg.Validate(); err != nil {
		return nil, err
	}

	client, err := publish.NewCloudWatchClient(ctx, agentCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build CloudWatch client: %w", err)
	}

	src := buildkite.NewClient(agentCfg, cfg)
	pub := publish.NewPublisher(client, cfg, agentCfg)
	return New(src, pub, cfg, agentCfg), nil
}

// WithSleep replaces the inter-cycle delay, letting tests drive cycles
// without real time.
func (a *Agent) WithSleep(sleep SleepFunc) *Agent {
	a.sleep = sleep
	return a
}

// RunOnce executes a single cycle: fetch, aggregate, publish. A fetch
// failure fails the cycle; failed publish batches do not.
func (a *Agent) RunOnce(ctx context.Context) error {
	projects, err := a.source.Projects(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch project records: %w", err)
	}

	records := a.aggregator.Aggregate(projects)
	a.logger.Info("Aggregated project metrics",
		zap.Int("projects", len(projects)),
		zap.Int("records", len(records)),
	)

	return a.publisher.Publish(ctx, records)
}

// Run executes cycles until the context is cancelled or a cycle fails.
// A fetch error propagates out so a supervisor can restart the process;
// cancellation between cycles ends the run cleanly.
func (a *Agent) Run(ctx context.Context) error {
	for {
		if err := a.RunOnce(ctx); err != nil {
			return err
		}
		if err := a.sleep(ctx, a.interval); err != nil {
			return nil
		}
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
