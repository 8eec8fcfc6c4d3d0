// Package buildkite implements the project source against the Buildkite
// REST API.
package buildkite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/buildkite/cloudwatch-metrics-agent/common"
	"github.com/buildkite/cloudwatch-metrics-agent/config"
	"github.com/buildkite/cloudwatch-metrics-agent/source"
)

// pageSize is the Buildkite projects page limit. One page is fetched per
// cycle; organizations beyond 100 projects need pagination, which the
// agent does not implement.
const pageSize = 100

const defaultTimeout = 30 * time.Second

// Client fetches project records from the Buildkite API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	org        string
	logger     *zap.Logger
}

var _ source.ProjectSource = (*Client)(nil)

// NewClient creates a Buildkite project source from agent configuration
func NewClient(agentCfg *config.AgentConfig, cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		endpoint:   agentCfg.Endpoint,
		token:      agentCfg.APIToken,
		org:        agentCfg.OrgSlug,
		logger:     cfg.GetLogger(),
	}
}

// Projects implements source.ProjectSource. A transport failure, a
// non-200 status, or a malformed body all fail the cycle; the agent does
// not retry.
func (c *Client) Projects(ctx context.Context) ([]common.RawProject, error) {
	url := fmt.Sprintf("%s/organizations/%s/projects?per_page=%d", c.endpoint, c.org, pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build projects request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("projects request returned status %d", resp.StatusCode)
	}

	var projects []common.RawProject
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects response: %w", err)
	}

	c.logger.Debug("Fetched project records",
		zap.String("org", c.org),
		zap.Int("count", len(projects)),
	)

	return projects, nil
}
