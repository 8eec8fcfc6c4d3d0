// Package source defines the upstream project-status capability the
// polling pipeline reads from.
package source

import (
	"context"

	"github.com/buildkite/cloudwatch-metrics-agent/common"
)

// ProjectSource returns the organization's project records for one
// polling cycle.
type ProjectSource interface {
	// Projects fetches the current project records
	Projects(ctx context.Context) ([]common.RawProject, error)
}
