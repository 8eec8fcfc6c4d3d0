// Package aggregate turns raw project records into the complete,
// normalized metric set for one polling cycle: four counters per project
// plus a four-counter global rollup.
package aggregate

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/buildkite/cloudwatch-metrics-agent/common"
	"github.com/buildkite/cloudwatch-metrics-agent/config"
	"github.com/buildkite/cloudwatch-metrics-agent/internal/utils"
)

// slugField is the project identifier field in the raw record.
const slugField = "slug"

// projectDimension is the dimension name attached to project-scoped
// metric records.
const projectDimension = "Project"

// Normalize projects the recognized counters out of one raw record,
// filling absent counters with zero. Unrecognized fields are dropped
// silently. It fails when the record has no usable slug, which is a
// contract violation by the upstream source.
func Normalize(p common.RawProject) (string, common.NormalizedCounts, error) {
	slug, ok := p[slugField].(string)
	if !ok {
		return "", nil, fmt.Errorf("project record has no slug field")
	}
	if err := utils.ValidateSlug(slug); err != nil {
		return "", nil, fmt.Errorf("project record has invalid slug: %w", err)
	}

	counts := make(common.NormalizedCounts, len(common.CounterKeys))
	for _, key := range common.CounterKeys {
		counts[key] = counterValue(p[string(key)])
	}
	return slug, counts, nil
}

// counterValue coerces a decoded JSON field to a counter value. Anything
// that is not a non-negative number counts as absent.
func counterValue(v interface{}) int64 {
	var n int64
	switch t := v.(type) {
	case float64:
		n = int64(t)
	case int:
		n = int64(t)
	case int64:
		n = t
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0
		}
		n = i
	default:
		return 0
	}

	if n < 0 {
		return 0
	}
	return n
}

// Aggregator expands raw project records into per-project metric records
// and folds them into the global rollup.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(cfg *config.Config) *Aggregator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Aggregator{logger: cfg.GetLogger()}
}

// Aggregate produces the full ordered metric sequence for one cycle:
// four records per project in input order, followed by the four global
// rollup records, both walking common.CounterKeys. A record with no
// usable slug is skipped with a warning and does not contribute to the
// rollup.
func (a *Aggregator) Aggregate(projects []common.RawProject) []common.MetricRecord {
	records := make([]common.MetricRecord, 0, (len(projects)+1)*len(common.CounterKeys))

	totals := make(common.NormalizedCounts, len(common.CounterKeys))
	for _, key := range common.CounterKeys {
		totals[key] = 0
	}

	for _, p := range projects {
		slug, counts, err := Normalize(p)
		if err != nil {
			a.logger.Warn("Skipping malformed project record", zap.Error(err))
			continue
		}

		scope := utils.SanitizeSlug(slug)
		for _, key := range common.CounterKeys {
			records = append(records, common.MetricRecord{
				ScopeID:     scope,
				Dimensions:  []common.Dimension{{Name: projectDimension, Value: scope}},
				DisplayName: key.DisplayName(),
				SourceKey:   key,
				Value:       counts[key],
			})
			totals[key] += counts[key]
		}
	}

	for _, key := range common.CounterKeys {
		records = append(records, common.MetricRecord{
			ScopeID:     common.GlobalScopeID,
			DisplayName: key.DisplayName(),
			SourceKey:   key,
			Value:       totals[key],
		})
	}

	return records
}
