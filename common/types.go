package common

import "strings"

// CounterKey identifies one of the build/job counters reported by the
// Buildkite projects endpoint. The set is closed and does not change for
// the life of the process.
type CounterKey string

const (
	// ScheduledJobsCount counts jobs waiting for an agent
	ScheduledJobsCount CounterKey = "scheduled_jobs_count"
	// RunningJobsCount counts jobs currently executing on an agent
	RunningJobsCount CounterKey = "running_jobs_count"
	// ScheduledBuildsCount counts builds waiting to start
	ScheduledBuildsCount CounterKey = "scheduled_builds_count"
	// RunningBuildsCount counts builds currently in progress
	RunningBuildsCount CounterKey = "running_builds_count"
)

// CounterKeys is the fixed iteration order for the counter set.
// Aggregation and serialization always walk this list, never a map, so
// output is reproducible run to run.
var CounterKeys = []CounterKey{
	ScheduledJobsCount,
	RunningJobsCount,
	ScheduledBuildsCount,
	RunningBuildsCount,
}

// DisplayName derives the human-readable metric name from the snake_case
// counter key, e.g. running_builds_count becomes RunningBuildsCount.
func (k CounterKey) DisplayName() string {
	var b strings.Builder
	for _, part := range strings.Split(string(k), "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// NormalizedCounts maps every CounterKey to a non-negative value. A
// normalized set carries exactly the four recognized keys; a project
// missing a counter gets value 0 for it.
type NormalizedCounts map[CounterKey]int64

// RawProject is one decoded project object from the Buildkite API. The
// payload is open ended; only the slug and the recognized counter fields
// are used, everything else is dropped.
type RawProject map[string]interface{}

// GlobalScopeID is the scope identifier of the cross-project rollup.
const GlobalScopeID = "global"

// Dimension is a single name/value tag attached to a metric record.
// Dimensions are kept as an ordered list so wire output is deterministic.
type Dimension struct {
	Name  string
	Value string
}

// MetricRecord is one aggregated data point, scoped either to a single
// project or to the global rollup. Records are immutable after
// construction and live for a single polling cycle.
type MetricRecord struct {
	ScopeID     string
	Dimensions  []Dimension
	DisplayName string
	SourceKey   CounterKey
	Value       int64
}
