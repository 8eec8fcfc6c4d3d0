// Package agent polls the Buildkite projects endpoint on a fixed
// interval, aggregates per-project and global build/job counters, and
// publishes them to AWS CloudWatch in bounded batches.
//
// # Getting started
//
//	go get github.com/buildkite/cloudwatch-metrics-agent
//
// # Running the agent
//
// The agent needs a Buildkite API token and an organization slug, read
// from the environment, and AWS credentials resolved through the SDK's
// default chain.
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    agent "github.com/buildkite/cloudwatch-metrics-agent"
//	    "github.com/buildkite/cloudwatch-metrics-agent/config"
//	)
//
//	func main() {
//	    agentCfg, err := config.LoadAgentConfig("")
//	    if err != nil {
//	        log.Fatalf("Failed to load configuration: %v", err)
//	    }
//
//	    cfg := config.DefaultConfig().WithProductionLogger()
//
//	    a, err := agent.NewFromConfig(context.Background(), cfg, agentCfg)
//	    if err != nil {
//	        log.Fatalf("Failed to build agent: %v", err)
//	    }
//
//	    if err := a.Run(context.Background()); err != nil {
//	        log.Fatalf("Agent stopped: %v", err)
//	    }
//	}
//
// Every cycle fetches one page of project records, expands each project
// into four counter metrics plus a cross-project rollup under the
// "global" scope, and submits the result to CloudWatch twenty data
// points at a time. A failed batch is logged and the remaining batches
// are still attempted; a failed fetch ends the run so a supervisor can
// restart the process.
package agent
