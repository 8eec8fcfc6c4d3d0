package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	agent "github.com/buildkite/cloudwatch-metrics-agent"
	"github.com/buildkite/cloudwatch-metrics-agent/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "buildkite-cloudwatch-metrics",
		Short: "Publishes Buildkite build and job counters to CloudWatch",
	}

	root.PersistentFlags().StringP("config", "c", "", "a config file to use")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.AddCommand(runCmd(), versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(agent.Version)
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll Buildkite and publish metrics until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			agentCfg, err := config.LoadAgentConfig(configFile)
			if err != nil {
				return err
			}

			cfg := config.DefaultConfig().WithProductionLogger()
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg = config.NewDebugConfig()
			}
			logger := cfg.GetLogger()
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := agent.NewFromConfig(ctx, cfg, agentCfg)
			if err != nil {
				return err
			}

			logger.Info("Starting metrics agent",
				zap.String("org", agentCfg.OrgSlug),
				zap.String("namespace", agentCfg.Namespace),
				zap.Duration("interval", agentCfg.Interval()),
				zap.String("version", agent.Version),
			)

			return a.Run(ctx)
		},
	}
}
