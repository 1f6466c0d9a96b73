package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/smartmatch/internal/config"
	logpkg "github.com/kailas-cloud/smartmatch/internal/logger"
	"github.com/kailas-cloud/smartmatch/internal/version"
)

// Flags shared by every subcommand.
var (
	envName    string
	configPath string
	logLevel   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartmatch",
		Short:         "Turn natural-language product queries into structured facets",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envName, "env", config.GetEnv(), "environment: local, docker, prod")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: config/<env>.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	root.AddCommand(newServeCmd(), newSchemaCmd(), newParseCmd())
	return root
}

// loadConfig reads the config selected by --config or --env.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load(envName)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logpkg.New(envName, logpkg.Options{Level: level, Service: "smartmatch"})
}
