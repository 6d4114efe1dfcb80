package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TuSKan/go-geometry/repository"
)

// app holds the global flags and what setup derives from them.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	bucketURL  string

	logger *slog.Logger
	repo   *repository.Repository
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "geomctl",
		Short:             "Geometry toolkit",
		Long:              "Parse, inspect, merge and address geometries, and keep named geometries in a blob bucket.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "repository config file (YAML)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format: text, json")

	root.AddCommand(
		a.encodeCmd(),
		a.sizeCmd(),
		a.mergeCmd(),
		a.locateCmd(),
		a.cellsCmd(),
		a.catalogCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger = newLogger(a.logLevel, a.logFormat, cmd.ErrOrStderr())

	cfg := repository.DefaultConfig()
	if a.configPath != "" {
		f, err := os.Open(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		if cfg, err = repository.LoadConfig(f); err != nil {
			return err
		}
	}

	repo, err := repository.New(cfg, repository.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.repo = repo
	a.logger.Debug("repository ready", "max_weight", cfg.MaxWeight, "concurrency", cfg.Concurrency)
	return nil
}
