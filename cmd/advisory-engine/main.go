// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the advisory-engine CLI.
// Implements: prd001-extraction, prd002-proposal-mining,
//             prd003-stage-gating, prd004-versioning (CLI surface).
// See docs/ARCHITECTURE § Pipeline, § Project Structure.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/advisory-engine/internal/ledger"
	"github.com/pdiddy/advisory-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the advisory-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "advisory-engine",
	Short: "Infrastructure for AI-drafted financial advisory reports",
	Long: `advisory-engine provides infrastructure for generating long-form advisory
reports with generative-AI stages. Models draft and review the documents;
the CLI handles verdict extraction, proposal mining, stage gating, and
version tracking.

Each concern is a subcommand: status parses intake verdicts, mine segments
reviewer feedback into change proposals, gate reports which stages may run,
and versions manages the per-report document ledger.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./advisory-engine.yaml or ~/.config/advisory-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("advisory-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "advisory-engine"))
		}
	}

	viper.SetDefault("data_dir", "data")
	viper.SetDefault("stages_file", "")

	viper.SetEnvPrefix("ADVISORY_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig collects the CLI-wide settings from viper.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		StagesFile: viper.GetString("stages_file"),
		DataDir:    viper.GetString("data_dir"),
	}
}

// pipelineStages loads the configured stage pipeline, falling back to the
// built-in advisory pipeline.
func pipelineStages() ([]types.StageDefinition, error) {
	if cfg := pipelineConfig(); cfg.StagesFile != "" {
		return types.LoadStages(cfg.StagesFile)
	}
	return types.DefaultStages(), nil
}

// openStore opens the version store under the configured data directory.
func openStore() (*ledger.Store, []types.StageDefinition, error) {
	stages, err := pipelineStages()
	if err != nil {
		return nil, nil, err
	}
	store, err := ledger.NewStore(types.StoreConfig{DataDir: pipelineConfig().DataDir}, stages)
	if err != nil {
		return nil, nil, err
	}
	return store, stages, nil
}

// readInput returns the contents of the named file, or stdin for "-" and
// missing arguments.
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
