// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the advisory pipeline:
// stage definitions, change proposals, version records, and configuration.
// See docs/ARCHITECTURE § Project Structure.
package types

// StoreConfig holds settings for the report store.
// Per prd004-versioning R4.2.
type StoreConfig struct {
	// DataDir is the base directory for the store (contains advisory.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig holds settings shared across the CLI surface.
type PipelineConfig struct {
	// StagesFile is an optional path to a stage configuration YAML file.
	// When empty the built-in stage list is used.
	StagesFile string `json:"stages_file,omitempty" yaml:"stages_file,omitempty"`

	// DataDir is the base directory for persisted reports.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}
