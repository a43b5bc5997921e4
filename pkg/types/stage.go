// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// GateKind selects how a stage's output affects downstream progression.
// Per prd003-stage-gating R1.1.
type GateKind string

const (
	// GateNone means the stage's output carries no gating verdict.
	GateNone GateKind = "none"

	// GateStatus means the stage's output parses to a status verdict that
	// blocks later stages unless complete.
	GateStatus GateKind = "statusGate"
)

// Default stage keys for the advisory pipeline.
const (
	StageIntake          = "intake"
	StageConcept         = "concept"
	StageReviewFiscaal   = "review_fiscaal"
	StageReviewJuridisch = "review_juridisch"
	StageFinal           = "final"
)

// StageDefinition is static metadata for one pipeline stage. Definitions are
// loaded once and never mutated at runtime. Per prd003-stage-gating R1.1.
type StageDefinition struct {
	// Key identifies the stage. Must not collide with the reserved
	// version-document keys. Per prd004-versioning R1.3.
	Key string `json:"key" yaml:"key"`

	// Ordinal is the stage's position in the pipeline, dense from zero.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// DependsOn names the prerequisite stage, empty for the first stage.
	DependsOn string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`

	// Gate selects the gating behavior of this stage's output.
	Gate GateKind `json:"gate" yaml:"gate"`

	// Reviewer marks specialist review stages. Reviewer stages never carry
	// primary document content. Per prd004-versioning R2.3.
	Reviewer bool `json:"reviewer,omitempty" yaml:"reviewer,omitempty"`

	// Primary marks the distinguished primary generation stage used as the
	// latest-resolution fallback. Per prd004-versioning R2.2.
	Primary bool `json:"primary,omitempty" yaml:"primary,omitempty"`
}

// DefaultStages returns the built-in advisory pipeline:
// intake → concept → review_fiscaal → review_juridisch → final.
func DefaultStages() []StageDefinition {
	return []StageDefinition{
		{Key: StageIntake, Ordinal: 0, Gate: GateStatus},
		{Key: StageConcept, Ordinal: 1, DependsOn: StageIntake, Gate: GateNone, Primary: true},
		{Key: StageReviewFiscaal, Ordinal: 2, DependsOn: StageConcept, Gate: GateNone, Reviewer: true},
		{Key: StageReviewJuridisch, Ordinal: 3, DependsOn: StageReviewFiscaal, Gate: GateNone, Reviewer: true},
		{Key: StageFinal, Ordinal: 4, DependsOn: StageReviewJuridisch, Gate: GateNone},
	}
}

// stagesFile is the on-disk shape of a stage configuration file.
type stagesFile struct {
	Stages []StageDefinition `yaml:"stages"`
}

// LoadStages reads and validates a stage configuration from a YAML file.
// Per prd003-stage-gating R1.1.
func LoadStages(path string) ([]StageDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stages file: %w", err)
	}
	var f stagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing stages file: %w", err)
	}
	if err := ValidateStages(f.Stages); err != nil {
		return nil, fmt.Errorf("invalid stages in %s: %w", path, err)
	}
	return f.Stages, nil
}

// ValidateStages checks a stage list for structural consistency.
// Per prd003-stage-gating R1.2.
func ValidateStages(stages []StageDefinition) error {
	if len(stages) == 0 {
		return fmt.Errorf("no stages defined")
	}

	seen := make(map[string]bool, len(stages))
	gates := 0
	primaries := 0

	for i, st := range stages {
		if st.Key == "" {
			return fmt.Errorf("stage %d: empty key", i)
		}
		if st.Key == VersionKeyLatest || st.Key == VersionKeyHistory {
			return fmt.Errorf("stage %d: key %q is reserved", i, st.Key)
		}
		if seen[st.Key] {
			return fmt.Errorf("duplicate stage key %q", st.Key)
		}
		seen[st.Key] = true

		if st.Ordinal != i {
			return fmt.Errorf("stage %q: ordinal %d, want %d", st.Key, st.Ordinal, i)
		}

		switch {
		case i == 0 && st.DependsOn != "":
			return fmt.Errorf("stage %q: first stage cannot depend on %q", st.Key, st.DependsOn)
		case i > 0 && st.DependsOn != "" && !seen[st.DependsOn]:
			return fmt.Errorf("stage %q: depends on %q which is not an earlier stage", st.Key, st.DependsOn)
		}

		switch st.Gate {
		case GateNone, GateStatus:
		default:
			return fmt.Errorf("stage %q: unknown gate kind %q", st.Key, st.Gate)
		}
		if st.Gate == GateStatus {
			gates++
		}
		if st.Primary {
			primaries++
			if st.Reviewer {
				return fmt.Errorf("stage %q: reviewer stage cannot be primary", st.Key)
			}
		}
	}

	if gates > 1 {
		return fmt.Errorf("%d status-gating stages, want at most 1", gates)
	}
	if primaries > 1 {
		return fmt.Errorf("%d primary stages, want at most 1", primaries)
	}
	return nil
}
