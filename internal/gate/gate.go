// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gate decides which pipeline stages may run. A stage is runnable
// when its prerequisite stage has recorded output and, for status-gated
// prerequisites, that output parses to a complete verdict. Unparseable
// verdicts permit: blocking on them would strand every dossier produced
// before verdicts were structured.
// Implements: prd003-stage-gating (R1-R4);
//
//	docs/ARCHITECTURE § Stage Gating.
package gate

import (
	"fmt"

	"github.com/pdiddy/advisory-engine/internal/extract"
	"github.com/pdiddy/advisory-engine/pkg/types"
)

// OutputSource supplies the recorded raw output of a stage. The second
// return reports whether the stage has run at all; an empty string with
// true is valid recorded output.
type OutputSource interface {
	RawOutput(stageKey string) (string, bool)
}

// MapSource is an in-memory OutputSource keyed by stage.
type MapSource map[string]string

func (m MapSource) RawOutput(stageKey string) (string, bool) {
	raw, ok := m[stageKey]
	return raw, ok
}

// Gate evaluates stage runnability against an output source. The stage
// list is validated once at construction and never mutated.
type Gate struct {
	stages []types.StageDefinition
	index  map[string]types.StageDefinition
	source OutputSource
}

// New builds a gate over a validated stage pipeline.
func New(stages []types.StageDefinition, source OutputSource) (*Gate, error) {
	if err := types.ValidateStages(stages); err != nil {
		return nil, fmt.Errorf("building gate: %w", err)
	}
	index := make(map[string]types.StageDefinition, len(stages))
	for _, st := range stages {
		index[st.Key] = st
	}
	return &Gate{stages: stages, index: index, source: source}, nil
}

// CanRun reports whether the stage may run now.
func (g *Gate) CanRun(stageKey string) (bool, error) {
	reason, err := g.BlockReason(stageKey)
	if err != nil {
		return false, err
	}
	return reason == "", nil
}

// BlockReason returns a human-readable reason the stage is blocked, or the
// empty string when it may run. The error is reserved for unknown stage
// keys. Per R2.
func (g *Gate) BlockReason(stageKey string) (string, error) {
	st, ok := g.index[stageKey]
	if !ok {
		return "", fmt.Errorf("unknown stage %q", stageKey)
	}
	if st.DependsOn == "" {
		return "", nil
	}

	dep := g.index[st.DependsOn]
	raw, ran := g.source.RawOutput(dep.Key)
	if !ran {
		return fmt.Sprintf("prerequisite stage %s has not run", dep.Key), nil
	}
	if dep.Gate != types.GateStatus {
		return "", nil
	}

	// R2.2, R2.3: only an explicit incomplete verdict blocks. Complete
	// permits; unparseable output permits as well.
	outcome := extract.ParseStatus(raw)
	if outcome.Kind != extract.StatusIncomplete {
		return "", nil
	}
	if outcome.FollowUpSubject != "" {
		return fmt.Sprintf("stage %s reported an incomplete dossier, clarification requested: %s",
			dep.Key, outcome.FollowUpSubject), nil
	}
	return fmt.Sprintf("stage %s reported an incomplete dossier", dep.Key), nil
}

// Verdict parses the recorded output of a status-gated stage. The second
// return is false when the stage is unknown, has no recorded output, or
// carries no gate.
func (g *Gate) Verdict(stageKey string) (extract.StatusOutcome, bool) {
	st, ok := g.index[stageKey]
	if !ok || st.Gate != types.GateStatus {
		return extract.StatusOutcome{}, false
	}
	raw, ran := g.source.RawOutput(stageKey)
	if !ran {
		return extract.StatusOutcome{}, false
	}
	return extract.ParseStatus(raw), true
}

// Summary returns the dossier summary from a gating stage's complete
// verdict. Per R3.
func (g *Gate) Summary(stageKey string) (string, bool) {
	outcome, ok := g.Verdict(stageKey)
	if !ok || outcome.Kind != extract.StatusComplete {
		return "", false
	}
	return outcome.Summary, true
}

// InvalidateAfter returns the stages whose recorded work is stale once the
// given stage is re-run: every stage strictly after it in pipeline order.
// Per R4.
func (g *Gate) InvalidateAfter(stageKey string) []string {
	return CascadeAfter(g.stages, stageKey)
}

// CascadeAfter returns the keys of all stages strictly after stageKey in
// pipeline order, nil when the key is unknown or last.
func CascadeAfter(stages []types.StageDefinition, stageKey string) []string {
	at := -1
	for i, st := range stages {
		if st.Key == stageKey {
			at = i
			break
		}
	}
	if at < 0 {
		return nil
	}
	var keys []string
	for _, st := range stages[at+1:] {
		keys = append(keys, st.Key)
	}
	return keys
}
