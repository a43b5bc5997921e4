// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger tracks advisory document versions. A report's document is
// a map of stage keys to their current content plus a version pointer and
// an append-only history; versions are monotonic across the whole report
// and never reused, even after content is removed.
// Implements: prd004-versioning (R1-R4);
//
//	docs/ARCHITECTURE § Versioning.
package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/advisory-engine/pkg/types"
)

// Document is the in-memory version ledger of one report. Not safe for
// concurrent use; the store serializes access per report.
type Document struct {
	contents map[string]string
	pointer  *types.VersionPointer
	history  []types.VersionHistoryEntry
	stages   []types.StageDefinition
	index    map[string]types.StageDefinition
}

// NewDocument builds an empty ledger over a validated stage pipeline.
func NewDocument(stages []types.StageDefinition) (*Document, error) {
	if err := types.ValidateStages(stages); err != nil {
		return nil, fmt.Errorf("building document: %w", err)
	}
	index := make(map[string]types.StageDefinition, len(stages))
	for _, st := range stages {
		index[st.Key] = st
	}
	return &Document{
		contents: make(map[string]string),
		stages:   stages,
		index:    index,
	}, nil
}

// Record captures new content for a stage: the stage's current content is
// replaced, a history entry is appended, and the pointer moves to the new
// version. Per R1.
func (d *Document) Record(stageKey, content string) (types.ConceptSnapshot, error) {
	if stageKey == types.VersionKeyLatest || stageKey == types.VersionKeyHistory {
		return types.ConceptSnapshot{}, fmt.Errorf("stage key %q is reserved", stageKey)
	}
	if _, ok := d.index[stageKey]; !ok {
		return types.ConceptSnapshot{}, fmt.Errorf("unknown stage %q", stageKey)
	}

	snap := types.ConceptSnapshot{
		StageKey:  stageKey,
		Version:   d.maxVersion() + 1,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	d.contents[stageKey] = content
	d.history = append(d.history, types.VersionHistoryEntry{
		StageKey:  snap.StageKey,
		Version:   snap.Version,
		Timestamp: snap.Timestamp,
	})
	d.pointer = &types.VersionPointer{StageKey: snap.StageKey, Version: snap.Version}
	return snap, nil
}

// Restore moves the pointer back to the stage that produced the given
// history version. Restoring is itself a recorded event: it appends a new
// history entry under a fresh version rather than rewriting the past.
//
// The document keeps a single content per stage, so the snapshot carries
// the stage's current content: restoring an older version of a stage that
// was recorded again since resolves to the newest text, not the text that
// version originally held. Per R3.
func (d *Document) Restore(version int) (types.ConceptSnapshot, error) {
	var target *types.VersionHistoryEntry
	for i := range d.history {
		if d.history[i].Version == version {
			target = &d.history[i]
			break
		}
	}
	if target == nil {
		return types.ConceptSnapshot{}, fmt.Errorf("version %d not in history", version)
	}

	content, ok := d.contents[target.StageKey]
	if !ok {
		return types.ConceptSnapshot{}, fmt.Errorf("stage %s of version %d has no content", target.StageKey, version)
	}

	snap := types.ConceptSnapshot{
		StageKey:  target.StageKey,
		Version:   d.maxVersion() + 1,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	d.history = append(d.history, types.VersionHistoryEntry{
		StageKey:  snap.StageKey,
		Version:   snap.Version,
		Timestamp: snap.Timestamp,
	})
	d.pointer = &types.VersionPointer{StageKey: snap.StageKey, Version: snap.Version}
	return snap, nil
}

// Latest resolves the authoritative document content: the pointer's stage
// when it still has content, then the primary stage, then the first
// non-reviewer stage with non-empty content in pipeline order. Per R2.
func (d *Document) Latest() (types.ConceptSnapshot, bool) {
	if d.pointer != nil {
		if content, ok := d.contents[d.pointer.StageKey]; ok {
			return d.snapshotFor(d.pointer.StageKey, content), true
		}
	}

	for _, st := range d.stages {
		if !st.Primary {
			continue
		}
		if content, ok := d.contents[st.Key]; ok {
			return d.snapshotFor(st.Key, content), true
		}
	}

	// Reviewer stages never carry the document itself, and an empty
	// recorded string is not readable content.
	for _, st := range d.stages {
		if st.Reviewer {
			continue
		}
		if content, ok := d.contents[st.Key]; ok && content != "" {
			return d.snapshotFor(st.Key, content), true
		}
	}
	return types.ConceptSnapshot{}, false
}

// snapshotFor rebuilds a snapshot view of a stage's current content from
// its newest history entry.
func (d *Document) snapshotFor(stageKey, content string) types.ConceptSnapshot {
	snap := types.ConceptSnapshot{StageKey: stageKey, Content: content}
	for i := len(d.history) - 1; i >= 0; i-- {
		if d.history[i].StageKey == stageKey {
			snap.Version = d.history[i].Version
			snap.Timestamp = d.history[i].Timestamp
			break
		}
	}
	return snap
}

// Content returns a stage's current content.
func (d *Document) Content(stageKey string) (string, bool) {
	content, ok := d.contents[stageKey]
	return content, ok
}

// Pointer returns the current version pointer.
func (d *Document) Pointer() (types.VersionPointer, bool) {
	if d.pointer == nil {
		return types.VersionPointer{}, false
	}
	return *d.pointer, true
}

// History returns a copy of the append-only version history.
func (d *Document) History() []types.VersionHistoryEntry {
	out := make([]types.VersionHistoryEntry, len(d.history))
	copy(out, d.history)
	return out
}

// Remove clears the current content of the given stages. History entries
// and their versions survive removal, so later records keep counting up.
// Per R1.2.
func (d *Document) Remove(stageKeys ...string) {
	for _, key := range stageKeys {
		delete(d.contents, key)
	}
}

func (d *Document) maxVersion() int {
	max := 0
	for _, e := range d.history {
		if e.Version > max {
			max = e.Version
		}
	}
	return max
}

// persistedDocument is the flat on-disk shape: stage contents keyed by
// stage, plus the two reserved keys. Per R4.
type persistedDocument map[string]json.RawMessage

// MarshalJSON writes the flat persisted shape.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(persistedDocument, len(d.contents)+2)
	for key, content := range d.contents {
		raw, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("encoding stage %s: %w", key, err)
		}
		out[key] = raw
	}
	if d.pointer != nil {
		raw, err := json.Marshal(d.pointer)
		if err != nil {
			return nil, fmt.Errorf("encoding pointer: %w", err)
		}
		out[types.VersionKeyLatest] = raw
	}
	if len(d.history) > 0 {
		raw, err := json.Marshal(d.history)
		if err != nil {
			return nil, fmt.Errorf("encoding history: %w", err)
		}
		out[types.VersionKeyHistory] = raw
	}
	return json.Marshal(out)
}

// ParseDocument reads a persisted document back over the given pipeline.
func ParseDocument(data []byte, stages []types.StageDefinition) (*Document, error) {
	d, err := NewDocument(stages)
	if err != nil {
		return nil, err
	}

	var raw persistedDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	for key, val := range raw {
		switch key {
		case types.VersionKeyLatest:
			var p types.VersionPointer
			if err := json.Unmarshal(val, &p); err != nil {
				return nil, fmt.Errorf("parsing pointer: %w", err)
			}
			d.pointer = &p
		case types.VersionKeyHistory:
			if err := json.Unmarshal(val, &d.history); err != nil {
				return nil, fmt.Errorf("parsing history: %w", err)
			}
		default:
			if _, ok := d.index[key]; !ok {
				return nil, fmt.Errorf("document references unknown stage %q", key)
			}
			var content string
			if err := json.Unmarshal(val, &content); err != nil {
				return nil, fmt.Errorf("parsing stage %s: %w", key, err)
			}
			d.contents[key] = content
		}
	}
	return d, nil
}
