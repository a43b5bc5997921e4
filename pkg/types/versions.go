// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Reserved keys in the persisted versions document. Stage keys must never
// collide with these. Per prd004-versioning R4.1.
const (
	VersionKeyLatest  = "latest"
	VersionKeyHistory = "history"
)

// ConceptSnapshot is one captured version of document content associated
// with a stage run. Immutable once written.
type ConceptSnapshot struct {
	// StageKey is the stage that produced this snapshot.
	StageKey string `json:"stage_key" yaml:"stage_key"`

	// Version is the globally monotonic version number. Per prd004 R1.1.
	Version int `json:"version" yaml:"version"`

	// Content is the document content at this version.
	Content string `json:"content" yaml:"content"`

	// Timestamp records when the snapshot was taken.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// VersionPointer names which snapshot is currently authoritative. It is
// replaced, never edited, each time a new snapshot supersedes it.
type VersionPointer struct {
	// StageKey is the stage whose content the pointer designates.
	StageKey string `json:"pointer"`

	// Version is the history version the pointer was assigned at.
	Version int `json:"version"`
}

// VersionHistoryEntry is one append-only record of a snapshot ever created
// for a report. Versions are monotonic across the whole history and never
// reused, even after deletions. Per prd004-versioning R1.1, R1.2.
type VersionHistoryEntry struct {
	StageKey  string    `json:"stageKey"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}
