// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ChangeType categorizes the kind of edit a proposal asks for.
// Per prd002-proposal-mining R8.2.
type ChangeType string

const (
	ChangeAdd         ChangeType = "add"
	ChangeModify      ChangeType = "modify"
	ChangeDelete      ChangeType = "delete"
	ChangeRestructure ChangeType = "restructure"
)

// Severity ranks how strongly a reviewer flagged a proposal.
// Critical outranks important outranks suggestion. Per prd002 R3.2.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityImportant  Severity = "important"
	SeveritySuggestion Severity = "suggestion"
)

// Decision is the user's verdict on a mined proposal.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
	DecisionModify Decision = "modify"
)

// MinProposedLength is the minimum length of a proposal's proposed text.
// Shorter fragments are noise and are discarded by the miner, never stored.
// Per prd002-proposal-mining R8.3.
const MinProposedLength = 10

// ChangeProposal is one atomic, reviewable suggested edit mined from
// specialist feedback. Created by the miner; mutated only by attaching a
// user decision; filtered, never deleted, at serialization time.
type ChangeProposal struct {
	// ID derives deterministically from the stage id and the proposal's
	// ordinal index. Per prd002 R8.4.
	ID string `json:"id" yaml:"id"`

	// SourceSpecialist names the reviewer that produced the feedback.
	SourceSpecialist string `json:"source_specialist" yaml:"source_specialist"`

	// ChangeType is the kind of edit: add, modify, delete, or restructure.
	ChangeType ChangeType `json:"change_type" yaml:"change_type"`

	// Section locates the edit within the document.
	Section string `json:"section" yaml:"section"`

	// OriginalText is the text to be replaced, when the reviewer quoted it.
	OriginalText string `json:"original_text,omitempty" yaml:"original_text,omitempty"`

	// ProposedText is the suggested replacement or addition. Always
	// non-empty and at least MinProposedLength characters.
	ProposedText string `json:"proposed_text" yaml:"proposed_text"`

	// Reasoning is the reviewer's motivation, when present.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// Severity is critical, important, or suggestion.
	Severity Severity `json:"severity" yaml:"severity"`

	// UserDecision is empty until the user reviews the proposal.
	UserDecision Decision `json:"user_decision,omitempty" yaml:"user_decision,omitempty"`

	// UserNote carries the user's modified text or remark, when present.
	UserNote string `json:"user_note,omitempty" yaml:"user_note,omitempty"`
}

// EditorProposal is the serialization shape consumed by the document-editing
// surface. Field names are part of the external contract.
type EditorProposal struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Section      string `json:"section"`
	OldText      string `json:"oldText,omitempty"`
	NewText      string `json:"newText"`
	Rationale    string `json:"rationale,omitempty"`
	Severity     string `json:"severity"`
	UserModified bool   `json:"userModified,omitempty"`
}

// ForEditor converts proposals to the editor serialization. Only proposals
// the user accepted or modified are included; rejected and undecided
// proposals are omitted entirely, not marked. A modified proposal carries
// the user's text when a note was attached.
func ForEditor(proposals []ChangeProposal) []EditorProposal {
	out := make([]EditorProposal, 0, len(proposals))
	for _, p := range proposals {
		if p.UserDecision != DecisionAccept && p.UserDecision != DecisionModify {
			continue
		}
		ep := EditorProposal{
			ID:        p.ID,
			Type:      string(p.ChangeType),
			Section:   p.Section,
			OldText:   p.OriginalText,
			NewText:   p.ProposedText,
			Rationale: p.Reasoning,
			Severity:  string(p.Severity),
		}
		if p.UserDecision == DecisionModify {
			ep.UserModified = true
			if p.UserNote != "" {
				ep.NewText = p.UserNote
			}
		}
		out = append(out, ep)
	}
	return out
}
