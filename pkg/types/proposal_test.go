// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestForEditor(t *testing.T) {
	proposals := []ChangeProposal{
		{
			ID:           "review_fiscaal-001",
			ChangeType:   ChangeModify,
			Section:      "Berekening",
			OriginalText: "4,0%",
			ProposedText: "Hanteer een rekenrente van 4,5%",
			Reasoning:    "tarief gewijzigd per 2026",
			Severity:     SeverityCritical,
			UserDecision: DecisionAccept,
		},
		{
			ID:           "review_fiscaal-002",
			ChangeType:   ChangeAdd,
			Section:      "Bronnen",
			ProposedText: "Voeg een verwijzing naar het pensioenreglement toe",
			Severity:     SeveritySuggestion,
			UserDecision: DecisionReject,
		},
		{
			ID:           "review_fiscaal-003",
			ChangeType:   ChangeModify,
			Section:      "Conclusie",
			ProposedText: "Herschrijf de slotalinea",
			Severity:     SeverityImportant,
			UserDecision: DecisionModify,
			UserNote:     "Herschrijf de slotalinea en benoem de revisierente",
		},
		{
			ID:           "review_fiscaal-004",
			ChangeType:   ChangeDelete,
			Section:      "Bijlage",
			ProposedText: "Schrap de verouderde bijlage",
			Severity:     SeveritySuggestion,
			// Undecided: must not reach the editor.
		},
	}

	got := ForEditor(proposals)
	if len(got) != 2 {
		t.Fatalf("ForEditor returned %d proposals, want 2", len(got))
	}

	accepted := got[0]
	if accepted.ID != "review_fiscaal-001" {
		t.Errorf("ID = %q", accepted.ID)
	}
	if accepted.Type != "modify" || accepted.Severity != "critical" {
		t.Errorf("accepted = %+v", accepted)
	}
	if accepted.OldText != "4,0%" {
		t.Errorf("OldText = %q", accepted.OldText)
	}
	if accepted.NewText != "Hanteer een rekenrente van 4,5%" {
		t.Errorf("NewText = %q", accepted.NewText)
	}
	if accepted.UserModified {
		t.Error("accepted proposal must not be marked user-modified")
	}

	modified := got[1]
	if modified.ID != "review_fiscaal-003" {
		t.Errorf("ID = %q", modified.ID)
	}
	if !modified.UserModified {
		t.Error("modified proposal must be marked user-modified")
	}
	if modified.NewText != "Herschrijf de slotalinea en benoem de revisierente" {
		t.Errorf("NewText = %q, want the user's note", modified.NewText)
	}
}

func TestForEditorModifyWithoutNote(t *testing.T) {
	got := ForEditor([]ChangeProposal{{
		ID:           "review_juridisch-001",
		ChangeType:   ChangeModify,
		Section:      "Dekking",
		ProposedText: "Benoem de uitsluitingen expliciet",
		Severity:     SeverityImportant,
		UserDecision: DecisionModify,
	}})

	if len(got) != 1 {
		t.Fatalf("ForEditor returned %d proposals, want 1", len(got))
	}
	if got[0].NewText != "Benoem de uitsluitingen expliciet" {
		t.Errorf("NewText = %q, want the mined text when no note is attached", got[0].NewText)
	}
	if !got[0].UserModified {
		t.Error("UserModified should be set")
	}
}

func TestEditorProposalFieldNames(t *testing.T) {
	// The editor field names are an external contract.
	data, err := json.Marshal(EditorProposal{
		ID:       "x-001",
		Type:     "modify",
		Section:  "Algemeen",
		OldText:  "oud",
		NewText:  "nieuw",
		Severity: "critical",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"id"`, `"type"`, `"section"`, `"oldText"`, `"newText"`, `"severity"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized proposal missing field %s: %s", field, data)
		}
	}
}
