// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"strings"

	"github.com/pdiddy/advisory-engine/pkg/types"
)

// Keyword-to-enum tables. Reviewers write in Dutch or English, so every
// table carries both vocabularies; matching is case-insensitive substring
// matching. Per prd002-proposal-mining R8.2.

// changeTypeTable is checked in order: the specific kinds before modify,
// whose vocabulary is the most generic.
var changeTypeTable = []struct {
	kind  types.ChangeType
	words []string
}{
	{types.ChangeDelete, []string{
		"verwijder", "schrap", "delete", "remove", "drop",
	}},
	{types.ChangeAdd, []string{
		"toevoeg", "voeg toe", "aanvul", "add", "insert", "include",
		"ontbreekt", "missing",
	}},
	{types.ChangeRestructure, []string{
		"herstructureer", "herorden", "herindel", "verplaats",
		"restructure", "reorder", "reorganis", "reorganiz", "move",
	}},
	{types.ChangeModify, []string{
		"wijzig", "vervang", "pas aan", "aanpass", "corrigeer", "verbeter",
		"herformuleer", "modify", "replace", "change", "update", "correct",
		"rephrase", "reword",
	}},
}

// severityTable is checked critical first: critical outranks important
// outranks suggestion. Per R3.2.
var severityTable = []struct {
	level types.Severity
	words []string
}{
	{types.SeverityCritical, []string{
		"kritiek", "kritisch", "critical", "blokkerend", "blocking",
		"ernstig", "onjuist", "incorrect", "wrong", "fout",
	}},
	{types.SeverityImportant, []string{
		"belangrijk", "important", "significant", "major", "wezenlijk",
		"hoog", "high",
	}},
	{types.SeveritySuggestion, []string{
		"suggestie", "suggestion", "overweeg", "consider", "optioneel",
		"optional", "minor", "stijl", "style", "nitpick", "laag", "low",
	}},
}

// changeTypeFor resolves the change type from an explicit hint, falling
// back to keyword presence in the candidate's full block text.
func changeTypeFor(hint, blob string) types.ChangeType {
	if kind, ok := lookupChangeType(hint); ok {
		return kind
	}
	if kind, ok := lookupChangeType(blob); ok {
		return kind
	}
	return types.ChangeModify
}

func lookupChangeType(s string) (types.ChangeType, bool) {
	lower := strings.ToLower(s)
	if strings.TrimSpace(lower) == "" {
		return "", false
	}
	for _, row := range changeTypeTable {
		if containsAny(lower, row.words) {
			return row.kind, true
		}
	}
	return "", false
}

// severityFor resolves severity from an explicit hint, falling back to
// keyword presence in the block. Unmatched candidates default to
// suggestion so re-mining is stable and noise never outranks explicit
// findings.
func severityFor(hint, blob string) types.Severity {
	if level, ok := lookupSeverity(hint); ok {
		return level
	}
	if level, ok := lookupSeverity(blob); ok {
		return level
	}
	return types.SeveritySuggestion
}

func lookupSeverity(s string) (types.Severity, bool) {
	lower := strings.ToLower(s)
	if strings.TrimSpace(lower) == "" {
		return "", false
	}
	for _, row := range severityTable {
		if containsAny(lower, row.words) {
			return row.level, true
		}
	}
	return "", false
}

// confirmationPhrases mark lines that confirm earlier feedback was applied.
// Such lines are status chatter, not proposals, even when bulleted. Per R6.2.
var confirmationPhrases = []string{
	"correct toegepast", "correctly applied", "juist toegepast",
	"goed verwerkt", "correct verwerkt", "properly applied",
	"komt overeen", "matches", "accuraat", "accurate", "klopt",
	"geen opmerking", "no remarks", "in orde", "looks good",
	"als verwacht", "as expected",
}

// approvalPhrases mark whole-text approvals: feedback that explicitly says
// nothing needs to change. Per R7.2.
var approvalPhrases = []string{
	"100% accuraat", "100% accurate", "volledig correct", "fully correct",
	"geen correcties", "no corrections", "geen wijzigingen",
	"no changes needed", "geen aanpassingen", "akkoord", "goedgekeurd",
	"approved", "ziet er goed uit", "looks good", "correct toegepast",
	"geen bevindingen", "no findings",
}

// negationMarkers veto a confirmation or approval reading: "komt niet
// overeen" is a finding, not a confirmation. The trailing space keeps
// "niets" from matching.
var negationMarkers = []string{"niet ", "not "}

// contrastMarkers signal mixed feedback: a compliment followed by a
// request ("ziet er goed uit, maar ..."). Only a pure approval may yield
// an empty result, so contrast vetoes the approval reading too.
var contrastMarkers = []string{"maar ", "but ", "echter", "behalve"}

// isConfirmation reports whether a single line is purely a confirmation.
func isConfirmation(line string) bool {
	s := strings.ToLower(strings.TrimSpace(stripItemPrefix(line)))
	if s == "" || len(s) > 80 {
		return false
	}
	if containsAny(s, negationMarkers) || containsAny(s, contrastMarkers) {
		return false
	}
	return containsAny(s, confirmationPhrases)
}

// looksLikeApproval reports whether the whole text reads as a no-issues
// statement.
func looksLikeApproval(raw string) bool {
	s := strings.ToLower(raw)
	if containsAny(s, negationMarkers) || containsAny(s, contrastMarkers) {
		return false
	}
	if containsAny(s, approvalPhrases) {
		return true
	}

	// A text consisting solely of confirmation lines is an approval too.
	lines := strings.Split(raw, "\n")
	seen := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !isConfirmation(line) {
			return false
		}
		seen = true
	}
	return seen
}

// stripItemPrefix removes a leading bullet or number marker.
func stripItemPrefix(line string) string {
	s := strings.TrimSpace(line)
	if m := bulletItem.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := numberedItem.FindStringSubmatch(s); m != nil {
		return m[2]
	}
	return s
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
