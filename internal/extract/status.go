// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// StatusKind discriminates the intake stage's parsed verdict.
// Per prd001-extraction R3.1.
type StatusKind string

const (
	StatusComplete    StatusKind = "complete"
	StatusIncomplete  StatusKind = "incomplete"
	StatusUnparseable StatusKind = "unparseable"
)

// StatusOutcome is the discriminated result of parsing a gating stage's
// output. Only ever derived from raw stage output; pipeline code never
// constructs one directly.
type StatusOutcome struct {
	// Kind is complete, incomplete, or unparseable.
	Kind StatusKind

	// Summary is the dossier subject summary, set when Kind is complete.
	Summary string

	// Facts holds the structured dossier fields, set when Kind is complete.
	Facts map[string]any

	// FollowUpSubject and FollowUpBody describe the clarification email to
	// send, set when Kind is incomplete.
	FollowUpSubject string
	FollowUpBody    string
}

// completeValues and incompleteValues are the accepted status field values,
// matched case-insensitively. Dutch and English spellings both occur in
// historical output. Per R3.2.
var (
	completeValues   = map[string]bool{"COMPLEET": true, "COMPLETE": true, "VOLLEDIG": true}
	incompleteValues = map[string]bool{"INCOMPLEET": true, "INCOMPLETE": true, "ONVOLLEDIG": true}
)

// statusLocator finds a braced region carrying a recognizable status field
// somewhere in surrounding prose. Used as the R1.3 locator for verdicts.
var statusLocator = regexp.MustCompile(`(?is)\{.*"status"\s*:\s*"(?:compleet|complete|volledig|incompleet|incomplete|onvolledig)".*\}`)

// Field synonyms for verdict payloads. Per R3.3, R3.4.
var (
	summaryKeys = []string{"samenvatting_onderwerp", "samenvatting", "summary", "onderwerp_samenvatting"}
	subjectKeys = []string{"email_onderwerp", "onderwerp", "subject", "email_subject"}
	bodyKeys    = []string{"email_tekst", "tekst", "body", "bericht", "email_body"}
)

// ParseStatus parses a gating stage's raw output into a StatusOutcome.
// Extraction failure and unknown status values both yield the unparseable
// outcome, never an error; the caller chooses the fallback policy. Per R3.5.
func ParseStatus(raw string) StatusOutcome {
	var payload map[string]any
	if err := JSONLocated(raw, statusLocator, &payload); err != nil {
		return StatusOutcome{Kind: StatusUnparseable}
	}

	status, _ := payload["status"].(string)
	status = strings.ToUpper(strings.TrimSpace(status))

	switch {
	case completeValues[status]:
		facts, _ := payload["dossier"].(map[string]any)
		return StatusOutcome{
			Kind:    StatusComplete,
			Summary: stringField(facts, summaryKeys),
			Facts:   facts,
		}
	case incompleteValues[status]:
		subject := stringField(payload, subjectKeys)
		body := stringField(payload, bodyKeys)
		if email, ok := payload["email"].(map[string]any); ok {
			if subject == "" {
				subject = stringField(email, subjectKeys)
			}
			if body == "" {
				body = stringField(email, bodyKeys)
			}
		}
		return StatusOutcome{
			Kind:            StatusIncomplete,
			FollowUpSubject: subject,
			FollowUpBody:    body,
		}
	default:
		return StatusOutcome{Kind: StatusUnparseable}
	}
}

// stringField returns the first non-empty string value in m under any of
// the given keys.
func stringField(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}
