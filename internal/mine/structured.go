// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"encoding/json"
	"strings"

	"github.com/pdiddy/advisory-engine/internal/extract"
)

// Field-name synonyms across dialects and languages. The first non-empty
// value wins. Per prd002-proposal-mining R8.1.
var (
	sectionFieldKeys = []string{
		"section", "sectie", "paragraaf", "paragraph", "location", "locatie",
		"hoofdstuk", "chapter", "plaats",
	}
	originalFieldKeys = []string{
		"original", "origineel", "originele_tekst", "oude_tekst", "old_text",
		"oldText", "huidige_tekst", "current",
	}
	proposedFieldKeys = []string{
		"proposed", "voorstel", "voorgestelde_tekst", "nieuwe_tekst",
		"new_text", "newText", "correctie", "correction", "suggested_text",
		"aanbeveling", "recommendation", "tekst", "text",
	}
	reasoningFieldKeys = []string{
		"reasoning", "reden", "rationale", "motivatie", "toelichting",
		"onderbouwing", "explanation", "uitleg",
	}
	typeFieldKeys = []string{
		"change_type", "changeType", "type", "actie", "action", "soort",
		"wijzigingstype",
	}
	severityFieldKeys = []string{
		"severity", "ernst", "prioriteit", "priority", "belang", "impact",
		"niveau", "level",
	}
)

// wrapperKeys are the recognized list-wrapper field names. Per R2.1.
var wrapperKeys = []string{
	"proposals", "voorstellen", "findings", "bevindingen", "wijzigingen",
	"changes", "corrections", "correcties", "aanbevelingen",
	"recommendations", "items",
}

// statusFieldKeys and noChangesValues implement the distinguished
// "no changes needed" short-circuit. Per R2.2.
var statusFieldKeys = []string{
	"status", "conclusie", "conclusion", "resultaat", "result", "oordeel",
	"verdict",
}

var noChangesValues = []string{
	"geen_wijzigingen", "geen wijzigingen", "no_changes", "no changes",
	"geen_aanpassingen", "geen aanpassingen", "akkoord", "approved",
	"goedgekeurd",
}

// structuredDialect parses the feedback as JSON (via the extractor's
// recovery chain) and mines the recognized shapes: a flat array, a list
// wrapper, or the specialist nested shape. A no-changes status anywhere in
// the structure yields a committed empty result, semantically different
// from "nothing matched". Per R2.
func structuredDialect(raw string) ([]candidate, bool) {
	doc, ok := extract.Recover(raw)
	if !ok {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return nil, false
	}

	if hasNoChangesStatus(v) {
		return nil, true
	}

	switch val := v.(type) {
	case []any:
		// A flat array commits even when empty: an empty list is a valid
		// structured "no proposals" answer.
		return candidatesFromList(val), true
	case map[string]any:
		for _, key := range wrapperKeys {
			if list, ok := val[key].([]any); ok {
				return candidatesFromList(list), true
			}
		}
		if cands, ok := specialistShape(val); ok {
			return cands, true
		}
	}
	return nil, false
}

// candidatesFromList converts each object element to a candidate. Non-object
// elements and empty objects fall out during normalization.
func candidatesFromList(list []any) []candidate {
	var cands []candidate
	for _, item := range list {
		switch el := item.(type) {
		case map[string]any:
			cands = append(cands, candidateFromMap(el))
		case string:
			cands = append(cands, candidate{proposed: el, blob: el})
		}
	}
	return cands
}

// specialistShape mines the nested review shape: validated findings,
// implicit-assumption notes, and a single biggest-risk object. Per R2.1.
func specialistShape(m map[string]any) ([]candidate, bool) {
	validated := listField(m, "gevalideerde_bevindingen", "validated_findings")
	assumptions := listField(m, "impliciete_aannames", "implicit_assumptions")
	risk := mapField(m, "grootste_risico", "biggest_risk")

	if validated == nil && assumptions == nil && risk == nil {
		return nil, false
	}

	var cands []candidate
	cands = append(cands, candidatesFromList(validated)...)

	for _, item := range assumptions {
		switch el := item.(type) {
		case map[string]any:
			c := candidateFromMap(el)
			if c.section == "" {
				c.section = "Aannames"
			}
			cands = append(cands, c)
		case string:
			cands = append(cands, candidate{
				section:   "Aannames",
				proposed:  el,
				reasoning: "impliciete aanname",
				blob:      el,
			})
		}
	}

	if risk != nil {
		c := candidateFromMap(risk)
		if c.severity == "" {
			// The biggest risk carries weight even without an explicit level.
			c.severity = "belangrijk"
		}
		cands = append(cands, c)
	}
	return cands, true
}

// candidateFromMap maps one JSON object onto the intermediate candidate via
// the synonym tables.
func candidateFromMap(m map[string]any) candidate {
	c := candidate{
		section:   mapStringField(m, sectionFieldKeys),
		original:  mapStringField(m, originalFieldKeys),
		proposed:  mapStringField(m, proposedFieldKeys),
		reasoning: mapStringField(m, reasoningFieldKeys),
		action:    mapStringField(m, typeFieldKeys),
		severity:  mapStringField(m, severityFieldKeys),
	}

	var parts []string
	for _, v := range m {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
		}
	}
	c.blob = strings.Join(parts, "\n")
	return c
}

// hasNoChangesStatus walks the structure for a status-like field carrying a
// no-changes value.
func hasNoChangesStatus(v any) bool {
	switch val := v.(type) {
	case map[string]any:
		for _, key := range statusFieldKeys {
			if s, ok := val[key].(string); ok {
				lower := strings.ToLower(s)
				if !containsAny(lower, negationMarkers) && containsAny(lower, noChangesValues) {
					return true
				}
			}
		}
		for _, item := range val {
			if hasNoChangesStatus(item) {
				return true
			}
		}
	case []any:
		for _, item := range val {
			if hasNoChangesStatus(item) {
				return true
			}
		}
	}
	return false
}

// mapStringField returns the first non-empty string under any synonym key.
func mapStringField(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// listField returns the first []any under the given keys, nil if absent.
func listField(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if v, ok := m[k].([]any); ok {
			return v
		}
	}
	return nil
}

// mapField returns the first map[string]any under the given keys.
func mapField(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			return v
		}
	}
	return nil
}
