// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"regexp"
	"strings"
)

// Labeled-section dialect: "Sectie: …" blocks. Contiguous text between one
// section label and the next is one proposal; reasoning and action
// sub-labels are captured when present. Per prd002-proposal-mining R3.

var (
	sectionLabel   = regexp.MustCompile(`(?i)^\s*(?:sectie|section|paragraaf)\s*[:\-–]\s*(.+)$`)
	reasoningLabel = regexp.MustCompile(`(?i)^\s*(?:reden|reasoning|rationale|toelichting|motivatie)\s*[:\-–]\s*(.*)$`)
	actionLabel    = regexp.MustCompile(`(?i)^\s*(?:actie|action)\s*[:\-–]\s*(.*)$`)
)

func sectionDialect(raw string) ([]candidate, bool) {
	var cands []candidate
	var cur *candidate
	var body, block []string

	flush := func() {
		if cur == nil {
			return
		}
		cur.proposed = strings.TrimSpace(strings.Join(body, "\n"))
		cur.blob = strings.Join(block, "\n")
		cands = append(cands, *cur)
		cur, body, block = nil, nil, nil
	}

	for _, line := range strings.Split(raw, "\n") {
		if m := sectionLabel.FindStringSubmatch(line); m != nil {
			flush()
			cur = &candidate{section: strings.TrimSpace(m[1])}
			block = append(block, line)
			continue
		}
		if cur == nil {
			// Preamble before the first label is not a proposal.
			continue
		}
		block = append(block, line)
		if m := reasoningLabel.FindStringSubmatch(line); m != nil {
			cur.reasoning = strings.TrimSpace(m[1])
			continue
		}
		if m := actionLabel.FindStringSubmatch(line); m != nil {
			cur.action = strings.TrimSpace(m[1])
			continue
		}
		body = append(body, line)
	}
	flush()

	return cands, len(cands) > 0
}
