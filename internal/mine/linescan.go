// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"regexp"
	"strings"
)

// Fallback line scanner: classifies each line and accumulates into a single
// in-progress proposal, flushing on a blank line or a new item start. Free
// text only extends a proposal that an item, header, or label line already
// started; otherwise the single-item fallback stays reachable. Per
// prd002-proposal-mining R6.

var (
	numberedItem = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.*)$`)
	bulletItem   = regexp.MustCompile(`^\s*[-*•]\s+(.*)$`)
	scanHeader   = regexp.MustCompile(`(?i)^\s*(?:sectie|section|paragraaf|hoofdstuk)\b\s*[:\-–]?\s*(.{0,48}?)\s*:?\s*$`)
	typeLabel    = regexp.MustCompile(`(?i)^\s*(?:actie|action|type|wijziging|soort)\s*[:\-–]\s*(.+)$`)
	severityLine = regexp.MustCompile(`(?i)^\s*(?:ernst|severity|prioriteit|priority|impact)\s*[:\-–]\s*(.+)$`)
	beforeLabel  = regexp.MustCompile(`(?i)^\s*(?:voor|oud|origineel|before|old|original|huidig)\s*[:\-–]\s*(.*)$`)
	afterLabel   = regexp.MustCompile(`(?i)^\s*(?:na|nieuw|voorstel|after|new|proposed)\s*[:\-–]\s*(.*)$`)
)

func lineScanDialect(raw string) ([]candidate, bool) {
	var cands []candidate
	var cur *candidate
	var body, block []string
	section := ""

	flush := func() {
		if cur == nil {
			return
		}
		if cur.proposed == "" {
			cur.proposed = strings.TrimSpace(strings.Join(body, "\n"))
		}
		cur.blob = strings.Join(block, "\n")
		if cur.proposed != "" || cur.original != "" || cur.action != "" {
			cands = append(cands, *cur)
		}
		cur, body, block = nil, nil, nil
	}

	start := func() {
		if cur == nil {
			cur = &candidate{section: section}
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()

		case isConfirmation(trimmed):
			// Confirmations are excluded outright; they neither start nor
			// extend a proposal. Per R6.2.

		case numberedItem.MatchString(trimmed):
			flush()
			m := numberedItem.FindStringSubmatch(trimmed)
			cur = &candidate{section: section}
			body = append(body, strings.TrimSpace(m[2]))
			block = append(block, trimmed)

		case bulletItem.MatchString(trimmed):
			flush()
			m := bulletItem.FindStringSubmatch(trimmed)
			cur = &candidate{section: section}
			body = append(body, strings.TrimSpace(m[1]))
			block = append(block, trimmed)

		case scanHeader.MatchString(trimmed):
			flush()
			m := scanHeader.FindStringSubmatch(trimmed)
			section = strings.TrimSpace(m[1])

		case typeLabel.MatchString(trimmed):
			start()
			m := typeLabel.FindStringSubmatch(trimmed)
			cur.action = strings.TrimSpace(m[1])
			block = append(block, trimmed)

		case severityLine.MatchString(trimmed):
			start()
			m := severityLine.FindStringSubmatch(trimmed)
			cur.severity = strings.TrimSpace(m[1])
			block = append(block, trimmed)

		case beforeLabel.MatchString(trimmed):
			start()
			m := beforeLabel.FindStringSubmatch(trimmed)
			cur.original = strings.TrimSpace(m[1])
			block = append(block, trimmed)

		case afterLabel.MatchString(trimmed):
			start()
			m := afterLabel.FindStringSubmatch(trimmed)
			cur.proposed = strings.TrimSpace(m[1])
			block = append(block, trimmed)

		case strings.HasSuffix(trimmed, ":") && len(trimmed) <= 48:
			// Short trailing-colon line reads as a section header.
			flush()
			section = strings.TrimSuffix(trimmed, ":")

		default:
			// Continuation text extends an open proposal only.
			if cur != nil {
				body = append(body, trimmed)
				block = append(block, trimmed)
			}
		}
	}
	flush()

	return cands, len(cands) > 0
}
