// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"regexp"
	"strings"
)

// Finding-block dialect: "Finding #N" / "Bevinding #N" blocks with labeled
// fields. A block must carry a location and at least one of problem or
// correction; blocks missing both are status chatter and are dropped
// silently. Per prd002-proposal-mining R5.

var (
	findingHeader   = regexp.MustCompile(`(?i)^\s*(?:finding|bevinding)\s*#?\s*\d+`)
	locationField   = regexp.MustCompile(`(?i)^\s*(?:locatie|location|plaats|sectie|section)\s*[:\-–]\s*(.+)$`)
	problemField    = regexp.MustCompile(`(?i)^\s*(?:probleem|problem|issue|beschrijving|description)\s*[:\-–]\s*(.+)$`)
	correctionField = regexp.MustCompile(`(?i)^\s*(?:correctie|correction|oplossing|fix|voorstel)\s*[:\-–]\s*(.+)$`)
)

type findingBlock struct {
	location   string
	problem    string
	correction string
	lines      []string
}

func findingDialect(raw string) ([]candidate, bool) {
	var blocks []findingBlock
	var cur *findingBlock

	for _, line := range strings.Split(raw, "\n") {
		if findingHeader.MatchString(line) {
			if cur != nil {
				blocks = append(blocks, *cur)
			}
			cur = &findingBlock{lines: []string{line}}
			continue
		}
		if cur == nil {
			continue
		}
		cur.lines = append(cur.lines, line)
		if m := locationField.FindStringSubmatch(line); m != nil {
			cur.location = strings.TrimSpace(m[1])
			continue
		}
		if m := problemField.FindStringSubmatch(line); m != nil {
			cur.problem = strings.TrimSpace(m[1])
			continue
		}
		if m := correctionField.FindStringSubmatch(line); m != nil {
			cur.correction = strings.TrimSpace(m[1])
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}

	if len(blocks) == 0 {
		return nil, false
	}

	var cands []candidate
	for _, b := range blocks {
		if b.location == "" || (b.problem == "" && b.correction == "") {
			continue
		}
		c := candidate{
			section: b.location,
			blob:    strings.Join(b.lines, "\n"),
		}
		if b.correction != "" {
			c.proposed = b.correction
			c.reasoning = b.problem
		} else {
			c.proposed = b.problem
		}
		cands = append(cands, c)
	}

	// Header presence commits the dialect even when every block was chatter.
	return cands, true
}
