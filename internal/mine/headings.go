// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"regexp"
	"strings"
)

// Numbered-heading dialect: markdown heading markers followed by an
// ordinal. The title is the heading text; the body runs until the next
// heading. Per prd002-proposal-mining R4.

var numberedHeading = regexp.MustCompile(`^\s*#{1,6}\s*\d+[.):]?\s*(.*)$`)

func headingDialect(raw string) ([]candidate, bool) {
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
		if m := numberedHeading.FindStringSubmatch(line); m != nil {
			flush()
			cur = &candidate{title: strings.TrimSpace(m[1])}
			block = append(block, line)
			continue
		}
		if cur == nil {
			continue
		}
		block = append(block, line)
		body = append(body, line)
	}
	flush()

	return cands, len(cands) > 0
}
