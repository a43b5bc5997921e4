// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/advisory-engine/pkg/types"
)

// defaultSection is used when a candidate carries no location at all.
const defaultSection = "Algemeen"

// candidate is the dialect-neutral intermediate form of one potential
// proposal. Dialects fill whichever fields their structure exposes;
// normalization maps the rest.
type candidate struct {
	section   string
	title     string
	original  string
	proposed  string
	reasoning string
	action    string // raw change-type hint (field value or label text)
	severity  string // raw severity hint
	blob      string // full source text of the block, for keyword inference
}

// normalizeAll converts candidates to canonical proposals, dropping the
// ones that fail validation. Rejection of one candidate never affects its
// siblings (skip-and-continue, per prd002 R8.3); ordinals count accepted
// proposals only, so identifiers stay dense and deterministic.
func normalizeAll(cands []candidate, specialist, stageID string) []types.ChangeProposal {
	var out []types.ChangeProposal
	for _, c := range cands {
		p, ok := normalize(c, specialist, stageID, len(out))
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// normalize maps one candidate onto the canonical ChangeProposal shape.
// Candidates lacking both a change-type indicator and content, or whose
// proposed text is below the minimum length, are rejected: headers,
// confirmations, and noise must not become phantom proposals. Per R8.
func normalize(c candidate, specialist, stageID string, ordinal int) (types.ChangeProposal, bool) {
	proposed := strings.TrimSpace(c.proposed)
	action := strings.TrimSpace(c.action)

	if proposed == "" && action == "" {
		return types.ChangeProposal{}, false
	}
	if utf8.RuneCountInString(proposed) < types.MinProposedLength {
		return types.ChangeProposal{}, false
	}

	section := strings.TrimSpace(c.section)
	if section == "" {
		section = strings.TrimSpace(c.title)
	}
	if section == "" {
		section = defaultSection
	}

	return types.ChangeProposal{
		ID:               fmt.Sprintf("%s-%03d", stageID, ordinal+1),
		SourceSpecialist: specialist,
		ChangeType:       changeTypeFor(action, c.blob),
		Section:          section,
		OriginalText:     strings.TrimSpace(c.original),
		ProposedText:     proposed,
		Reasoning:        strings.TrimSpace(c.reasoning),
		Severity:         severityFor(c.severity, c.blob),
	}, true
}
