// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mine segments specialist review feedback into atomic,
// severity-classified change proposals. Feedback arrives in several
// structural dialects; the miner tries them in a fixed priority order and
// commits to the first that matches, never mixing dialects within one
// invocation. The miner never fails: the worst case is an empty list.
// Implements: prd002-proposal-mining (R1-R8);
//
//	docs/ARCHITECTURE § Proposal Mining.
package mine

import (
	"strings"

	"github.com/pdiddy/advisory-engine/pkg/types"
)

// dialects is the ordered dispatch table. Each dialect reports whether it
// matched; a match commits the invocation to that dialect even when every
// candidate is later rejected during normalization. Per R1.1, R1.2.
var dialects = []struct {
	name string
	fn   func(raw string) ([]candidate, bool)
}{
	{"structured", structuredDialect},
	{"labeled-section", sectionDialect},
	{"numbered-heading", headingDialect},
	{"finding-block", findingDialect},
	{"line-scan", lineScanDialect},
}

// Mine extracts change proposals from raw reviewer feedback. Identifiers
// derive from stageID and the proposal's ordinal index, so re-mining the
// same input yields identical results. Per R8.4.
func Mine(raw, specialist, stageID string) []types.ChangeProposal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	for _, d := range dialects {
		if cands, matched := d.fn(raw); matched {
			return normalizeAll(cands, specialist, stageID)
		}
	}

	// Single-item fallback: nothing segmentable. Pure approval means no
	// actionable feedback; anything else becomes one proposal. Per R7.
	if looksLikeApproval(raw) {
		return nil
	}
	return normalizeAll([]candidate{{proposed: trimmed, blob: raw}}, specialist, stageID)
}
