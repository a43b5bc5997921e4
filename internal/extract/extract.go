// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recovers structured data from raw generative-AI output.
// Models return the requested JSON wrapped in markdown fences, embedded in
// prose, or malformed; extraction tries a fixed strategy chain and fails
// with a sentinel, never a panic.
// Implements: prd001-extraction (R1, R2);
//
//	docs/ARCHITECTURE § Extraction.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnparseable signals that every recovery strategy failed. It is a
// first-class outcome: callers must choose an explicit fallback policy
// (the stage gate permits, the miner returns no proposals). Per R1.5.
var ErrUnparseable = errors.New("no parse strategy recovered a structured value")

// JSON recovers a JSON value from raw model output and unmarshals it into v.
// Returns ErrUnparseable when no strategy yields valid JSON. Per R1.
func JSON(raw string, v any) error {
	return JSONLocated(raw, nil, v)
}

// JSONLocated is JSON with an optional shape locator: a pattern whose first
// match in the raw text is tried as a candidate before the balanced scan.
// Per R1.3.
func JSONLocated(raw string, locator *regexp.Regexp, v any) error {
	candidate, ok := recover0(raw, locator)
	if !ok {
		return ErrUnparseable
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return nil
}

// Recover returns the first substring of raw that is valid JSON, found via
// the strategy chain: direct parse, fenced block, brace-balanced scan.
func Recover(raw string) (string, bool) {
	return recover0(raw, nil)
}

// recover0 runs the strategy chain in strict order, stopping at the first
// success. The candidate is validated, not decoded; the caller performs the
// single decode so partially-written targets never leak between strategies.
func recover0(raw string, locator *regexp.Regexp) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	// R1.1: the whole input is the document (well-behaved output).
	if json.Valid([]byte(trimmed)) {
		return trimmed, true
	}

	// R1.2: fenced block interior.
	if inner, ok := fencedBlock(trimmed); ok {
		if json.Valid([]byte(inner)) {
			return inner, true
		}
	}

	// R1.3: shape-specific locator match.
	if locator != nil {
		if m := locator.FindString(raw); m != "" && json.Valid([]byte(m)) {
			return m, true
		}
	}

	// R1.4: brace-balanced scan.
	if sub, ok := balancedScan(raw); ok {
		return sub, true
	}

	return "", false
}

// fencedBlock extracts the interior of the first ``` fence, skipping an
// optional language tag on the opening line.
func fencedBlock(s string) (string, bool) {
	open := strings.Index(s, "```")
	if open < 0 {
		return "", false
	}
	rest := s[open+3:]

	// Drop the language tag (e.g. "json") up to the end of the opening line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(rest[:nl])
		if firstLine == "" || isFenceTag(firstLine) {
			rest = rest[nl+1:]
		}
	}

	close := strings.Index(rest, "```")
	if close < 0 {
		// Unterminated fence: take everything after the opening.
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:close]), true
}

// isFenceTag reports whether a fence opening line is a bare language tag.
func isFenceTag(line string) bool {
	for _, r := range line {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return len(line) <= 16
}

// balancedScan finds the first balanced, valid JSON object or array in s.
// It walks the text once, tracking string/escape state and nesting depth;
// when depth returns to zero it validates that exact substring. A failed
// candidate resumes the search after its end, never from the same start
// offset, keeping the scan linear. Per R1.4, R2.2.
//
// The first balanced, parseable candidate wins. This is a documented
// tie-break: with two sequential objects the first is returned even when
// the second is larger.
func balancedScan(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	for start >= 0 {
		end, balanced := scanFrom(s, start)
		if !balanced {
			// The remainder never closes; no later start can either.
			return "", false
		}
		candidate := s[start:end]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
		next := strings.IndexAny(s[end:], "{[")
		if next < 0 {
			return "", false
		}
		start = end + next
	}
	return "", false
}

// scanFrom walks s from an opening brace/bracket at start and returns the
// exclusive end offset where nesting depth first returns to zero.
func scanFrom(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return len(s), false
}
