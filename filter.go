// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// entrySelector holds compiled include rules for extraction.
// A nil selector selects every entry.
type entrySelector struct {
	matcher *pathrules.Matcher
}

// newEntrySelector compiles include rules; empty rules select everything.
func newEntrySelector(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*entrySelector, error) {
	rules = normalizeIncludeRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidIncludeRules, err)
	}

	return &entrySelector{matcher: matcher}, nil
}

// normalizeIncludeRules normalizes rule patterns and drops empty patterns.
func normalizeIncludeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(NormalizePath(rule.Pattern))
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether entry name is selected.
func (s *entrySelector) Match(name string) bool {
	if s == nil || s.matcher == nil {
		return true
	}

	candidate := CleanPath(name)
	if candidate == "" {
		return false
	}

	return s.matcher.Included(candidate, false)
}

// selectIndexes returns catalog indexes of selected entries in catalog order.
func (s *entrySelector) selectIndexes(entries []Entry) []int {
	out := make([]int, 0, len(entries))
	for i := range entries {
		if s.Match(entries[i].Name) {
			out = append(out, i)
		}
	}

	return out
}

// SelectEntries returns catalog indexes of entries selected by rules, in catalog order.
// Empty rules select every entry.
func SelectEntries(entries []Entry, rules []pathrules.Rule, opts pathrules.MatcherOptions) ([]int, error) {
	selector, err := newEntrySelector(rules, opts)
	if err != nil {
		return nil, err
	}

	return selector.selectIndexes(entries), nil
}
