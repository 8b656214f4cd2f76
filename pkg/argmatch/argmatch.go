// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argmatch matches a command line against a grammar built at
// runtime. A grammar is an ordered list of rules: positional slots bound
// by position, and short/long flags that either record presence or
// consume a value. The first element of the argv handed to Match is the
// program name and is never matched.
package argmatch

import (
	"fmt"
	"strings"
)

// Rule describes one grammar entry. A rule with neither a short nor a
// long marker is positional and must be supplied.
type Rule struct {
	// Name is the key the matched value is stored under. Unique per grammar.
	Name string
	// Short is the single-letter flag form, without the dash.
	Short string
	// Long is the long flag form, without the dashes.
	Long string
	// TakesValue selects a value-consuming rule; false means a presence flag.
	TakesValue bool
	// Numeric requires the supplied value to parse as a number.
	Numeric bool
	// Required marks a rule that must be bound. Only meaningful for
	// positional rules; flagged rules are matched when present.
	Required bool
	// Default applies when a value rule is absent. HasDefault distinguishes
	// an explicit empty default from no default at all.
	Default    string
	HasDefault bool
	// Choices lists allowed values. Informational only; values are not
	// checked against it.
	Choices []string
	// Help is the usage line for this rule.
	Help string
}

// Positional reports whether the rule is bound by position alone.
func (r Rule) Positional() bool {
	return r.Short == "" && r.Long == ""
}

// UnknownFlagError is returned when a leading-dash token matches no rule.
type UnknownFlagError struct {
	Flag string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag: %s", e.Flag)
}

// ArgCountError is returned when the wrong number of positional arguments
// is provided.
type ArgCountError struct {
	Program  string
	Expected string // "2", "1-2", "at most 3"
	Got      int
}

func (e *ArgCountError) Error() string {
	if e.Program != "" {
		return fmt.Sprintf("'%s' requires %s positional argument(s), got %d", e.Program, e.Expected, e.Got)
	}
	return fmt.Sprintf("requires %s positional argument(s), got %d", e.Expected, e.Got)
}

// ValueError is returned when a value rule has no usable value: the value
// is missing entirely, or it fails the rule's numeric check.
type ValueError struct {
	Rule    string
	Value   string
	Missing bool
}

func (e *ValueError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s requires a value", e.Rule)
	}
	return fmt.Sprintf("invalid value %q for %s: not a number", e.Value, e.Rule)
}

// DuplicateRuleError is returned by NewGrammar when two rules collide on a
// name or a flag form.
type DuplicateRuleError struct {
	Name string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("duplicate rule: %s", e.Name)
}

// Grammar is an immutable, matcher-ready rule set.
type Grammar struct {
	Program string
	About   string

	rules    []Rule
	byShort  map[string]int // short forms -> rules index
	byLong   map[string]int // long forms -> rules index
	posIdx   []int          // rules indexes of positional slots, in order
	reqSlots int
}

// NewGrammar builds a grammar from rules in the given order. Rule names
// and flag forms must be unique across the set.
func NewGrammar(program, about string, rules []Rule) (*Grammar, error) {
	g := &Grammar{
		Program: program,
		About:   about,
		rules:   rules,
		byShort: make(map[string]int),
		byLong:  make(map[string]int),
	}
	names := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule %d has no name", i)
		}
		if names[r.Name] {
			return nil, &DuplicateRuleError{Name: r.Name}
		}
		names[r.Name] = true
		if r.Short != "" {
			if _, ok := g.byShort[r.Short]; ok {
				return nil, &DuplicateRuleError{Name: "-" + r.Short}
			}
			g.byShort[r.Short] = i
		}
		if r.Long != "" {
			if _, ok := g.byLong[r.Long]; ok {
				return nil, &DuplicateRuleError{Name: "--" + r.Long}
			}
			g.byLong[r.Long] = i
		}
		if r.Positional() {
			g.posIdx = append(g.posIdx, i)
			if r.Required {
				g.reqSlots++
			}
		}
	}
	return g, nil
}

// Rules returns the grammar's rules in declaration order.
func (g *Grammar) Rules() []Rule {
	return g.rules
}

// Result holds the outcome of a match, queried per rule name.
type Result struct {
	present map[string]bool
	values  map[string]string
}

// Present reports whether the named rule was supplied on the command line.
// Defaults do not count as present.
func (r *Result) Present(name string) bool {
	return r.present[name]
}

// Value returns the matched value for the named rule. Defaults applied by
// the grammar count as values.
func (r *Result) Value(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Match matches argv against the grammar. argv[0] represents the program's
// own name and is discarded.
//
// Flags accept -f value, -f=value, --flag value and --flag=value forms.
// Presence flags never consume the following token. Tokens that parse as
// negative numbers are treated as values, not flags. Remaining tokens bind
// to positional slots in declaration order.
func (g *Grammar) Match(argv []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv: the first element must be the program name")
	}
	args := argv[1:]
	res := &Result{
		present: make(map[string]bool),
		values:  make(map[string]string),
	}

	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" || isNumeric(arg) {
			positionals = append(positionals, arg)
			continue
		}

		// The dash count picks the lookup table: --name is a long form,
		// -n a short form. Collapsing them would let -name match longs.
		table := g.byShort
		name := strings.TrimPrefix(arg, "-")
		if strings.HasPrefix(name, "-") {
			table = g.byLong
			name = name[1:]
		}
		var inline string
		var hasInline bool
		if idx := strings.Index(name, "="); idx >= 0 {
			inline = name[idx+1:]
			name = name[:idx]
			hasInline = true
		}
		ri, ok := table[name]
		if !ok {
			return nil, &UnknownFlagError{Flag: arg}
		}
		rule := g.rules[ri]

		if !rule.TakesValue {
			// An inline value on a presence flag is accepted and ignored.
			res.present[rule.Name] = true
			continue
		}

		value := inline
		if !hasInline {
			if i+1 < len(args) && (!strings.HasPrefix(args[i+1], "-") || isNumeric(args[i+1])) {
				value = args[i+1]
				i++
			} else {
				return nil, &ValueError{Rule: rule.Name, Missing: true}
			}
		}
		if rule.Numeric && !isNumeric(value) {
			return nil, &ValueError{Rule: rule.Name, Value: value}
		}
		res.present[rule.Name] = true
		res.values[rule.Name] = value
	}

	if err := g.bindPositionals(res, positionals); err != nil {
		return nil, err
	}

	for _, rule := range g.rules {
		if !rule.TakesValue || !rule.HasDefault {
			continue
		}
		if _, ok := res.values[rule.Name]; !ok {
			res.values[rule.Name] = rule.Default
		}
	}
	return res, nil
}

func (g *Grammar) bindPositionals(res *Result, positionals []string) error {
	if len(positionals) < g.reqSlots || len(positionals) > len(g.posIdx) {
		return &ArgCountError{
			Program:  g.Program,
			Expected: g.expectedSlots(),
			Got:      len(positionals),
		}
	}
	for i, tok := range positionals {
		rule := g.rules[g.posIdx[i]]
		if rule.Numeric && !isNumeric(tok) {
			return &ValueError{Rule: rule.Name, Value: tok}
		}
		res.present[rule.Name] = true
		res.values[rule.Name] = tok
	}
	return nil
}

func (g *Grammar) expectedSlots() string {
	if g.reqSlots == len(g.posIdx) {
		return fmt.Sprintf("%d", g.reqSlots)
	}
	return fmt.Sprintf("%d-%d", g.reqSlots, len(g.posIdx))
}

// isNumeric checks if a string is a number (e.g., "10", "-10", "3.14", "-3.14")
func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}

	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}

	hasDigit := false
	hasDot := false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}
