// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ramen turns a YAML argument schema and a raw token stream into
// eval-able shell variable assignments. The flow is one straight line:
// Compile lowers the schema into a grammar, Match runs the token stream
// through it, and Compose walks the schema again to emit one KEY=VALUE
// line per argument. Parse chains the three.
//
// A Specification is immutable and holds no external state, so any number
// of schemas can be compiled concurrently in one process.
package ramen

import (
	"fmt"
	"strings"

	"github.com/ramen-sh/ramen/pkg/argmatch"
	"github.com/ramen-sh/ramen/pkg/spec"
)

// sentinelProgram satisfies the matcher's convention that the first argv
// element is the program's own name. It is discarded, never matched.
const sentinelProgram = "PROG"

// Compile parses and validates schema text and lowers its argument list
// into a grammar. Identifier resolution is fail-fast: the first entry with
// no name source aborts the compile. Duplicate identifiers are left to the
// grammar construction to reject.
func Compile(text string) (*spec.Specification, *argmatch.Grammar, error) {
	s, err := spec.Load(text)
	if err != nil {
		return nil, nil, err
	}

	args := s.Args()
	rules := make([]argmatch.Rule, 0, len(args))
	for i, arg := range args {
		id, err := arg.Identifier()
		if err != nil {
			return nil, nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		rule := argmatch.Rule{
			Name:       id,
			Short:      arg.Short(),
			Long:       arg.Long(),
			TakesValue: !arg.IsFlag(),
			Numeric:    arg.Type() == spec.TypeNumber,
			Required:   arg.IsPositional(),
			Choices:    arg.Select(),
			Help:       arg.Help(),
		}
		if d, ok := arg.Default(); ok {
			rule.Default = d
			rule.HasDefault = true
		}
		rules = append(rules, rule)
	}

	g, err := argmatch.NewGrammar(s.Program, s.About, rules)
	if err != nil {
		return nil, nil, err
	}
	return s, g, nil
}

// Match runs tokens through the grammar. The sentinel program token is
// prepended only when not already first, so normalization is idempotent.
// Engine failures are surfaced as-is.
func Match(g *argmatch.Grammar, tokens []string) (*argmatch.Result, error) {
	argv := tokens
	if len(argv) == 0 || argv[0] != sentinelProgram {
		argv = append([]string{sentinelProgram}, argv...)
	}
	return g.Match(argv)
}

// Compose walks the schema's argument list in declaration order against a
// match result and renders one KEY=VALUE line per argument. Flags always
// produce a line, false when absent. Value arguments produce a line only
// when a value was supplied or defaulted. Keys carry the schema's
// output_prefix verbatim. Values are not quoted or escaped.
func Compose(s *spec.Specification, res *argmatch.Result) (string, error) {
	return ComposeWithPrefix(s, res, s.OutputPrefix)
}

// ComposeWithPrefix renders like Compose but with an explicit output-key
// prefix in place of the schema's own, so a caller can supply a
// config-level default without writing to the loaded document.
func ComposeWithPrefix(s *spec.Specification, res *argmatch.Result, prefix string) (string, error) {
	var b strings.Builder
	for i, arg := range s.Args() {
		id, err := arg.Identifier()
		if err != nil {
			return "", fmt.Errorf("args[%d]: %w", i, err)
		}
		key := prefix + id
		if arg.IsFlag() {
			fmt.Fprintf(&b, "%s=%t\n", key, res.Present(id))
			continue
		}
		if v, ok := res.Value(id); ok {
			fmt.Fprintf(&b, "%s=%s\n", key, v)
		}
	}
	return b.String(), nil
}

// Parse compiles the schema, matches the tokens, and composes the output.
func Parse(text string, tokens []string) (string, error) {
	s, g, err := Compile(text)
	if err != nil {
		return "", err
	}
	res, err := Match(g, tokens)
	if err != nil {
		return "", err
	}
	return Compose(s, res)
}
