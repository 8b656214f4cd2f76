// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// Argument value types accepted by the schema.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// ErrMissingName is returned when an argument entry has no name source:
// no name field, no long or short form, and no bare string.
var ErrMissingName = errors.New("argument has no name")

// Argument is one schema entry. It comes in two shapes, fixed when the
// schema is loaded: a bare string ("SRC", "-t/--threads") or a mapping
// with explicit fields. Explicit fields win over bare-string-derived
// values. Arguments are immutable; every accessor is a pure projection.
type Argument struct {
	bare    string
	name    string
	short   string
	long    string
	typ     string
	def     string
	hasDef  bool
	help    string
	choices []string
}

// newArgument fixes the entry's shape from its YAML node. Malformed
// optional fields degrade to their zero values rather than failing;
// an entry with no usable name source fails later, at Identifier time.
func newArgument(n *yaml.Node) Argument {
	var a Argument
	switch n.Kind {
	case yaml.ScalarNode:
		a.bare = n.Value
	case yaml.MappingNode:
		var fields map[string]yaml.Node
		if err := n.Decode(&fields); err != nil {
			return a
		}
		a.name = scalar(fields, "name")
		a.short = scalar(fields, "short")
		a.long = scalar(fields, "long")
		a.typ = scalar(fields, "type")
		a.help = scalar(fields, "help")
		if d, ok := fields["default"]; ok && d.Kind == yaml.ScalarNode && d.Tag != "!!null" {
			a.def = d.Value
			a.hasDef = true
		}
		if sel, ok := fields["select"]; ok {
			var choices []string
			if err := sel.Decode(&choices); err == nil {
				a.choices = choices
			}
		}
	}
	return a
}

func scalar(fields map[string]yaml.Node, key string) string {
	n, ok := fields[key]
	if !ok || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

// Short returns the single-character short flag form, without the dash.
// The explicit field wins over a bare-string-derived value.
func (a Argument) Short() string {
	if a.short != "" {
		return a.short[:1]
	}
	s, _ := ResolveShorthand(a.bare)
	return s
}

// Long returns the long flag form, without the dashes.
func (a Argument) Long() string {
	if a.long != "" {
		return a.long
	}
	_, l := ResolveShorthand(a.bare)
	return l
}

// Identifier returns the argument's stable name: the name field, else the
// long form, else the short form, else the raw bare string. This is the
// only accessor that can fail.
func (a Argument) Identifier() (string, error) {
	if a.name != "" {
		return a.name, nil
	}
	if l := a.Long(); l != "" {
		return l, nil
	}
	if s := a.Short(); s != "" {
		return s, nil
	}
	if a.bare != "" {
		return a.bare, nil
	}
	return "", ErrMissingName
}

// Type returns the declared value type, defaulting to string.
func (a Argument) Type() string {
	if a.typ == "" {
		return TypeString
	}
	return a.typ
}

// IsFlag reports whether the argument is a presence flag.
func (a Argument) IsFlag() bool {
	return a.Type() == TypeBoolean
}

// IsPositional reports whether the argument is bound by position alone.
func (a Argument) IsPositional() bool {
	return a.Short() == "" && a.Long() == ""
}

// Default returns the declared default value as its scalar text, so
// `default: 8` and `default: "8"` agree.
func (a Argument) Default() (string, bool) {
	return a.def, a.hasDef
}

// Help returns the declared help text.
func (a Argument) Help() string {
	return a.help
}

// Select returns the constrained-choice set, in declaration order.
func (a Argument) Select() []string {
	return a.choices
}
