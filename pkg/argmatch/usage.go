// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"fmt"
	"strings"
)

// Usage renders a help message for the grammar, suitable for printing
// when a match fails.
func (g *Grammar) Usage() string {
	var b strings.Builder

	b.WriteString(g.Program)
	if g.About != "" {
		b.WriteString(" - ")
		b.WriteString(g.About)
	}
	b.WriteString("\n\n")

	b.WriteString("USAGE:\n")
	usage := fmt.Sprintf("    %s", g.Program)
	hasFlags := false
	for _, rule := range g.rules {
		if !rule.Positional() {
			hasFlags = true
			break
		}
	}
	if hasFlags {
		usage += " [OPTIONS]"
	}
	for _, i := range g.posIdx {
		rule := g.rules[i]
		if rule.Required {
			usage += fmt.Sprintf(" <%s>", rule.Name)
		} else {
			usage += fmt.Sprintf(" [%s]", rule.Name)
		}
	}
	b.WriteString(usage)
	b.WriteString("\n")

	var posLines, flagLines []string
	for _, rule := range g.rules {
		if rule.Positional() {
			posLines = append(posLines, fmt.Sprintf("    %-20s %s", rule.Name, rule.Help))
			continue
		}
		var form string
		switch {
		case rule.Short != "" && rule.Long != "":
			form = fmt.Sprintf("    -%s, --%s", rule.Short, rule.Long)
		case rule.Long != "":
			form = fmt.Sprintf("    --%s", rule.Long)
		default:
			form = fmt.Sprintf("    -%s", rule.Short)
		}
		line := fmt.Sprintf("%-28s %s", form, rule.Help)
		if rule.Default != "" {
			line += fmt.Sprintf(" (default: %s)", rule.Default)
		}
		if len(rule.Choices) > 0 {
			line += fmt.Sprintf(" [possible values: %s]", strings.Join(rule.Choices, ", "))
		}
		flagLines = append(flagLines, line)
	}

	if len(posLines) > 0 {
		b.WriteString("\nARGUMENTS:\n")
		for _, line := range posLines {
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteString("\n")
		}
	}
	if len(flagLines) > 0 {
		b.WriteString("\nOPTIONS:\n")
		for _, line := range flagLines {
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteString("\n")
		}
	}
	return b.String()
}
