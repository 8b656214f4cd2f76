// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import "regexp"

// shorthandRE recognizes the compact flag notation: "-t/--threads",
// "--threads" alone, or "-t" alone. The long word starts with a letter and
// continues with letters, digits, or hyphens, two characters minimum.
var shorthandRE = regexp.MustCompile(`^(?:-([A-Za-z]+)/)?--([A-Za-z][A-Za-z0-9-]+)$|^-([A-Za-z]+)$`)

// ResolveShorthand extracts the short and long flag forms from a shorthand
// string. It is total: strings that don't match the notation yield neither
// form. Multi-character short captures truncate to their first character.
func ResolveShorthand(s string) (short, long string) {
	m := shorthandRE.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	if m[3] != "" {
		return m[3][:1], ""
	}
	if m[1] != "" {
		return m[1][:1], m[2]
	}
	return "", m[2]
}
