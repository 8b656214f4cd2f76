// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ramen-sh/ramen/pkg/ramen"
)

func stubTerminal(t *testing.T, piped string) {
	t.Helper()
	origTerm, origStdin := isTerminalFn, stdin
	t.Cleanup(func() {
		isTerminalFn, stdin = origTerm, origStdin
	})
	if piped == "" {
		isTerminalFn = func(int) bool { return true }
		return
	}
	isTerminalFn = func(int) bool { return false }
	stdin = strings.NewReader(piped)
}

func TestSplitTokens(t *testing.T) {
	cases := []struct {
		in     []string
		rest   []string
		tokens []string
	}{
		{[]string{"schema", "--", "a", "-v"}, []string{"schema"}, []string{"a", "-v"}},
		{[]string{"schema"}, []string{"schema"}, nil},
		{[]string{"--", "a"}, []string{}, []string{"a"}},
		{[]string{"a", "--", "b", "--", "c"}, []string{"a"}, []string{"b", "--", "c"}},
		{nil, nil, nil},
	}
	for _, tc := range cases {
		rest, tokens := splitTokens(tc.in)
		if !equalTokens(rest, tc.rest) || !equalTokens(tokens, tc.tokens) {
			t.Fatalf("splitTokens(%v) = (%v, %v), want (%v, %v)",
				tc.in, rest, tokens, tc.rest, tc.tokens)
		}
	}
}

func equalTokens(got, want []string) bool {
	if len(got) == 0 && len(want) == 0 {
		return true
	}
	return reflect.DeepEqual(got, want)
}

func TestResolveSpecConflict(t *testing.T) {
	stubTerminal(t, "program: piped\n")
	_, err := resolveSpec(cliFlags{}, []string{"program: inline"}, nil)
	if err == nil || !strings.Contains(err.Error(), "use only one") {
		t.Fatalf("resolveSpec error = %v, want source conflict", err)
	}
}

func TestResolveSpecArgument(t *testing.T) {
	stubTerminal(t, "")
	text, err := resolveSpec(cliFlags{}, []string{"program: inline"}, nil)
	if err != nil {
		t.Fatalf("resolveSpec returned error: %v", err)
	}
	if text != "program: inline" {
		t.Fatalf("text = %q", text)
	}
}

func TestResolveSpecStdin(t *testing.T) {
	stubTerminal(t, "program: piped\n")
	text, err := resolveSpec(cliFlags{}, nil, nil)
	if err != nil {
		t.Fatalf("resolveSpec returned error: %v", err)
	}
	if text != "program: piped\n" {
		t.Fatalf("text = %q", text)
	}
}

func TestResolveSpecNone(t *testing.T) {
	stubTerminal(t, "")
	_, err := resolveSpec(cliFlags{}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "no schema provided") {
		t.Fatalf("resolveSpec error = %v, want no-schema error", err)
	}
}

func TestResolveSpecUnexpectedArgument(t *testing.T) {
	stubTerminal(t, "")
	_, err := resolveSpec(cliFlags{}, []string{"a", "b"}, nil)
	if err == nil || !strings.Contains(err.Error(), "unexpected argument") {
		t.Fatalf("resolveSpec error = %v, want unexpected-argument error", err)
	}
}

func TestResolveSpecFile(t *testing.T) {
	stubTerminal(t, "")
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("program: from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}
	text, err := resolveSpec(cliFlags{SpecFile: path}, nil, nil)
	if err != nil {
		t.Fatalf("resolveSpec returned error: %v", err)
	}
	if text != "program: from-file\n" {
		t.Fatalf("text = %q", text)
	}
}

func TestResolveSpecFileConflictsWithArgument(t *testing.T) {
	stubTerminal(t, "")
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("program: from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}
	_, err := resolveSpec(cliFlags{SpecFile: path}, []string{"program: inline"}, nil)
	if err == nil || !strings.Contains(err.Error(), "use only one") {
		t.Fatalf("resolveSpec error = %v, want source conflict", err)
	}
}

func TestResolveSpecConfigFallback(t *testing.T) {
	stubTerminal(t, "")
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "cli.yaml"), []byte("program: from-config\n"), 0644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}
	cfg := &ramen.ConfigLocation{Dir: tmp, Config: &ramen.Config{Spec: "cli.yaml"}}
	text, err := resolveSpec(cliFlags{}, nil, cfg)
	if err != nil {
		t.Fatalf("resolveSpec returned error: %v", err)
	}
	if text != "program: from-config\n" {
		t.Fatalf("text = %q", text)
	}

	// An explicit source wins over the configured path without conflicting.
	text, err = resolveSpec(cliFlags{}, []string{"program: inline"}, cfg)
	if err != nil {
		t.Fatalf("resolveSpec returned error: %v", err)
	}
	if text != "program: inline" {
		t.Fatalf("text = %q", text)
	}
}

func TestRunShortFlags(t *testing.T) {
	stubTerminal(t, "")
	schema := "version: \"1.0.0\"\n" +
		"program: upload\n" +
		"args: [SRC]\n"
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte(schema), 0644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}

	// -d must be consumed as --debug, not treated as a schema argument.
	var out bytes.Buffer
	if err := run([]string{"-d", schema, "--", "a"}, &out); err != nil {
		t.Fatalf("run with -d returned error: %v", err)
	}
	if out.String() != "SRC=a\n" {
		t.Fatalf("output = %q, want SRC=a", out.String())
	}

	out.Reset()
	if err := run([]string{"-f", path, "--", "a"}, &out); err != nil {
		t.Fatalf("run with -f returned error: %v", err)
	}
	if out.String() != "SRC=a\n" {
		t.Fatalf("output = %q, want SRC=a", out.String())
	}
}

func TestRunConfigDefaults(t *testing.T) {
	stubTerminal(t, "")
	tmp := t.TempDir()
	schema := "version: \"1.0.0\"\n" +
		"program: upload\n" +
		"args: [SRC]\n"
	if err := os.WriteFile(filepath.Join(tmp, "cli.yaml"), []byte(schema), 0644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}
	config := "spec = \"cli.yaml\"\noutput_prefix = \"app_\"\n"
	if err := os.WriteFile(filepath.Join(tmp, "ramen.toml"), []byte(config), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Chdir(tmp)

	var out bytes.Buffer
	if err := run([]string{"--", "a"}, &out); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if out.String() != "app_SRC=a\n" {
		t.Fatalf("output = %q, want app_SRC=a", out.String())
	}
}

func TestRunEndToEnd(t *testing.T) {
	stubTerminal(t, "")
	schema := "version: \"1.0.0\"\n" +
		"program: upload\n" +
		"args: [SRC, DST, \"-t/--threads\"]\n"
	var out bytes.Buffer
	err := run([]string{schema, "--", "a", "b", "--threads", "4"}, &out)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	want := "SRC=a\nDST=b\nthreads=4\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}
