// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spec parses and validates the YAML argument schema: a versioned
// document naming a program and an ordered list of argument entries.
package spec

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoDocs is returned when the schema text contains no YAML document.
	ErrNoDocs = errors.New("no documents in the given schema")

	// ErrMultiDocs is returned when the schema text contains more than one
	// YAML document. Multi-document streams are ambiguous here and rejected.
	ErrMultiDocs = errors.New("multiple documents in the given schema, exactly one is required")

	// ErrMissingProgram is returned when the schema has no program name.
	ErrMissingProgram = errors.New("schema is missing a program name")
)

// supportedVersions is the exact set of accepted schema versions.
var supportedVersions = []string{"1.0.0"}

// SupportedVersions returns the accepted schema versions.
func SupportedVersions() []string {
	return slices.Clone(supportedVersions)
}

// VersionError is returned when the schema declares no version or one
// outside the supported set.
type VersionError struct {
	Version string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported schema version %q (supported: %s)",
		e.Version, strings.Join(supportedVersions, ", "))
}

// Specification is the loaded schema document. It is immutable after Load;
// the argument list and any grammar derived from it are pure functions of
// its contents.
type Specification struct {
	Version      string
	Program      string
	About        string
	OutputPrefix string

	args []Argument
}

// Args returns the argument entries in declaration order. The order is
// significant: it drives both grammar construction and output composition,
// and fixes positional-argument order.
func (s *Specification) Args() []Argument {
	return s.args
}

// Load parses schema text and validates its top-level fields: exactly one
// YAML document, a supported version, and a non-empty program name. The
// version and program checks are independent; the first failure wins.
func Load(text string) (*Specification, error) {
	doc, err := loadSingleDoc(text)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Version      string      `yaml:"version"`
		Program      string      `yaml:"program"`
		About        string      `yaml:"about"`
		OutputPrefix string      `yaml:"output_prefix"`
		Args         []yaml.Node `yaml:"args"`
	}
	if err := doc.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}

	if !versionSupported(raw.Version) {
		return nil, &VersionError{Version: raw.Version}
	}
	if raw.Program == "" {
		return nil, ErrMissingProgram
	}

	s := &Specification{
		Version:      raw.Version,
		Program:      raw.Program,
		About:        raw.About,
		OutputPrefix: raw.OutputPrefix,
		args:         make([]Argument, 0, len(raw.Args)),
	}
	for i := range raw.Args {
		s.args = append(s.args, newArgument(&raw.Args[i]))
	}
	return s, nil
}

func loadSingleDoc(text string) (*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoDocs
		}
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, ErrMultiDocs
	}
	return &doc, nil
}

// versionSupported requires an explicit, fully-formed version string.
// Unquoted numeric shorthands like 1.0 decode to "1.0" and fail the strict
// semver parse before the membership check.
func versionSupported(v string) bool {
	if _, err := semver.StrictNewVersion(v); err != nil {
		return false
	}
	return slices.Contains(supportedVersions, v)
}
