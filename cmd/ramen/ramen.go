// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The ramen command turns a YAML argument schema plus a shell script's
// raw arguments into eval-able variable assignments:
//
//	eval "$(ramen "$schema" -- "$@")"
//
// The schema comes from the first argument, from stdin when piped, from
// --spec-file, or from a ramen.toml found by walking up from the working
// directory. The script's own tokens follow "--" untouched.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/ramen-sh/ramen/pkg/argmatch"
	"github.com/ramen-sh/ramen/pkg/ramen"
	"github.com/shayne/yargs"
	"golang.org/x/term"
)

type cliFlags struct {
	Debug    bool   `flag:"debug" short:"d" help:"Enable debug logging on stderr"`
	SpecFile string `flag:"spec-file" short:"f" help:"Read the schema from a file"`
}

// Stubbed in tests.
var (
	isTerminalFn           = term.IsTerminal
	stdin        io.Reader = os.Stdin
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	result, err := yargs.ParseKnownFlags[cliFlags](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return err
	}
	flags := result.Flags
	rest, tokens := splitTokens(result.RemainingArgs)

	cfg, err := ramen.LoadConfig()
	if err != nil {
		return err
	}

	// Debug output goes to stderr so stdout stays clean for eval.
	if flags.Debug || (cfg != nil && cfg.Config.Debug) {
		log.SetOutput(os.Stderr)
		log.SetPrefix("ramen: ")
		log.SetFlags(0)
	} else {
		log.SetOutput(io.Discard)
	}
	if cfg != nil {
		log.Printf("using config %s", cfg.Path)
	}

	specText, err := resolveSpec(flags, rest, cfg)
	if err != nil {
		return err
	}

	s, g, err := ramen.Compile(specText)
	if err != nil {
		return err
	}
	prefix := s.OutputPrefix
	if prefix == "" && cfg != nil {
		prefix = cfg.Config.OutputPrefix
	}
	log.Printf("compiled schema for %q (%d args)", s.Program, len(s.Args()))

	res, err := ramen.Match(g, tokens)
	if err != nil {
		var ufe *argmatch.UnknownFlagError
		var ace *argmatch.ArgCountError
		var ve *argmatch.ValueError
		if errors.As(err, &ufe) || errors.As(err, &ace) || errors.As(err, &ve) {
			fmt.Fprint(os.Stderr, g.Usage())
		}
		return err
	}

	output, err := ramen.ComposeWithPrefix(s, res, prefix)
	if err != nil {
		return err
	}
	fmt.Fprint(out, output)
	return nil
}

// splitTokens separates the wrapper's own arguments from the script's
// tokens, which follow the first "--".
func splitTokens(args []string) (rest, tokens []string) {
	if i := slices.Index(args, "--"); i >= 0 {
		return args[:i], args[i+1:]
	}
	return args, nil
}

// resolveSpec picks the schema text from exactly one source. Supplying it
// through more than one channel is ambiguous and rejected; the ramen.toml
// spec path is a fallback, not a competing source.
func resolveSpec(flags cliFlags, rest []string, cfg *ramen.ConfigLocation) (string, error) {
	if len(rest) > 1 {
		return "", fmt.Errorf("unexpected argument: %q", rest[1])
	}

	type source struct {
		name string
		text string
	}
	var sources []source
	if len(rest) == 1 && rest[0] != "" {
		sources = append(sources, source{"command-line argument", rest[0]})
	}
	if flags.SpecFile != "" {
		b, err := os.ReadFile(flags.SpecFile)
		if err != nil {
			return "", fmt.Errorf("failed to read schema file: %v", err)
		}
		sources = append(sources, source{"--spec-file", string(b)})
	}
	piped, err := readStdin()
	if err != nil {
		return "", err
	}
	if piped != "" {
		sources = append(sources, source{"stdin", piped})
	}

	if len(sources) > 1 {
		return "", fmt.Errorf("schema provided through both %s and %s, use only one",
			sources[0].name, sources[1].name)
	}
	if len(sources) == 1 {
		log.Printf("schema from %s", sources[0].name)
		return sources[0].text, nil
	}
	if path := cfg.SpecPath(); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read schema file: %v", err)
		}
		log.Printf("schema from %s", path)
		return string(b), nil
	}
	return "", errors.New("no schema provided: pass it as an argument, pipe it on stdin, or set spec in ramen.toml")
}

// readStdin returns piped schema text, avoiding the read when stdin is
// connected to a terminal.
func readStdin() (string, error) {
	if isTerminalFn(int(os.Stdin.Fd())) {
		return "", nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %v", err)
	}
	return string(b), nil
}
