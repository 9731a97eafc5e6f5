// ==============================================================================================
// FILE: cmd/chif/main.go
// ==============================================================================================
// PACKAGE: main
// PURPOSE: Thin CLI wiring the four subsystems end-to-end: `chif run FILE` parses, analyzes,
//          and tree-walks a program; `chif compile FILE [-o OUT]` parses, analyzes, and lowers
//          to IR, writing the serialized module. With no arguments it falls back to the REPL.
//          Grounded on the teacher's main.go (runFile + REPL fallback); diagnostics are reported
//          through diagnostics.go's log/slog wiring rather than the teacher's bare fmt.Fprintf.
//          The full CLI surface of spec.md §6 (targets, -O, -g) stays out of scope per
//          SPEC_FULL.md §11 — this is the minimal harness that exercises lexer/parser/semantic/
//          interp/ir, not a re-specification of the CLI contract.
// ==============================================================================================

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"chif/interp"
	"chif/ir"
	"chif/lexer"
	"chif/parser"
	"chif/repl"
	"chif/semantic"
)

func main() {
	if len(os.Args) < 2 {
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	switch os.Args[1] {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: chif run FILE")
			os.Exit(2)
		}
		runFile(os.Args[2])
	case "compile":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: chif compile FILE [-o OUT]")
			os.Exit(2)
		}
		out := ""
		if len(os.Args) >= 5 && os.Args[3] == "-o" {
			out = os.Args[4]
		}
		compileFile(os.Args[2], out)
	default:
		// No recognized subcommand: treat the first argument as a script path, matching
		// the teacher's `go run main.go myfile.eq` convention.
		runFile(os.Args[1])
	}
}

func parseFile(path string) *parser.Parser {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %s\n", path, err)
		os.Exit(1)
	}
	return parser.New(lexer.New(string(data)))
}

func runFile(path string) {
	log := newDiagnosticLogger()

	p := parseFile(path)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		reportParseErrors(log, path, p.Errors())
		os.Exit(1)
	}

	baseDir := filepath.Dir(path)
	if _, err := semantic.Analyze(program, baseDir); err != nil {
		reportStageError(log, "semantic", path, err)
		os.Exit(1)
	}

	i := interp.New(program, baseDir)
	if err := i.Run(); err != nil {
		reportStageError(log, "runtime", path, err)
		os.Exit(1)
	}
}

func compileFile(path, out string) {
	log := newDiagnosticLogger()

	p := parseFile(path)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		reportParseErrors(log, path, p.Errors())
		os.Exit(1)
	}

	baseDir := filepath.Dir(path)
	ap, err := semantic.Analyze(program, baseDir)
	if err != nil {
		reportStageError(log, "semantic", path, err)
		os.Exit(1)
	}

	mod, err := ir.Generate(ap)
	if err != nil {
		reportStageError(log, "ir", path, err)
		os.Exit(1)
	}

	bytes, err := ir.Emit(mod)
	if err != nil {
		reportStageError(log, "emit", path, err)
		os.Exit(1)
	}

	if out == "" {
		base := filepath.Base(path)
		out = base[:len(base)-len(filepath.Ext(base))] + ".chifir"
	}
	if err := os.WriteFile(out, bytes, 0o644); err != nil {
		log.Error(err.Error(), "stage", "write", "file", out)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes, build %s)\n", out, len(bytes), mod.BuildID)
}
