// ==============================================================================================
// FILE: cmd/chif/diagnostics.go
// ==============================================================================================
// PACKAGE: main
// PURPOSE: Structured diagnostic printing for parse/semantic/ir/runtime failures
//          (SPEC_FULL.md §7's ambient `log/slog` choice). Each pipeline stage logs one
//          leveled, field-based record per error instead of a bare fmt line, so the taxonomy's
//          Kind/Line/Column survive onto stderr instead of being flattened into prose.
// ==============================================================================================

package main

import (
	"log/slog"
	"os"

	"chif/interp"
	"chif/ir"
	"chif/semantic"
)

func newDiagnosticLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// reportParseErrors logs every syntax error under the "parse" stage, preceded by a summary
// record so a reader (or a later tool grepping stderr) sees the count before the detail.
func reportParseErrors(log *slog.Logger, path string, errs []string) {
	log.Error("parse failed", "stage", "parse", "file", path, "count", len(errs))
	for _, msg := range errs {
		log.Error(msg, "stage", "parse", "file", path)
	}
}

// reportStageError logs a single stage failure. It pulls Kind (and Line/Column, when the
// taxonomy member carries position) into their own fields rather than relying on err.Error()'s
// flattened string.
func reportStageError(log *slog.Logger, stage, path string, err error) {
	switch e := err.(type) {
	case *semantic.Error:
		log.Error(e.Message, "stage", stage, "file", path, "kind", string(e.Kind), "line", e.Line, "column", e.Column)
	case *ir.Error:
		log.Error(e.Message, "stage", stage, "file", path, "kind", string(e.Kind))
	case *interp.RuntimeError:
		log.Error(e.Message, "stage", stage, "file", path, "kind", string(e.Kind))
	default:
		log.Error(err.Error(), "stage", stage, "file", path)
	}
}
