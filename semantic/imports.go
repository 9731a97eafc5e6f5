// ----------------------------------------------------------------------------
// FILE: semantic/imports.go
// PURPOSE: Import resolution (spec.md §4.3, §9 "Module as data"). Imports are resolved
//          non-transitively (SPEC_FULL.md §9 open-question decision): an imported file's
//          own `import` items are not followed, matching
//          original_source/src/semantic.rs's single-level handling. A resolved-module
//          cache keyed by canonicalized absolute path avoids re-parsing a path imported
//          twice, and a resolution stack catches re-entering a path already being
//          resolved (ImportCycle) — cheap insurance the non-transitive policy itself
//          mostly forecloses, kept because SPEC_FULL.md §9 calls for it explicitly.
// ----------------------------------------------------------------------------
package semantic

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"chif/ast"
	"chif/lexer"
	"chif/parser"
)

// ResolvedModule pairs an imported file's parsed Program with the ModuleInfo the analyzer
// derived from it, so downstream consumers (the `ir` package) can lower the same AST
// without re-reading the file.
type ResolvedModule struct {
	Alias   string
	Path    string
	Program *ast.Program
	Info    *ModuleInfo
}

// moduleCache canonicalizes import paths and remembers what has already been resolved
// (or is currently being resolved, for cycle detection) within one Analyze call.
type moduleCache struct {
	resolved  map[string]*ResolvedModule
	resolving map[string]bool
}

func newModuleCache() *moduleCache {
	return &moduleCache{resolved: make(map[string]*ResolvedModule), resolving: make(map[string]bool)}
}

// resolvePath appends ".lang" when the import path carries no extension and joins it to
// baseDir when it is not already absolute, then canonicalizes it (spec.md §9's
// "canonicalized path" cache key).
func resolvePath(baseDir, raw string) (string, error) {
	p := raw
	if filepath.Ext(p) == "" {
		p += ".lang"
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrapf(err, "canonicalizing import path %q", raw)
	}
	return abs, nil
}

// resolveImport reads, lexes, and parses imp (unless already cached), collects its
// top-level functions/structs into a ModuleInfo, and returns the ResolvedModule. Nested
// `import` items inside the resolved file are deliberately skipped (non-transitive
// policy) — the Analyzer never recurses into resolveImport for them.
func (a *Analyzer) resolveImport(imp *ast.Import) (*ResolvedModule, error) {
	abs, err := resolvePath(a.baseDir, imp.Path)
	if err != nil {
		return nil, newError(InvalidOperation, imp.Token.Line, imp.Token.Column, "%s", err)
	}

	if rm, ok := a.cache.resolved[abs]; ok {
		return rm, nil
	}
	if a.cache.resolving[abs] {
		return nil, newError(ImportCycle, imp.Token.Line, imp.Token.Column, "import cycle detected resolving %q", imp.Path)
	}
	a.cache.resolving[abs] = true
	defer delete(a.cache.resolving, abs)

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, newError(InvalidOperation, imp.Token.Line, imp.Token.Column, "%s", errors.Wrapf(err, "reading import %q", abs))
	}

	l := lexer.New(string(src))
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, newError(InvalidOperation, imp.Token.Line, imp.Token.Column,
			"failed to parse import %q: %s", abs, strings.Join(errs, "; "))
	}

	info := &ModuleInfo{Name: moduleAlias(imp), Functions: make(map[string]*FunctionSignature), Structs: make(map[string]*StructInfo)}
	for _, item := range program.Items {
		if def, ok := item.(*ast.StructDef); ok {
			si, err := structInfoFromDef(def)
			if err != nil {
				return nil, err
			}
			info.Structs[def.Name] = si
		}
	}
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			sig, err := functionSignature(it)
			if err != nil {
				return nil, err
			}
			info.Functions[it.Name] = sig
		case *ast.StructImpl:
			si, ok := info.Structs[it.StructName]
			if !ok {
				continue
			}
			for _, m := range it.Methods {
				sig, err := functionSignature(m)
				if err != nil {
					return nil, err
				}
				si.Methods[m.Name] = sig
			}
		}
		// *ast.Import items here are intentionally not resolved (non-transitive policy).
	}

	rm := &ResolvedModule{Alias: moduleAlias(imp), Path: abs, Program: program, Info: info}
	a.cache.resolved[abs] = rm
	return rm, nil
}

func moduleAlias(imp *ast.Import) string {
	if imp.Alias != "" {
		return imp.Alias
	}
	base := filepath.Base(imp.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
