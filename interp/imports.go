// ----------------------------------------------------------------------------
// FILE: interp/imports.go
// PURPOSE: Import resolution (spec.md §9 open-question decision, SPEC_FULL.md §9): imports are
//          resolved non-transitively — an imported file's own `import` items are not followed —
//          matching original_source/src/semantic.rs's single-level handling.
// ----------------------------------------------------------------------------
package interp

import (
	"os"
	"path/filepath"
	"strings"

	"chif/ast"
	"chif/lexer"
	"chif/object"
	"chif/parser"
)

// resolveImport reads, lexes, and parses the imported file (appending the ".lang" extension
// when the path carries none), then registers its top-level functions and struct definitions
// under a Module bound to the import's alias (or the file's base name when no alias is given).
func (i *Interpreter) resolveImport(imp *ast.Import) {
	resolvedPath := imp.Path
	if filepath.Ext(resolvedPath) == "" {
		resolvedPath += ".lang"
	}
	fullPath := resolvedPath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(i.baseDir, resolvedPath)
	}

	if cached, ok := i.moduleCache[fullPath]; ok {
		i.globals[moduleAlias(imp)] = cached
		return
	}

	mod := &object.Module{Name: moduleAlias(imp), Members: make(map[string]object.Object)}
	i.moduleCache[fullPath] = mod
	i.globals[moduleAlias(imp)] = mod

	src, err := os.ReadFile(fullPath)
	if err != nil {
		if i.loadErr == nil {
			i.loadErr = newError(InvalidOperation, "failed to read import %q: %s", fullPath, err)
		}
		return
	}

	l := lexer.New(string(src))
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		if i.loadErr == nil {
			i.loadErr = newError(InvalidOperation, "failed to parse import %q: %s", fullPath, strings.Join(p.Errors(), "; "))
		}
		return
	}

	structs := make(map[string]*object.StructDefinition)
	for _, item := range program.Items {
		if def, ok := item.(*ast.StructDef); ok {
			fields := make([]string, len(def.Fields))
			for idx, f := range def.Fields {
				fields[idx] = f.Name
			}
			sd := &object.StructDefinition{Name: def.Name, FieldOrder: fields, Methods: make(map[string]*ast.Function)}
			structs[def.Name] = sd
			mod.Members[def.Name] = sd
		}
	}
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			mod.Members[it.Name] = &object.Function{Decl: it}
		case *ast.StructImpl:
			if sd, ok := structs[it.StructName]; ok {
				for _, m := range it.Methods {
					sd.Methods[m.Name] = m
				}
			}
		}
		// Nested imports inside the imported file are deliberately not resolved (non-transitive
		// import policy) — an `import` item here is simply skipped.
	}
}

func moduleAlias(imp *ast.Import) string {
	if imp.Alias != "" {
		return imp.Alias
	}
	base := filepath.Base(imp.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
