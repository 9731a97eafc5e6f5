// ==============================================================================================
// FILE: interp/interp.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: The tree-walking Interpreter — direct AST evaluation against a global map, a stack
//          of local scope maps (innermost last), and a module registry (spec.md §4.4).
// ==============================================================================================

package interp

import (
	"bufio"
	"io"
	"os"

	"chif/ast"
	"chif/object"
)

// Interpreter evaluates an already-parsed Program directly, without lowering to IR.
type Interpreter struct {
	globals map[string]object.Object
	locals  []map[string]object.Object // innermost scope last
	structs map[string]*object.StructDefinition

	// moduleCache avoids re-parsing the same import twice within one run; imports are
	// resolved non-transitively (spec.md §9 open-question decision — see SPEC_FULL.md §9).
	moduleCache map[string]*object.Module
	baseDir     string

	// loadErr captures the first import-resolution failure (file read or parse error) so Run
	// can report it before execution begins, since loadProgram itself has no error return.
	loadErr error

	stdin  *bufio.Reader
	stdout io.Writer
}

// New builds an Interpreter over a parsed program, registering every top-level function,
// struct definition, and method set into the global scope, plus the builtins of SPEC_FULL.md
// §10 (con, http, randi/randf/rands, int/float/str).
func New(program *ast.Program, baseDir string) *Interpreter {
	i := &Interpreter{
		globals:     make(map[string]object.Object),
		structs:     make(map[string]*object.StructDefinition),
		moduleCache: make(map[string]*object.Module),
		baseDir:     baseDir,
		stdin:       bufio.NewReader(os.Stdin),
		stdout:      os.Stdout,
	}
	i.registerBuiltins()
	i.loadProgram(program)
	return i
}

// SetStdout redirects console output (used by the REPL and tests).
func (i *Interpreter) SetStdout(w io.Writer) { i.stdout = w }

func (i *Interpreter) loadProgram(program *ast.Program) {
	// Pass 1: struct definitions, so method registration in pass 2 always finds them.
	for _, item := range program.Items {
		if def, ok := item.(*ast.StructDef); ok {
			fields := make([]string, len(def.Fields))
			for idx, f := range def.Fields {
				fields[idx] = f.Name
			}
			i.structs[def.Name] = &object.StructDefinition{
				Name:       def.Name,
				FieldOrder: fields,
				Methods:    make(map[string]*ast.Function),
			}
		}
	}
	// Pass 2: functions, method sets, imports.
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			i.globals[it.Name] = &object.Function{Decl: it}
		case *ast.StructImpl:
			def, ok := i.structs[it.StructName]
			if !ok {
				continue
			}
			for _, m := range it.Methods {
				def.Methods[m.Name] = m
			}
		case *ast.Import:
			i.resolveImport(it)
		}
	}
}

// Run locates `main`, asserts it is the designated entry point, and invokes it with no
// arguments (spec.md §4.4).
func (i *Interpreter) Run() error {
	if i.loadErr != nil {
		return i.loadErr
	}
	mainObj, ok := i.globals["main"]
	if !ok {
		return newError(FunctionNotFound, "no chif main() declared")
	}
	fn, ok := mainObj.(*object.Function)
	if !ok || !fn.Decl.IsMain {
		return newError(FunctionNotFound, "'main' is not the designated entry point")
	}
	_, err := i.callFunction(fn, nil)
	return err
}

// pushScope/popScope manage the locals stack; each function call gets one fresh frame.
func (i *Interpreter) pushScope() map[string]object.Object {
	scope := make(map[string]object.Object)
	i.locals = append(i.locals, scope)
	return scope
}

func (i *Interpreter) popScope() {
	i.locals = i.locals[:len(i.locals)-1]
}

// lookup walks the local stack top to bottom, falling through to globals.
func (i *Interpreter) lookup(name string) (object.Object, bool) {
	for idx := len(i.locals) - 1; idx >= 0; idx-- {
		if val, ok := i.locals[idx][name]; ok {
			return val, true
		}
	}
	val, ok := i.globals[name]
	return val, ok
}

// ownerScope returns the exact scope map that currently binds name, used to materialize a
// Reference (spec.md §4.4) and to implement assignment-mutates-innermost-containing-scope.
func (i *Interpreter) ownerScope(name string) map[string]object.Object {
	for idx := len(i.locals) - 1; idx >= 0; idx-- {
		if _, ok := i.locals[idx][name]; ok {
			return i.locals[idx]
		}
	}
	if _, ok := i.globals[name]; ok {
		return i.globals
	}
	return nil
}

// assign writes to the innermost scope already containing name, or creates name fresh in the
// innermost scope if it is new (spec.md §4.4).
func (i *Interpreter) assign(name string, val object.Object) {
	if scope := i.ownerScope(name); scope != nil {
		scope[name] = val
		return
	}
	if len(i.locals) > 0 {
		i.locals[len(i.locals)-1][name] = val
		return
	}
	i.globals[name] = val
}

// declare always creates name in the innermost active scope (or globals at top level),
// shadowing any outer binding of the same name.
func (i *Interpreter) declare(name string, val object.Object) {
	if len(i.locals) > 0 {
		i.locals[len(i.locals)-1][name] = val
		return
	}
	i.globals[name] = val
}

// callFunction pushes a fresh scope, binds parameters positionally, executes the body, and
// pops the scope. A `return` is unwound via object.ReturnValue; falling off the end yields Nil.
func (i *Interpreter) callFunction(fn *object.Function, args []object.Object) (object.Object, error) {
	scope := i.pushScope()
	defer i.popScope()

	for idx, param := range fn.Decl.Params {
		if idx >= len(args) {
			break
		}
		scope[param.Name] = args[idx]
	}

	result, err := i.evalStatements(fn.Decl.Body.Statements)
	if err != nil {
		return nil, err
	}
	if rv, ok := result.(*object.ReturnValue); ok {
		return rv.Value, nil
	}
	return object.NIL, nil
}

// callMethod runs a method with selfVal bound to the implicit `self` parameter.
func (i *Interpreter) callMethod(decl *ast.Function, selfVal object.Object, args []object.Object) (object.Object, error) {
	scope := i.pushScope()
	defer i.popScope()

	scope["self"] = selfVal
	for idx, param := range decl.Params {
		if param.IsSelf {
			continue
		}
		argIdx := idx - 1
		if argIdx >= 0 && argIdx < len(args) {
			scope[param.Name] = args[argIdx]
		}
	}

	result, err := i.evalBlock(decl.Body)
	if err != nil {
		return nil, err
	}
	if rv, ok := result.(*object.ReturnValue); ok {
		return rv.Value, nil
	}
	return object.NIL, nil
}
