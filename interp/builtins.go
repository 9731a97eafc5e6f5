// ----------------------------------------------------------------------------
// FILE: interp/builtins.go
// PURPOSE: The global built-in seed (SPEC_FULL.md §10): con (console I/O), http (request/response
//          I/O over net/http), randi/randf/rands, and the int/float/str conversions.
// ----------------------------------------------------------------------------
package interp

import (
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"chif/object"
)

func (i *Interpreter) registerBuiltins() {
	i.globals["con"] = &object.Module{Name: "con", Members: map[string]object.Object{
		"out": &object.Builtin{Name: "con.out", Fn: i.builtinConsoleOut},
		"in":  &object.Builtin{Name: "con.in", Fn: i.builtinConsoleIn},
	}}
	i.globals["http"] = &object.Module{Name: "http", Members: map[string]object.Object{
		"get":    &object.Builtin{Name: "http.get", Fn: builtinHTTPGet},
		"post":   &object.Builtin{Name: "http.post", Fn: builtinHTTPPost},
		"put":    &object.Builtin{Name: "http.put", Fn: builtinHTTPPut},
		"delete": &object.Builtin{Name: "http.delete", Fn: builtinHTTPDelete},
	}}
	i.globals["randi"] = &object.Builtin{Name: "randi", Fn: builtinRandi}
	i.globals["randf"] = &object.Builtin{Name: "randf", Fn: builtinRandf}
	i.globals["rands"] = &object.Builtin{Name: "rands", Fn: builtinRands}
	i.globals["int"] = &object.Builtin{Name: "int", Fn: builtinInt}
	i.globals["float"] = &object.Builtin{Name: "float", Fn: builtinFloat}
	i.globals["str"] = &object.Builtin{Name: "str", Fn: builtinStr}
}

func (i *Interpreter) builtinConsoleOut(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, newError(InvalidOperation, "con.out expects 1 argument, got %d", len(args))
	}
	fmt.Fprintln(i.stdout, args[0].Inspect())
	return object.NIL, nil
}

// builtinConsoleIn reads one line of console input and always returns it as a Str, without
// the trailing newline; int/float conversion is left to the int()/float() builtins.
func (i *Interpreter) builtinConsoleIn(args ...object.Object) (object.Object, error) {
	if len(args) != 0 {
		return nil, newError(InvalidOperation, "con.in expects no arguments, got %d", len(args))
	}
	line, err := i.stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, newError(InvalidOperation, "con.in: %s", err)
	}
	return &object.Str{Value: strings.TrimRight(line, "\r\n")}, nil
}

func builtinRandi(args ...object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, newError(InvalidOperation, "randi expects 2 arguments, got %d", len(args))
	}
	lo, ok := args[0].(*object.Integer)
	if !ok {
		return nil, newError(TypeMismatch, "randi expects Int arguments")
	}
	hi, ok := args[1].(*object.Integer)
	if !ok {
		return nil, newError(TypeMismatch, "randi expects Int arguments")
	}
	if lo.Value > hi.Value {
		return nil, newError(InvalidOperation, "randi: min cannot be greater than max")
	}
	span := hi.Value - lo.Value + 1
	return &object.Integer{Value: lo.Value + rand.Int64N(span)}, nil
}

func builtinRandf(args ...object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, newError(InvalidOperation, "randf expects 2 arguments, got %d", len(args))
	}
	lo, ok := args[0].(*object.Float)
	if !ok {
		return nil, newError(TypeMismatch, "randf expects Float arguments")
	}
	hi, ok := args[1].(*object.Float)
	if !ok {
		return nil, newError(TypeMismatch, "randf expects Float arguments")
	}
	if lo.Value > hi.Value {
		return nil, newError(InvalidOperation, "randf: min cannot be greater than max")
	}
	return &object.Float{Value: lo.Value + rand.Float64()*(hi.Value-lo.Value)}, nil
}

func builtinRands(args ...object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, newError(InvalidOperation, "rands expects 2 arguments, got %d", len(args))
	}
	from, ok := args[0].(*object.Str)
	if !ok || len(from.Value) != 1 {
		return nil, newError(TypeMismatch, "rands expects single-character Str arguments")
	}
	to, ok := args[1].(*object.Str)
	if !ok || len(to.Value) != 1 {
		return nil, newError(TypeMismatch, "rands expects single-character Str arguments")
	}
	lo, hi := from.Value[0], to.Value[0]
	if lo > hi {
		return nil, newError(InvalidOperation, "rands: from cannot be greater than to")
	}
	c := lo + byte(rand.IntN(int(hi-lo)+1))
	return &object.Str{Value: string(c)}, nil
}

func builtinInt(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, newError(InvalidOperation, "int expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *object.Integer:
		return v, nil
	case *object.Float:
		return &object.Integer{Value: int64(v.Value)}, nil
	case *object.Str:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
		if err != nil {
			return nil, newError(TypeMismatch, "cannot convert %q to Int", v.Value)
		}
		return &object.Integer{Value: n}, nil
	default:
		return nil, newError(TypeMismatch, "cannot convert a %s to Int", args[0].Type())
	}
}

func builtinFloat(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, newError(InvalidOperation, "float expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *object.Float:
		return v, nil
	case *object.Integer:
		return &object.Float{Value: float64(v.Value)}, nil
	case *object.Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			return nil, newError(TypeMismatch, "cannot convert %q to Float", v.Value)
		}
		return &object.Float{Value: f}, nil
	default:
		return nil, newError(TypeMismatch, "cannot convert a %s to Float", args[0].Type())
	}
}

func builtinStr(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, newError(InvalidOperation, "str expects 1 argument, got %d", len(args))
	}
	return &object.Str{Value: args[0].Inspect()}, nil
}

// ----------------------------------------------------------------------------
// HTTP builtins. The interpreter is the runtime for interpreted programs (unlike the compiled
// backend, it cannot defer to the C runtime's http_* shims), so it issues requests directly
// against net/http (SPEC_FULL.md §10).
// ----------------------------------------------------------------------------

func builtinHTTPGet(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, newError(InvalidOperation, "http.get expects 1 argument, got %d", len(args))
	}
	url, ok := args[0].(*object.Str)
	if !ok {
		return nil, newError(TypeMismatch, "http.get expects a Str URL")
	}
	resp, err := http.Get(url.Value)
	if err != nil {
		return nil, newError(InvalidOperation, "http.get: %s", err)
	}
	return readHTTPResponse(resp)
}

func builtinHTTPPost(args ...object.Object) (object.Object, error) {
	return doHTTPRequestWithBody(http.MethodPost, args)
}

func builtinHTTPPut(args ...object.Object) (object.Object, error) {
	return doHTTPRequestWithBody(http.MethodPut, args)
}

func doHTTPRequestWithBody(method string, args []object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, newError(InvalidOperation, "http.%s expects 2 arguments, got %d", strings.ToLower(method), len(args))
	}
	url, ok := args[0].(*object.Str)
	if !ok {
		return nil, newError(TypeMismatch, "http.%s expects a Str URL", strings.ToLower(method))
	}
	body, ok := args[1].(*object.Str)
	if !ok {
		return nil, newError(TypeMismatch, "http.%s expects a Str body", strings.ToLower(method))
	}
	req, err := http.NewRequest(method, url.Value, strings.NewReader(body.Value))
	if err != nil {
		return nil, newError(InvalidOperation, "http.%s: %s", strings.ToLower(method), err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, newError(InvalidOperation, "http.%s: %s", strings.ToLower(method), err)
	}
	return readHTTPResponse(resp)
}

func builtinHTTPDelete(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, newError(InvalidOperation, "http.delete expects 1 argument, got %d", len(args))
	}
	url, ok := args[0].(*object.Str)
	if !ok {
		return nil, newError(TypeMismatch, "http.delete expects a Str URL")
	}
	req, err := http.NewRequest(http.MethodDelete, url.Value, nil)
	if err != nil {
		return nil, newError(InvalidOperation, "http.delete: %s", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, newError(InvalidOperation, "http.delete: %s", err)
	}
	return readHTTPResponse(resp)
}

func readHTTPResponse(resp *http.Response) (object.Object, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(InvalidOperation, "reading response body: %s", err)
	}
	return &object.Str{Value: string(body)}, nil
}
