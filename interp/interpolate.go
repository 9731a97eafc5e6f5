// ----------------------------------------------------------------------------
// FILE: interp/interpolate.go
// PURPOSE: String interpolation (spec.md §4.4/§5): every evaluated string literal is scanned for
//          `{...}` placeholders holding a restricted expression sub-language — bare identifier,
//          field chain, bracketed integer index, and zero-argument method calls.
// ----------------------------------------------------------------------------
package interp

import (
	"strconv"
	"strings"

	"chif/ast"
	"chif/lexer"
	"chif/object"
	"chif/token"
)

func (i *Interpreter) evalStringLiteral(lit *ast.StringLiteral) (object.Object, error) {
	raw := lit.Value
	if !strings.Contains(raw, "{") && !strings.Contains(raw, "}") {
		return &object.Str{Value: raw}, nil
	}

	var out strings.Builder
	runes := []rune(raw)
	for idx := 0; idx < len(runes); idx++ {
		ch := runes[idx]
		switch ch {
		case '{':
			if idx+1 < len(runes) && runes[idx+1] == '{' {
				out.WriteRune('{')
				idx++
				continue
			}
			end := idx + 1
			depth := 1
			for end < len(runes) && depth > 0 {
				if runes[end] == '{' {
					depth++
				} else if runes[end] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				end++
			}
			if end >= len(runes) {
				return nil, newError(InvalidOperation, "unclosed interpolation placeholder in string literal")
			}
			placeholder := string(runes[idx+1 : end])
			val, err := i.evalInterpolationPlaceholder(placeholder)
			if err != nil {
				// Evaluation failures leave the original placeholder text in the output.
				out.WriteRune('{')
				out.WriteString(placeholder)
				out.WriteRune('}')
			} else {
				out.WriteString(val.Inspect())
			}
			idx = end
		case '}':
			if idx+1 < len(runes) && runes[idx+1] == '}' {
				out.WriteRune('}')
				idx++
				continue
			}
			out.WriteRune('}')
		default:
			out.WriteRune(ch)
		}
	}
	return &object.Str{Value: out.String()}, nil
}

// interpPath is one step of a parsed placeholder chain.
type interpPath struct {
	field    string // set for ".field" steps
	index    int64  // set for "[n]" steps
	isIndex  bool
	isMethod bool // set for a trailing zero-arg ".method()" call
}

// evalInterpolationPlaceholder parses and evaluates the restricted placeholder grammar directly
// against the lexer's token stream, rather than the full expression parser, since the grammar
// here is a small closed subset: identifier (field|index)* (.method())?
func (i *Interpreter) evalInterpolationPlaceholder(src string) (object.Object, error) {
	l := lexer.New(src)
	tok := l.NextToken()
	if tok.Type != token.IDENT {
		return nil, newError(InvalidOperation, "invalid interpolation placeholder %q", src)
	}
	base, ok := i.lookup(tok.Literal)
	if !ok {
		return nil, newError(VariableNotFound, "undefined variable %q", tok.Literal)
	}

	current := base
	for {
		tok = l.NextToken()
		switch tok.Type {
		case token.EOF:
			return current, nil
		case token.DOT:
			nameTok := l.NextToken()
			if nameTok.Type != token.IDENT {
				return nil, newError(InvalidOperation, "invalid interpolation placeholder %q", src)
			}
			peek := l.NextToken()
			if peek.Type == token.LPAREN {
				closeParen := l.NextToken()
				if closeParen.Type != token.RPAREN {
					return nil, newError(InvalidOperation, "only zero-argument method calls are allowed in interpolation: %q", src)
				}
				val, err := evalZeroArgMethod(current, nameTok.Literal)
				if err != nil {
					return nil, err
				}
				current = val
				continue
			}
			// peek belongs to the next iteration of the loop; re-scan by treating it below.
			val, err := fieldOf(current, nameTok.Literal)
			if err != nil {
				return nil, err
			}
			current = val
			tok = peek
			if tok.Type == token.EOF {
				return current, nil
			}
			if err := i.continuePlaceholderStep(&current, tok, l, src); err != nil {
				return nil, err
			}
		case token.LBRACKET:
			idxTok := l.NextToken()
			if idxTok.Type != token.INT {
				return nil, newError(InvalidOperation, "interpolation index must be an integer: %q", src)
			}
			closeBracket := l.NextToken()
			if closeBracket.Type != token.RBRACKET {
				return nil, newError(InvalidOperation, "unclosed index in interpolation placeholder %q", src)
			}
			n, err := strconv.ParseInt(idxTok.Literal, 10, 64)
			if err != nil {
				return nil, newError(InvalidOperation, "invalid index %q in interpolation placeholder", idxTok.Literal)
			}
			val, err := indexSlice(elementsOf(current), &object.Integer{Value: n})
			if err != nil {
				return nil, err
			}
			current = val
		default:
			return nil, newError(InvalidOperation, "invalid interpolation placeholder %q", src)
		}
	}
}

// continuePlaceholderStep handles the token already consumed by the DOT branch above, so a
// `.field[0]` or `.field.sub` chain keeps parsing instead of terminating early.
func (i *Interpreter) continuePlaceholderStep(current *object.Object, tok token.Token, l *lexer.Lexer, src string) error {
	switch tok.Type {
	case token.LBRACKET:
		idxTok := l.NextToken()
		if idxTok.Type != token.INT {
			return newError(InvalidOperation, "interpolation index must be an integer: %q", src)
		}
		closeBracket := l.NextToken()
		if closeBracket.Type != token.RBRACKET {
			return newError(InvalidOperation, "unclosed index in interpolation placeholder %q", src)
		}
		n, err := strconv.ParseInt(idxTok.Literal, 10, 64)
		if err != nil {
			return newError(InvalidOperation, "invalid index %q in interpolation placeholder", idxTok.Literal)
		}
		val, err := indexSlice(elementsOf(*current), &object.Integer{Value: n})
		if err != nil {
			return err
		}
		*current = val
		return nil
	case token.DOT:
		nameTok := l.NextToken()
		if nameTok.Type != token.IDENT {
			return newError(InvalidOperation, "invalid interpolation placeholder %q", src)
		}
		val, err := fieldOf(*current, nameTok.Literal)
		if err != nil {
			return err
		}
		*current = val
		return nil
	default:
		return newError(InvalidOperation, "invalid interpolation placeholder %q", src)
	}
}

func fieldOf(val object.Object, name string) (object.Object, error) {
	si, ok := val.(*object.StructInstance)
	if !ok {
		return nil, newError(TypeMismatch, "cannot access field %q on a %s", name, val.Type())
	}
	fv, ok := si.Fields[name]
	if !ok {
		return nil, newError(InvalidOperation, "struct %s has no field %q", si.Definition.Name, name)
	}
	return fv, nil
}

func elementsOf(val object.Object) []object.Object {
	switch v := val.(type) {
	case *object.Array:
		return v.Elements
	case *object.List:
		return v.Elements
	default:
		return nil
	}
}

func evalZeroArgMethod(val object.Object, method string) (object.Object, error) {
	switch v := val.(type) {
	case *object.List:
		return evalListMethod(v, method, nil)
	default:
		return nil, newError(FunctionNotFound, "no zero-argument method %q on a %s", method, val.Type())
	}
}
