// ----------------------------------------------------------------------------
// FILE: interp/list_methods.go
// PURPOSE: The mutating list built-ins intercepted on method-call dispatch (spec.md §5):
//          list.add(v), list.addAt(v, i), list.del(i), list.len().
// ----------------------------------------------------------------------------
package interp

import "chif/object"

func evalListMethod(list *object.List, method string, args []object.Object) (object.Object, error) {
	switch method {
	case "add":
		if len(args) != 1 {
			return nil, newError(InvalidOperation, "list.add expects 1 argument, got %d", len(args))
		}
		list.Elements = append(list.Elements, args[0])
		return object.NIL, nil

	case "addAt":
		if len(args) != 2 {
			return nil, newError(InvalidOperation, "list.addAt expects 2 arguments, got %d", len(args))
		}
		n, ok := args[1].(*object.Integer)
		if !ok {
			return nil, newError(TypeMismatch, "list.addAt index must be Int, got %s", args[1].Type())
		}
		idx := int(n.Value)
		if idx < 0 || idx > len(list.Elements) {
			return nil, newError(IndexOutOfBounds, "addAt index %d out of bounds (len %d)", idx, len(list.Elements))
		}
		list.Elements = append(list.Elements, nil)
		copy(list.Elements[idx+1:], list.Elements[idx:])
		list.Elements[idx] = args[0]
		return object.NIL, nil

	case "del":
		if len(args) != 1 {
			return nil, newError(InvalidOperation, "list.del expects 1 argument, got %d", len(args))
		}
		n, ok := args[0].(*object.Integer)
		if !ok {
			return nil, newError(TypeMismatch, "list.del index must be Int, got %s", args[0].Type())
		}
		idx := int(n.Value)
		if idx < 0 || idx >= len(list.Elements) {
			return nil, newError(IndexOutOfBounds, "del index %d out of bounds (len %d)", idx, len(list.Elements))
		}
		list.Elements = append(list.Elements[:idx], list.Elements[idx+1:]...)
		return object.NIL, nil

	case "len":
		return &object.Integer{Value: int64(len(list.Elements))}, nil

	default:
		return nil, newError(FunctionNotFound, "list has no method %q", method)
	}
}
