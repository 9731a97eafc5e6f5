// ----------------------------------------------------------------------------
// FILE: ir/errors.go
// PURPOSE: IRError taxonomy (spec.md §7): Generation, TypeConversion, UnsupportedFeature.
// ----------------------------------------------------------------------------
package ir

import "fmt"

type ErrorKind string

const (
	Generation         ErrorKind = "Generation"
	TypeConversion     ErrorKind = "TypeConversion"
	UnsupportedFeature ErrorKind = "UnsupportedFeature"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
