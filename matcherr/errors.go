package matcherr

import (
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeSyntax   ErrorType = "SyntaxError"
	TypeSemantic ErrorType = "SemanticError"
	TypeMatch    ErrorType = "MatchError"
)

// MatchcError is the interface for all matchc-related errors.
type MatchcError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for matchc errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// SyntaxError represents an error during pattern parsing.
type SyntaxError struct {
	BaseError
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// SemanticError represents a validation failure. It belongs to the
// compile-time class: a SemanticError always blocks matcher compilation.
type SemanticError struct {
	BaseError
	Pattern string
}

func (e *SemanticError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("[%s] pattern %q: %s", e.ErrType, e.Pattern, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

// MatchError is the only runtime error this system raises. It is produced
// when every arm of a match expression has been tried and none matched,
// and is always avoidable by adding a wildcard arm.
type MatchError struct {
	BaseError
	Value string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("[%s] no arm matched value %s", e.ErrType, e.Value)
}

// MultiError collects multiple matchc errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if me, ok := m.Errors[0].(MatchcError); ok {
			return me.Type()
		}
	}
	return "MultiError"
}

// NewSyntaxError creates a new SyntaxError.
func NewSyntaxError(line, column int, msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSyntax,
		},
		Line:   line,
		Column: column,
	}
}

// NewSemanticError creates a new SemanticError.
func NewSemanticError(msg string) *SemanticError {
	return &SemanticError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSemantic,
		},
	}
}

// NewSemanticErrorf creates a new SemanticError with a formatted message.
func NewSemanticErrorf(format string, args ...any) *SemanticError {
	return NewSemanticError(fmt.Sprintf(format, args...))
}

// NewSemanticErrorIn creates a SemanticError annotated with the source
// text of the offending pattern.
func NewSemanticErrorIn(pattern, msg string) *SemanticError {
	return &SemanticError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSemantic,
		},
		Pattern: pattern,
	}
}

// NewMatchError creates a MatchError describing the unmatched value.
func NewMatchError(valueDescription string) *MatchError {
	return &MatchError{
		BaseError: BaseError{
			Msg:     "exhausted all arms",
			ErrType: TypeMatch,
		},
		Value: valueDescription,
	}
}
