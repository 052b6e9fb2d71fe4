package types

import (
	"fmt"
)

// ParseErrorKind represents the category of address parsing error
type ParseErrorKind int

// Parse error kind constants
const (
	// MalformedAddress indicates the dotted quad is not 4 decimal octets in 0-255
	MalformedAddress ParseErrorKind = iota
	// InvalidPrefixLength indicates a prefix length outside 0-32
	InvalidPrefixLength
)

// Sentinel errors usable with errors.Is
var (
	ErrMalformedAddress    = &ParseError{Kind: MalformedAddress}
	ErrInvalidPrefixLength = &ParseError{Kind: InvalidPrefixLength}
)

// String returns a string representation of the parse error kind
func (k ParseErrorKind) String() string {
	switch k {
	case MalformedAddress:
		return "MalformedAddress"
	case InvalidPrefixLength:
		return "InvalidPrefixLength"
	default:
		return "UnknownError"
	}
}

// ParseError is returned when an address cannot be parsed
type ParseError struct {
	Kind   ParseErrorKind
	Input  string // The text that failed to parse
	Reason string
}

// Error implements the error interface for ParseError
func (pe *ParseError) Error() string {
	if pe.Reason == "" {
		return fmt.Sprintf("invalid address %q [%s]", pe.Input, pe.Kind)
	}
	return fmt.Sprintf("invalid address %q [%s]: %s", pe.Input, pe.Kind, pe.Reason)
}

// Is reports whether target is a ParseError of the same kind
func (pe *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == pe.Kind
}

func malformed(input, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: MalformedAddress, Input: input, Reason: fmt.Sprintf(format, args...)}
}

func badPrefix(input, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: InvalidPrefixLength, Input: input, Reason: fmt.Sprintf(format, args...)}
}
