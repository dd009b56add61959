package promptcomposer

import (
	"errors"
	"fmt"
)

// Kind classifies composer errors so callers can tell structural
// misconfiguration apart from degraded-content conditions.
type Kind int

const (
	// KindConfig marks structural misconfiguration: a missing guidance
	// library, missing required categories, or an unreadable match-rule
	// document. The only kind that aborts composition.
	KindConfig Kind = iota
	// KindModuleLoading marks a named guidance template that could not be read.
	KindModuleLoading
	// KindSerialization marks a malformed payload at a binding boundary.
	KindSerialization
	// KindConnection marks a failed connection to a live tool provider.
	KindConnection
	// KindDiscovery marks a connected provider that failed to enumerate tools.
	KindDiscovery
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindModuleLoading:
		return "module loading failed"
	case KindSerialization:
		return "serialization error"
	case KindConnection:
		return "connection failed"
	case KindDiscovery:
		return "discovery failed"
	default:
		return "unknown error"
	}
}

// Error is the composer's error type. Use errors.As to recover the Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a composer Error of the given kind.
func IsKind(err error, k Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == k
}

func configErr(format string, a ...any) *Error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, a...)}
}

func configWrap(err error, format string, a ...any) *Error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, a...), Err: err}
}

func loadWrap(err error, format string, a ...any) *Error {
	return &Error{Kind: KindModuleLoading, Msg: fmt.Sprintf(format, a...), Err: err}
}
