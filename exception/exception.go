package exception

import "fmt"

// Legacy DOMException codes carried by the Web Audio error kinds.
const (
	CodeIndexSize     = 1
	CodeNotSupported  = 9
	CodeInvalidState  = 11
	CodeInvalidAccess = 15
)

// Error is a Web Audio exception identified by its name and legacy code.
// Two errors are considered equal by errors.Is when their names match, so
// the sentinels below can be used to classify errors carrying any message.
type Error struct {
	Name    string
	Code    int
	Message string
}

// Sentinels for errors.Is comparisons.
var (
	ErrIndexSize     = &Error{Name: "IndexSizeError", Code: CodeIndexSize}
	ErrNotSupported  = &Error{Name: "NotSupportedError", Code: CodeNotSupported}
	ErrInvalidState  = &Error{Name: "InvalidStateError", Code: CodeInvalidState}
	ErrInvalidAccess = &Error{Name: "InvalidAccessError", Code: CodeInvalidAccess}
	ErrRange         = &Error{Name: "RangeError"}
)

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Name
	}

	return e.Name + ": " + e.Message
}

// Is reports whether target is an *Error with the same name.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Name == e.Name
}

func newError(kind *Error, format string, args ...any) error {
	return &Error{
		Name:    kind.Name,
		Code:    kind.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IndexSize creates an IndexSizeError.
func IndexSize(format string, args ...any) error {
	return newError(ErrIndexSize, format, args...)
}

// NotSupported creates a NotSupportedError.
func NotSupported(format string, args ...any) error {
	return newError(ErrNotSupported, format, args...)
}

// InvalidState creates an InvalidStateError.
func InvalidState(format string, args ...any) error {
	return newError(ErrInvalidState, format, args...)
}

// InvalidAccess creates an InvalidAccessError.
func InvalidAccess(format string, args ...any) error {
	return newError(ErrInvalidAccess, format, args...)
}

// Range creates a RangeError.
func Range(format string, args ...any) error {
	return newError(ErrRange, format, args...)
}
