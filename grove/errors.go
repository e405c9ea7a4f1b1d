package grove

import "fmt"

// ErrorKind classifies a scan failure.
type ErrorKind string

const (
	ErrUnexpectedCharacter ErrorKind = "unexpected character"
	ErrBadEscape           ErrorKind = "bad escape"
	ErrUnterminatedString  ErrorKind = "unterminated string"
	ErrMalformedAtom       ErrorKind = "malformed atom"
	ErrMalformedClosure    ErrorKind = "malformed closure header"
	ErrNestingTooDeep      ErrorKind = "nesting too deep"
)

// ScanError is the single failure outcome of a scan. The scan aborts on the
// first error; there is no partial tree.
type ScanError struct {
	Kind ErrorKind
	Msg  string
	Pos  Position
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Pos)
}

func scanErrorf(kind ErrorKind, pos Position, format string, args ...any) *ScanError {
	return &ScanError{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
}
