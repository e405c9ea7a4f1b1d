package grove

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxDepth bounds group nesting so pathological input fails with a scan
// error instead of exhausting the native call stack.
const maxDepth = 4096

// eof marks the end of the input in s.ch. It sits outside the rune range
// so a literal NUL byte in the input stays an ordinary (unrecognized)
// character instead of sealing open groups early.
const eof rune = -1

// scanner walks the input one rune at a time. ch holds the rune most
// recently consumed; offset points just past it. line and column are
// updated on every consumed rune, including newlines inside strings.
type scanner struct {
	source string
	input  string

	offset int
	width  int

	line   int
	column int

	ch    rune
	depth int
}

// Scan tokenizes input into a tree of groups. The whole input is the body
// of an implicit outermost group: the returned token is always KindGroup
// with bracket kind Plain and closure kind None, positioned at the start
// of the stream. source names the input in positions and error messages.
func Scan(source, input string) (Token, error) {
	s := newScanner(source, input)
	root := NewGroup(Position{Source: source, Line: 1, Column: 0}, ClosureNone, "", BracketPlain)
	return s.scanGroup(root)
}

// ScanReader reads r to the end and scans it as Scan does.
func ScanReader(source string, r io.Reader) (Token, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return Token{}, fmt.Errorf("read source: %w", err)
	}
	return Scan(source, string(input))
}

func newScanner(source, input string) *scanner {
	s := &scanner{source: source, input: input, line: 1, column: 0}
	s.readRune()
	return s
}

func (s *scanner) readRune() {
	if s.offset >= len(s.input) {
		s.width = 0
		s.ch = eof
		return
	}

	r, w := utf8.DecodeRuneInString(s.input[s.offset:])
	s.width = w
	s.offset += w

	if r == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}

	s.ch = r
}

func (s *scanner) peekRune() rune {
	if s.offset >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.offset:])
	return r
}

func (s *scanner) peekRuneN(n int) rune {
	idx := s.offset
	var r rune
	var w int
	for i := 0; i <= n; i++ {
		if idx >= len(s.input) {
			return 0
		}
		r, w = utf8.DecodeRuneInString(s.input[idx:])
		if i == n {
			return r
		}
		idx += w
	}
	return 0
}

func (s *scanner) pos() Position {
	return Position{Source: s.source, Line: s.line, Column: s.column}
}

// scanGroup consumes one nesting level and returns it sealed. The caller
// fixes bracket and closure kinds at open time by capturing them in
// complete; recursion depth equals bracket depth. Any closer character
// seals the group regardless of which bracket family opened it, as does
// the end of the input; the closer's family is passed through to complete.
func (s *scanner) scanGroup(complete func(CodeSequence, BracketKind) Token) (Token, error) {
	if s.depth >= maxDepth {
		return Token{}, scanErrorf(ErrNestingTooDeep, s.pos(), "group nesting exceeds %d levels", maxDepth)
	}
	s.depth++
	defer func() { s.depth-- }()

	var body CodeSequence
	line := Line{}

	for {
		switch ch := s.ch; {
		case ch == eof:
			return complete(append(body, line), BracketEnd), nil
		case ch == ')' || ch == '}' || ch == ']':
			closedBy := closerKind(ch)
			s.readRune()
			return complete(append(body, line), closedBy), nil
		case ch == '\n' || ch == ';':
			s.readRune()
			body = append(body, line)
			line = Line{}
		case ch == '#':
			s.skipComment()
		case unicode.IsSpace(ch):
			s.readRune()
		case ch == '"':
			pos := s.pos()
			text, err := s.scanString()
			if err != nil {
				return Token{}, err
			}
			line = append(line, NewString(pos, text))
		case ch == '(' || ch == '{' || ch == '[':
			pos := s.pos()
			bracket := openerKind(ch)
			s.readRune()
			tok, err := s.scanGroup(NewGroup(pos, ClosureNone, "", bracket))
			if err != nil {
				return Token{}, err
			}
			line = append(line, tok)
		case ch == '^':
			tok, err := s.scanClosure()
			if err != nil {
				return Token{}, err
			}
			line = append(line, tok)
		case ch == '.':
			tok, err := s.scanAtom()
			if err != nil {
				return Token{}, err
			}
			line = append(line, tok)
		case unicode.IsDigit(ch):
			line = append(line, s.scanNumber())
		case unicode.IsLetter(ch):
			pos := s.pos()
			line = append(line, NewWord(pos, s.scanWordText()))
		default:
			return Token{}, scanErrorf(ErrUnexpectedCharacter, s.pos(), "unrecognized character %q", ch)
		}
	}
}

func (s *scanner) skipComment() {
	for s.ch != eof && s.ch != '\n' {
		s.readRune()
	}
}

// scanString is entered with the opening quote in s.ch. Raw newlines are
// legal inside strings and become part of the text.
func (s *scanner) scanString() (string, error) {
	var sb strings.Builder

	for {
		s.readRune()
		switch s.ch {
		case eof:
			return "", scanErrorf(ErrUnterminatedString, s.pos(), "string missing closing quote")
		case '"':
			s.readRune()
			return sb.String(), nil
		case '\\':
			s.readRune()
			switch s.ch {
			case '\\', '"':
				sb.WriteRune(s.ch)
			case 'n':
				sb.WriteByte('\n')
			case eof:
				return "", scanErrorf(ErrUnterminatedString, s.pos(), "string missing closing quote")
			default:
				return "", scanErrorf(ErrBadEscape, s.pos(), "unrecognized escape sequence \\%c", s.ch)
			}
		default:
			sb.WriteRune(s.ch)
		}
	}
}

// scanClosure is entered with the ^ sigil in s.ch. An identifier before
// the bracket binds one name; a later identifier overwrites an earlier
// one and the scan does not reject the rebind.
func (s *scanner) scanClosure() (Token, error) {
	pos := s.pos()
	s.readRune()

	closure := ClosureAnon
	binding := ""
	for {
		switch ch := s.ch; {
		case ch == '(' || ch == '{' || ch == '[':
			bracket := openerKind(ch)
			s.readRune()
			return s.scanGroup(NewGroup(pos, closure, binding, bracket))
		case unicode.IsLetter(ch):
			binding = s.scanWordText()
			closure = ClosureBound
		case ch != eof && unicode.IsSpace(ch):
			s.readRune()
		default:
			return Token{}, scanErrorf(ErrMalformedClosure, s.pos(), "unexpected character after ^")
		}
	}
}

// scanAtom is entered with the . sigil in s.ch.
func (s *scanner) scanAtom() (Token, error) {
	pos := s.pos()
	s.readRune()
	if !unicode.IsLetter(s.ch) {
		return Token{}, scanErrorf(ErrMalformedAtom, pos, ". must be followed by an identifier")
	}
	return NewAtom(pos, s.scanWordText()), nil
}

// scanNumber is entered with the first digit in s.ch. A decimal point is
// consumed only when a digit follows, so "1.plus" scans as the number 1
// followed by the atom plus.
func (s *scanner) scanNumber() Token {
	pos := s.pos()
	start := s.offset - s.width
	hasDot := false

	for {
		r := s.peekRune()
		switch {
		case r == '.' && !hasDot && unicode.IsDigit(s.peekRuneN(1)):
			hasDot = true
			s.readRune()
		case unicode.IsDigit(r):
			s.readRune()
		default:
			literal := s.input[start:s.offset]
			s.readRune()
			value, _ := strconv.ParseFloat(literal, 64)
			return NewNumber(pos, value)
		}
	}
}

func (s *scanner) scanWordText() string {
	start := s.offset - s.width
	for isWordRune(s.peekRune()) {
		s.readRune()
	}
	text := s.input[start:s.offset]
	s.readRune()
	return text
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func openerKind(ch rune) BracketKind {
	switch ch {
	case '(':
		return BracketPlain
	case '{':
		return BracketScoped
	default:
		return BracketBox
	}
}

func closerKind(ch rune) BracketKind {
	switch ch {
	case ')':
		return BracketPlain
	case '}':
		return BracketScoped
	default:
		return BracketBox
	}
}
