package grove

import (
	"fmt"
	"strconv"
)

// Position identifies a character in the source text. Column counts runes
// since the most recent newline, so it resets to zero at the start of every
// line; Line starts at 1.
type Position struct {
	Source string
	Line   int
	Column int
}

func (p Position) String() string {
	source := p.Source
	if source == "" {
		source = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", source, p.Line, p.Column)
}

// TokenKind identifies the lexical category of a token.
type TokenKind string

const (
	KindNumber TokenKind = "NUMBER"
	KindString TokenKind = "STRING"
	KindWord   TokenKind = "WORD"
	KindAtom   TokenKind = "ATOM"
	KindGroup  TokenKind = "GROUP"
)

// BracketKind records which bracket family opened (or closed) a group.
type BracketKind string

const (
	BracketPlain  BracketKind = "()"
	BracketScoped BracketKind = "{}"
	BracketBox    BracketKind = "[]"

	// BracketEnd only ever appears as a group's ClosedBy, when the input
	// ended before a closing bracket was seen.
	BracketEnd BracketKind = "end"
)

// ClosureKind records whether a group was introduced by the ^ sigil and
// whether the sigil bound an identifier.
type ClosureKind string

const (
	ClosureNone  ClosureKind = "none"
	ClosureAnon  ClosureKind = "anon"
	ClosureBound ClosureKind = "bound"
)

// Line is an ordered run of tokens, sealed by ';', a newline, or a group
// closer.
type Line []Token

// CodeSequence is the ordered list of sealed lines forming a group body.
type CodeSequence []Line

// Token is one node of the token tree. Kind selects which payload fields
// are meaningful: Number for KindNumber; Text for KindString, KindWord and
// KindAtom; Bracket, ClosedBy, Closure, Binding and Body for KindGroup.
type Token struct {
	Kind TokenKind
	Pos  Position

	Number float64
	Text   string

	Bracket  BracketKind
	ClosedBy BracketKind
	Closure  ClosureKind
	Binding  string
	Body     CodeSequence
}

func (t Token) String() string {
	switch t.Kind {
	case KindNumber:
		return "number " + strconv.FormatFloat(t.Number, 'g', -1, 64)
	case KindString:
		return "string " + strconv.Quote(t.Text)
	case KindWord:
		return "word " + t.Text
	case KindAtom:
		return "atom ." + t.Text
	case KindGroup:
		header := "group " + string(t.Bracket)
		switch t.Closure {
		case ClosureAnon:
			header += " ^"
		case ClosureBound:
			header += " ^" + t.Binding
		}
		return header
	}
	return "token " + string(t.Kind)
}

// NewNumber builds a number token.
func NewNumber(pos Position, value float64) Token {
	return Token{Kind: KindNumber, Pos: pos, Number: value}
}

// NewString builds a string-literal token; text is the decoded value, not
// the source spelling.
func NewString(pos Position, text string) Token {
	return Token{Kind: KindString, Pos: pos, Text: text}
}

// NewWord builds an identifier token.
func NewWord(pos Position, text string) Token {
	return Token{Kind: KindWord, Pos: pos, Text: text}
}

// NewAtom builds an atom-literal token.
func NewAtom(pos Position, text string) Token {
	return Token{Kind: KindAtom, Pos: pos, Text: text}
}

// NewGroup returns the completion function for a group whose opener has
// just been consumed. Position, closure and bracket kinds are fixed here,
// at open time; the scanner invokes the returned function exactly once,
// with the finalized body and the bracket family of whatever closed the
// group.
func NewGroup(pos Position, closure ClosureKind, binding string, bracket BracketKind) func(CodeSequence, BracketKind) Token {
	return func(body CodeSequence, closedBy BracketKind) Token {
		return Token{
			Kind:     KindGroup,
			Pos:      pos,
			Bracket:  bracket,
			ClosedBy: closedBy,
			Closure:  closure,
			Binding:  binding,
			Body:     body,
		}
	}
}
