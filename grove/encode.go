package grove

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type jsonPosition struct {
	Source string `json:"source,omitzero"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type jsonToken struct {
	Kind     TokenKind     `json:"kind"`
	Pos      jsonPosition  `json:"pos"`
	Number   *float64      `json:"number,omitzero"`
	Text     *string       `json:"text,omitzero"`
	Bracket  BracketKind   `json:"bracket,omitzero"`
	ClosedBy BracketKind   `json:"closedBy,omitzero"`
	Closure  ClosureKind   `json:"closure,omitzero"`
	Binding  string        `json:"binding,omitzero"`
	Body     [][]jsonToken `json:"body,omitzero"`
}

// EncodeJSON renders a token tree as indented JSON. Group bodies nest as
// arrays of lines, each line an array of tokens.
func EncodeJSON(tok Token) ([]byte, error) {
	return json.Marshal(encodeToken(tok), jsontext.Multiline(true), jsontext.WithIndent("  "))
}

func encodeToken(tok Token) jsonToken {
	out := jsonToken{
		Kind: tok.Kind,
		Pos:  jsonPosition{Source: tok.Pos.Source, Line: tok.Pos.Line, Column: tok.Pos.Column},
	}
	switch tok.Kind {
	case KindNumber:
		n := tok.Number
		out.Number = &n
	case KindString, KindWord, KindAtom:
		t := tok.Text
		out.Text = &t
	case KindGroup:
		out.Bracket = tok.Bracket
		out.ClosedBy = tok.ClosedBy
		out.Closure = tok.Closure
		out.Binding = tok.Binding
		out.Body = make([][]jsonToken, len(tok.Body))
		for i, line := range tok.Body {
			encoded := make([]jsonToken, len(line))
			for j, t := range line {
				encoded[j] = encodeToken(t)
			}
			out.Body[i] = encoded
		}
	}
	return out
}
