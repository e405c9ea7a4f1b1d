package grove

import "strings"

// Format renders a token tree as indented text, one node per line. Group
// headers carry their bracket and closure annotation; each sealed line of
// a group body is introduced by a "line" marker. Output is deterministic,
// ends in a newline, and is meant for humans and tests, not round-trips.
func Format(tok Token) string {
	var sb strings.Builder
	writeToken(&sb, tok, 0)
	return sb.String()
}

func writeToken(sb *strings.Builder, tok Token, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString(tok.String())
	sb.WriteByte('\n')

	if tok.Kind != KindGroup {
		return
	}
	for _, line := range tok.Body {
		if len(line) == 0 {
			continue
		}
		sb.WriteString(indent)
		sb.WriteString("  line\n")
		for _, t := range line {
			writeToken(sb, t, depth+2)
		}
	}
}
