package main

import (
	"errors"
	"flag"
	"fmt"
	"sort"

	"github.com/grovelang/grove/grove"
)

// deepNestingThreshold is the group depth past which analyze starts to
// complain. Scanning itself permits far deeper trees.
const deepNestingThreshold = 32

type lintWarning struct {
	Pos     grove.Position
	Message string
}

type treeStats struct {
	Tokens   int
	Groups   int
	Lines    int
	MaxDepth int
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("grove analyze: source path required")
	}

	root, err := scanFile(remaining[0])
	if err != nil {
		return err
	}

	stats, warnings := analyzeTree(root)
	if len(warnings) == 0 {
		fmt.Printf("%d token(s) in %d line(s), %d group(s), max depth %d\n",
			stats.Tokens, stats.Lines, stats.Groups, stats.MaxDepth)
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		fmt.Printf("%s: %s\n", warning.Pos, warning.Message)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

func analyzeTree(root grove.Token) (treeStats, []lintWarning) {
	stats := treeStats{}
	warnings := make([]lintWarning, 0)
	lintGroup(root, 0, &stats, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		return warnings[i].Pos.Column < warnings[j].Pos.Column
	})

	return stats, warnings
}

// lintGroup walks one group. Depth 0 is the implicit file-level group,
// which end-of-input legitimately closes; every deeper group earns a
// warning when its closer does not match its opener or never arrives.
func lintGroup(group grove.Token, depth int, stats *treeStats, warnings *[]lintWarning) {
	stats.Groups++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if depth > 0 {
		switch {
		case group.ClosedBy == grove.BracketEnd:
			*warnings = append(*warnings, lintWarning{
				Pos:     group.Pos,
				Message: fmt.Sprintf("group opened with %c never closed", group.Bracket[0]),
			})
		case group.ClosedBy != group.Bracket:
			*warnings = append(*warnings, lintWarning{
				Pos:     group.Pos,
				Message: fmt.Sprintf("group opened with %c closed with %c", group.Bracket[0], group.ClosedBy[1]),
			})
		}
		if depth == deepNestingThreshold+1 {
			*warnings = append(*warnings, lintWarning{
				Pos:     group.Pos,
				Message: fmt.Sprintf("groups nested deeper than %d levels", deepNestingThreshold),
			})
		}
	}

	for _, line := range group.Body {
		stats.Lines++
		for _, tok := range line {
			stats.Tokens++
			if tok.Kind == grove.KindGroup {
				lintGroup(tok, depth+1, stats, warnings)
			}
		}
	}
}
