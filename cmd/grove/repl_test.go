package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestScanInputRendersTokenTree(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.scan("print 42; .done")
	if isErr {
		t.Fatalf("unexpected scan error: %s", output)
	}
	for _, want := range []string{"word print", "number 42", "atom .done"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
	if !m.hasStats {
		t.Fatalf("scan should record stats")
	}
	if m.lastStats.Tokens != 3 {
		t.Fatalf("unexpected token count: %d", m.lastStats.Tokens)
	}
}

func TestScanInputReportsErrorWithPosition(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.scan(`"unterminated`)
	if !isErr {
		t.Fatalf("expected scan error, got output:\n%s", output)
	}
	if !strings.Contains(output, "repl:1:") {
		t.Fatalf("error should carry a position: %s", output)
	}
}

func TestViewSurvivesTinyWindow(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue("a {b}")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)
	rm.showHelp = true
	rm.showStats = true

	for _, size := range []tea.WindowSizeMsg{
		{Width: 40, Height: 5},
		{Width: 1, Height: 1},
	} {
		model, _ = rm.Update(size)
		small, ok := model.(replModel)
		if !ok {
			t.Fatalf("unexpected model type %T", model)
		}
		if view := small.View(); view == "" {
			t.Fatalf("expected non-empty view at %dx%d", size.Width, size.Height)
		}
	}
}

func TestUpdateEnterAppendsHistory(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue("a {b}")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if len(rm.history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(rm.history))
	}
	entry := rm.history[0]
	if entry.isErr {
		t.Fatalf("unexpected error entry: %s", entry.output)
	}
	if !strings.Contains(entry.output, "group {}") {
		t.Fatalf("expected group in rendered output: %s", entry.output)
	}
	if len(rm.cmdHistory) != 1 || rm.cmdHistory[0] != "a {b}" {
		t.Fatalf("input history not recorded: %#v", rm.cmdHistory)
	}
}
