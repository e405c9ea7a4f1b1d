package main

import (
	"encoding/json"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	origStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		_ = r.Close()
	}()

	if err := runCLI([]string{"grove", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	diags := diagnosticsForSource("a {b}\n.atom\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestDiagnosticsForSourceWithScanError(t *testing.T) {
	diags := diagnosticsForSource("a\nb $\n")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	first := diags[0]
	if first["severity"] != 1 {
		t.Fatalf("expected severity 1, got %#v", first["severity"])
	}
	message, ok := first["message"].(string)
	if !ok || !strings.Contains(message, "unrecognized character") {
		t.Fatalf("unexpected diagnostic message: %#v", first["message"])
	}
	rangeMap, ok := first["range"].(map[string]any)
	if !ok {
		t.Fatalf("missing diagnostic range: %#v", first)
	}
	start, ok := rangeMap["start"].(map[string]any)
	if !ok || start["line"] != 1 {
		t.Fatalf("diagnostic should point at the second line: %#v", rangeMap)
	}
}

func TestCompletionItemsCollectDocumentIdentifiers(t *testing.T) {
	items := completionItems("walk .north\n^step{look}\n")
	if len(items) == 0 {
		t.Fatalf("expected completion items")
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := item["label"].(string)
		if !ok {
			t.Fatalf("unexpected completion label: %#v", item["label"])
		}
		labels = append(labels, label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}
	for _, want := range []string{"walk", "north", "step", "look"} {
		if !slices.Contains(labels, want) {
			t.Fatalf("expected %q among completions %v", want, labels)
		}
	}

	atom := findCompletionItem(t, items, "north")
	if atom["detail"] != "atom" {
		t.Fatalf("expected atom detail, got %#v", atom["detail"])
	}
	word := findCompletionItem(t, items, "walk")
	if word["detail"] != "word" {
		t.Fatalf("expected word detail, got %#v", word["detail"])
	}
}

func TestCompletionItemsEmptyForUnscannableDocument(t *testing.T) {
	items := completionItems("a $ b")
	if len(items) != 0 {
		t.Fatalf("expected no completions for unscannable doc, got %#v", items)
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := &lspServer{
		docs: make(map[string]string),
	}
	params := map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///tmp/test.grv",
			"text": "a $\n",
		},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	if messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("unexpected method: %q", messages[0].Method)
	}
	paramsMap, ok := messages[0].Params.(map[string]any)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	diags, ok := paramsMap["diagnostics"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected diagnostics payload: %#v", paramsMap["diagnostics"])
	}
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics for invalid source")
	}
}

func TestHandleMessageHoverClassifiesAtoms(t *testing.T) {
	server := &lspServer{
		docs: map[string]string{
			"file:///tmp/test.grv": "walk .north\n",
		},
	}
	params := map[string]any{
		"textDocument": map[string]any{
			"uri": "file:///tmp/test.grv",
		},
		"position": map[string]any{
			"line":      0,
			"character": 8,
		},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("1"),
		Method:  "textDocument/hover",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	result, ok := messages[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover result: %#v", messages[0].Result)
	}
	contents, ok := result["contents"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover contents: %#v", result["contents"])
	}
	value, ok := contents["value"].(string)
	if !ok {
		t.Fatalf("unexpected hover value: %#v", contents["value"])
	}
	if !strings.Contains(value, "atom") {
		t.Fatalf("expected atom classification in hover value, got %q", value)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "walk .north\n^step{look}\n"
	word, kind := wordAtPosition(source, 0, 1)
	if word != "walk" || kind != "word" {
		t.Fatalf("expected walk/word, got %q/%q", word, kind)
	}
	word, kind = wordAtPosition(source, 1, 2)
	if word != "step" || kind != "closure binding" {
		t.Fatalf("expected step/closure binding, got %q/%q", word, kind)
	}
}

func TestWordAtPositionOutsideAnyWord(t *testing.T) {
	word, _ := wordAtPosition("a  b\n", 0, 1)
	if word != "a" {
		t.Fatalf("cursor just past a word should still find it, got %q", word)
	}
	word, _ = wordAtPosition("   \n", 0, 1)
	if word != "" {
		t.Fatalf("expected no word on blank line, got %q", word)
	}
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func findCompletionItem(t *testing.T, items []map[string]any, label string) map[string]any {
	t.Helper()
	for _, item := range items {
		itemLabel, ok := item["label"].(string)
		if ok && itemLabel == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return nil
}
