package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/mgomes/quark/quark"
)

func TestLSPCommandExitsOnEOF(t *testing.T) {
	if _, _, err := executeCLI(t, "lsp"); err != nil {
		t.Fatalf("lsp failed: %v", err)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	engine := quark.NewEngine(quark.Config{})
	diags := diagnosticsForSource(engine, "number x = 1;\nexit(x);\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %#v", diags)
	}
}

func TestDiagnosticsForSourceWithErrors(t *testing.T) {
	engine := quark.NewEngine(quark.Config{})
	diags := diagnosticsForSource(engine, "number x = 1;\nnumber x = 2;\ny = 3;\n")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %#v", diags)
	}

	first := diags[0]
	if first.Severity != severityError {
		t.Fatalf("expected severity %d, got %d", severityError, first.Severity)
	}
	if first.Message != "semantic error: variable x already declared" {
		t.Fatalf("unexpected message: %q", first.Message)
	}
	if first.Range.Start != (lspPos{Line: 1, Character: 7}) {
		t.Fatalf("unexpected start: %#v", first.Range.Start)
	}
	if first.Range.End.Character != 8 {
		t.Fatalf("unexpected end: %#v", first.Range.End)
	}
}

func TestDiagnosticsForSourceReportsWarnings(t *testing.T) {
	engine := quark.NewEngine(quark.Config{})
	diags := diagnosticsForSource(engine, "number unused = 1;\n")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %#v", diags)
	}
	if diags[0].Severity != severityWarning {
		t.Fatalf("expected warning severity, got %d", diags[0].Severity)
	}
}

func TestLSPPositionCountsUTF16Units(t *testing.T) {
	lines := []string{`text s = "😀"; y = 1;`}
	// y sits at rune column 15, after one astral rune.
	got := lspPosition(lines, quark.Position{Line: 1, Column: 15})
	if got != (lspPos{Line: 0, Character: 15}) {
		t.Fatalf("expected 0:15, got %d:%d", got.Line, got.Character)
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	symbols := quark.NewSymbolTable()
	if err := symbols.Add("total", quark.TypeNumber); err != nil {
		t.Fatalf("add symbol: %v", err)
	}

	items := completionItems(symbols)
	if len(items) != len(quark.Keywords())+1 {
		t.Fatalf("unexpected item count %d", len(items))
	}

	prev := ""
	var sawKeyword, sawVariable bool
	for _, item := range items {
		if item.Label < prev {
			t.Fatalf("items not sorted: %q after %q", item.Label, prev)
		}
		prev = item.Label
		switch item.Kind {
		case completionKeyword:
			sawKeyword = true
		case completionVariable:
			sawVariable = true
			if item.Label != "total" || item.Detail != "number" {
				t.Fatalf("unexpected variable item: %#v", item)
			}
		}
	}
	if !sawKeyword || !sawVariable {
		t.Fatalf("expected keyword and variable items")
	}
}

func TestClassifyWord(t *testing.T) {
	symbols := quark.NewSymbolTable()
	_ = symbols.Add("name", quark.TypeText)

	tests := map[string]string{
		"if":    "keyword",
		"EXIT":  "keyword",
		"name":  "variable of type text",
		"other": "symbol",
	}
	for word, want := range tests {
		if got := classifyWord(word, symbols); got != want {
			t.Fatalf("classifyWord(%q) = %q, want %q", word, got, want)
		}
	}
}

func TestWordAtPosition(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		line      int
		character int
		want      string
	}{
		{name: "start", source: "number total = 1;", line: 0, character: 0, want: "number"},
		{name: "middle", source: "number total = 1;", line: 0, character: 9, want: "total"},
		{name: "after_word", source: "number total = 1;", line: 0, character: 12, want: "total"},
		{name: "space", source: "a  b", line: 0, character: 2, want: ""},
		{name: "past_end", source: "exit", line: 0, character: 40, want: "exit"},
		{name: "second_line", source: "x;\nlonger;", line: 1, character: 3, want: "longer"},
		{name: "bad_line", source: "x;", line: 4, character: 0, want: ""},
		{name: "utf16", source: `"😀😀" ok`, line: 0, character: 7, want: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordAtPosition(tt.source, tt.line, tt.character); got != tt.want {
				t.Fatalf("wordAtPosition = %q, want %q", got, tt.want)
			}
		})
	}
}

func lspFrame(t *testing.T, msg map[string]any) string {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(data), data)
}

func readFrames(t *testing.T, r io.Reader) []map[string]any {
	t.Helper()
	server := newLSPServer(r, io.Discard, nil, nil)
	var out []map[string]any
	for {
		payload, err := server.readPayload()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		var msg map[string]any
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		out = append(out, msg)
	}
}

func TestLSPServerSession(t *testing.T) {
	uri := "file:///main.qrk"
	var in strings.Builder
	in.WriteString(lspFrame(t, map[string]any{"jsonrpc": "2.0", "id": 1, "method": "initialize", "params": map[string]any{}}))
	in.WriteString(lspFrame(t, map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": map[string]any{
			"textDocument": map[string]any{"uri": uri, "text": "number count = 1;\nexit(count);\n"},
		},
	}))
	in.WriteString(lspFrame(t, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "textDocument/hover",
		"params": map[string]any{
			"textDocument": map[string]any{"uri": uri},
			"position":     map[string]any{"line": 1, "character": 6},
		},
	}))
	in.WriteString(lspFrame(t, map[string]any{"jsonrpc": "2.0", "id": 3, "method": "workspace/symbol"}))
	in.WriteString(lspFrame(t, map[string]any{"jsonrpc": "2.0", "id": 4, "method": "shutdown"}))
	in.WriteString(lspFrame(t, map[string]any{"jsonrpc": "2.0", "method": "exit"}))

	var out bytes.Buffer
	server := newLSPServer(strings.NewReader(in.String()), &out, quark.NewEngine(quark.Config{}), nil)
	if err := server.serve(); err != nil {
		t.Fatalf("serve: %v", err)
	}

	frames := readFrames(t, &out)
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d: %#v", len(frames), frames)
	}

	info := frames[0]["result"].(map[string]any)["serverInfo"].(map[string]any)
	if info["name"] != "quark-lsp" {
		t.Fatalf("unexpected server info: %#v", info)
	}

	if frames[1]["method"] != "textDocument/publishDiagnostics" {
		t.Fatalf("expected diagnostics notification, got %#v", frames[1])
	}
	diags := frames[1]["params"].(map[string]any)["diagnostics"].([]any)
	if len(diags) != 0 {
		t.Fatalf("expected clean document, got %#v", diags)
	}

	hover := frames[2]["result"].(map[string]any)["contents"].(map[string]any)["value"].(string)
	if !strings.Contains(hover, "`count`") || !strings.Contains(hover, "Quark variable of type number") {
		t.Fatalf("unexpected hover: %q", hover)
	}

	errObj := frames[3]["error"].(map[string]any)
	if errObj["code"] != float64(-32601) {
		t.Fatalf("expected method not found, got %#v", errObj)
	}

	if frames[4]["id"] != float64(4) {
		t.Fatalf("expected shutdown response, got %#v", frames[4])
	}
}

func TestLSPDidChangeRepublishesDiagnostics(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard, nil, nil)
	params := json.RawMessage(`{"textDocument":{"uri":"file:///a.qrk"},"contentChanges":[{"text":"exit(0);"},{"text":"exit(missing);"}]}`)

	msgs := server.handle(rpcRequest{JSONRPC: "2.0", Method: "textDocument/didChange", Params: params})
	if len(msgs) != 1 {
		t.Fatalf("expected one notification, got %d", len(msgs))
	}
	diags := msgs[0].Params.(map[string]any)["diagnostics"].([]diagnostic)
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "missing not declared") {
		t.Fatalf("unexpected diagnostics: %#v", diags)
	}
	if server.docs["file:///a.qrk"] != "exit(missing);" {
		t.Fatalf("expected latest change to be stored")
	}

	closeParams := json.RawMessage(`{"textDocument":{"uri":"file:///a.qrk"}}`)
	server.handle(rpcRequest{JSONRPC: "2.0", Method: "textDocument/didClose", Params: closeParams})
	if _, ok := server.docs["file:///a.qrk"]; ok {
		t.Fatalf("expected document to be dropped on close")
	}
}
