package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/mgomes/quark/quark"
	"github.com/spf13/cobra"
)

const (
	severityError   = 1
	severityWarning = 2

	completionVariable = 6
	completionKeyword  = 14

	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type rpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  any              `json:"params,omitempty"`
	Result  any              `json:"result,omitempty"`
	Error   *rpcError        `json:"error,omitempty"`
}

func reply(id *json.RawMessage, result any) rpcMessage {
	return rpcMessage{JSONRPC: "2.0", ID: id, Result: result}
}

func replyError(id *json.RawMessage, code int, message string) rpcMessage {
	return rpcMessage{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

type textDocument struct {
	URI  string `json:"uri"`
	Text string `json:"text,omitempty"`
}

type lspPos struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type lspRange struct {
	Start lspPos `json:"start"`
	End   lspPos `json:"end"`
}

type diagnostic struct {
	Range    lspRange `json:"range"`
	Severity int      `json:"severity"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

type completionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail"`
}

type didOpenParams struct {
	TextDocument textDocument `json:"textDocument"`
}

type didChangeParams struct {
	TextDocument   textDocument `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type positionParams struct {
	TextDocument textDocument `json:"textDocument"`
	Position     lspPos       `json:"position"`
}

// lspServer speaks JSON-RPC over a Content-Length framed stream and keeps
// the full text of every open document.
type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	engine *quark.Engine
	logger *slog.Logger
	docs   map[string]string
}

func newLSPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run a language server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newLSPServer(cmd.InOrStdin(), cmd.OutOrStdout(), a.engine(), a.logger).serve()
		},
	}
}

func newLSPServer(in io.Reader, out io.Writer, engine *quark.Engine, logger *slog.Logger) *lspServer {
	if engine == nil {
		engine = quark.NewEngine(quark.Config{})
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &lspServer{
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
		engine: engine,
		logger: logger,
		docs:   make(map[string]string),
	}
}

// serve handles requests until the client sends exit or closes the stream.
func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var req rpcRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			s.logger.Warn("dropping malformed message", "error", err)
			continue
		}
		s.logger.Debug("lsp request", "method", req.Method)

		for _, msg := range s.handle(req) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}
		if req.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handle(req rpcRequest) []rpcMessage {
	switch req.Method {
	case "initialize":
		return []rpcMessage{reply(req.ID, map[string]any{
			"capabilities": map[string]any{
				"textDocumentSync":   1,
				"hoverProvider":      true,
				"completionProvider": map[string]any{"resolveProvider": false},
			},
			"serverInfo": map[string]any{"name": "quark-lsp"},
		})}

	case "textDocument/didOpen":
		var params didOpenParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil
		}
		return []rpcMessage{s.open(params.TextDocument.URI, params.TextDocument.Text)}

	case "textDocument/didChange":
		var params didChangeParams
		if err := json.Unmarshal(req.Params, &params); err != nil || len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		return []rpcMessage{s.open(params.TextDocument.URI, latest)}

	case "textDocument/didClose":
		var params didOpenParams
		if err := json.Unmarshal(req.Params, &params); err == nil {
			delete(s.docs, params.TextDocument.URI)
		}
		return nil
	}

	// Everything below is a request and needs an id to answer.
	if req.ID == nil {
		return nil
	}
	switch req.Method {
	case "shutdown":
		return []rpcMessage{reply(req.ID, nil)}

	case "textDocument/completion":
		var params positionParams
		_ = json.Unmarshal(req.Params, &params)
		return []rpcMessage{reply(req.ID, map[string]any{
			"isIncomplete": false,
			"items":        completionItems(s.symbolsFor(params.TextDocument.URI)),
		})}

	case "textDocument/hover":
		var params positionParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return []rpcMessage{replyError(req.ID, codeInvalidParams, "invalid hover params")}
		}
		uri := params.TextDocument.URI
		word := wordAtPosition(s.docs[uri], params.Position.Line, params.Position.Character)
		if word == "" {
			return []rpcMessage{reply(req.ID, nil)}
		}
		return []rpcMessage{reply(req.ID, map[string]any{
			"contents": map[string]any{
				"kind":  "markdown",
				"value": fmt.Sprintf("`%s`\n\nQuark %s", word, classifyWord(word, s.symbolsFor(uri))),
			},
		})}

	default:
		return []rpcMessage{replyError(req.ID, codeMethodNotFound, "method not found")}
	}
}

// open stores the document text and returns its diagnostics notification.
func (s *lspServer) open(uri, text string) rpcMessage {
	s.docs[uri] = text
	return rpcMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.engine, text),
		},
	}
}

// symbolsFor compiles the open document and returns whatever the parser
// managed to declare, even when the document has errors.
func (s *lspServer) symbolsFor(uri string) *quark.SymbolTable {
	source, ok := s.docs[uri]
	if !ok {
		return quark.NewSymbolTable()
	}
	unit, _ := s.engine.Compile(source)
	if unit == nil {
		return quark.NewSymbolTable()
	}
	return unit.Symbols
}

// diagnosticsForSource reports compile errors, or analyzer warnings when the
// source compiles cleanly.
func diagnosticsForSource(engine *quark.Engine, source string) []diagnostic {
	lines := strings.Split(source, "\n")
	out := []diagnostic{}

	unit, err := engine.Compile(source)
	if err != nil {
		for _, e := range compileErrors(err) {
			var qe *quark.Error
			if !errors.As(e, &qe) {
				out = append(out, newDiagnostic(lspPos{}, e.Error(), severityError))
				continue
			}
			out = append(out, newDiagnostic(lspPosition(lines, qe.Pos), qe.Kind.String()+" error: "+qe.Msg, severityError))
		}
		return out
	}

	for _, w := range quark.Analyze(unit.Program) {
		out = append(out, newDiagnostic(lspPosition(lines, w.Pos), w.Message, severityWarning))
	}
	return out
}

// lspPosition converts a 1-based rune position to a 0-based UTF-16 one.
func lspPosition(lines []string, pos quark.Position) lspPos {
	line := max(0, pos.Line-1)
	column := max(0, pos.Column-1)
	if line >= len(lines) {
		return lspPos{Line: line, Character: column}
	}
	runes := []rune(lines[line])
	column = min(column, len(runes))
	return lspPos{Line: line, Character: len(utf16.Encode(runes[:column]))}
}

func newDiagnostic(at lspPos, message string, severity int) diagnostic {
	end := at
	end.Character++
	return diagnostic{
		Range:    lspRange{Start: at, End: end},
		Severity: severity,
		Source:   "quark-lsp",
		Message:  message,
	}
}

// completionItems lists every keyword and declared variable, sorted by label.
func completionItems(symbols *quark.SymbolTable) []completionItem {
	items := make([]completionItem, 0, len(quark.Keywords())+symbols.Len())
	for _, keyword := range quark.Keywords() {
		items = append(items, completionItem{Label: keyword, Kind: completionKeyword, Detail: "keyword"})
	}
	for _, name := range symbols.Names() {
		sym, _ := symbols.Get(name)
		items = append(items, completionItem{Label: name, Kind: completionVariable, Detail: sym.Type.String()})
	}
	slices.SortStableFunc(items, func(a, b completionItem) int {
		return strings.Compare(a.Label, b.Label)
	})
	return items
}

func classifyWord(word string, symbols *quark.SymbolTable) string {
	if slices.Contains(quark.Keywords(), strings.ToLower(word)) {
		return "keyword"
	}
	if sym, ok := symbols.Get(word); ok {
		return "variable of type " + sym.Type.String()
	}
	return "symbol"
}

// wordAtPosition returns the identifier under an LSP position, whose
// character offset counts UTF-16 code units. A cursor just past the end of a
// word still selects it.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}

	cursor, units := 0, 0
	for cursor < len(runes)-1 && units < character {
		units += utf16.RuneLen(runes[cursor])
		cursor++
	}
	if !isWordRune(runes[cursor]) {
		if cursor == 0 || !isWordRune(runes[cursor-1]) {
			return ""
		}
		cursor--
	}

	start, end := cursor, cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

func (s *lspServer) readPayload() ([]byte, error) {
	length := -1
	for {
		header, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		header = strings.TrimRight(header, "\r\n")
		if header == "" {
			break
		}
		name, value, ok := strings.Cut(header, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Length: %w", err)
		}
		length = n
	}

	if length < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg rpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
