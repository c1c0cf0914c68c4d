package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/diag"
	"github.com/malphas-lang/sidewinder/internal/parser"
)

// Server is a language server speaking JSON-RPC over a byte stream.
type Server struct {
	// Documents tracks open files by URI
	Documents map[string]*Document
	mu        sync.RWMutex

	out   io.Writer
	outMu sync.Mutex

	log      zerolog.Logger
	rootPath string
}

// Document represents an open document.
type Document struct {
	URI         string
	Content     string
	Version     int
	Module      *ast.Module
	Diagnostics []diag.Diagnostic

	runes []rune
}

// NewServer creates a new language server.
func NewServer(log zerolog.Logger) *Server {
	return &Server{
		Documents: make(map[string]*Document),
		log:       log,
	}
}

// Run serves requests read from in and writes responses and notifications to
// out. It returns nil at end of input or after an exit notification, and the
// context's error once ctx is done, even while waiting for input.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.out = out
	messages := readMessages(ctx, bufio.NewReader(in))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var next incoming
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next = <-messages:
		}

		if next.err != nil {
			if errors.Is(next.err, io.EOF) {
				return nil
			}
			return next.err
		}

		var msg jsonrpcMessage
		if err := json.Unmarshal(next.body, &msg); err != nil {
			s.log.Warn().Err(err).Msg("failed to parse JSON-RPC message")
			continue
		}
		if msg.Method == "exit" {
			return nil
		}

		response := s.handleMessage(&msg)
		if response != nil {
			if err := s.send(response); err != nil {
				s.log.Error().Err(err).Str("method", msg.Method).Msg("failed to send response")
			}
		}
	}
}

type incoming struct {
	body []byte
	err  error
}

// readMessages reads framed messages until the first error. The goroutine
// stays blocked in a pending read until in yields data or fails.
func readMessages(ctx context.Context, reader *bufio.Reader) <-chan incoming {
	messages := make(chan incoming)
	go func() {
		for {
			body, err := readMessage(reader)
			select {
			case messages <- incoming{body: body, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return messages
}

// readMessage reads one Content-Length framed message body.
func readMessage(reader *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				return nil, io.EOF
			}
			return nil, errors.Wrap(err, "failed to read header")
		}

		line = strings.TrimSpace(line)
		if line == "" {
			if contentLength >= 0 {
				break
			}
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return nil, errors.Errorf("invalid Content-Length header %q", line)
		}
		contentLength = n
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(reader, body); err != nil {
		return nil, errors.Wrap(err, "failed to read message body")
	}
	return body, nil
}

// jsonrpcMessage represents a JSON-RPC 2.0 message.
type jsonrpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

// MarshalJSON keeps "result" on successful responses, where JSON-RPC requires
// it even when the value is null.
func (m jsonrpcMessage) MarshalJSON() ([]byte, error) {
	type plain jsonrpcMessage
	if m.Method != "" || m.Error != nil {
		return json.Marshal(plain(m))
	}
	return json.Marshal(struct {
		plain
		Result interface{} `json:"result"`
	}{plain: plain(m), Result: m.Result})
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

func result(id interface{}, v interface{}) *jsonrpcMessage {
	return &jsonrpcMessage{JSONRPC: "2.0", ID: id, Result: v}
}

func failure(id interface{}, code int, format string, args ...interface{}) *jsonrpcMessage {
	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &jsonrpcError{Code: code, Message: fmt.Sprintf(format, args...)},
	}
}

// handleMessage processes a JSON-RPC message and returns a response.
func (s *Server) handleMessage(msg *jsonrpcMessage) *jsonrpcMessage {
	s.log.Debug().Str("method", msg.Method).Msg("request")

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "textDocument/didOpen":
		s.handleDidOpen(msg)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(msg)
		return nil
	case "textDocument/didClose":
		s.handleDidClose(msg)
		return nil
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "shutdown":
		return result(msg.ID, nil)
	default:
		if msg.ID != nil {
			return failure(msg.ID, codeMethodNotFound, "Method not found: %s", msg.Method)
		}
		return nil
	}
}

// send writes msg with its Content-Length header.
func (s *Server) send(msg *jsonrpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal response")
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()

	if _, err := fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if _, err := s.out.Write(data); err != nil {
		return errors.Wrap(err, "failed to write body")
	}
	return nil
}

// InitializeParams represents the initialize request parameters.
type InitializeParams struct {
	ProcessID    int                    `json:"processId,omitempty"`
	RootPath     string                 `json:"rootPath,omitempty"`
	RootURI      string                 `json:"rootUri,omitempty"`
	Capabilities map[string]interface{} `json:"capabilities,omitempty"`
}

// InitializeResult represents the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type ServerCapabilities struct {
	TextDocumentSync   int                    `json:"textDocumentSync"`
	CompletionProvider map[string]interface{} `json:"completionProvider,omitempty"`
	HoverProvider      bool                   `json:"hoverProvider"`
	DefinitionProvider bool                   `json:"definitionProvider"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) handleInitialize(msg *jsonrpcMessage) *jsonrpcMessage {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return failure(msg.ID, codeInvalidParams, "Invalid params: %v", err)
	}

	if params.RootURI != "" {
		s.rootPath = uriToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.rootPath = params.RootPath
	}

	return result(msg.ID, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: 1, // full document sync
			CompletionProvider: map[string]interface{}{
				"triggerCharacters": []string{"."},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
		},
		ServerInfo: ServerInfo{
			Name:    "sidewinder-lsp",
			Version: "0.1.0",
		},
	})
}

// DidOpenTextDocumentParams represents didOpen notification parameters.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

func (s *Server) handleDidOpen(msg *jsonrpcMessage) {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.log.Warn().Err(err).Msg("failed to parse didOpen params")
		return
	}

	doc := &Document{
		URI:     params.TextDocument.URI,
		Content: params.TextDocument.Text,
		Version: params.TextDocument.Version,
	}
	doc.update()

	s.mu.Lock()
	s.Documents[doc.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(doc)
}

// DidChangeTextDocumentParams represents didChange notification parameters.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

func (s *Server) handleDidChange(msg *jsonrpcMessage) {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.log.Warn().Err(err).Msg("failed to parse didChange params")
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}

	s.mu.Lock()
	doc, ok := s.Documents[params.TextDocument.URI]
	if ok {
		// Full sync: the last change holds the whole text.
		next := &Document{
			URI:     doc.URI,
			Content: params.ContentChanges[len(params.ContentChanges)-1].Text,
			Version: params.TextDocument.Version,
		}
		next.update()
		s.Documents[doc.URI] = next
		doc = next
	}
	s.mu.Unlock()

	if ok {
		s.publishDiagnostics(doc)
	}
}

func (s *Server) handleDidClose(msg *jsonrpcMessage) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.log.Warn().Err(err).Msg("failed to parse didClose params")
		return
	}

	s.mu.Lock()
	delete(s.Documents, params.TextDocument.URI)
	s.mu.Unlock()
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// document returns the open document for uri.
func (s *Server) document(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.Documents[uri]
	return doc, ok
}

// update parses the document content.
func (d *Document) update() {
	d.runes = []rune(d.Content)
	d.Module, d.Diagnostics = parser.ParseFile(uriToPath(d.URI), d.Content)
}

// publishDiagnostics sends the document's diagnostics to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	lspDiagnostics := make([]Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		lspDiagnostics = append(lspDiagnostics, Diagnostic{
			Range:    doc.rangeOf(d.Span.Start, d.Span.End),
			Severity: diagnosticSeverity(d.Severity),
			Message:  d.Message,
			Code:     string(d.Code),
			Source:   "sidewinder",
		})
	}

	params, err := json.Marshal(PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     doc.Version,
		Diagnostics: lspDiagnostics,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal diagnostics")
		return
	}

	notification := &jsonrpcMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  params,
	}
	if err := s.send(notification); err != nil {
		s.log.Error().Err(err).Str("uri", doc.URI).Msg("failed to publish diagnostics")
	}
}

type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Version     int          `json:"version"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Diagnostic represents an LSP diagnostic.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	Source   string `json:"source,omitempty"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Position is a zero-based line and character. Characters count runes.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

func diagnosticSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SeverityWarning:
		return 2
	case diag.SeverityNote:
		return 3
	default:
		return 1
	}
}

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		// Windows drive letters: file:///C:/x
		if len(path) > 2 && path[0] == '/' && path[2] == ':' {
			path = path[1:]
		}
		return path
	}
	return uri
}

// positionToOffset converts an LSP position into a rune offset.
func (d *Document) positionToOffset(pos Position) int {
	line, col := 0, 0
	for i, r := range d.runes {
		if line == pos.Line && col == pos.Character {
			return i
		}
		if line > pos.Line {
			return i - 1
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return len(d.runes)
}

// offsetToPosition converts a rune offset into an LSP position.
func (d *Document) offsetToPosition(offset int) Position {
	var pos Position
	for i := 0; i < offset && i < len(d.runes); i++ {
		if d.runes[i] == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character++
		}
	}
	return pos
}

func (d *Document) rangeOf(start, end int) Range {
	return Range{Start: d.offsetToPosition(start), End: d.offsetToPosition(end)}
}
