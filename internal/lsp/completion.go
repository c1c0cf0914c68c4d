package lsp

import (
	"encoding/json"
	"sort"
	"unicode"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// CompletionParams represents completion request parameters.
type CompletionParams struct {
	TextDocumentPositionParams
	Context *CompletionContext `json:"context,omitempty"`
}

type CompletionContext struct {
	TriggerKind      int    `json:"triggerKind"`
	TriggerCharacter string `json:"triggerCharacter,omitempty"`
}

// TextDocumentPositionParams represents a position in a text document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// CompletionList represents a list of completion items.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

type CompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

const (
	completionKindField    = 5
	completionKindVariable = 6
	completionKindKeyword  = 14
)

func (s *Server) handleCompletion(msg *jsonrpcMessage) *jsonrpcMessage {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return failure(msg.ID, codeInvalidParams, "Invalid params: %v", err)
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Module == nil {
		return result(msg.ID, CompletionList{Items: []CompletionItem{}})
	}

	return result(msg.ID, CompletionList{Items: doc.completions(params.Position)})
}

// completions offers the attributes assigned on a name after "name.", and
// bound names plus keywords anywhere else.
func (d *Document) completions(pos Position) []CompletionItem {
	offset := d.positionToOffset(pos)
	start := d.wordStart(offset)

	if start > 0 && d.runes[start-1] == '.' {
		owner := d.text(d.wordStart(start-1), start-1)
		if owner == "" {
			return []CompletionItem{}
		}
		return d.attributeCompletions(owner)
	}

	items := make([]CompletionItem, 0)
	bound := d.bindings()
	names := make([]string, 0, len(bound))
	for name := range bound {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		items = append(items, CompletionItem{Label: name, Kind: completionKindVariable, Detail: "name"})
	}
	for _, kw := range lexer.Keywords() {
		if _, shadowed := bound[kw]; !shadowed {
			items = append(items, CompletionItem{Label: kw, Kind: completionKindKeyword, Detail: "keyword"})
		}
	}
	return items
}

// attributeCompletions lists attributes stored on owner anywhere in the file.
func (d *Document) attributeCompletions(owner string) []CompletionItem {
	seen := make(map[string]bool)
	ast.Inspect(d.Module, func(expr ast.Expr) {
		attr, ok := expr.(*ast.Attribute)
		if !ok || attr.Role != ast.Store {
			return
		}
		if name, ok := attr.Value.(*ast.Name); ok && name.ID == owner {
			seen[attr.Attr] = true
		}
	})

	attrs := make([]string, 0, len(seen))
	for attr := range seen {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	items := make([]CompletionItem, 0, len(attrs))
	for _, attr := range attrs {
		items = append(items, CompletionItem{Label: attr, Kind: completionKindField, Detail: "attribute of " + owner})
	}
	return items
}

// wordStart returns the offset where the identifier ending at offset begins.
func (d *Document) wordStart(offset int) int {
	offset = min(offset, len(d.runes))
	for offset > 0 {
		r := d.runes[offset-1]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		offset--
	}
	return offset
}
