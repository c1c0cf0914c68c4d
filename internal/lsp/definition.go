package lsp

import (
	"encoding/json"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// DefinitionParams represents definition request parameters.
type DefinitionParams struct {
	TextDocumentPositionParams
}

// Location represents a location in a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

func (s *Server) handleDefinition(msg *jsonrpcMessage) *jsonrpcMessage {
	var params DefinitionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return failure(msg.ID, codeInvalidParams, "Invalid params: %v", err)
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Module == nil {
		return result(msg.ID, nil)
	}

	return result(msg.ID, doc.definition(params.Position))
}

// definition resolves the name under pos to the first place the file binds
// it. Scopes are not modelled; every binding shares the module namespace.
func (d *Document) definition(pos Position) *Location {
	name, ok := d.exprAt(d.positionToOffset(pos)).(*ast.Name)
	if !ok {
		return nil
	}

	span, ok := d.bindings()[name.ID]
	if !ok {
		return nil
	}
	return &Location{URI: d.URI, Range: d.rangeOf(span.Start, span.End)}
}

// bindings maps every bound name to its earliest binding site. Store-role
// names and lambda parameters bind.
func (d *Document) bindings() map[string]lexer.Span {
	found := make(map[string]lexer.Span)
	bind := func(id string, span lexer.Span) {
		if prev, ok := found[id]; !ok || span.Start < prev.Start {
			found[id] = span
		}
	}

	ast.Walk(d.Module, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Name:
			if n.Role == ast.Store {
				bind(n.ID, n.Span())
			}
		case *ast.Param:
			bind(n.Name, n.Span())
		}
		return true
	})
	return found
}
