package lsp

import (
	"encoding/json"
	"fmt"

	"github.com/malphas-lang/sidewinder/internal/ast"
)

// HoverParams represents hover request parameters.
type HoverParams struct {
	TextDocumentPositionParams
}

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (s *Server) handleHover(msg *jsonrpcMessage) *jsonrpcMessage {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return failure(msg.ID, codeInvalidParams, "Invalid params: %v", err)
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Module == nil {
		return result(msg.ID, nil)
	}

	return result(msg.ID, doc.hover(params.Position))
}

// hover describes the innermost expression under pos.
func (d *Document) hover(pos Position) *Hover {
	expr := d.exprAt(d.positionToOffset(pos))
	if expr == nil {
		return nil
	}

	span := expr.Span()
	what := ast.Describe(expr)
	if role, ok := ast.RoleOf(expr); ok {
		what = fmt.Sprintf("%s (%s)", what, role)
	}

	rng := d.rangeOf(span.Start, span.End)
	return &Hover{
		Contents: MarkupContent{
			Kind:  "markdown",
			Value: fmt.Sprintf("```python\n%s\n```\n%s", d.text(span.Start, span.End), what),
		},
		Range: &rng,
	}
}

// exprAt returns the smallest expression whose span contains offset.
func (d *Document) exprAt(offset int) ast.Expr {
	var best ast.Expr
	ast.Inspect(d.Module, func(expr ast.Expr) {
		span := expr.Span()
		if offset < span.Start || offset >= span.End {
			return
		}
		if best == nil || span.Len() <= best.Span().Len() {
			best = expr
		}
	})
	return best
}

func (d *Document) text(start, end int) string {
	start = max(0, min(start, len(d.runes)))
	end = max(start, min(end, len(d.runes)))
	return string(d.runes[start:end])
}
