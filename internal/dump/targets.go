package dump

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// Target is an expression bound in the Store or Del role.
type Target struct {
	Kind string
	Role ast.Role
	Span lexer.Span
	Expr ast.Expr
}

// Targets lists every written or deleted expression in module, in source
// order. Elements of a destructuring target follow their container.
func Targets(module *ast.Module) []Target {
	var out []Target
	ast.Inspect(module, func(e ast.Expr) {
		role, ok := ast.RoleOf(e)
		if !ok || role == ast.Load {
			return
		}
		out = append(out, Target{
			Kind: ast.Describe(e),
			Role: role,
			Span: e.Span(),
			Expr: e,
		})
	})
	return out
}

// WriteTargets prints one target per line with its location and source text.
func WriteTargets(w io.Writer, src []rune, targets []Target) error {
	for _, t := range targets {
		text := ""
		if t.Span.Start >= 0 && t.Span.End <= len(src) && t.Span.Start <= t.Span.End {
			text = string(src[t.Span.Start:t.Span.End])
		}
		if _, err := fmt.Fprintf(w, "%d:%d\t%s\t%s\t%s\n", t.Span.Line, t.Span.Column, t.Role, t.Kind, text); err != nil {
			return errors.Wrap(err, "write targets")
		}
	}
	return nil
}
