// Package dump renders syntax trees for the command line.
package dump

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/config"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// Span is the serialized form of lexer.Span.
type Span struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Start  int `json:"start" yaml:"start"`
	End    int `json:"end" yaml:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d [%d,%d)", s.Line, s.Column, s.Start, s.End)
}

// Node is a format-neutral view of one AST node. Children are grouped into
// named fields in source order.
type Node struct {
	Kind   string    `json:"kind" yaml:"kind"`
	Span   Span      `json:"span" yaml:"span"`
	Role   *ast.Role `json:"role,omitempty" yaml:"role,omitempty"`
	Value  string    `json:"value,omitempty" yaml:"value,omitempty"`
	Fields []Field   `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field is a named group of child nodes. A nil entry marks an absent child
// that still holds its position, such as the key of a "**mapping" entry.
type Field struct {
	Name  string  `json:"name" yaml:"name"`
	Nodes []*Node `json:"nodes" yaml:"nodes"`
}

func spanOf(s lexer.Span) Span {
	return Span{Line: s.Line, Column: s.Column, Start: s.Start, End: s.End}
}

// Build converts n and everything below it.
func Build(n ast.Node) *Node {
	if n == nil {
		return nil
	}

	out := &Node{
		Kind: strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."),
		Span: spanOf(n.Span()),
	}
	if expr, ok := n.(ast.Expr); ok {
		if role, ok := ast.RoleOf(expr); ok {
			out.Role = &role
		}
	}

	switch n := n.(type) {
	case *ast.Module:
		out.addNodes("body", stmtNodes(n.Body))
	case *ast.ExprStmt:
		out.add("value", n.Value)
	case *ast.AssignStmt:
		out.add("targets", n.Targets...)
		out.add("value", n.Value)
	case *ast.AugAssignStmt:
		out.Value = string(n.Op) + "="
		out.add("target", n.Target)
		out.add("value", n.Value)
	case *ast.AnnAssignStmt:
		out.add("target", n.Target)
		out.add("annotation", n.Annotation)
		out.addOptional("value", n.Value)
	case *ast.DeleteStmt:
		out.add("targets", n.Targets...)

	case *ast.Name:
		out.Value = n.ID
	case *ast.Attribute:
		out.Value = n.Attr
		out.add("value", n.Value)
	case *ast.Subscript:
		out.add("value", n.Value)
		out.add("index", n.Index)
	case *ast.Starred:
		out.add("value", n.Value)
	case *ast.List:
		out.add("elts", n.Elts...)
	case *ast.Tuple:
		if n.Parenthesized {
			out.Value = "parenthesized"
		}
		out.add("elts", n.Elts...)
	case *ast.Call:
		out.add("func", n.Func)
		out.add("args", n.Args...)
		kws := make([]ast.Node, 0, len(n.Keywords))
		for _, kw := range n.Keywords {
			kws = append(kws, kw)
		}
		out.addNodes("keywords", kws)
	case *ast.Keyword:
		out.Value = n.Arg
		out.add("value", n.Value)
	case *ast.Dict:
		out.add("keys", n.Keys...)
		out.add("values", n.Values...)
	case *ast.Set:
		out.add("elts", n.Elts...)
	case *ast.BinaryOp:
		out.Value = string(n.Op)
		out.add("left", n.Left)
		out.add("right", n.Right)
	case *ast.UnaryOp:
		out.Value = string(n.Op)
		out.add("operand", n.Operand)
	case *ast.BooleanOp:
		out.Value = string(n.Op)
		out.add("values", n.Values...)
	case *ast.Compare:
		ops := make([]string, len(n.Ops))
		for i, op := range n.Ops {
			ops[i] = string(op)
		}
		out.Value = strings.Join(ops, ", ")
		out.add("left", n.Left)
		out.add("comparators", n.Comparators...)
	case *ast.ConditionalExpr:
		out.add("body", n.Body)
		out.add("test", n.Test)
		out.add("orelse", n.OrElse)
	case *ast.Lambda:
		params := make([]ast.Node, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, p)
		}
		out.addNodes("params", params)
		out.add("body", n.Body)
	case *ast.Param:
		out.Value = paramPrefix(n.Kind) + n.Name
		out.addOptional("default", n.Default)
	case *ast.NamedExpr:
		out.add("target", n.Target)
		out.add("value", n.Value)
	case *ast.Yield:
		out.addOptional("value", n.Value)
	case *ast.YieldFrom:
		out.add("value", n.Value)
	case *ast.Await:
		out.add("value", n.Value)
	case *ast.Slice:
		out.addOptional("lower", n.Lower)
		out.addOptional("upper", n.Upper)
		out.addOptional("step", n.Step)
	case *ast.FormattedString:
		out.add("values", n.Values...)
	case *ast.FormattedValue:
		if n.Conversion != 0 {
			out.Value = "!" + string(n.Conversion)
		}
		out.add("value", n.Value)
		if n.FormatSpec != nil {
			out.add("format_spec", n.FormatSpec)
		}
	case *ast.ListComp:
		out.add("elt", n.Elt)
		out.addNodes("generators", generators(n.Generators))
	case *ast.SetComp:
		out.add("elt", n.Elt)
		out.addNodes("generators", generators(n.Generators))
	case *ast.DictComp:
		out.add("key", n.Key)
		out.add("value", n.Value)
		out.addNodes("generators", generators(n.Generators))
	case *ast.GeneratorExp:
		out.add("elt", n.Elt)
		out.addNodes("generators", generators(n.Generators))
	case *ast.Comprehension:
		if n.IsAsync {
			out.Value = "async"
		}
		out.add("target", n.Target)
		out.add("iter", n.Iter)
		out.add("ifs", n.Ifs...)
	case *ast.Literal:
		out.Value = fmt.Sprintf("%s %q", n.Kind, n.Value)
	}

	return out
}

func (n *Node) add(name string, exprs ...ast.Expr) {
	nodes := make([]ast.Node, len(exprs))
	for i, e := range exprs {
		if e != nil {
			nodes[i] = e
		}
	}
	n.addNodes(name, nodes)
}

// addOptional records the child only when it is present.
func (n *Node) addOptional(name string, expr ast.Expr) {
	if expr != nil {
		n.add(name, expr)
	}
}

func (n *Node) addNodes(name string, nodes []ast.Node) {
	if len(nodes) == 0 {
		return
	}
	field := Field{Name: name, Nodes: make([]*Node, len(nodes))}
	for i, child := range nodes {
		if child != nil {
			field.Nodes[i] = Build(child)
		}
	}
	n.Fields = append(n.Fields, field)
}

func stmtNodes(list []ast.Stmt) []ast.Node {
	out := make([]ast.Node, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

func generators(gens []*ast.Comprehension) []ast.Node {
	out := make([]ast.Node, len(gens))
	for i, g := range gens {
		out[i] = g
	}
	return out
}

func paramPrefix(kind ast.ParamKind) string {
	switch kind {
	case ast.ParamVarArgs:
		return "*"
	case ast.ParamKwArgs:
		return "**"
	default:
		return ""
	}
}

// Write renders node in the named format.
func Write(w io.Writer, format string, node ast.Node) error {
	switch format {
	case config.FormatText, "":
		return Text(w, Build(node))
	case config.FormatJSON:
		return JSON(w, Build(node))
	case config.FormatYAML:
		return YAML(w, Build(node))
	case config.FormatDebug:
		return Debug(w, node)
	default:
		return errors.Errorf("unknown dump format %q", format)
	}
}

// Text writes an indented outline, one node per line.
func Text(w io.Writer, n *Node) error {
	var b strings.Builder
	writeText(&b, n, 0)
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write dump")
}

func writeText(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		b.WriteString(indent + "<none>\n")
		return
	}

	b.WriteString(indent + n.Kind)
	if n.Value != "" {
		b.WriteString(" " + n.Value)
	}
	if n.Role != nil {
		b.WriteString(" (" + n.Role.String() + ")")
	}
	b.WriteString(" " + n.Span.String() + "\n")

	for _, f := range n.Fields {
		b.WriteString(indent + "  " + f.Name + ":\n")
		for _, child := range f.Nodes {
			writeText(b, child, depth+2)
		}
	}
}

// JSON writes n as indented JSON.
func JSON(w io.Writer, n *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(n), "encode json")
}

// YAML writes n as a YAML document.
func YAML(w io.Writer, n *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return errors.Wrap(enc.Close(), "encode yaml")
}

var debugConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Debug writes the raw Go values of the tree, unexported spans included.
func Debug(w io.Writer, node ast.Node) error {
	debugConfig.Fdump(w, node)
	return nil
}
