package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"squiggle/internal/ast"
	"squiggle/internal/source"
	"squiggle/internal/value"
)

// ASTNodeOutput is the dump form of one syntax node.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// BuildAST converts the program of tree into dump nodes.
func BuildAST(tree *ast.Tree) ASTNodeOutput {
	prog := &tree.Program
	root := ASTNodeOutput{Type: "Program", Span: prog.Span}
	for _, imp := range prog.Imports {
		text := quote(imp.Path) + " as " + imp.Alias
		if imp.Flat {
			text = quote(imp.Path) + " as *"
		}
		root.Children = append(root.Children, ASTNodeOutput{Type: "Import", Span: imp.Span, Text: text})
	}
	for _, id := range prog.Stmts {
		root.Children = append(root.Children, stmtNode(tree, id))
	}
	if prog.HasResult() {
		root.Children = append(root.Children, exprNode(tree, prog.Result))
	}
	return root
}

func stmtNode(tree *ast.Tree, id ast.StmtID) ASTNodeOutput {
	st := tree.Stmts.Get(id)
	return ASTNodeOutput{
		Type:     st.Kind.String(),
		Span:     st.Span,
		Text:     st.Name,
		Children: []ASTNodeOutput{exprNode(tree, st.Value)},
	}
}

func exprNode(tree *ast.Tree, id ast.ExprID) ASTNodeOutput {
	e := tree.Exprs.Get(id)
	if e == nil {
		return ASTNodeOutput{Type: "Missing"}
	}
	n := ASTNodeOutput{Type: e.Kind.String(), Span: e.Span}
	exprs := tree.Exprs
	add := func(ids ...ast.ExprID) {
		for _, c := range ids {
			if !c.IsValid() {
				continue
			}
			n.Children = append(n.Children, exprNode(tree, c))
		}
	}
	switch e.Kind {
	case ast.ExprNumber:
		d, _ := exprs.Number(id)
		n.Text = value.FormatNumber(d.Value)
	case ast.ExprString:
		d, _ := exprs.StringLit(id)
		n.Text = fmt.Sprintf("%q", d.Value)
	case ast.ExprBool:
		d, _ := exprs.Bool(id)
		n.Text = fmt.Sprint(d.Value)
	case ast.ExprIdent:
		d, _ := exprs.Ident(id)
		n.Text = d.Name
	case ast.ExprArray:
		d, _ := exprs.Array(id)
		add(d.Elements...)
	case ast.ExprRecord:
		d, _ := exprs.Record(id)
		for _, entry := range d.Entries {
			n.Children = append(n.Children, ASTNodeOutput{
				Type:     "KeyValue",
				Span:     entry.Span,
				Text:     entry.Key,
				Children: []ASTNodeOutput{exprNode(tree, entry.Value)},
			})
		}
	case ast.ExprBlock:
		d, _ := exprs.Block(id)
		for _, s := range d.Stmts {
			n.Children = append(n.Children, stmtNode(tree, s))
		}
		add(d.Result)
	case ast.ExprLambda:
		d, _ := exprs.Lambda(id)
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = p.Name
		}
		n.Text = d.Name + "(" + strings.Join(params, ", ") + ")"
		add(d.Body)
	case ast.ExprCall:
		d, _ := exprs.Call(id)
		add(d.Fn)
		add(d.Args...)
	case ast.ExprInfix:
		d, _ := exprs.Infix(id)
		n.Text = d.Op.String()
		add(d.Left, d.Right)
	case ast.ExprUnary:
		d, _ := exprs.Unary(id)
		n.Text = d.Op.String()
		add(d.Arg)
	case ast.ExprPipe:
		d, _ := exprs.Pipe(id)
		add(d.Left, d.Fn)
		add(d.Args...)
	case ast.ExprDot:
		d, _ := exprs.Dot(id)
		n.Text = d.Key
		add(d.Arg)
	case ast.ExprIndex:
		d, _ := exprs.Index(id)
		add(d.Arg, d.Key)
	case ast.ExprTernary:
		d, _ := exprs.Ternary(id)
		add(d.Cond, d.Then, d.Else)
	}
	return n
}

// FormatASTPretty prints tree as an indented outline.
func FormatASTPretty(w io.Writer, tree *ast.Tree) error {
	var b strings.Builder
	root := BuildAST(tree)
	fmt.Fprintf(&b, "%s (span: %s)\n", root.Type, root.Span)
	writeChildren(&b, root.Children, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeChildren(b *strings.Builder, nodes []ASTNodeOutput, prefix string) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		b.WriteString(prefix + branch + n.Type)
		if n.Text != "" {
			b.WriteString(" " + n.Text)
		}
		b.WriteString("\n")
		writeChildren(b, n.Children, prefix+next)
	}
}

// FormatASTJSON writes tree as JSON.
func FormatASTJSON(w io.Writer, tree *ast.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildAST(tree))
}
