// Package compiler turns a parsed syntax tree into the expr form, resolving
// every identifier to a stack offset, a lambda capture or an inlined
// external value.
package compiler

import (
	"fmt"

	"squiggle/internal/ast"
	"squiggle/internal/expr"
	"squiggle/internal/value"
)

// Compile compiles the program of tree. Externals are inlined by value;
// compilation is deterministic and does not evaluate anything.
func Compile(sourceID string, tree *ast.Tree, externals value.Dict) (*expr.Program, error) {
	c := newContext(sourceID, externals)
	cp := &compiler{tree: tree, ctx: c}
	return cp.program()
}

type compiler struct {
	tree *ast.Tree
	ctx  *context
}

func (cp *compiler) program() (*expr.Program, error) {
	prog := &cp.tree.Program
	out := &expr.Program{
		At:         prog.Span,
		Statements: make([]*expr.Assign, 0, len(prog.Stmts)),
	}
	for _, id := range prog.Stmts {
		st, err := cp.statement(id)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, st)
	}
	if prog.HasResult() {
		res, err := cp.expr(prog.Result)
		if err != nil {
			return nil, err
		}
		out.Result = res
	}

	top := cp.ctx.scopes[0]
	out.Bindings = make(map[string]int, len(top.stack))
	for _, st := range out.Statements {
		if _, seen := out.Bindings[st.Name]; seen {
			continue
		}
		out.Bindings[st.Name] = top.size - 1 - top.stack[st.Name]
		out.Order = append(out.Order, st.Name)
	}
	return out, nil
}

// statement compiles the value first and only then defines the name, so a
// binding never sees itself.
func (cp *compiler) statement(id ast.StmtID) (*expr.Assign, error) {
	st := cp.tree.Stmts.Get(id)
	val, err := cp.expr(st.Value)
	if err != nil {
		return nil, err
	}
	cp.ctx.defineLocal(st.Name)
	return &expr.Assign{At: st.Span, Name: st.Name, Value: val}, nil
}

func (cp *compiler) exprs(ids []ast.ExprID) ([]expr.Expr, error) {
	out := make([]expr.Expr, 0, len(ids))
	for _, id := range ids {
		e, err := cp.expr(id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (cp *compiler) call(node *ast.Expr, fnName string, args ...ast.ExprID) (expr.Expr, error) {
	fn, err := cp.ctx.resolveName(node.Span, fnName)
	if err != nil {
		return nil, err
	}
	compiled, err := cp.exprs(args)
	if err != nil {
		return nil, err
	}
	return &expr.Call{At: node.Span, Fn: fn, Args: compiled}, nil
}

func (cp *compiler) expr(id ast.ExprID) (expr.Expr, error) {
	exprs := cp.tree.Exprs
	node := exprs.Get(id)
	if node == nil {
		return nil, fmt.Errorf("compiler: invalid expression id %d", id)
	}
	span := node.Span

	switch node.Kind {
	case ast.ExprNumber:
		data, _ := exprs.Number(id)
		return &expr.Value{At: span, Value: value.NewNumber(data.Value)}, nil

	case ast.ExprString:
		data, _ := exprs.StringLit(id)
		return &expr.Value{At: span, Value: value.NewString(data.Value)}, nil

	case ast.ExprBool:
		data, _ := exprs.Bool(id)
		return &expr.Value{At: span, Value: value.NewBool(data.Value)}, nil

	case ast.ExprVoid:
		return &expr.Value{At: span, Value: value.NewVoid()}, nil

	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		return cp.ctx.resolveName(span, data.Name)

	case ast.ExprArray:
		data, _ := exprs.Array(id)
		items, err := cp.exprs(data.Elements)
		if err != nil {
			return nil, err
		}
		return &expr.Array{At: span, Items: items}, nil

	case ast.ExprRecord:
		data, _ := exprs.Record(id)
		pairs := make([]expr.Pair, 0, len(data.Entries))
		for _, entry := range data.Entries {
			val, err := cp.expr(entry.Value)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, expr.Pair{
				Key:   &expr.Value{At: entry.KeySpan, Value: value.NewString(entry.Key)},
				Value: val,
			})
		}
		return &expr.Dict{At: span, Pairs: pairs}, nil

	case ast.ExprBlock:
		data, _ := exprs.Block(id)
		cp.ctx.startScope()
		defer cp.ctx.finishScope()
		stmts := make([]*expr.Assign, 0, len(data.Stmts))
		for _, sid := range data.Stmts {
			st, err := cp.statement(sid)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, st)
		}
		res, err := cp.expr(data.Result)
		if err != nil {
			return nil, err
		}
		if len(stmts) == 0 {
			return res, nil
		}
		return &expr.Block{At: span, Statements: stmts, Result: res}, nil

	case ast.ExprLambda:
		data, _ := exprs.Lambda(id)
		cp.ctx.startFunctionScope()
		params := make([]string, len(data.Params))
		for i, p := range data.Params {
			params[i] = p.Name
			cp.ctx.defineLocal(p.Name)
		}
		body, err := cp.expr(data.Body)
		fnScope := cp.ctx.finishScope()
		if err != nil {
			return nil, err
		}
		return &expr.Lambda{
			At:       span,
			Name:     data.Name,
			Params:   params,
			Captures: fnScope.captures,
			Body:     body,
		}, nil

	case ast.ExprCall:
		data, _ := exprs.Call(id)
		fn, err := cp.expr(data.Fn)
		if err != nil {
			return nil, err
		}
		args, err := cp.exprs(data.Args)
		if err != nil {
			return nil, err
		}
		return &expr.Call{At: span, Fn: fn, Args: args}, nil

	case ast.ExprInfix:
		data, _ := exprs.Infix(id)
		return cp.call(node, data.Op.Function(), data.Left, data.Right)

	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		return cp.call(node, data.Op.Function(), data.Arg)

	case ast.ExprPipe:
		data, _ := exprs.Pipe(id)
		fn, err := cp.expr(data.Fn)
		if err != nil {
			return nil, err
		}
		args, err := cp.exprs(append([]ast.ExprID{data.Left}, data.Args...))
		if err != nil {
			return nil, err
		}
		return &expr.Call{At: span, Fn: fn, Args: args}, nil

	case ast.ExprDot:
		data, _ := exprs.Dot(id)
		fn, err := cp.ctx.resolveName(span, ast.IndexLookupFunction)
		if err != nil {
			return nil, err
		}
		arg, err := cp.expr(data.Arg)
		if err != nil {
			return nil, err
		}
		key := &expr.Value{At: data.KeySpan, Value: value.NewString(data.Key)}
		return &expr.Call{At: span, Fn: fn, Args: []expr.Expr{arg, key}}, nil

	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		return cp.call(node, ast.IndexLookupFunction, data.Arg, data.Key)

	case ast.ExprTernary:
		data, _ := exprs.Ternary(id)
		parts, err := cp.exprs([]ast.ExprID{data.Cond, data.Then, data.Else})
		if err != nil {
			return nil, err
		}
		return &expr.Ternary{At: span, Cond: parts[0], Then: parts[1], Else: parts[2]}, nil
	}
	return nil, fmt.Errorf("compiler: unsupported expression kind %s", node.Kind)
}
