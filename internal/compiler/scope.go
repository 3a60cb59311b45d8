package compiler

import (
	"squiggle/internal/diag"
	"squiggle/internal/expr"
	"squiggle/internal/source"
	"squiggle/internal/value"
)

type scopeKind uint8

const (
	scopeBlock scopeKind = iota
	scopeFunction
)

// scope tracks the locals pushed on the runtime stack by one block or
// function body. Positions in stack are counted from the first local of
// the scope, unlike StackRef offsets which count from the top.
type scope struct {
	kind  scopeKind
	stack map[string]int
	size  int

	// function scopes only; filled on the first reference to a name
	// that lives outside the function.
	captures     []expr.Expr
	captureIndex map[string]int
}

type context struct {
	sourceID  string
	externals value.Dict
	scopes    []*scope
}

func newContext(sourceID string, externals value.Dict) *context {
	c := &context{sourceID: sourceID, externals: externals}
	c.startScope()
	return c
}

func (c *context) startScope() {
	c.scopes = append(c.scopes, &scope{kind: scopeBlock, stack: map[string]int{}})
}

func (c *context) startFunctionScope() {
	c.scopes = append(c.scopes, &scope{
		kind:         scopeFunction,
		stack:        map[string]int{},
		captureIndex: map[string]int{},
	})
}

func (c *context) finishScope() *scope {
	s := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	return s
}

func (c *context) current() *scope {
	return c.scopes[len(c.scopes)-1]
}

func (c *context) defineLocal(name string) {
	s := c.current()
	s.stack[name] = s.size
	s.size++
}

func (c *context) resolveName(span source.Span, name string) (expr.Expr, error) {
	return c.resolveFromDepth(span, name, len(c.scopes)-1)
}

func (c *context) resolveFromDepth(span source.Span, name string, depth int) (expr.Expr, error) {
	offset := 0
	for i := depth; i >= 0; i-- {
		s := c.scopes[i]
		if pos, ok := s.stack[name]; ok {
			return &expr.StackRef{At: span, Offset: offset + s.size - 1 - pos}, nil
		}
		offset += s.size
		if s.kind != scopeFunction {
			continue
		}
		if idx, ok := s.captureIndex[name]; ok {
			return &expr.CaptureRef{At: span, Index: idx}, nil
		}
		// Either an external or a capture from an enclosing scope.
		resolved, err := c.resolveFromDepth(span, name, i-1)
		if err != nil {
			return nil, err
		}
		if resolved.Kind() == expr.KindValue {
			return resolved, nil
		}
		idx := len(s.captures)
		s.captures = append(s.captures, resolved)
		s.captureIndex[name] = idx
		return &expr.CaptureRef{At: span, Index: idx}, nil
	}

	if v, ok := c.externals.Get(name); ok {
		return &expr.Value{At: span, Value: v}, nil
	}
	return nil, diag.ErrorAt(diag.SemaSymbolNotFound, c.sourceID, span, "%s is not defined", name).WithName(name)
}
