package project

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"squiggle/internal/diag"
	"squiggle/internal/value"
	"squiggle/internal/valuepath"
	"squiggle/internal/vm"
)

const (
	callArgPrefix   = "__squiggle_call_arg"
	syntheticPrefix = "lambda-call-"
)

// CallLambda invokes the lambda at fn with args. A lambda addressed by a
// bindings path of a project source, through fn.Location or its export
// tags, is called by that path from a temporary source continuing from
// that source, so edits made since fn was read are honoured. Other
// lambdas are called as they are. The temporary source is removed before
// returning.
func (p *Project) CallLambda(ctx context.Context, fn Located, args []value.Value) (value.Value, error) {
	if _, ok := fn.Value.(value.Lambda); !ok {
		return nil, diag.Errorf(diag.PrjNotLambda, "", "%s is not a function", kindName(fn.Value))
	}
	for i, a := range args {
		if a == nil {
			return nil, diag.Errorf(diag.PrjBadArgument, "", "argument %d is missing", i)
		}
	}

	home, callee, ok := p.lambdaPath(fn)
	if !ok {
		return vm.CallValue(ctx, p.Env(), fn.Value, args)
	}

	id := syntheticPrefix + uuid.NewString()
	names := make([]string, len(args))
	injected := value.EmptyDict()
	for i, a := range args {
		names[i] = fmt.Sprintf("%s%d", callArgPrefix, i)
		injected = injected.Set(names[i], a)
	}
	text := fmt.Sprintf("%s(%s)", callee, strings.Join(names, ", "))

	p.mu.Lock()
	p.items[id] = &item{id: id, text: text, continues: []string{home}, injected: injected}
	p.addEdge(home, id)
	p.mu.Unlock()
	defer p.RemoveSource(id)

	if err := p.runItem(ctx, id, nil); err != nil {
		return nil, err
	}
	res, err := p.GetResult(id)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// lambdaPath returns the source binding fn and the expression reaching it
// from that source's bindings, as in f or lib["g"][0].
func (p *Project) lambdaPath(fn Located) (string, string, bool) {
	home := fn.Location.SourceID
	path := fn.Location.Path
	if fn.Location.Project != p {
		home, path = "", valuepath.Path{}
		if exp := fn.Value.Tags().Export; exp != nil {
			home = exp.SourceID
			path = valuepath.New(valuepath.RootBindings)
			for _, key := range exp.Path {
				path = path.Extend(valuepath.KeyEdge(key))
			}
		}
	}
	if home == "" || path.Root != valuepath.RootBindings || len(path.Edges) == 0 {
		return "", "", false
	}
	if _, known := p.GetSource(home); !known {
		return "", "", false
	}
	first := path.Edges[0]
	if first.Kind != valuepath.EdgeKey || !isIdentifier(first.Key) {
		return "", "", false
	}
	var b strings.Builder
	b.WriteString(first.Key)
	for _, e := range path.Edges[1:] {
		if e.Kind == valuepath.EdgeKey {
			fmt.Fprintf(&b, "[\"%s\"]", keyEscaper.Replace(e.Key))
		} else {
			fmt.Fprintf(&b, "[%d]", e.Index)
		}
	}
	return home, b.String(), true
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return s != ""
}

func kindName(v value.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind().String()
}
