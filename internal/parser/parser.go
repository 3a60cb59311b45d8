package parser

import (
	"slices"

	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/lexer"
	"squiggle/internal/source"
	"squiggle/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit is reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree *ast.Tree
	Bag  *diag.Bag
}

// Parser holds the state for parsing one source text.
type Parser struct {
	toks     []token.Token
	pos      int
	tree     *ast.Tree
	opts     Options
	lastSpan source.Span
}

// ParseSource lexes and parses content. Diagnostics go to opts.Reporter;
// when it is nil a fresh bag collects them and is returned in Result.
func ParseSource(content []byte, opts Options) (Result, error) {
	var bag *diag.Bag
	if opts.Reporter == nil {
		bag = diag.NewBag(64)
		opts.Reporter = diag.BagReporter{Bag: bag}
	} else if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}

	lx, err := lexer.New(content, lexer.Options{Reporter: opts.Reporter})
	if err != nil {
		return Result{}, err
	}
	toks := lx.All()
	p := Parser{
		toks: toks,
		tree: ast.NewTree(ast.Hints{Exprs: uint(len(toks))}),
		opts: opts,
	}
	p.parseProgram()
	return Result{Tree: p.tree, Bag: bag}, nil
}

// Parse parses text and returns the first error as a tagged error.
func Parse(sourceID, text string) (*ast.Tree, *diag.Error) {
	bag := diag.NewBag(16)
	res, err := ParseSource([]byte(text), Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 16})
	if err != nil {
		return nil, diag.Errorf(diag.SynInfo, sourceID, "%v", err)
	}
	bag.Sort()
	if d, ok := bag.FirstError(); ok {
		return nil, d.AsError(sourceID)
	}
	return res.Tree, nil
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekN looks n tokens ahead; EOF repeats past the end.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.tree.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
