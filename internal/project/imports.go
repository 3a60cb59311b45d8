package project

import (
	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/parser"
)

// parseLocked parses the text of it once per change.
func (p *Project) parseLocked(it *item) (*ast.Tree, *diag.Error) {
	switch it.parse.state {
	case Computed:
		return it.parse.tree, nil
	case Failed:
		return nil, it.parse.err
	}
	tree, err := parser.Parse(it.id, it.text)
	if err != nil {
		it.parse = parseCache{state: Failed, err: err}
		return nil, err
	}
	it.parse = parseCache{state: Computed, tree: tree}
	return tree, nil
}

// importsLocked parses and resolves the import declarations of it and
// records the corresponding inverse edges.
func (p *Project) importsLocked(it *item) ([]Import, *diag.Error) {
	switch it.imports.state {
	case Computed:
		return it.imports.imports, nil
	case Failed:
		return nil, it.imports.err
	}
	imports, err := p.resolveImports(it)
	if err != nil {
		it.imports = importCache{state: Failed, err: err}
		p.syncImportEdges(it, nil)
		return nil, err
	}
	it.imports = importCache{state: Computed, imports: imports}
	ids := make([]string, 0, len(imports))
	for _, imp := range imports {
		ids = append(ids, imp.SourceID)
	}
	p.syncImportEdges(it, ids)
	return imports, nil
}

func (p *Project) resolveImports(it *item) ([]Import, *diag.Error) {
	tree, err := p.parseLocked(it)
	if err != nil {
		return nil, err
	}
	decls, err := parser.ImportDeclarations(it.id, tree)
	if err != nil {
		return nil, err
	}
	if len(decls) > 0 && p.linker == nil {
		return nil, diag.ErrorAt(diag.PrjNoLinker, it.id, decls[0].PathSpan,
			"cannot import %q: no linker is configured", decls[0].Path).WithName(decls[0].Path)
	}
	imports := make([]Import, 0, len(decls))
	for _, decl := range decls {
		id, rerr := p.linker.Resolve(decl.Path, it.id)
		if rerr != nil {
			return nil, diag.ErrorAt(diag.PrjResolveFailed, it.id, decl.PathSpan,
				"cannot resolve import %q", decl.Path).WithName(decl.Path).WithCause(rerr)
		}
		imp := Import{SourceID: id, Kind: ImportFlat, Name: decl.Path, Span: decl.Span}
		if !decl.Flat {
			imp.Kind = ImportNamed
			imp.Variable = decl.Alias
		}
		imports = append(imports, imp)
	}
	return imports, nil
}
