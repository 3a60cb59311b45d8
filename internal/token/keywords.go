package token

var keywords = map[string]Kind{
	"import": KwImport,
	"as":     KwAs,
	"if":     KwIf,
	"then":   KwThen,
	"else":   KwElse,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
