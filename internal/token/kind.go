package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident     // foo, List.map
	NumberLit // 1, 2.5, 1e3
	StringLit // "a", 'b'

	KwImport // import
	KwAs     // as
	KwIf     // if
	KwThen   // then
	KwElse   // else
	KwTrue   // true
	KwFalse  // false

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Dot       // .
	Assign    // =
	Pipe      // |
	Arrow     // ->
	Question  // ?
	Plus      // +
	PlusPlus  // ++
	Minus     // -
	Star      // *
	Slash     // /
	Caret     // ^
	EqEq      // ==
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	AndAnd    // &&
	OrOr      // ||
	Bang      // !
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "end of input",
	Ident:     "identifier",
	NumberLit: "number",
	StringLit: "string",
	KwImport:  "'import'",
	KwAs:      "'as'",
	KwIf:      "'if'",
	KwThen:    "'then'",
	KwElse:    "'else'",
	KwTrue:    "'true'",
	KwFalse:   "'false'",
	LParen:    "'('",
	RParen:    "')'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LBracket:  "'['",
	RBracket:  "']'",
	Comma:     "','",
	Colon:     "':'",
	Semicolon: "';'",
	Dot:       "'.'",
	Assign:    "'='",
	Pipe:      "'|'",
	Arrow:     "'->'",
	Question:  "'?'",
	Plus:      "'+'",
	PlusPlus:  "'++'",
	Minus:     "'-'",
	Star:      "'*'",
	Slash:     "'/'",
	Caret:     "'^'",
	EqEq:      "'=='",
	BangEq:    "'!='",
	Lt:        "'<'",
	LtEq:      "'<='",
	Gt:        "'>'",
	GtEq:      "'>='",
	AndAnd:    "'&&'",
	OrOr:      "'||'",
	Bang:      "'!'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
