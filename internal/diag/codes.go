package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynExpectExpression   Code = 2003
	SynExpectIdentifier   Code = 2004
	SynStatementNotLast   Code = 2005
	SynDuplicateParameter Code = 2006
	SynExpectStatement    Code = 2007

	// import declarations
	SynImportInfo           Code = 2100
	SynImportExpectPath     Code = 2101
	SynImportExpectAs       Code = 2102
	SynImportExpectAlias    Code = 2103
	SynImportNotTopLevel    Code = 2104
	SynImportDuplicateAlias Code = 2105

	// compile-time scope resolution
	SemaInfo           Code = 3000
	SemaSymbolNotFound Code = 3001

	// project
	PrjInfo          Code = 5000
	PrjUnknownSource Code = 5001
	PrjNoLinker      Code = 5002
	PrjCyclicImport  Code = 5003
	PrjLoadFailed    Code = 5004
	PrjNeedsRun      Code = 5005
	PrjNotParsed     Code = 5006
	PrjResolveFailed Code = 5007
	PrjNotLambda     Code = 5008
	PrjBadArgument   Code = 5009
	PrjDependency    Code = 5010

	// runtime
	RunInfo          Code = 6000
	RunError         Code = 6001
	RunTypeMismatch  Code = 6002
	RunArity         Code = 6003
	RunIndexRange    Code = 6004
	RunKeyNotFound   Code = 6005
	RunNotCallable   Code = 6006
	RunDivisionZero  Code = 6007
	RunStackOverflow Code = 6008
	RunCancelled     Code = 6009
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnclosedDelimiter:  "Unclosed delimiter",
	SynExpectExpression:   "Expected expression",
	SynExpectIdentifier:   "Expected identifier",
	SynStatementNotLast:   "Only the last statement may be an expression",
	SynDuplicateParameter: "Duplicate parameter name",
	SynExpectStatement:    "Expected statement",

	SynImportInfo:           "Import information",
	SynImportExpectPath:     "Expected import path string",
	SynImportExpectAs:       "Expected 'as' after import path",
	SynImportExpectAlias:    "Expected import alias or '*'",
	SynImportNotTopLevel:    "Imports must precede all statements",
	SynImportDuplicateAlias: "Duplicate import alias",

	SemaInfo:           "Scope information",
	SemaSymbolNotFound: "Symbol not found",

	PrjInfo:          "Project information",
	PrjUnknownSource: "Unknown source",
	PrjNoLinker:      "Cannot load import without a linker",
	PrjCyclicImport:  "Cyclic import",
	PrjLoadFailed:    "Failed to load source",
	PrjNeedsRun:      "Source needs to be run",
	PrjNotParsed:     "Source has not been parsed",
	PrjResolveFailed: "Cannot resolve import",
	PrjNotLambda:     "Value is not a function",
	PrjBadArgument:   "Argument cannot be passed to a function",
	PrjDependency:    "Dependency failed",

	RunInfo:          "Runtime information",
	RunError:         "Runtime error",
	RunTypeMismatch:  "Type mismatch",
	RunArity:         "Wrong number of arguments",
	RunIndexRange:    "Index out of range",
	RunKeyNotFound:   "Key not found",
	RunNotCallable:   "Value is not callable",
	RunDivisionZero:  "Division by zero",
	RunStackOverflow: "Maximum call depth exceeded",
	RunCancelled:     "Evaluation cancelled",
}

// Kind groups codes into the categories callers branch on.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindParse
	KindImportDecl
	KindSymbolNotFound
	KindCyclicImport
	KindLoad
	KindNeedsRun
	KindRuntime
	KindProject
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindImportDecl:
		return "import"
	case KindSymbolNotFound:
		return "symbol-not-found"
	case KindCyclicImport:
		return "cyclic-import"
	case KindLoad:
		return "load"
	case KindNeedsRun:
		return "needs-run"
	case KindRuntime:
		return "runtime"
	case KindProject:
		return "project"
	}
	return "unknown"
}

// Kind reports the category of c.
func (c Code) Kind() Kind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2100:
		return KindParse
	case ic >= 2100 && ic < 3000:
		return KindImportDecl
	case c == SemaSymbolNotFound:
		return KindSymbolNotFound
	case c == PrjCyclicImport:
		return KindCyclicImport
	case c == PrjLoadFailed, c == PrjNoLinker, c == PrjResolveFailed:
		return KindLoad
	case c == PrjNeedsRun, c == PrjNotParsed:
		return KindNeedsRun
	case ic >= 5000 && ic < 6000:
		return KindProject
	case ic >= 6000 && ic < 7000:
		return KindRuntime
	}
	return KindUnknown
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RUN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
