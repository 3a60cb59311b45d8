// Package token defines the lexical vocabulary of squiggle sources.
package token
