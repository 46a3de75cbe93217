/*
Package spec reads grammar definitions written in the line-oriented text format and the TOML
lexical configuration that accompanies them.

A grammar file lists productions under `Name:` headers, one alternative per line:

	# An assignment is a sum, an equal sign, and another sum.
	Goal:
	    S
	S:
	    E '=' E
	    'IDENT'
	E:
	    E ('+' | '-') 'IDENT'
	    'IDENT'

Quoted words are terminals named by their description in the alphabet, bare words are
nonterminals, `?`, `*`, and `+` are postfix quantifiers, and parentheses group alternatives
separated by `|`. An empty group `()` denotes the empty body.
*/
package spec

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrcomb.spec'.
func tracer() tracing.Trace {
	return tracing.Select("lrcomb.spec")
}
