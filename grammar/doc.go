/*
Package grammar turns grammars written with a small combinator DSL into LR parse tables.

Rules are registered with AddRule. Combinators (Sequence, OneOf, ZeroOrOne, ZeroOrMore,
OneOrMore) are flattened into plain productions as they are added; equal repetitions share
one synthetic nonterminal.

	a, _ := grammar.NewAlphabet("IDENT", "=", "+")
	g := grammar.NewGrammar(a)
	g.AddRule("Goal", grammar.Nonterminal("S"))
	g.AddRule("S", grammar.Nonterminal("E"), a.MustLookup("="), grammar.Nonterminal("E"))
	g.AddRule("S", a.MustLookup("IDENT"))
	g.AddRule("E", grammar.Nonterminal("E"), a.MustLookup("+"), a.MustLookup("IDENT"))
	g.AddRule("E", a.MustLookup("IDENT"))
	tab, err := grammar.Build(g)

Build validates the grammar, computes nullable/FIRST/FOLLOW sets, constructs the automaton,
and assembles a StateTable. Conflicts never abort the build; shifts win over reduces and the
lowest-numbered rule wins among reduces. They are available through StateTable.Conflicts.
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrcomb.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lrcomb.grammar")
}
