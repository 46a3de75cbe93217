package driver

import (
	spec "github.com/nihei9/lrcomb/spec/grammar"
)

// Grammar is the view of a compiled grammar the parser needs.
type Grammar interface {
	// InitialState returns the initial state of a parser.
	InitialState() int

	// GoalRule returns the number of the goal production. Reducing it on end-of-input accepts.
	GoalRule() int

	// Action returns the encoded action for a state and a terminal: 0 is an error, a negative value
	// is a shift to the negated state, and a positive value is a reduce by production value-1.
	Action(state int, terminal int) int

	// GoTo returns the next state after reducing to lhs, plus one. 0 means no transition.
	GoTo(state int, lhs int) int

	// AlternativeSymbolCount returns the length of the body of a production.
	AlternativeSymbolCount(prod int) int

	// LHS returns the left-hand side of a production.
	LHS(prod int) int

	TerminalCount() int

	// EOF returns the end-of-input terminal.
	EOF() int

	// Terminal returns the description of a terminal.
	Terminal(terminal int) string

	// NonTerminal returns the name of a nonterminal.
	NonTerminal(nonTerminal int) string
}

var _ Grammar = &grammarImpl{}

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) InitialState() int {
	return g.g.ParsingTable.InitialState
}

func (g *grammarImpl) GoalRule() int {
	return g.g.ParsingTable.GoalRule
}

func (g *grammarImpl) Action(state int, terminal int) int {
	if tab := g.g.ParsingTable.CompressedAction; tab != nil {
		return tab.Lookup(state, terminal)
	}
	return g.g.ParsingTable.Action[state*g.g.ParsingTable.TerminalCount+terminal]
}

func (g *grammarImpl) GoTo(state int, lhs int) int {
	if tab := g.g.ParsingTable.CompressedGoTo; tab != nil {
		return tab.Lookup(state, lhs)
	}
	return g.g.ParsingTable.GoTo[state*g.g.ParsingTable.NonTerminalCount+lhs]
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.ParsingTable.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.ParsingTable.LHSSymbols[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.ParsingTable.TerminalCount
}

func (g *grammarImpl) EOF() int {
	return g.g.ParsingTable.EOFSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.ParsingTable.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.ParsingTable.NonTerminals[nonTerminal]
}
