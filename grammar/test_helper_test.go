package grammar

import (
	"testing"
)

type testTerminalGenerator func(desc string) Terminal

func newTestTerminalGenerator(t *testing.T, a *Alphabet) testTerminalGenerator {
	return func(desc string) Terminal {
		t.Helper()

		term, ok := a.Lookup(desc)
		if !ok {
			t.Fatalf("terminal was not found: %v", desc)
		}
		return term
	}
}

type testGrammar struct {
	g    *Grammar
	sink *CollectingSink
	term testTerminalGenerator
}

func newTestGrammar(t *testing.T, terms ...string) *testGrammar {
	t.Helper()

	a, err := NewAlphabet(terms...)
	if err != nil {
		t.Fatalf("failed to create an alphabet: %v", err)
	}
	sink := &CollectingSink{}
	return &testGrammar{
		g:    NewGrammar(a, WithDiagnosticSink(sink)),
		sink: sink,
		term: newTestTerminalGenerator(t, a),
	}
}

func (tg *testGrammar) addRule(t *testing.T, name string, parts ...Part) {
	t.Helper()

	if err := tg.g.AddRule(name, parts...); err != nil {
		t.Fatalf("failed to add a rule: %v", err)
	}
}

func (tg *testGrammar) build(t *testing.T, opts ...BuildOption) *StateTable {
	t.Helper()

	tab, err := Build(tg.g, opts...)
	if err != nil {
		t.Fatalf("failed to build a table: %v", err)
	}
	return tab
}

// newAssignmentGrammar returns:
//
//	Goal → S
//	S    → E '=' E | 'IDENT'
//	E    → E '+' 'IDENT' | 'IDENT'
func newAssignmentGrammar(t *testing.T) *testGrammar {
	t.Helper()

	tg := newTestGrammar(t, "IDENT", "=", "+")
	tg.addRule(t, "Goal", Nonterminal("S"))
	tg.addRule(t, "S", OneOf(
		Sequence(Nonterminal("E"), tg.term("="), Nonterminal("E")),
		tg.term("IDENT"),
	))
	tg.addRule(t, "E", Nonterminal("E"), tg.term("+"), tg.term("IDENT"))
	tg.addRule(t, "E", tg.term("IDENT"))
	return tg
}

// newExprGrammar returns:
//
//	Goal   → expr
//	expr   → expr '+' term | term
//	term   → term '*' factor | factor
//	factor → '(' expr ')' | 'id'
func newExprGrammar(t *testing.T) *testGrammar {
	t.Helper()

	tg := newTestGrammar(t, "+", "*", "(", ")", "id")
	tg.addRule(t, "Goal", Nonterminal("expr"))
	tg.addRule(t, "expr", Nonterminal("expr"), tg.term("+"), Nonterminal("term"))
	tg.addRule(t, "expr", Nonterminal("term"))
	tg.addRule(t, "term", Nonterminal("term"), tg.term("*"), Nonterminal("factor"))
	tg.addRule(t, "term", Nonterminal("factor"))
	tg.addRule(t, "factor", tg.term("("), Nonterminal("expr"), tg.term(")"))
	tg.addRule(t, "factor", tg.term("id"))
	return tg
}

// simulate runs the table on input, which must end with the end-of-input terminal, and
// reports whether it reached an accept action.
func simulate(t *testing.T, tab *StateTable, input []Terminal) bool {
	t.Helper()

	stack := []int{tab.InitialState()}
	rules := tab.Rules()
	pos := 0
	for steps := 0; steps < 1000; steps++ {
		act := tab.Action(stack[len(stack)-1], input[pos])
		switch act.Type {
		case ActionTypeShift:
			stack = append(stack, act.State)
			pos++
		case ActionTypeReduce:
			r := rules[act.Rule]
			stack = stack[:len(stack)-r.Len()]
			next, ok := tab.GoTo(stack[len(stack)-1], r.Name)
			if !ok {
				t.Fatalf("goto was not found; state: %v, nonterminal: %v", stack[len(stack)-1], r.Name)
			}
			stack = append(stack, next)
		case ActionTypeAccept:
			return true
		default:
			return false
		}
	}
	t.Fatalf("the simulation did not terminate")
	return false
}

func formatRules(g *Grammar, name Nonterminal) []string {
	coll, ok := g.Collection(name)
	if !ok {
		return nil
	}
	var rs []string
	for _, r := range coll.Rules() {
		rs = append(rs, g.FormatRule(r))
	}
	return rs
}
