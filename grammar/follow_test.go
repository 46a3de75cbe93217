package grammar

import (
	"reflect"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type follow struct {
	name    Nonterminal
	symbols []string
}

func TestFollowSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcomb.grammar")
	defer teardown()

	tests := []struct {
		caption string
		grammar func(t *testing.T) *testGrammar
		follow  []follow
	}{
		{
			caption: "productions contain only non-empty productions",
			grammar: newExprGrammar,
			follow: []follow{
				{name: "Goal", symbols: []string{"<eof>"}},
				{name: "expr", symbols: []string{"<eof>", "+", ")"}},
				{name: "term", symbols: []string{"<eof>", "+", "*", ")"}},
				{name: "factor", symbols: []string{"<eof>", "+", "*", ")"}},
			},
		},
		{
			caption: "FOLLOW looks past nullable suffixes",
			grammar: newNullableGrammar,
			follow: []follow{
				{name: "Goal", symbols: []string{"<eof>"}},
				{name: "A", symbols: []string{"b", "c"}},
				{name: "B", symbols: []string{"c"}},
			},
		},
		{
			caption: "a nullable suffix passes FOLLOW of the left-hand side",
			grammar: func(t *testing.T) *testGrammar {
				tg := newTestGrammar(t, "a", "b")
				tg.addRule(t, "Goal", Nonterminal("S"))
				tg.addRule(t, "S", Nonterminal("X"), ZeroOrOne(tg.term("b")))
				tg.addRule(t, "X", OneOrMore(tg.term("a")))
				return tg
			},
			follow: []follow{
				{name: "S", symbols: []string{"<eof>"}},
				{name: "X", symbols: []string{"<eof>", "b"}},
				{name: "$rep1", symbols: []string{"<eof>", "a", "b"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tg := tt.grammar(t)
			if err := tg.g.Analyze(); err != nil {
				t.Fatal(err)
			}
			for _, flw := range tt.follow {
				coll, ok := tg.g.Collection(flw.name)
				if !ok {
					t.Fatalf("%v was not found", flw.name)
				}
				actual := terminalNames(tg.g.Alphabet(), coll.Follow().Terminals())
				if !reflect.DeepEqual(actual, flw.symbols) {
					t.Errorf("unexpected FOLLOW of %v; want: %v, got: %v", flw.name, flw.symbols, actual)
				}
			}
		})
	}
}
