package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestGenLRAutomaton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcomb.grammar")
	defer teardown()

	tests := []struct {
		caption    string
		grammar    func(t *testing.T) *testGrammar
		strategy   MergeStrategy
		stateCount int
	}{
		{
			caption:    "item sets differing only in lookaheads are distinct states",
			grammar:    newCCGrammar,
			strategy:   MergeByCoreAndLookahead,
			stateCount: 10,
		},
		{
			caption:    "item sets with the same core are merged",
			grammar:    newCCGrammar,
			strategy:   MergeByCore,
			stateCount: 7,
		},
		{
			caption:    "merging by core yields as many states as LR(0)",
			grammar:    newExprGrammar,
			strategy:   MergeByCore,
			stateCount: 12,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tg := tt.grammar(t)
			if err := tg.g.Analyze(); err != nil {
				t.Fatal(err)
			}
			automaton, err := genLRAutomaton(tg.g, tt.strategy)
			if err != nil {
				t.Fatal(err)
			}
			if len(automaton.states) != tt.stateCount {
				t.Fatalf("unexpected state count; want: %v, got: %v", tt.stateCount, len(automaton.states))
			}
			if automaton.initialState != stateNumInitial {
				t.Fatalf("unexpected initial state: %v", automaton.initialState)
			}

			for i, s1 := range automaton.states {
				if s1.num != i {
					t.Fatalf("state numbers must be dense; want: %v, got: %v", i, s1.num)
				}
				for _, s2 := range automaton.states[i+1:] {
					if tt.strategy == MergeByCore && s1.sameCore(s2.lrItemSet) {
						t.Fatalf("states %v and %v have the same core", s1.num, s2.num)
					}
					if s1.equals(s2.lrItemSet) {
						t.Fatalf("states %v and %v are equal", s1.num, s2.num)
					}
				}
				for sym, next := range s1.next {
					if next < 0 || next >= len(automaton.states) {
						t.Fatalf("state %v has a transition on %v to an unknown state %v", s1.num, sym, next)
					}
				}
			}
		})
	}
}

func TestGenLRAutomaton_Deterministic(t *testing.T) {
	build := func() *lrAutomaton {
		tg := newExprGrammar(t)
		if err := tg.g.Analyze(); err != nil {
			t.Fatal(err)
		}
		automaton, err := genLRAutomaton(tg.g, MergeByCoreAndLookahead)
		if err != nil {
			t.Fatal(err)
		}
		return automaton
	}
	a1 := build()
	a2 := build()
	if len(a1.states) != len(a2.states) {
		t.Fatalf("state counts differ: %v, %v", len(a1.states), len(a2.states))
	}
	for i := range a1.states {
		if !a1.states[i].equals(a2.states[i].lrItemSet) {
			t.Fatalf("state %v differs", i)
		}
	}
}
