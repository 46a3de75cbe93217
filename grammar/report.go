package grammar

import (
	"sort"

	spec "github.com/nihei9/lrcomb/spec/grammar"
)

// GenReport describes the rules, sets, and states behind tab for human inspection.
func GenReport(tab *StateTable, lex *LexicalSpec) *spec.Report {
	g := tab.grammar
	a := g.alphabet

	patterns := map[string]string{}
	if lex != nil {
		for _, e := range lex.Entries {
			if !e.Skip {
				patterns[e.Name] = e.Pattern
			}
		}
	}
	terms := make([]*spec.Terminal, a.Size())
	for _, t := range a.Terminals() {
		terms[t] = &spec.Terminal{
			Number:  int(t),
			Name:    a.Name(t),
			Pattern: patterns[a.Name(t)],
		}
	}

	nonTermNames := g.Nonterminals()
	nonTermNums := make(map[Nonterminal]int, len(nonTermNames))
	nonTerms := make([]*spec.NonTerminal, len(nonTermNames))
	for i, n := range nonTermNames {
		nonTermNums[n] = i
		coll, _ := g.Collection(n)
		nonTerms[i] = &spec.NonTerminal{
			Number:    i,
			Name:      string(n),
			Synthetic: g.IsSynthetic(n),
			Nullable:  coll.nullable,
			First:     coll.first.ints(),
			Follow:    coll.follow.ints(),
		}
	}

	prods := make([]*spec.Production, len(g.rules))
	for _, r := range g.rules {
		rhs := make([]int, len(r.Parts))
		for i, p := range r.Parts {
			switch p := p.(type) {
			case Terminal:
				rhs[i] = int(p)
			case Nonterminal:
				rhs[i] = -(nonTermNums[p] + 1)
			}
		}
		prods[r.ID] = &spec.Production{
			Number: r.ID,
			LHS:    nonTermNums[r.Name],
			RHS:    rhs,
			Row:    r.Pos.Row,
		}
	}

	states := make([]*spec.State, tab.StateCount())
	for num, row := range tab.rows {
		state := &spec.State{
			Number: num,
		}

		for _, item := range tab.kernels[num] {
			la := make([]int, len(item.Lookahead))
			for i, t := range item.Lookahead {
				la[i] = int(t)
			}
			state.Kernel = append(state.Kernel, &spec.Item{
				Production: item.Rule,
				Dot:        item.Dot,
				LookAhead:  la,
			})
		}

		reduces := map[int]*spec.Reduce{}
		for _, t := range a.Terminals() {
			act, ok := row.Actions[t]
			if !ok {
				continue
			}
			switch act.Type {
			case ActionTypeShift:
				state.Shift = append(state.Shift, &spec.Transition{
					Symbol: int(t),
					State:  act.State,
				})
			case ActionTypeReduce:
				r, ok := reduces[act.Rule]
				if !ok {
					r = &spec.Reduce{
						Production: act.Rule,
					}
					reduces[act.Rule] = r
					state.Reduce = append(state.Reduce, r)
				}
				r.LookAhead = append(r.LookAhead, int(t))
			case ActionTypeAccept:
				state.Accept = true
			}
		}

		for n, next := range row.Gotos {
			state.GoTo = append(state.GoTo, &spec.Transition{
				Symbol: nonTermNums[n],
				State:  next,
			})
		}
		sort.Slice(state.GoTo, func(i, j int) bool {
			return state.GoTo[i].Symbol < state.GoTo[j].Symbol
		})

		states[num] = state
	}

	for _, c := range tab.conflicts {
		state := states[c.State]
		switch c.Kind {
		case ConflictKindShiftReduce:
			state.SRConflict = append(state.SRConflict, &spec.SRConflict{
				Symbol:      int(c.Terminal),
				State:       c.NextState,
				Productions: append([]int(nil), c.Rules...),
			})
		case ConflictKindReduceReduce:
			state.RRConflict = append(state.RRConflict, &spec.RRConflict{
				Symbol:            int(c.Terminal),
				Productions:       append([]int(nil), c.Rules...),
				AdoptedProduction: c.Rules[0],
			})
		}
	}

	name := defaultLexSpecName
	if lex != nil && lex.Name != "" {
		name = lex.Name
	}

	return &spec.Report{
		Name:          name,
		MergeStrategy: tab.strategy.String(),
		Terminals:     terms,
		NonTerminals:  nonTerms,
		Productions:   prods,
		States:        states,
	}
}
