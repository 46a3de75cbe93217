package grammar

import (
	"fmt"
	"strings"
)

type buildConfig struct {
	strategy MergeStrategy
}

type BuildOption func(config *buildConfig)

func WithMergeStrategy(strategy MergeStrategy) BuildOption {
	return func(config *buildConfig) {
		config.strategy = strategy
	}
}

// Build validates and analyzes g when necessary, then constructs its automaton and table.
// Conflicts do not make Build fail; see StateTable.Conflicts.
func Build(g *Grammar, opts ...BuildOption) (*StateTable, error) {
	config := &buildConfig{
		strategy: MergeByCoreAndLookahead,
	}
	for _, opt := range opts {
		opt(config)
	}

	if !g.analyzed {
		if err := g.Analyze(); err != nil {
			return nil, err
		}
	}

	automaton, err := genLRAutomaton(g, config.strategy)
	if err != nil {
		return nil, err
	}

	b := &lrTableBuilder{
		g:         g,
		automaton: automaton,
		cells:     map[conflictCell]*Conflict{},
	}
	tab := b.build()
	tab.strategy = config.strategy

	return tab, nil
}

type conflictCell struct {
	state int
	term  Terminal
}

type lrTableBuilder struct {
	g         *Grammar
	automaton *lrAutomaton

	conflicts []*Conflict
	cells     map[conflictCell]*Conflict
}

func (b *lrTableBuilder) build() *StateTable {
	goal := b.g.goalRule()
	rows := make([]*StateRow, len(b.automaton.states))
	kernels := make([][]StateItem, len(b.automaton.states))
	for _, state := range b.automaton.states {
		row := newStateRow()

		for sym, next := range state.next {
			switch sym := sym.(type) {
			case Terminal:
				row.Actions[sym] = Action{
					Type:  ActionTypeShift,
					State: next,
				}
			case Nonterminal:
				row.Gotos[sym] = next
			}
		}

		// Items are ordered by rule, so the reduce installed first is the one by the
		// lowest-numbered rule.
		for _, item := range state.items {
			if !b.g.isComplete(item) {
				continue
			}
			for _, term := range state.las[item].Terminals() {
				b.writeReduceAction(row, state.num, term, item.Rule, goal)
			}
		}

		for _, item := range state.kernel(goal) {
			kernels[state.num] = append(kernels[state.num], StateItem{
				Item:      item,
				Lookahead: state.las[item].Terminals(),
			})
		}

		rows[state.num] = row
	}

	b.reportConflicts()

	return &StateTable{
		grammar:      b.g,
		rows:         rows,
		kernels:      kernels,
		conflicts:    b.conflicts,
		initialState: b.automaton.initialState,
		goalRule:     goal.ID,
	}
}

func (b *lrTableBuilder) writeReduceAction(row *StateRow, state int, term Terminal, rule int, goal *Rule) {
	act := Action{
		Type: ActionTypeReduce,
		Rule: rule,
	}
	if term == TerminalEOF && rule == goal.ID {
		act.Type = ActionTypeAccept
	}

	existing, ok := row.Actions[term]
	if !ok {
		row.Actions[term] = act
		return
	}

	switch existing.Type {
	case ActionTypeShift:
		c := b.conflictAt(state, term, ConflictKindShiftReduce)
		c.NextState = existing.State
		c.addRule(rule)
		tracer().Debugf("state %v: shift/reduce conflict on %v between shift %v and rule #%v; shift wins",
			state, b.g.alphabet.Name(term), existing.State, rule)
	case ActionTypeReduce, ActionTypeAccept:
		if existing.Rule == rule {
			return
		}
		c := b.conflictAt(state, term, ConflictKindReduceReduce)
		c.addRule(existing.Rule)
		c.addRule(rule)
	}
}

func (b *lrTableBuilder) conflictAt(state int, term Terminal, kind ConflictKind) *Conflict {
	cell := conflictCell{
		state: state,
		term:  term,
	}
	if c, ok := b.cells[cell]; ok {
		return c
	}
	c := &Conflict{
		Kind:     kind,
		State:    state,
		Terminal: term,
	}
	b.cells[cell] = c
	b.conflicts = append(b.conflicts, c)
	return c
}

func (b *lrTableBuilder) reportConflicts() {
	srCount := 0
	for _, c := range b.conflicts {
		if c.Kind != ConflictKindReduceReduce {
			srCount++
			continue
		}

		rules := make([]string, len(c.Rules))
		for i, id := range c.Rules {
			rules[i] = fmt.Sprintf("#%v %v", id, b.g.rules[id].format(b.g.alphabet))
		}
		b.g.sink.Emit(Diagnostic{
			Severity: SeverityWarning,
			Position: b.g.rules[c.Rules[0]].Pos,
			Message: fmt.Sprintf("reduce/reduce conflict in state %v on %v between %v; rule #%v wins",
				c.State, b.g.alphabet.Name(c.Terminal), strings.Join(rules, " and "), c.Rules[0]),
		})
	}
	if len(b.conflicts) > 0 {
		tracer().Infof("%v shift/reduce and %v reduce/reduce conflicts", srCount, len(b.conflicts)-srCount)
	}
}
