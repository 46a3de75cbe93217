package grammar

import (
	"fmt"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

// Action is one cell of the action table. State is meaningful for shift actions and Rule
// for reduce and accept actions.
type Action struct {
	Type  ActionType
	State int
	Rule  int
}

var errorAction = Action{
	Type: ActionTypeError,
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("shift %v", a.State)
	case ActionTypeReduce:
		return fmt.Sprintf("reduce #%v", a.Rule)
	}
	return string(a.Type)
}

// actionEntry is the dense encoding of an action: 0 is error, a negative value is a shift
// to the negated state, and a positive value is a reduce by rule entry-1. Reducing the goal
// rule means accepting.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state int) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(rule int) actionEntry {
	return actionEntry(rule + 1)
}

func (a Action) entry() actionEntry {
	switch a.Type {
	case ActionTypeShift:
		return newShiftActionEntry(a.State)
	case ActionTypeReduce, ActionTypeAccept:
		return newReduceActionEntry(a.Rule)
	}
	return actionEntryEmpty
}

// goToEntry is the dense encoding of a goto: 0 is no transition, otherwise state+1.
type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state int) goToEntry {
	return goToEntry(state + 1)
}

type StateRow struct {
	Actions map[Terminal]Action
	Gotos   map[Nonterminal]int
}

func newStateRow() *StateRow {
	return &StateRow{
		Actions: map[Terminal]Action{},
		Gotos:   map[Nonterminal]int{},
	}
}

type ConflictKind string

const (
	ConflictKindShiftReduce  = ConflictKind("shift/reduce")
	ConflictKindReduceReduce = ConflictKind("reduce/reduce")
)

// Conflict records a cell of the action table that admitted more than one action. There is
// at most one Conflict per state and terminal.
type Conflict struct {
	Kind     ConflictKind
	State    int
	Terminal Terminal

	// NextState is the shift target of a shift/reduce conflict. The shift was kept.
	NextState int

	// Rules lists the competing reduce rules in installation order. For a reduce/reduce
	// conflict the first one was kept.
	Rules []int
}

func (c *Conflict) addRule(rule int) {
	for _, r := range c.Rules {
		if r == rule {
			return
		}
	}
	c.Rules = append(c.Rules, rule)
}

// StateItem is a kernel item of a state together with its lookaheads.
type StateItem struct {
	Item
	Lookahead []Terminal
}

// StateTable is the action/goto table of a grammar. It is immutable and safe for concurrent use.
type StateTable struct {
	grammar      *Grammar
	rows         []*StateRow
	kernels      [][]StateItem
	conflicts    []*Conflict
	initialState int
	goalRule     int
	strategy     MergeStrategy
}

func (t *StateTable) Grammar() *Grammar {
	return t.grammar
}

func (t *StateTable) Alphabet() *Alphabet {
	return t.grammar.alphabet
}

func (t *StateTable) StateCount() int {
	return len(t.rows)
}

func (t *StateTable) InitialState() int {
	return t.initialState
}

// GoalRule returns the ID of the single goal rule. Reducing it on end-of-input accepts.
func (t *StateTable) GoalRule() int {
	return t.goalRule
}

func (t *StateTable) MergeStrategy() MergeStrategy {
	return t.strategy
}

// Action returns the action for state and terminal. Missing cells and unknown states yield
// an error action.
func (t *StateTable) Action(state int, term Terminal) Action {
	if state < 0 || state >= len(t.rows) {
		return errorAction
	}
	act, ok := t.rows[state].Actions[term]
	if !ok {
		return errorAction
	}
	return act
}

func (t *StateTable) GoTo(state int, name Nonterminal) (int, bool) {
	if state < 0 || state >= len(t.rows) {
		return 0, false
	}
	next, ok := t.rows[state].Gotos[name]
	return next, ok
}

// Rules returns all rules indexed by rule ID.
func (t *StateTable) Rules() []*Rule {
	return t.grammar.Rules()
}

// PossibleNextTerminals returns, in ascending order, the terminals having a non-error action
// in state.
func (t *StateTable) PossibleNextTerminals(state int) []Terminal {
	if state < 0 || state >= len(t.rows) {
		return nil
	}
	var terms []Terminal
	for _, term := range t.grammar.alphabet.Terminals() {
		if _, ok := t.rows[state].Actions[term]; ok {
			terms = append(terms, term)
		}
	}
	return terms
}

func (t *StateTable) Conflicts() []*Conflict {
	cs := make([]*Conflict, len(t.conflicts))
	for i, c := range t.conflicts {
		cc := *c
		cc.Rules = append([]int(nil), c.Rules...)
		cs[i] = &cc
	}
	return cs
}

// Kernel returns the kernel items of state ordered by rule and dot.
func (t *StateTable) Kernel(state int) []StateItem {
	if state < 0 || state >= len(t.kernels) {
		return nil
	}
	items := make([]StateItem, len(t.kernels[state]))
	copy(items, t.kernels[state])
	return items
}

func (t *StateTable) FormatItem(item Item) string {
	return t.grammar.formatItem(item)
}
