package grammar

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// MergeStrategy decides when two item sets are the same automaton state.
type MergeStrategy int

const (
	// MergeByCoreAndLookahead shares a state only between item sets whose cores and
	// lookaheads are equal. Tables can have more states than LALR(1) tables but never
	// get conflicts from merging.
	MergeByCoreAndLookahead MergeStrategy = iota

	// MergeByCore shares a state between item sets with equal cores and unions their
	// lookaheads, yielding LALR(1)-sized tables.
	MergeByCore
)

func (s MergeStrategy) String() string {
	switch s {
	case MergeByCoreAndLookahead:
		return "core+lookahead"
	case MergeByCore:
		return "core"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

const stateNumInitial = 0

type lrState struct {
	*lrItemSet
	num  int
	next map[SimplePart]int
}

// kernel returns the items not added by closure.
func (s *lrState) kernel(goal *Rule) []Item {
	var items []Item
	for _, item := range s.items {
		if item.Dot > 0 || item.Rule == goal.ID {
			items = append(items, item)
		}
	}
	return items
}

type lrAutomaton struct {
	initialState int
	states       []*lrState
}

type stateSignature struct {
	Items []itemSignature
}

type itemSignature struct {
	Rule      int
	Dot       int
	Lookahead []int
}

type automatonBuilder struct {
	g        *Grammar
	strategy MergeStrategy
	states   []*lrState

	// known maps a signature digest to the states having it.
	known map[string][]int

	// worklist holds the numbers of states whose transitions must be (re)computed.
	worklist *treeset.Set
}

func genLRAutomaton(g *Grammar, strategy MergeStrategy) (*lrAutomaton, error) {
	b := &automatonBuilder{
		g:        g,
		strategy: strategy,
		known:    map[string][]int{},
		worklist: treeset.NewWith(utils.IntComparator),
	}

	la := newTermSet(g.alphabet.Size())
	la.add(TerminalEOF)
	initial := genClosure(g, map[Item]*TermSet{
		{Rule: g.goalRule().ID}: la,
	})
	if _, err := b.intern(initial); err != nil {
		return nil, err
	}

	for !b.worklist.Empty() {
		num := b.worklist.Values()[0].(int)
		b.worklist.Remove(num)

		state := b.states[num]
		for _, nk := range genNeighbourKernels(g, state.lrItemSet) {
			next, err := b.intern(genClosure(g, nk.items))
			if err != nil {
				return nil, err
			}
			state.next[nk.symbol] = next
		}
	}

	tracer().Infof("automaton: %v states (merge by %v)", len(b.states), strategy)

	return &lrAutomaton{
		initialState: stateNumInitial,
		states:       b.states,
	}, nil
}

// intern returns the number of the state for items, allocating a new state when no
// existing state matches under the merge strategy.
func (b *automatonBuilder) intern(items *lrItemSet) (int, error) {
	sig, err := b.signature(items)
	if err != nil {
		return 0, err
	}

	for _, num := range b.known[sig] {
		state := b.states[num]
		switch b.strategy {
		case MergeByCore:
			if !state.sameCore(items) {
				continue
			}
			if state.mergeLookaheads(items) {
				tracer().Debugf("state %v: lookaheads grew; revisiting", num)
				b.worklist.Add(num)
			}
			return num, nil
		default:
			if state.equals(items) {
				return num, nil
			}
		}
	}

	state := &lrState{
		lrItemSet: items,
		num:       len(b.states),
		next:      map[SimplePart]int{},
	}
	b.states = append(b.states, state)
	b.known[sig] = append(b.known[sig], state.num)
	b.worklist.Add(state.num)

	tracer().Debugf("state %v: %v items", state.num, len(items.items))

	return state.num, nil
}

func (b *automatonBuilder) signature(items *lrItemSet) (string, error) {
	sig := stateSignature{
		Items: make([]itemSignature, len(items.items)),
	}
	for i, item := range items.items {
		sig.Items[i] = itemSignature{
			Rule: item.Rule,
			Dot:  item.Dot,
		}
		if b.strategy == MergeByCoreAndLookahead {
			sig.Items[i].Lookahead = items.las[item].ints()
		}
	}
	h, err := structhash.Hash(sig, 1)
	if err != nil {
		return "", fmt.Errorf("failed to hash a state signature: %w", err)
	}
	return h, nil
}
