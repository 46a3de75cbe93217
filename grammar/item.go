package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// Item is a rule with a dot marking how much of its body has been recognized.
type Item struct {
	Rule int
	Dot  int
}

func (g *Grammar) isComplete(item Item) bool {
	return item.Dot >= g.rules[item.Rule].Len()
}

// dottedSymbol returns the symbol right after the dot.
func (g *Grammar) dottedSymbol(item Item) (SimplePart, bool) {
	r := g.rules[item.Rule]
	if item.Dot >= r.Len() {
		return nil, false
	}
	return r.Parts[item.Dot], true
}

func (g *Grammar) formatItem(item Item) string {
	r := g.rules[item.Rule]
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", r.Name)
	for i, p := range r.Parts {
		if i == item.Dot {
			b.WriteString(" ・")
		}
		b.WriteString(" ")
		b.WriteString(formatSymbol(g.alphabet, p))
	}
	if item.Dot >= r.Len() {
		b.WriteString(" ・")
	}
	return b.String()
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Rule != items[j].Rule {
			return items[i].Rule < items[j].Rule
		}
		return items[i].Dot < items[j].Dot
	})
}

// lrItemSet maps item cores to their lookaheads. items holds the cores ordered by rule and dot.
type lrItemSet struct {
	items []Item
	las   map[Item]*TermSet
}

func newLRItemSet(las map[Item]*TermSet) *lrItemSet {
	items := make([]Item, 0, len(las))
	for item := range las {
		items = append(items, item)
	}
	sortItems(items)
	return &lrItemSet{
		items: items,
		las:   las,
	}
}

func (s *lrItemSet) equals(o *lrItemSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i, item := range s.items {
		if o.items[i] != item {
			return false
		}
		if !s.las[item].equals(o.las[item]) {
			return false
		}
	}
	return true
}

func (s *lrItemSet) sameCore(o *lrItemSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i, item := range s.items {
		if o.items[i] != item {
			return false
		}
	}
	return true
}

// mergeLookaheads unions the lookaheads of o, which must have the same core, into s and
// reports whether any lookahead grew.
func (s *lrItemSet) mergeLookaheads(o *lrItemSet) bool {
	changed := false
	for _, item := range s.items {
		if s.las[item].union(o.las[item]) {
			changed = true
		}
	}
	return changed
}

// genClosure adds, for every item A → α・X β with lookahead L, the items X → ・γ with
// lookahead FIRST(β), plus L when β is nullable. Items with the same core share one
// lookahead set.
func genClosure(g *Grammar, kernel map[Item]*TermSet) *lrItemSet {
	las := make(map[Item]*TermSet, len(kernel))
	queue := make([]Item, 0, len(kernel))
	queued := map[Item]struct{}{}
	enqueue := func(item Item) {
		if _, ok := queued[item]; ok {
			return
		}
		queued[item] = struct{}{}
		queue = append(queue, item)
	}

	for item, la := range kernel {
		las[item] = la.clone()
		queue = append(queue, item)
		queued[item] = struct{}{}
	}
	sortItems(queue)

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		delete(queued, item)

		sym, ok := g.dottedSymbol(item)
		if !ok {
			continue
		}
		x, ok := sym.(Nonterminal)
		if !ok {
			continue
		}

		r := g.rules[item.Rule]
		la, nullable := g.firstOf(r.Parts[item.Dot+1:])
		if nullable {
			la.union(las[item])
		}

		for _, xr := range g.mustCollection(x).rules {
			ni := Item{Rule: xr.ID}
			cur, ok := las[ni]
			if !ok {
				las[ni] = la.clone()
				enqueue(ni)
				continue
			}
			if cur.union(la) {
				enqueue(ni)
			}
		}
	}

	return newLRItemSet(las)
}

type neighbourKernel struct {
	symbol SimplePart
	items  map[Item]*TermSet
}

// genNeighbourKernels groups the incomplete items of s by their dotted symbol and advances
// the dot. Kernels are ordered by symbol: terminals first, then nonterminals by name.
func genNeighbourKernels(g *Grammar, s *lrItemSet) []*neighbourKernel {
	kMap := map[SimplePart]*neighbourKernel{}
	for _, item := range s.items {
		sym, ok := g.dottedSymbol(item)
		if !ok {
			continue
		}
		nk, ok := kMap[sym]
		if !ok {
			nk = &neighbourKernel{
				symbol: sym,
				items:  map[Item]*TermSet{},
			}
			kMap[sym] = nk
		}
		nk.items[Item{Rule: item.Rule, Dot: item.Dot + 1}] = s.las[item].clone()
	}

	syms := make([]SimplePart, 0, len(kMap))
	for sym := range kMap {
		syms = append(syms, sym)
	}
	sortSymbols(syms)

	kernels := make([]*neighbourKernel, len(syms))
	for i, sym := range syms {
		kernels[i] = kMap[sym]
	}
	return kernels
}
