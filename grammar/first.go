package grammar

func genNullable(g *Grammar) {
	for {
		more := false
		for _, r := range g.rules {
			coll := g.mustCollection(r.Name)
			if coll.nullable {
				continue
			}
			if g.allNullable(r.Parts) {
				coll.nullable = true
				more = true
			}
		}
		if !more {
			break
		}
	}
}

func (g *Grammar) allNullable(parts []SimplePart) bool {
	for _, p := range parts {
		if !g.nullable(p) {
			return false
		}
	}
	return true
}

func (g *Grammar) nullable(p SimplePart) bool {
	switch p := p.(type) {
	case Terminal:
		return false
	case Nonterminal:
		return g.mustCollection(p).nullable
	}
	return false
}

func genFirstSet(g *Grammar) {
	for {
		more := false
		for _, r := range g.rules {
			acc := g.mustCollection(r.Name).first
			if genRuleFirst(g, acc, r.Parts) {
				more = true
			}
		}
		if !more {
			break
		}
	}
}

// genRuleFirst unions FIRST of parts into acc, stopping at the first part that is not
// nullable. It reports whether acc grew.
func genRuleFirst(g *Grammar, acc *TermSet, parts []SimplePart) bool {
	changed := false
	for _, p := range parts {
		switch p := p.(type) {
		case Terminal:
			if acc.add(p) {
				changed = true
			}
			return changed
		case Nonterminal:
			coll := g.mustCollection(p)
			if acc.union(coll.first) {
				changed = true
			}
			if !coll.nullable {
				return changed
			}
		}
	}
	return changed
}

// firstOf returns FIRST of a sequence of parts and whether the whole sequence is nullable.
func (g *Grammar) firstOf(parts []SimplePart) (*TermSet, bool) {
	fst := newTermSet(g.alphabet.Size())
	genRuleFirst(g, fst, parts)
	return fst, g.allNullable(parts)
}
