package grammar

func genFollowSet(g *Grammar) {
	g.mustCollection(g.goal).follow.add(TerminalEOF)
	for {
		more := false
		for _, r := range g.rules {
			lhs := g.mustCollection(r.Name)
			for i, p := range r.Parts {
				n, ok := p.(Nonterminal)
				if !ok {
					continue
				}
				flw := g.mustCollection(n).follow
				fst, nullable := g.firstOf(r.Parts[i+1:])
				if flw.union(fst) {
					more = true
				}
				if nullable && flw.union(lhs.follow) {
					more = true
				}
			}
		}
		if !more {
			break
		}
	}
}
