package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs Nonterminal, rhs []SimplePart) productionID {
	seq := appendNameBytes(nil, string(lhs))
	for _, sym := range rhs {
		switch sym := sym.(type) {
		case Terminal:
			seq = append(seq, 't')
			seq = binary.BigEndian.AppendUint32(seq, uint32(sym))
		case Nonterminal:
			seq = append(seq, 'n')
			seq = appendNameBytes(seq, string(sym))
		}
	}
	return productionID(sha256.Sum256(seq))
}

func appendNameBytes(b []byte, name string) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(name)))
	return append(b, name...)
}

// Rule is a flattened production. Rules are immutable once registered; ID indexes
// Grammar.Rules and StateTable.Rules.
type Rule struct {
	ID    int
	Name  Nonterminal
	Parts []SimplePart
	Pos   Position

	id productionID
}

func (r *Rule) Len() int {
	return len(r.Parts)
}

func (r *Rule) IsEmpty() bool {
	return len(r.Parts) == 0
}

func (r *Rule) format(a *Alphabet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", r.Name)
	if r.IsEmpty() {
		b.WriteString(" ε")
	}
	for _, p := range r.Parts {
		b.WriteString(" ")
		b.WriteString(formatSymbol(a, p))
	}
	return b.String()
}

func formatSymbol(a *Alphabet, sym SimplePart) string {
	switch sym := sym.(type) {
	case Terminal:
		return fmt.Sprintf("'%v'", a.Name(sym))
	case Nonterminal:
		return string(sym)
	}
	return "?"
}

// RuleCollection holds all rules of one nonterminal together with its nullable flag,
// FIRST set, and FOLLOW set.
type RuleCollection struct {
	name     Nonterminal
	rules    []*Rule
	nullable bool
	first    *TermSet
	follow   *TermSet
}

func newRuleCollection(name Nonterminal, alphabetSize int) *RuleCollection {
	return &RuleCollection{
		name:   name,
		first:  newTermSet(alphabetSize),
		follow: newTermSet(alphabetSize),
	}
}

func (c *RuleCollection) Name() Nonterminal {
	return c.name
}

func (c *RuleCollection) Rules() []*Rule {
	rules := make([]*Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

func (c *RuleCollection) Nullable() bool {
	return c.nullable
}

// First returns a copy of the FIRST set. It is meaningful only after Grammar.Analyze.
func (c *RuleCollection) First() *TermSet {
	return c.first.clone()
}

// Follow returns a copy of the FOLLOW set. It is meaningful only after Grammar.Analyze.
func (c *RuleCollection) Follow() *TermSet {
	return c.follow.clone()
}
