package grammar

import (
	"math/bits"
	"strings"
)

// TermSet is a set of terminals stored as a bitset sized for one alphabet.
type TermSet struct {
	words []uint64
}

func newTermSet(size int) *TermSet {
	return &TermSet{
		words: make([]uint64, (size+63)/64),
	}
}

func (s *TermSet) add(t Terminal) bool {
	w, m := int(t)/64, uint64(1)<<(uint(t)%64)
	if s.words[w]&m != 0 {
		return false
	}
	s.words[w] |= m
	return true
}

func (s *TermSet) Has(t Terminal) bool {
	w := int(t) / 64
	if t < 0 || w >= len(s.words) {
		return false
	}
	return s.words[w]&(uint64(1)<<(uint(t)%64)) != 0
}

// union adds all members of o and reports whether s grew.
func (s *TermSet) union(o *TermSet) bool {
	if o == nil {
		return false
	}
	changed := false
	for i, w := range o.words {
		n := s.words[i] | w
		if n != s.words[i] {
			s.words[i] = n
			changed = true
		}
	}
	return changed
}

func (s *TermSet) equals(o *TermSet) bool {
	if len(s.words) != len(o.words) {
		return false
	}
	for i, w := range s.words {
		if o.words[i] != w {
			return false
		}
	}
	return true
}

func (s *TermSet) clone() *TermSet {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return &TermSet{
		words: words,
	}
}

func (s *TermSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (s *TermSet) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Terminals returns the members in ascending order.
func (s *TermSet) Terminals() []Terminal {
	ts := make([]Terminal, 0, s.Len())
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			ts = append(ts, Terminal(i*64+b))
			w &^= uint64(1) << uint(b)
		}
	}
	return ts
}

func (s *TermSet) ints() []int {
	ts := s.Terminals()
	is := make([]int, len(ts))
	for i, t := range ts {
		is[i] = int(t)
	}
	return is
}

func (s *TermSet) format(a *Alphabet) string {
	var b strings.Builder
	b.WriteString("{")
	for i, t := range s.Terminals() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name(t))
	}
	b.WriteString("}")
	return b.String()
}
