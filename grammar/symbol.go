package grammar

import (
	"fmt"
	"sort"
)

// Terminal is a member of an Alphabet. The zero value is the end-of-input sentinel.
type Terminal int

const (
	TerminalEOF = Terminal(0)

	// The name contains `<` and `>` to avoid conflicting with user-defined terminals.
	terminalNameEOF = "<eof>"
)

func (t Terminal) part()       {}
func (t Terminal) simplePart() {}

func (t Terminal) key() string {
	return fmt.Sprintf("t%v", int(t))
}

// Nonterminal refers to the productions registered under a name.
type Nonterminal string

func (n Nonterminal) part()       {}
func (n Nonterminal) simplePart() {}

func (n Nonterminal) key() string {
	return fmt.Sprintf("n%q", string(n))
}

// Alphabet is a fixed, ordered set of terminals. Terminal numbers are assigned in the order
// of the descriptions passed to NewAlphabet, starting from 1.
type Alphabet struct {
	names     []string
	desc2Term map[string]Terminal
}

func NewAlphabet(descs ...string) (*Alphabet, error) {
	a := &Alphabet{
		names:     []string{terminalNameEOF},
		desc2Term: map[string]Terminal{},
	}
	for _, desc := range descs {
		if desc == "" {
			return nil, fmt.Errorf("a terminal description must be a non-empty string")
		}
		if desc == terminalNameEOF {
			return nil, fmt.Errorf("%v is reserved for the end-of-input terminal", terminalNameEOF)
		}
		if _, ok := a.desc2Term[desc]; ok {
			return nil, fmt.Errorf("duplicate terminal: %v", desc)
		}
		a.desc2Term[desc] = Terminal(len(a.names))
		a.names = append(a.names, desc)
	}
	return a, nil
}

func (a *Alphabet) Lookup(desc string) (Terminal, bool) {
	t, ok := a.desc2Term[desc]
	return t, ok
}

// MustLookup is like Lookup but panics when the description is unknown. It simplifies
// grammars written in Go code.
func (a *Alphabet) MustLookup(desc string) Terminal {
	t, ok := a.desc2Term[desc]
	if !ok {
		panic(fmt.Errorf("unknown terminal: %v", desc))
	}
	return t
}

func (a *Alphabet) Name(t Terminal) string {
	if !a.contains(t) {
		return fmt.Sprintf("<unknown %v>", int(t))
	}
	return a.names[t]
}

// Size returns the number of terminals including the end-of-input terminal.
func (a *Alphabet) Size() int {
	return len(a.names)
}

// Terminals returns all terminals in ascending order, the end-of-input terminal first.
func (a *Alphabet) Terminals() []Terminal {
	ts := make([]Terminal, len(a.names))
	for i := range a.names {
		ts[i] = Terminal(i)
	}
	return ts
}

func (a *Alphabet) contains(t Terminal) bool {
	return t >= 0 && int(t) < len(a.names)
}

// lessSymbol orders terminals by number ahead of nonterminals ordered by name.
func lessSymbol(x, y SimplePart) bool {
	switch x := x.(type) {
	case Terminal:
		if y, ok := y.(Terminal); ok {
			return x < y
		}
		return true
	case Nonterminal:
		if y, ok := y.(Nonterminal); ok {
			return x < y
		}
		return false
	}
	return false
}

func sortSymbols(syms []SimplePart) {
	sort.Slice(syms, func(i, j int) bool {
		return lessSymbol(syms[i], syms[j])
	})
}
