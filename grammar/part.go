package grammar

import (
	"strings"
)

// Part is an element of a rule body passed to AddRule. It is one of Terminal, Nonterminal,
// or a combinator built by Sequence, OneOf, ZeroOrOne, ZeroOrMore, and OneOrMore.
type Part interface {
	part()

	// key identifies the part structurally.
	key() string
}

// SimplePart is a grammar symbol that appears in a registered rule: a Terminal or a Nonterminal.
type SimplePart interface {
	Part
	simplePart()
}

type sequencePart struct {
	parts []Part
}

func (p *sequencePart) part() {}

func (p *sequencePart) key() string {
	return compositeKey("seq", p.parts)
}

type oneOfPart struct {
	alts []Part
}

func (p *oneOfPart) part() {}

func (p *oneOfPart) key() string {
	return compositeKey("alt", p.alts)
}

type optionalPart struct {
	body Part
}

func (p *optionalPart) part() {}

func (p *optionalPart) key() string {
	return compositeKey("opt", []Part{p.body})
}

type repeatPart struct {
	body Part
}

func (p *repeatPart) part() {}

func (p *repeatPart) key() string {
	return compositeKey("rep", []Part{p.body})
}

func compositeKey(tag string, parts []Part) string {
	var b strings.Builder
	b.WriteString(tag)
	b.WriteString("(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p.key())
	}
	b.WriteString(")")
	return b.String()
}

// Sequence matches its parts one after another.
func Sequence(parts ...Part) Part {
	return &sequencePart{
		parts: parts,
	}
}

// OneOf matches exactly one of its alternatives.
func OneOf(alts ...Part) Part {
	return &oneOfPart{
		alts: alts,
	}
}

// ZeroOrOne matches the sequence of its parts or nothing.
func ZeroOrOne(parts ...Part) Part {
	return &optionalPart{
		body: sequenceOf(parts),
	}
}

// OneOrMore matches the sequence of its parts repeated at least once.
func OneOrMore(parts ...Part) Part {
	return &repeatPart{
		body: sequenceOf(parts),
	}
}

// ZeroOrMore matches the sequence of its parts repeated any number of times.
func ZeroOrMore(parts ...Part) Part {
	return &optionalPart{
		body: &repeatPart{
			body: sequenceOf(parts),
		},
	}
}

func sequenceOf(parts []Part) Part {
	if len(parts) == 1 {
		return parts[0]
	}
	return &sequencePart{
		parts: parts,
	}
}
