package spec

import (
	"errors"
	"io"

	verr "github.com/nihei9/lrcomb/error"
	"github.com/nihei9/lrcomb/grammar"
)

// Load parses src and registers every body line as one rule of a new grammar. When alphabet
// is nil, the alphabet consists of the quoted terminals in order of first appearance.
// The returned grammar is not validated yet.
func Load(src io.Reader, alphabet *grammar.Alphabet, opts ...grammar.GrammarOption) (*grammar.Grammar, error) {
	root, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if alphabet == nil {
		alphabet, err = grammar.NewAlphabet(root.Terminals()...)
		if err != nil {
			return nil, err
		}
	}
	return newGrammar(root, alphabet, opts...)
}

func newGrammar(root *RootNode, alphabet *grammar.Alphabet, opts ...grammar.GrammarOption) (*grammar.Grammar, error) {
	g := grammar.NewGrammar(alphabet, opts...)
	var errs verr.SpecErrors
	for _, prod := range root.Productions {
		for _, body := range prod.Bodies {
			parts, err := convertElements(alphabet, body.Elements)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := g.AddRuleAt(body.Pos, prod.LHS, parts...); err != nil {
				var specErr *verr.SpecError
				if !errors.As(err, &specErr) {
					return nil, err
				}
				errs = append(errs, specErr)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	tracer().Infof("loaded %v rules", len(g.Rules()))
	return g, nil
}

func convertElements(alphabet *grammar.Alphabet, elems []*ElementNode) ([]grammar.Part, *verr.SpecError) {
	parts := make([]grammar.Part, 0, len(elems))
	for _, e := range elems {
		p, err := convertElement(alphabet, e)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func convertElement(alphabet *grammar.Alphabet, e *ElementNode) (grammar.Part, *verr.SpecError) {
	var p grammar.Part
	switch {
	case e.ID != "":
		p = grammar.Nonterminal(e.ID)
	case e.Terminal != "":
		t, ok := alphabet.Lookup(e.Terminal)
		if !ok {
			return nil, &verr.SpecError{
				Cause:  synErrUnknownTerminal,
				Detail: e.Terminal,
				Row:    e.Pos.Row,
				Col:    e.Pos.Col,
			}
		}
		p = t
	default:
		alts := make([]grammar.Part, 0, len(e.Group))
		for _, alt := range e.Group {
			parts, err := convertElements(alphabet, alt)
			if err != nil {
				return nil, err
			}
			if len(parts) == 1 {
				alts = append(alts, parts[0])
				continue
			}
			alts = append(alts, grammar.Sequence(parts...))
		}
		if len(alts) == 1 {
			p = alts[0]
		} else {
			p = grammar.OneOf(alts...)
		}
	}

	switch e.Quantifier {
	case string(tokenKindOption):
		p = grammar.ZeroOrOne(p)
	case string(tokenKindZeroOrMore):
		p = grammar.ZeroOrMore(p)
	case string(tokenKindOneOrMore):
		p = grammar.OneOrMore(p)
	}
	return p, nil
}
