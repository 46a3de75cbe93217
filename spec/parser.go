package spec

import (
	"io"

	verr "github.com/nihei9/lrcomb/error"
	"github.com/nihei9/lrcomb/grammar"
)

type RootNode struct {
	Productions []*ProductionNode
}

// Terminals returns the descriptions of the quoted terminals in order of first appearance.
func (n *RootNode) Terminals() []string {
	var descs []string
	seen := map[string]struct{}{}
	var walk func(elems []*ElementNode)
	walk = func(elems []*ElementNode) {
		for _, e := range elems {
			if e.Terminal != "" {
				if _, ok := seen[e.Terminal]; !ok {
					seen[e.Terminal] = struct{}{}
					descs = append(descs, e.Terminal)
				}
			}
			for _, alt := range e.Group {
				walk(alt)
			}
		}
	}
	for _, prod := range n.Productions {
		for _, body := range prod.Bodies {
			walk(body.Elements)
		}
	}
	return descs
}

type ProductionNode struct {
	LHS    string
	Bodies []*BodyNode
	Pos    grammar.Position
}

// BodyNode is one body line. Each body line is registered as a separate rule.
type BodyNode struct {
	Elements []*ElementNode
	Pos      grammar.Position
}

// ElementNode is a nonterminal reference (ID), a terminal (Terminal), or a group of
// alternatives (Group). Quantifier is one of "", "?", "*", and "+".
type ElementNode struct {
	ID         string
	Terminal   string
	Group      [][]*ElementNode
	Quantifier string
	Pos        grammar.Position
}

func raiseSyntaxError(synErr *SyntaxError, pos grammar.Position, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// Parse reads a grammar in the text format. Errors are *error.SpecError values carrying the
// row and column of the offending token.
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	toks []*token
	pos  int
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	var toks []*token
	for {
		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenKindEOF {
			break
		}
	}
	return &parser{
		toks: toks,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				panic(err)
			}
			retErr = specErr
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	p.consume(tokenKindNewline)
	root := &RootNode{}
	for !p.consume(tokenKindEOF) {
		root.Productions = append(root.Productions, p.parseProduction())
	}
	if len(root.Productions) == 0 {
		raiseSyntaxError(synErrNoProduction, p.peek(0).pos, "")
	}
	tracer().Debugf("parsed %v productions", len(root.Productions))
	return root
}

func (p *parser) parseProduction() *ProductionNode {
	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoProductionName, p.peek(0).pos, string(p.peek(0).kind))
	}
	prod := &ProductionNode{
		LHS: p.last().text,
		Pos: p.last().pos,
	}
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(synErrNoColon, p.peek(0).pos, prod.LHS)
	}

	// A body can follow the colon on the same line.
	if !p.at(0, tokenKindNewline) && !p.at(0, tokenKindEOF) {
		prod.Bodies = append(prod.Bodies, p.parseBody())
	}
	for p.consume(tokenKindNewline) {
		if p.at(0, tokenKindEOF) || (p.at(0, tokenKindID) && p.at(1, tokenKindColon)) {
			break
		}
		prod.Bodies = append(prod.Bodies, p.parseBody())
	}
	if len(prod.Bodies) == 0 {
		raiseSyntaxError(synErrNoBody, prod.Pos, prod.LHS)
	}
	return prod
}

func (p *parser) parseBody() *BodyNode {
	pos := p.peek(0).pos
	elems := p.parseSequence()
	if !p.at(0, tokenKindNewline) && !p.at(0, tokenKindEOF) {
		raiseSyntaxError(synErrUnexpectedToken, p.peek(0).pos, string(p.peek(0).kind))
	}
	return &BodyNode{
		Elements: elems,
		Pos:      pos,
	}
}

func (p *parser) parseSequence() []*ElementNode {
	var elems []*ElementNode
	for {
		elem := p.parseElement()
		if elem == nil {
			return elems
		}
		elems = append(elems, elem)
	}
}

func (p *parser) parseElement() *ElementNode {
	var elem *ElementNode
	switch {
	case p.consume(tokenKindID):
		elem = &ElementNode{
			ID:  p.last().text,
			Pos: p.last().pos,
		}
	case p.consume(tokenKindTerminal):
		elem = &ElementNode{
			Terminal: p.last().text,
			Pos:      p.last().pos,
		}
	case p.consume(tokenKindGroupOpen):
		elem = &ElementNode{
			Pos: p.last().pos,
		}
		elem.Group = append(elem.Group, p.parseSequence())
		for p.consume(tokenKindOr) {
			elem.Group = append(elem.Group, p.parseSequence())
		}
		if !p.consume(tokenKindGroupClose) {
			raiseSyntaxError(synErrUnclosedGroup, elem.Pos, "")
		}
	case p.at(0, tokenKindOption) || p.at(0, tokenKindZeroOrMore) || p.at(0, tokenKindOneOrMore):
		raiseSyntaxError(synErrDanglingOperator, p.peek(0).pos, string(p.peek(0).kind))
	default:
		return nil
	}

	switch {
	case p.consume(tokenKindOption), p.consume(tokenKindZeroOrMore), p.consume(tokenKindOneOrMore):
		elem.Quantifier = string(p.last().kind)
	}
	return elem
}

func (p *parser) peek(n int) *token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) at(n int, kind tokenKind) bool {
	return p.peek(n).kind == kind
}

func (p *parser) last() *token {
	return p.toks[p.pos-1]
}

func (p *parser) consume(expected tokenKind) bool {
	if !p.at(0, expected) {
		return false
	}
	if p.pos < len(p.toks) {
		p.pos++
	}
	return true
}
