package driver

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrcomb.driver'.
func tracer() tracing.Trace {
	return tracing.Select("lrcomb.driver")
}

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Row+1, e.Col+1, e.Message)
}

type ParserOption func(p *Parser) error

// SemanticAction sets the actions run on every shift, reduce, and accept.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

type Parser struct {
	toks       TokenStream
	gram       Grammar
	stateStack *stateStack
	semAct     SemanticActionSet
	synErrs    []*SyntaxError
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:       toks,
		gram:       gram,
		stateStack: &stateStack{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs the parser until it accepts the input or meets a syntax error. A syntax error does
// not make Parse fail; see SyntaxErrors.
func (p *Parser) Parse() error {
	p.stateStack.push(p.gram.InitialState())
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for {
		if tok.Invalid() {
			p.syntaxError(tok, fmt.Sprintf("invalid token: %#v", string(tok.Lexeme())))
			return nil
		}

		act := p.gram.Action(p.stateStack.top(), p.tokenToTerminal(tok))
		switch {
		case act < 0: // Shift
			nextState := act * -1
			tracer().Debugf("shift %v; state %v", p.gram.Terminal(p.tokenToTerminal(tok)), nextState)

			p.stateStack.push(nextState)
			if p.semAct != nil {
				p.semAct.Shift(tok)
			}

			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
		case act > 0: // Reduce
			prodNum := act - 1

			accepted := p.reduce(prodNum)
			if accepted {
				tracer().Debugf("accept")
				if p.semAct != nil {
					p.semAct.Accept()
				}

				return nil
			}

			if p.semAct != nil {
				p.semAct.Reduce(prodNum)
			}
		default: // Error
			p.syntaxError(tok, "unexpected token")
			return nil
		}
	}
}

func (p *Parser) syntaxError(tok VToken, message string) {
	row, col := tok.Position()
	synErr := &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           message,
		Token:             tok,
		ExpectedTerminals: p.searchLookahead(p.stateStack.top()),
	}
	tracer().Debugf("syntax error: %v; expected: %v", synErr, synErr.ExpectedTerminals)
	p.synErrs = append(p.synErrs, synErr)
	if p.semAct != nil {
		p.semAct.MissError(tok)
	}
}

func (p *Parser) tokenToTerminal(tok VToken) int {
	if tok.EOF() {
		return p.gram.EOF()
	}

	return tok.TerminalID()
}

func (p *Parser) reduce(prodNum int) bool {
	if prodNum == p.gram.GoalRule() {
		return true
	}
	lhs := p.gram.LHS(prodNum)
	n := p.gram.AlternativeSymbolCount(prodNum)
	p.stateStack.pop(n)
	nextState := p.gram.GoTo(p.stateStack.top(), lhs) - 1
	tracer().Debugf("reduce %v; state %v", p.gram.NonTerminal(lhs), nextState)
	p.stateStack.push(nextState)
	return false
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

// searchLookahead returns the descriptions of the terminals having an action in state.
func (p *Parser) searchLookahead(state int) []string {
	terms := []string{}
	for term := 0; term < p.gram.TerminalCount(); term++ {
		if p.gram.Action(state, term) == 0 {
			continue
		}
		terms = append(terms, p.gram.Terminal(term))
	}
	return terms
}

type stateStack struct {
	items []int
}

func (s *stateStack) top() int {
	return s.items[len(s.items)-1]
}

func (s *stateStack) push(state int) {
	s.items = append(s.items, state)
}

func (s *stateStack) pop(n int) {
	s.items = s.items[:len(s.items)-n]
}
