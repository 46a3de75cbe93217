package driver

import (
	"fmt"
	"io"

	spec "github.com/nihei9/lrcomb/spec/grammar"
	mldriver "github.com/nihei9/maleeni/driver"
)

type VToken interface {
	// TerminalID returns the terminal of the token. It is meaningless for invalid tokens.
	TerminalID() int

	Lexeme() []byte

	EOF() bool

	// Invalid reports whether the lexer could not recognize the lexeme.
	Invalid() bool

	// Position returns the 0-based row and column of the token.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	tok        *mldriver.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
	eof            int
}

// NewTokenStream tokenizes src with the maleeni lexer embedded in g. Skipped lexemes never
// reach the parser.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	if g.LexicalSpecification == nil || g.LexicalSpecification.Maleeni == nil {
		return nil, fmt.Errorf("the grammar %v has no lexical specification", g.Name)
	}
	ml := g.LexicalSpecification.Maleeni
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(ml.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: ml.KindToTerminal,
		skip:           ml.Skip,
		eof:            g.ParsingTable.EOFSymbol,
	}, nil
}

func (l *tokenStream) Next() (VToken, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}
		if !tok.EOF && !tok.Invalid && l.skip[tok.KindID] > 0 {
			continue
		}
		term := l.eof
		if !tok.EOF && !tok.Invalid {
			term = l.kindToTerminal[tok.KindID]
		}
		return &vToken{
			terminalID: term,
			tok:        tok,
		}, nil
	}
}

// Token is a pre-tokenized input element.
type Token struct {
	Terminal int
	Text     string
	Row      int
	Col      int
}

func (t *Token) TerminalID() int {
	return t.Terminal
}

func (t *Token) Lexeme() []byte {
	return []byte(t.Text)
}

func (t *Token) EOF() bool {
	return false
}

func (t *Token) Invalid() bool {
	return false
}

func (t *Token) Position() (int, int) {
	return t.Row, t.Col
}

type eofToken struct {
	terminal int
	row      int
	col      int
}

func (t *eofToken) TerminalID() int {
	return t.terminal
}

func (t *eofToken) Lexeme() []byte {
	return nil
}

func (t *eofToken) EOF() bool {
	return true
}

func (t *eofToken) Invalid() bool {
	return false
}

func (t *eofToken) Position() (int, int) {
	return t.row, t.col
}

type sliceTokenStream struct {
	toks []*Token
	eof  int
	pos  int
}

// NewSliceTokenStream returns a stream yielding toks followed by end-of-input forever.
func NewSliceTokenStream(gram Grammar, toks []*Token) TokenStream {
	return &sliceTokenStream{
		toks: toks,
		eof:  gram.EOF(),
	}
}

func (s *sliceTokenStream) Next() (VToken, error) {
	if s.pos < len(s.toks) {
		tok := s.toks[s.pos]
		s.pos++
		return tok, nil
	}
	eof := &eofToken{
		terminal: s.eof,
	}
	if len(s.toks) > 0 {
		last := s.toks[len(s.toks)-1]
		eof.row = last.Row
		eof.col = last.Col + len(last.Text)
	}
	return eof, nil
}
