package spec

import (
	"io"
	"strings"
	"sync"

	verr "github.com/nihei9/lrcomb/error"
	"github.com/nihei9/lrcomb/grammar"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokenKind string

const (
	tokenKindID               = tokenKind("id")
	tokenKindTerminal         = tokenKind("terminal")
	tokenKindUnclosedTerminal = tokenKind("unclosed terminal")
	tokenKindColon            = tokenKind(":")
	tokenKindOr               = tokenKind("|")
	tokenKindOption           = tokenKind("?")
	tokenKindZeroOrMore       = tokenKind("*")
	tokenKindOneOrMore        = tokenKind("+")
	tokenKindGroupOpen        = tokenKind("(")
	tokenKindGroupClose       = tokenKind(")")
	tokenKindNewline          = tokenKind("newline")
	tokenKindEOF              = tokenKind("eof")
)

// tokenKinds is indexed by lexmachine token types.
var tokenKinds = []tokenKind{
	tokenKindID,
	tokenKindTerminal,
	tokenKindUnclosedTerminal,
	tokenKindColon,
	tokenKindOr,
	tokenKindOption,
	tokenKindZeroOrMore,
	tokenKindOneOrMore,
	tokenKindGroupOpen,
	tokenKindGroupClose,
	tokenKindNewline,
}

func tokenType(kind tokenKind) int {
	for i, k := range tokenKinds {
		if k == kind {
			return i
		}
	}
	panic("unknown token kind: " + string(kind))
}

type token struct {
	kind tokenKind
	text string
	pos  grammar.Position
}

func newPosition(row, col int) grammar.Position {
	return grammar.Position{
		Row: row,
		Col: col,
	}
}

func newSymbolToken(kind tokenKind, pos grammar.Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos grammar.Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newTerminalToken(text string, pos grammar.Position) *token {
	return &token{
		kind: tokenKindTerminal,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos grammar.Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

var (
	lexerOnce sync.Once
	lexerDef  *lexmachine.Lexer
	lexerErr  error
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(kind tokenKind) lexmachine.Action {
	id := tokenType(kind)
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

func compiledLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		l := lexmachine.NewLexer()
		l.Add([]byte(`#[^\n]*`), skip)
		l.Add([]byte(`( |\t|\r)+`), skip)
		l.Add([]byte(`\n`), makeToken(tokenKindNewline))
		l.Add([]byte(`[A-Za-z_][A-Za-z0-9_]*`), makeToken(tokenKindID))
		l.Add([]byte(`'([^'\\\n]|\\[^\n])*'`), makeToken(tokenKindTerminal))
		l.Add([]byte(`'([^'\\\n]|\\[^\n])*`), makeToken(tokenKindUnclosedTerminal))
		l.Add([]byte(`:`), makeToken(tokenKindColon))
		l.Add([]byte(`\|`), makeToken(tokenKindOr))
		l.Add([]byte(`\?`), makeToken(tokenKindOption))
		l.Add([]byte(`\*`), makeToken(tokenKindZeroOrMore))
		l.Add([]byte(`\+`), makeToken(tokenKindOneOrMore))
		l.Add([]byte(`\(`), makeToken(tokenKindGroupOpen))
		l.Add([]byte(`\)`), makeToken(tokenKindGroupClose))
		if err := l.Compile(); err != nil {
			tracer().Errorf("failed to compile the grammar lexer: %v", err)
			lexerErr = err
			return
		}
		lexerDef = l
	})
	return lexerDef, lexerErr
}

type lexer struct {
	s       *lexmachine.Scanner
	buf     *token
	lastPos grammar.Position
}

func newLexer(src io.Reader) (*lexer, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	l, err := compiledLexer()
	if err != nil {
		return nil, err
	}
	s, err := l.Scanner(b)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s:       s,
		lastPos: newPosition(1, 1),
	}, nil
}

// next returns the next token. Consecutive newlines are reported as one newline token.
func (l *lexer) next() (*token, error) {
	if l.buf != nil {
		tok := l.buf
		l.buf = nil
		return tok, nil
	}

	var newline *token
	for {
		tok, err := l.lex()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenKindNewline {
			if newline == nil {
				newline = tok
			}
			continue
		}

		if newline != nil {
			l.buf = tok
			return newline, nil
		}
		return tok, nil
	}
}

func (l *lexer) lex() (*token, error) {
	v, err, eos := l.s.Next()
	if err != nil {
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			l.s.TC = ui.FailTC
			return nil, &verr.SpecError{
				Cause:  synErrInvalidChar,
				Detail: string(ui.Text),
				Row:    ui.StartLine,
				Col:    ui.StartColumn,
			}
		}
		return nil, err
	}
	if eos {
		return newEOFToken(l.lastPos), nil
	}

	tok := v.(*lexmachine.Token)
	pos := newPosition(tok.StartLine, tok.StartColumn)
	l.lastPos = pos
	text := string(tok.Lexeme)
	switch kind := tokenKinds[tok.Type]; kind {
	case tokenKindID:
		return newIDToken(text, pos), nil
	case tokenKindTerminal:
		desc, err := unescapeTerminal(text[1 : len(text)-1])
		if err != nil {
			return nil, &verr.SpecError{
				Cause:  err,
				Detail: text,
				Row:    pos.Row,
				Col:    pos.Col,
			}
		}
		if desc == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyTerminal,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newTerminalToken(desc, pos), nil
	case tokenKindUnclosedTerminal:
		return nil, &verr.SpecError{
			Cause:  synErrUnclosedTerminal,
			Detail: text,
			Row:    pos.Row,
			Col:    pos.Col,
		}
	default:
		return newSymbolToken(kind, pos), nil
	}
}

// unescapeTerminal interprets \' and \\ in a quoted terminal description.
func unescapeTerminal(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	escaped := false
	for _, c := range s {
		if !escaped {
			if c == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(c)
			continue
		}
		switch c {
		case '\'', '\\':
			b.WriteRune(c)
		default:
			return "", synErrInvalidEscSeq
		}
		escaped = false
	}
	return b.String(), nil
}
