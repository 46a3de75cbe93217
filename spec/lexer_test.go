package spec

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/nihei9/lrcomb/error"
)

func TestLexer_Run(t *testing.T) {
	idTok := func(text string) *token {
		return newIDToken(text, newPosition(1, 1))
	}

	termTok := func(text string) *token {
		return newTerminalToken(text, newPosition(1, 1))
	}

	symTok := func(kind tokenKind) *token {
		return newSymbolToken(kind, newPosition(1, 1))
	}

	eofTok := func() *token {
		return newEOFToken(newPosition(1, 1))
	}

	tests := []struct {
		caption string
		src     string
		tokens  []*token
		err     error
	}{
		{
			caption: "the lexer can recognize all kinds of tokens",
			src:     `id'terminal':|?*+()`,
			tokens: []*token{
				idTok("id"),
				termTok("terminal"),
				symTok(tokenKindColon),
				symTok(tokenKindOr),
				symTok(tokenKindOption),
				symTok(tokenKindZeroOrMore),
				symTok(tokenKindOneOrMore),
				symTok(tokenKindGroupOpen),
				symTok(tokenKindGroupClose),
				eofTok(),
			},
		},
		{
			caption: "the lexer skips white spaces and comments",
			src:     "  a\t'b' # comment 'c' d\n",
			tokens: []*token{
				idTok("a"),
				termTok("b"),
				symTok(tokenKindNewline),
				eofTok(),
			},
		},
		{
			caption: "consecutive newlines are one newline",
			src:     "a\n\n# comment\n\r\nb",
			tokens: []*token{
				idTok("a"),
				symTok(tokenKindNewline),
				idTok("b"),
				eofTok(),
			},
		},
		{
			caption: "a terminal can contain characters special in the format",
			src:     `'(' ')' '|' '#' ':' '+'`,
			tokens: []*token{
				termTok("("),
				termTok(")"),
				termTok("|"),
				termTok("#"),
				termTok(":"),
				termTok("+"),
				eofTok(),
			},
		},
		{
			caption: "a terminal can contain escaped quotes and back slashes",
			src:     `'\'' '\\' 'a\'b'`,
			tokens: []*token{
				termTok(`'`),
				termTok(`\`),
				termTok(`a'b`),
				eofTok(),
			},
		},
		{
			caption: "an unknown escape sequence is an error",
			src:     `'\n'`,
			err:     synErrInvalidEscSeq,
		},
		{
			caption: "a terminal must be closed",
			src:     `'abc`,
			err:     synErrUnclosedTerminal,
		},
		{
			caption: "a terminal must be closed on the same line",
			src:     "'abc\n'",
			err:     synErrUnclosedTerminal,
		},
		{
			caption: "a terminal must not be empty",
			src:     `''`,
			err:     synErrEmptyTerminal,
		},
		{
			caption: "an unknown character is an error",
			src:     `a $b`,
			err:     synErrInvalidChar,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			l, err := newLexer(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			n := 0
			for {
				var tok *token
				tok, err = l.next()
				if err != nil {
					break
				}
				if n >= len(tt.tokens) {
					t.Fatalf("too many tokens; unexpected: %+v", tok)
				}
				testToken(t, tok, tt.tokens[n])
				n++
				if tok.kind == tokenKindEOF {
					break
				}
			}
			if tt.err != nil {
				var specErr *verr.SpecError
				if !errors.As(err, &specErr) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.err, err)
				}
				if !errors.Is(specErr, tt.err) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.err, specErr.Cause)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != len(tt.tokens) {
				t.Fatalf("too few tokens; want: %v, got: %v", len(tt.tokens), n)
			}
		})
	}
}

func TestLexer_Position(t *testing.T) {
	l, err := newLexer(strings.NewReader("S:\n    E '='\n"))
	if err != nil {
		t.Fatal(err)
	}
	var toks []*token
	for {
		tok, err := l.next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.kind == tokenKindEOF {
			break
		}
		if tok.kind != tokenKindNewline {
			toks = append(toks, tok)
		}
	}
	expected := []struct {
		kind tokenKind
		row  int
		col  int
	}{
		{kind: tokenKindID, row: 1, col: 1},
		{kind: tokenKindColon, row: 1, col: 2},
		{kind: tokenKindID, row: 2, col: 5},
		{kind: tokenKindTerminal, row: 2, col: 7},
	}
	if len(toks) != len(expected) {
		t.Fatalf("unexpected token count: %v", len(toks))
	}
	for i, e := range expected {
		if toks[i].kind != e.kind || toks[i].pos.Row != e.row || toks[i].pos.Col != e.col {
			t.Errorf("unexpected token #%v; want: %v at %v:%v, got: %v at %v", i, e.kind, e.row, e.col, toks[i].kind, toks[i].pos)
		}
	}
}

func testToken(t *testing.T, actual, expected *token) {
	t.Helper()

	if actual.kind != expected.kind || actual.text != expected.text {
		t.Fatalf("unexpected token; want: %+v, got: %+v", expected, actual)
	}
}
