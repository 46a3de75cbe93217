package driver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type testSemAct struct {
	gram   Grammar
	actLog []string
}

func (a *testSemAct) Shift(tok VToken) {
	a.actLog = append(a.actLog, fmt.Sprintf("shift/%v", a.gram.Terminal(tok.TerminalID())))
}

func (a *testSemAct) Reduce(prodNum int) {
	a.actLog = append(a.actLog, fmt.Sprintf("reduce/%v", a.gram.NonTerminal(a.gram.LHS(prodNum))))
}

func (a *testSemAct) Accept() {
	a.actLog = append(a.actLog, "accept")
}

func (a *testSemAct) MissError(cause VToken) {
	a.actLog = append(a.actLog, "miss")
}

func TestParserWithSemanticAction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcomb.driver")
	defer teardown()

	cg := compileGrammar(t, assignmentGrammar, assignmentLexicalConfig)

	tests := []struct {
		caption string
		src     string
		actLog  []string
	}{
		{
			caption: "the driver runs actions on shifts, reductions, and acceptance",
			src:     "a + b = c",
			actLog: []string{
				"shift/IDENT",
				"reduce/E",
				"shift/+",
				"shift/IDENT",
				"reduce/E",
				"shift/=",
				"shift/IDENT",
				"reduce/E",
				"reduce/S",
				"accept",
			},
		},
		{
			caption: "the driver runs the error action on a syntax error",
			src:     "a =",
			actLog: []string{
				"shift/IDENT",
				"reduce/E",
				"shift/=",
				"miss",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := NewTokenStream(cg, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			gram := NewGrammar(cg)
			semAct := &testSemAct{
				gram: gram,
			}
			p, err := NewParser(toks, gram, SemanticAction(semAct))
			if err != nil {
				t.Fatal(err)
			}
			if err := p.Parse(); err != nil {
				t.Fatal(err)
			}
			if len(semAct.actLog) != len(tt.actLog) {
				t.Fatalf("unexpected action log; want: %q, got: %q", tt.actLog, semAct.actLog)
			}
			for i, e := range tt.actLog {
				if semAct.actLog[i] != e {
					t.Fatalf("unexpected action log; want: %q, got: %q", tt.actLog, semAct.actLog)
				}
			}
		})
	}
}

func TestSyntaxTreeActionSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcomb.driver")
	defer teardown()

	listGrammar := `
Goal:
    List
List:
    '[' ('x' (',' 'x')*)? ']'
`
	listLexicalConfig := `
[[terminal]]
name = "["

[[terminal]]
name = "x"

[[terminal]]
name = ","

[[terminal]]
name = "]"
`
	tests := []struct {
		caption string
		src     string
		inline  bool
		tree    string
	}{
		{
			caption: "the tree of an assignment",
			src:     "a = b",
			tree: `S
├─ E
│  └─ IDENT "a"
├─ = "="
└─ E
   └─ IDENT "b"
`,
		},
		{
			caption: "synthetic nodes are kept",
			src:     "[x,x,x]",
			tree: `List
├─ [ "["
├─ x "x"
├─ $rep1
│  ├─ $rep1
│  │  ├─ , ","
│  │  └─ x "x"
│  ├─ , ","
│  └─ x "x"
└─ ] "]"
`,
		},
		{
			caption: "synthetic nodes are inlined",
			src:     "[x,x,x]",
			inline:  true,
			tree: `List
├─ [ "["
├─ x "x"
├─ , ","
├─ x "x"
├─ , ","
├─ x "x"
└─ ] "]"
`,
		},
		{
			caption: "an empty list",
			src:     "[]",
			inline:  true,
			tree: `List
├─ [ "["
└─ ] "]"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			var src, lexConfig string
			if strings.HasPrefix(tt.src, "[") {
				src, lexConfig = listGrammar, listLexicalConfig
			} else {
				src, lexConfig = assignmentGrammar, assignmentLexicalConfig
			}
			cg := compileGrammar(t, src, lexConfig)
			gram := NewGrammar(cg)
			toks, err := NewTokenStream(cg, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			semAct := NewSyntaxTreeActionSet(gram, tt.inline)
			p, err := NewParser(toks, gram, SemanticAction(semAct))
			if err != nil {
				t.Fatal(err)
			}
			if err := p.Parse(); err != nil {
				t.Fatal(err)
			}
			if len(p.SyntaxErrors()) > 0 {
				t.Fatalf("unexpected syntax errors: %v", p.SyntaxErrors()[0])
			}
			var b strings.Builder
			PrintTree(&b, semAct.Tree())
			if b.String() != tt.tree {
				t.Fatalf("unexpected tree;\nwant:\n%v\ngot:\n%v", tt.tree, b.String())
			}
		})
	}

	t.Run("a tree is not available after a syntax error", func(t *testing.T) {
		cg := compileGrammar(t, assignmentGrammar, assignmentLexicalConfig)
		gram := NewGrammar(cg)
		toks, err := NewTokenStream(cg, strings.NewReader("a = "))
		if err != nil {
			t.Fatal(err)
		}
		semAct := NewSyntaxTreeActionSet(gram, false)
		p, err := NewParser(toks, gram, SemanticAction(semAct))
		if err != nil {
			t.Fatal(err)
		}
		if err := p.Parse(); err != nil {
			t.Fatal(err)
		}
		if semAct.Tree() != nil {
			t.Fatal("the tree must be nil")
		}
	})
}
