package spec

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	prod := func(lhs string, bodies ...*BodyNode) *ProductionNode {
		return &ProductionNode{
			LHS:    lhs,
			Bodies: bodies,
		}
	}
	body := func(elems ...*ElementNode) *BodyNode {
		return &BodyNode{
			Elements: elems,
		}
	}
	id := func(id string) *ElementNode {
		return &ElementNode{
			ID: id,
		}
	}
	term := func(desc string) *ElementNode {
		return &ElementNode{
			Terminal: desc,
		}
	}
	group := func(alts ...[]*ElementNode) *ElementNode {
		return &ElementNode{
			Group: alts,
		}
	}
	alt := func(elems ...*ElementNode) []*ElementNode {
		return elems
	}
	quant := func(q string, e *ElementNode) *ElementNode {
		e.Quantifier = q
		return e
	}

	tests := []struct {
		caption string
		src     string
		ast     *RootNode
		synErr  *SyntaxError
	}{
		{
			caption: "a production has one body per line",
			src: `
# assignment
Goal:
    S
S:
    E '=' E
    'IDENT'
`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					prod("Goal", body(id("S"))),
					prod("S",
						body(id("E"), term("="), id("E")),
						body(term("IDENT")),
					),
				},
			},
		},
		{
			caption: "a body can follow the colon",
			src: `Goal: S
S: 'a'
   'b'`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					prod("Goal", body(id("S"))),
					prod("S", body(term("a")), body(term("b"))),
				},
			},
		},
		{
			caption: "elements can have quantifiers",
			src: `Goal:
    a? 'b'* c+`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					prod("Goal", body(
						quant("?", id("a")),
						quant("*", term("b")),
						quant("+", id("c")),
					)),
				},
			},
		},
		{
			caption: "groups contain alternatives",
			src: `Goal:
    ('a' b | 'c' | ) (d)+`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					prod("Goal", body(
						group(alt(term("a"), id("b")), alt(term("c")), alt()),
						quant("+", group(alt(id("d")))),
					)),
				},
			},
		},
		{
			caption: "an empty group is an empty body",
			src: `Goal:
    ()`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					prod("Goal", body(group(alt()))),
				},
			},
		},
		{
			caption: "a grammar needs a production",
			src:     "# nothing\n",
			synErr:  synErrNoProduction,
		},
		{
			caption: "a production needs a name",
			src:     "'a':\n    b",
			synErr:  synErrNoProductionName,
		},
		{
			caption: "a production name needs a colon",
			src:     "Goal\n    b",
			synErr:  synErrNoColon,
		},
		{
			caption: "a production needs a body",
			src:     "Goal:\nS:\n    'a'",
			synErr:  synErrNoBody,
		},
		{
			caption: "a group must be closed",
			src:     "Goal:\n    ('a' | 'b'\n",
			synErr:  synErrUnclosedGroup,
		},
		{
			caption: "a quantifier needs an operand",
			src:     "Goal:\n    * 'a'",
			synErr:  synErrDanglingOperator,
		},
		{
			caption: "quantifiers cannot be stacked",
			src:     "Goal:\n    'a'*?",
			synErr:  synErrDanglingOperator,
		},
		{
			caption: "an alternation needs a group",
			src:     "Goal:\n    'a' | 'b'",
			synErr:  synErrUnexpectedToken,
		},
		{
			caption: "a lexical error is reported",
			src:     "Goal:\n    'a",
			synErr:  synErrUnclosedTerminal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := Parse(strings.NewReader(tt.src))
			if tt.synErr != nil {
				if !errors.Is(err, tt.synErr) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, err)
				}
				if ast != nil {
					t.Fatalf("AST must be nil")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			testRootNode(t, ast, tt.ast)
		})
	}
}

func TestParse_Position(t *testing.T) {
	ast, err := Parse(strings.NewReader(`
Goal:
    S
S:
    'a'
    'b' S
`))
	if err != nil {
		t.Fatal(err)
	}
	rows := []int{}
	for _, prod := range ast.Productions {
		for _, body := range prod.Bodies {
			rows = append(rows, body.Pos.Row)
		}
	}
	if !reflect.DeepEqual(rows, []int{3, 5, 6}) {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestRootNode_Terminals(t *testing.T) {
	ast, err := Parse(strings.NewReader(`
Goal:
    S
S:
    'b' ('a' | 'c')* 'b'
    'd'
`))
	if err != nil {
		t.Fatal(err)
	}
	terms := ast.Terminals()
	if !reflect.DeepEqual(terms, []string{"b", "a", "c", "d"}) {
		t.Fatalf("unexpected terminals: %v", terms)
	}
}

func testRootNode(t *testing.T, root, expected *RootNode) {
	t.Helper()

	if len(root.Productions) != len(expected.Productions) {
		t.Fatalf("unexpected length of productions; want: %v, got: %v", len(expected.Productions), len(root.Productions))
	}
	for i, prod := range root.Productions {
		exp := expected.Productions[i]
		if prod.LHS != exp.LHS {
			t.Fatalf("unexpected LHS; want: %v, got: %v", exp.LHS, prod.LHS)
		}
		if len(prod.Bodies) != len(exp.Bodies) {
			t.Fatalf("unexpected length of bodies of %v; want: %v, got: %v", prod.LHS, len(exp.Bodies), len(prod.Bodies))
		}
		for j, body := range prod.Bodies {
			testElements(t, body.Elements, exp.Bodies[j].Elements)
		}
	}
}

func testElements(t *testing.T, elems, expected []*ElementNode) {
	t.Helper()

	if len(elems) != len(expected) {
		t.Fatalf("unexpected length of elements; want: %v, got: %v", len(expected), len(elems))
	}
	for i, e := range elems {
		exp := expected[i]
		if e.ID != exp.ID || e.Terminal != exp.Terminal || e.Quantifier != exp.Quantifier {
			t.Fatalf("unexpected element; want: %+v, got: %+v", exp, e)
		}
		if len(e.Group) != len(exp.Group) {
			t.Fatalf("unexpected length of alternatives; want: %v, got: %v", len(exp.Group), len(e.Group))
		}
		for j, alt := range e.Group {
			testElements(t, alt, exp.Group[j])
		}
	}
}
