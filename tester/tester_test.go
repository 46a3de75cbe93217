package tester

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/lrcomb/grammar"
	"github.com/nihei9/lrcomb/spec"
	gspec "github.com/nihei9/lrcomb/spec/grammar"
)

const assignmentGrammar = `
Goal:
    S
S:
    E '=' E
    'IDENT'
E:
    E '+' 'IDENT'
    'IDENT'
`

const assignmentLexicalConfig = `
name = "assign"

[[terminal]]
name = "IDENT"
pattern = "[a-z]+"

[[terminal]]
name = "="

[[terminal]]
name = "+"

[[skip]]
name = "white_space"
pattern = "[\\u{0009}\\u{0020}]+"
`

func compileAssignment(t *testing.T) *gspec.CompiledGrammar {
	t.Helper()

	config, err := spec.ReadLexicalConfig(strings.NewReader(assignmentLexicalConfig))
	if err != nil {
		t.Fatal(err)
	}
	alphabet, err := config.Alphabet()
	if err != nil {
		t.Fatal(err)
	}
	g, err := spec.Load(strings.NewReader(assignmentGrammar), alphabet)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := grammar.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	cg, err := grammar.Compile(tab, config.LexicalSpec())
	if err != nil {
		t.Fatal(err)
	}
	return cg
}

func TestTester_Run(t *testing.T) {
	cg := compileAssignment(t)

	tests := []struct {
		caption string
		testSrc string
		error   bool
	}{
		{
			caption: "a matching tree passes",
			testSrc: `
description = "an assignment"
source = "a = b"
tree = '''
S
├─ E
│  └─ IDENT "a"
├─ = "="
└─ E
   └─ IDENT "b"
'''
`,
		},
		{
			caption: "a different tree fails",
			testSrc: `
source = "a = b"
tree = '''
S
├─ E
│  └─ IDENT "b"
├─ = "="
└─ E
   └─ IDENT "b"
'''
`,
			error: true,
		},
		{
			caption: "a shorter tree fails",
			testSrc: `
source = "a = b"
tree = '''
S
'''
`,
			error: true,
		},
		{
			caption: "an expected syntax error passes",
			testSrc: `
source = "a = = b"
syntax_error = true
`,
		},
		{
			caption: "an unexpected syntax error fails",
			testSrc: `
source = "a = = b"
tree = '''
S
'''
`,
			error: true,
		},
		{
			caption: "a missing syntax error fails",
			testSrc: `
source = "a"
syntax_error = true
`,
			error: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			c, err := ParseTestCase(strings.NewReader(tt.testSrc))
			if err != nil {
				t.Fatal(err)
			}
			tester := &Tester{
				Grammar: cg,
				Cases: []*TestCaseWithMetadata{
					{
						TestCase: c,
					},
				},
			}
			rs := tester.Run()
			if tt.error {
				if rs[0].Error == nil {
					t.Fatal("an error didn't occur")
				}
			} else {
				if rs[0].Error != nil {
					t.Fatalf("unexpected error occurred: %v", rs[0])
				}
			}
		})
	}
}

func TestTester_Diff(t *testing.T) {
	cg := compileAssignment(t)
	c, err := ParseTestCase(strings.NewReader(`
source = "a"
tree = '''
S
└─ IDENT "b"
'''
`))
	if err != nil {
		t.Fatal(err)
	}
	r := runTest(cg, &TestCaseWithMetadata{
		TestCase: c,
		FilePath: "a.toml",
	})
	if r.Diff == nil {
		t.Fatalf("a diff was expected: %v", r)
	}
	if r.Diff.Line != 2 || r.Diff.Expected != `└─ IDENT "b"` || r.Diff.Actual != `└─ IDENT "a"` {
		t.Fatalf("unexpected diff: %+v", r.Diff)
	}
	if !strings.HasPrefix(r.String(), "Failed a.toml:") {
		t.Fatalf("unexpected result: %v", r)
	}
}

func TestParseTestCase_NoTree(t *testing.T) {
	_, err := ParseTestCase(strings.NewReader(`source = "a"`))
	if err == nil {
		t.Fatal("a test case without a tree must be rejected")
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0700); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dir, "a.toml"): "source = \"a\"\nsyntax_error = true\n",
		filepath.Join(sub, "b.toml"): "source = \"b\"\nsyntax_error = true\n",
		filepath.Join(sub, "c.toml"): "source = ",
	}
	for path, src := range files {
		if err := os.WriteFile(path, []byte(src), 0600); err != nil {
			t.Fatal(err)
		}
	}

	cs := ListTestCases(dir)
	if len(cs) != 3 {
		t.Fatalf("unexpected test case count: %v", len(cs))
	}
	var failed int
	for _, c := range cs {
		if c.Error != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("exactly one test case is broken; got %v", failed)
	}
}
