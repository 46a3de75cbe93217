package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nihei9/lrcomb/driver"
	"github.com/nihei9/lrcomb/grammar"
	"github.com/nihei9/lrcomb/spec"
	specgrm "github.com/nihei9/lrcomb/spec/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const sumGrammar = `
Goal:
    E
E:
    E '+' E
    'IDENT'
`

const sumLexicalConfig = `
name = "sum"

[[terminal]]
name = "IDENT"
pattern = "[a-z]+"

[[terminal]]
name = "+"

[[skip]]
name = "white_space"
pattern = "[\\u{0009}\\u{0020}]+"
`

func compileSum(t *testing.T) (*specgrm.CompiledGrammar, *specgrm.Report) {
	t.Helper()

	config, err := spec.ReadLexicalConfig(strings.NewReader(sumLexicalConfig))
	if err != nil {
		t.Fatal(err)
	}
	alphabet, err := config.Alphabet()
	if err != nil {
		t.Fatal(err)
	}
	g, err := spec.Load(strings.NewReader(sumGrammar), alphabet, grammar.WithDiagnosticSink(&grammar.CollectingSink{}))
	if err != nil {
		t.Fatal(err)
	}
	tab, err := grammar.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	cgram, err := grammar.Compile(tab, config.LexicalSpec())
	if err != nil {
		t.Fatal(err)
	}

	// Both documents travel through JSON between the commands.
	var decoded specgrm.CompiledGrammar
	b, err := json.Marshal(cgram)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	return &decoded, grammar.GenReport(tab, config.LexicalSpec())
}

func TestWriteReport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcomb.grammar")
	defer teardown()

	_, report := compileSum(t)

	var b bytes.Buffer
	if err := writeReport(&b, report); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"shift/reduce and 0 reduce/reduce conflicts",
		"E → E '+' E",
		"IDENT /[a-z]+/",
		"## State 0",
		"accept on <eof>",
		"shift/reduce conflict",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("the report lacks %q:\n%v", want, out)
		}
	}
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcomb.driver")
	defer teardown()

	cgram, _ := compileSum(t)

	tree, synErrs, err := parse(cgram, strings.NewReader("a + b + c"), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(synErrs) > 0 {
		t.Fatalf("unexpected syntax errors: %v", synErrs)
	}
	var b bytes.Buffer
	driver.PrintTree(&b, tree)
	if got := strings.Count(b.String(), "IDENT"); got != 3 {
		t.Fatalf("the tree must hold 3 identifiers:\n%v", b.String())
	}

	_, synErrs, err = parse(cgram, strings.NewReader("a +"), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(synErrs) != 1 {
		t.Fatalf("unexpected syntax errors: %v", synErrs)
	}
	var eb bytes.Buffer
	printSyntaxErrors(&eb, driver.NewGrammar(cgram), synErrs)
	if want := "unexpected token: <eof>; expected: IDENT\n"; !strings.HasSuffix(eb.String(), want) {
		t.Fatalf("unexpected message; want suffix: %q, got: %q", want, eb.String())
	}
}
