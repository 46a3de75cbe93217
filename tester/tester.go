// Package tester runs test cases against a compiled grammar. A test case is a TOML file:
//
//	description = "an assignment"
//	source = "a = b"
//	inline = false
//	tree = """
//	S
//	├─ E
//	...
//	"""
//
// The tree is the expected output of driver.PrintTree. A case with `syntax_error = true`
// passes when the source is rejected.
package tester

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/lrcomb/driver"
	gspec "github.com/nihei9/lrcomb/spec/grammar"
	"github.com/pelletier/go-toml"
)

type TestCase struct {
	Description string `toml:"description"`
	Source      string `toml:"source"`
	Inline      bool   `toml:"inline"`
	Tree        string `toml:"tree"`
	SyntaxError bool   `toml:"syntax_error"`
}

func ParseTestCase(r io.Reader) (*TestCase, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := &TestCase{}
	if err := toml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if !c.SyntaxError && strings.TrimSpace(c.Tree) == "" {
		return nil, fmt.Errorf("a test case needs a tree unless it expects a syntax error")
	}
	return c, nil
}

// LineDiff is the first line where an actual tree departs from the expected one. Line is
// 1-based; an empty side means the tree ended there.
type LineDiff struct {
	Line     int
	Expected string
	Actual   string
}

type TestResult struct {
	TestCasePath string
	Error        error
	Diff         *LineDiff
}

func (r *TestResult) String() string {
	if r.Error == nil {
		return fmt.Sprintf("Passed %v", r.TestCasePath)
	}

	const indent = "    "
	msgLines := strings.Split(r.Error.Error(), "\n")
	msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent, strings.Join(msgLines, "\n"+indent))
	if r.Diff == nil {
		return msg
	}
	return fmt.Sprintf("%v\n%vline %v\n%vexpected: %q\n%vactual:   %q", msg,
		indent, r.Diff.Line, indent, r.Diff.Expected, indent, r.Diff.Actual)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads the test case at testPath, or every test case below it when it is a
// directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

type Tester struct {
	Grammar *gspec.CompiledGrammar
	Cases   []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(t.Grammar, c))
	}
	return rs
}

func runTest(g *gspec.CompiledGrammar, c *TestCaseWithMetadata) *TestResult {
	failed := func(err error) *TestResult {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	gram := driver.NewGrammar(g)
	toks, err := driver.NewTokenStream(g, strings.NewReader(c.TestCase.Source))
	if err != nil {
		return failed(err)
	}
	treeAct := driver.NewSyntaxTreeActionSet(gram, c.TestCase.Inline)
	p, err := driver.NewParser(toks, gram, driver.SemanticAction(treeAct))
	if err != nil {
		return failed(err)
	}
	if err := p.Parse(); err != nil {
		return failed(err)
	}

	synErrs := p.SyntaxErrors()
	switch {
	case c.TestCase.SyntaxError && len(synErrs) == 0:
		return failed(fmt.Errorf("a syntax error was expected"))
	case c.TestCase.SyntaxError:
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	case len(synErrs) > 0:
		return failed(fmt.Errorf("parse tree was not generated: %v", synErrs[0]))
	}

	var b bytes.Buffer
	driver.PrintTree(&b, treeAct.Tree())
	if diff := diffLines(c.TestCase.Tree, b.String()); diff != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diff:         diff,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

// diffLines compares trees line by line, ignoring surrounding blank lines and trailing spaces.
func diffLines(expected, actual string) *LineDiff {
	es := treeLines(expected)
	as := treeLines(actual)
	for i := 0; i < len(es) || i < len(as); i++ {
		var e, a string
		if i < len(es) {
			e = es[i]
		}
		if i < len(as) {
			a = as[i]
		}
		if e != a {
			return &LineDiff{
				Line:     i + 1,
				Expected: e,
				Actual:   a,
			}
		}
	}
	return nil
}

func treeLines(s string) []string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}
