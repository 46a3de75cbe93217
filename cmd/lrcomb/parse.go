package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/nihei9/lrcomb/driver"
	spec "github.com/nihei9/lrcomb/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	inline *bool
	pretty *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file path>",
		Short:   "Parse a text stream",
		Example: `  cat src | lrcomb parse grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.inline = cmd.Flags().Bool("inline", false, "replace the nodes of repetitions by their children")
	parseFlags.pretty = cmd.Flags().Bool("pretty", false, "render the tree with colors")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("an unexpected error occurred: %v", v)
		}
		fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
		retErr = err
	}()

	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	src := os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	tree, synErrs, err := parse(cgram, src, *parseFlags.inline)
	if err != nil {
		return err
	}
	if len(synErrs) > 0 {
		printSyntaxErrors(os.Stderr, driver.NewGrammar(cgram), synErrs)
		return fmt.Errorf("%v syntax errors", len(synErrs))
	}

	if *parseFlags.pretty {
		return renderTree(tree)
	}
	driver.PrintTree(os.Stdout, tree)

	return nil
}

// parse runs the embedded lexer and the parser over src. The tree is nil when there are
// syntax errors.
func parse(cgram *spec.CompiledGrammar, src io.Reader, inline bool) (*driver.Node, []*driver.SyntaxError, error) {
	toks, err := driver.NewTokenStream(cgram, src)
	if err != nil {
		return nil, nil, err
	}

	gram := driver.NewGrammar(cgram)
	treeAct := driver.NewSyntaxTreeActionSet(gram, inline)
	p, err := driver.NewParser(toks, gram, driver.SemanticAction(treeAct))
	if err != nil {
		return nil, nil, err
	}

	err = p.Parse()
	if err != nil {
		return nil, nil, err
	}

	return treeAct.Tree(), p.SyntaxErrors(), nil
}

func printSyntaxErrors(w io.Writer, gram driver.Grammar, synErrs []*driver.SyntaxError) {
	for _, synErr := range synErrs {
		tok := synErr.Token

		var msg string
		switch {
		case tok.EOF():
			msg = "<eof>"
		case tok.Invalid():
			msg = fmt.Sprintf("'%v' (<invalid>)", string(tok.Lexeme()))
		default:
			msg = fmt.Sprintf("'%v' (%v)", string(tok.Lexeme()), gram.Terminal(tok.TerminalID()))
		}

		fmt.Fprintf(w, "%v:%v: %v: %v", synErr.Row+1, synErr.Col+1, synErr.Message, msg)
		if len(synErr.ExpectedTerminals) > 0 {
			fmt.Fprintf(w, "; expected: %v", strings.Join(synErr.ExpectedTerminals, ", "))
		}
		fmt.Fprintf(w, "\n")
	}
}

func renderTree(tree *driver.Node) error {
	return pterm.DefaultTree.WithRoot(pterm.TreeNode{
		Children: []pterm.TreeNode{toTreeNode(tree)},
	}).Render()
}

func toTreeNode(node *driver.Node) pterm.TreeNode {
	text := pterm.FgGreen.Sprint(node.KindName)
	if node.Text != "" {
		text = fmt.Sprintf("%v %v", text, pterm.FgCyan.Sprintf("%#v", node.Text))
	}
	tn := pterm.TreeNode{
		Text: text,
	}
	for _, c := range node.Children {
		tn.Children = append(tn.Children, toTreeNode(c))
	}
	return tn
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	return cgram, nil
}
