package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nihei9/lrcomb/driver"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	inline *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "repl <grammar file path>",
		Short:   "Parse lines entered interactively",
		Example: `  lrcomb repl grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	replFlags.inline = cmd.Flags().Bool("inline", false, "replace the nodes of repetitions by their children")
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}
	gram := driver.NewGrammar(cgram)

	initDisplay()
	pterm.Info.Printf("Grammar %v: %v states, merged by %v\n",
		cgram.Name, cgram.ParsingTable.StateCount, cgram.ParsingTable.MergeStrategy)
	pterm.Info.Println("Enter a line to parse it; <ctrl>D quits")

	repl, err := readline.New("lrcomb> ")
	if err != nil {
		return err
	}
	defer repl.Close()

	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}

		tree, synErrs, err := parse(cgram, strings.NewReader(line), *replFlags.inline)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if len(synErrs) > 0 {
			var b strings.Builder
			printSyntaxErrors(&b, gram, synErrs)
			pterm.Error.Print(b.String())
			continue
		}
		if err := renderTree(tree); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	fmt.Fprintln(os.Stdout, "Good bye!")
	return nil
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " lrcomb",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
