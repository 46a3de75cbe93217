package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/lrcomb/tester"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a compiled grammar",
		Example: `  lrcomb test grammar.json test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cg, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	cs := tester.ListTestCases(args[1])
	errOccurred := false
	for _, c := range cs {
		if c.Error != nil {
			fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
			errOccurred = true
		}
	}
	if errOccurred {
		return errors.New("Cannot run test")
	}

	t := &tester.Tester{
		Grammar: cg,
		Cases:   cs,
	}
	testFailed := false
	for _, r := range t.Run() {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
