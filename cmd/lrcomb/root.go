package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "lrcomb",
	Short: "Generate a portable LR(1) parsing table from a grammar with combinators",
	Long: `lrcomb provides three features:
- Generates a portable parsing table from a grammar.
- Describes the states and conflicts of a generated table.
- Parses a text stream according to the table.
  This feature is primarily aimed at debugging the grammar.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setTraceLevel,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

var traceKeys = []string{
	"lrcomb.grammar",
	"lrcomb.spec",
	"lrcomb.driver",
}

func setTraceLevel(cmd *cobra.Command, args []string) error {
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}
