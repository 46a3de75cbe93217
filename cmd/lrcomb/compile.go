package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	verr "github.com/nihei9/lrcomb/error"
	"github.com/nihei9/lrcomb/grammar"
	"github.com/nihei9/lrcomb/spec"
	specgrm "github.com/nihei9/lrcomb/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output   *string
	lexical  *string
	merge    *string
	goal     *string
	compress *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile grammar you defined into a parsing table",
		Example: `  lrcomb compile grammar.lrc -l lexical.toml -o grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.lexical = cmd.Flags().StringP("lexical", "l", "", "lexical configuration file path (TOML)")
	compileFlags.merge = cmd.Flags().String("merge", grammar.MergeByCoreAndLookahead.String(), "state merge strategy [core+lookahead|core]")
	compileFlags.goal = cmd.Flags().String("goal", "", "name of the goal nonterminal (default Goal)")
	compileFlags.compress = cmd.Flags().Bool("compress", false, "pack the action and goto tables by row displacement")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	var tmpDirPath string
	defer func() {
		if tmpDirPath == "" {
			return
		}
		os.RemoveAll(tmpDirPath)
	}()

	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	defer func() {
		if retErr == nil {
			return
		}
		var specErrs verr.SpecErrors
		if !errors.As(retErr, &specErrs) {
			var specErr *verr.SpecError
			if !errors.As(retErr, &specErr) {
				return
			}
			specErrs = verr.SpecErrors{specErr}
		}
		for _, err := range specErrs {
			err.FilePath = grmPath
			if len(args) > 0 {
				err.SourceName = grmPath
			} else {
				err.SourceName = "stdin"
			}
		}
	}()

	strategy, err := parseMergeStrategy(*compileFlags.merge)
	if err != nil {
		return err
	}

	if grmPath == "" {
		tmpDirPath, err = os.MkdirTemp("", "lrcomb-compile-*")
		if err != nil {
			return err
		}

		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}

		grmPath = filepath.Join(tmpDirPath, "stdin.lrc")
		err = os.WriteFile(grmPath, src, 0600)
		if err != nil {
			return err
		}
	}

	var lexConf *spec.LexicalConfig
	if *compileFlags.lexical != "" {
		lexConf, err = readLexicalConfig(*compileFlags.lexical)
		if err != nil {
			return err
		}
	}

	sink := &grammar.CollectingSink{}
	gram, err := readGrammar(grmPath, lexConf, sink)
	if err != nil {
		return err
	}

	tab, err := grammar.Build(gram, grammar.WithMergeStrategy(strategy))
	printDiagnostics(sink)
	if err != nil {
		return err
	}

	var lexSpec *grammar.LexicalSpec
	if lexConf != nil {
		lexSpec = lexConf.LexicalSpec()
	}
	var compileOpts []grammar.CompileOption
	if *compileFlags.compress {
		compileOpts = append(compileOpts, grammar.WithTableCompression())
	}
	cgram, err := grammar.Compile(tab, lexSpec, compileOpts...)
	if err != nil {
		return err
	}
	report := grammar.GenReport(tab, lexSpec)

	err = writeCompiledGrammarAndReport(cgram, report, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write an output files: %w", err)
	}

	if n := len(tab.Conflicts()); n > 0 {
		fmt.Fprintln(os.Stderr, pterm.Warning.Sprint(fmt.Sprintf("%v conflicts", n)))
	}

	return nil
}

func parseMergeStrategy(s string) (grammar.MergeStrategy, error) {
	switch s {
	case grammar.MergeByCoreAndLookahead.String():
		return grammar.MergeByCoreAndLookahead, nil
	case grammar.MergeByCore.String():
		return grammar.MergeByCore, nil
	}
	return 0, fmt.Errorf("unknown merge strategy: %v", s)
}

func readLexicalConfig(path string) (*spec.LexicalConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the lexical configuration %s: %w", path, err)
	}
	defer f.Close()

	return spec.ReadLexicalConfig(f)
}

func readGrammar(path string, lexConf *spec.LexicalConfig, sink grammar.DiagnosticSink) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	var alphabet *grammar.Alphabet
	if lexConf != nil {
		alphabet, err = lexConf.Alphabet()
		if err != nil {
			return nil, err
		}
	}

	opts := []grammar.GrammarOption{
		grammar.WithDiagnosticSink(sink),
	}
	if *compileFlags.goal != "" {
		opts = append(opts, grammar.WithGoal(*compileFlags.goal))
	}
	return spec.Load(f, alphabet, opts...)
}

// printDiagnostics writes warnings and infos to stderr. Errors are returned by Build and
// printed by the caller.
func printDiagnostics(sink *grammar.CollectingSink) {
	for _, d := range sink.Filter(grammar.SeverityWarning) {
		fmt.Fprintln(os.Stderr, pterm.Warning.Sprint(d.String()))
	}
	for _, d := range sink.Filter(grammar.SeverityInfo) {
		fmt.Fprintln(os.Stderr, pterm.Info.Sprint(d.String()))
	}
}

// writeCompiledGrammarAndReport writes a compiled grammar and a report to files located at a specified path.
//
//  1. When the path is a directory path, the compiled grammar and the report go to
//     <path>/<grammar-name>.json and <path>/<grammar-name>-report.json, respectively.
//  2. When the path is a file path or a non-existent path, it is the path of the compiled grammar,
//     and the report is written to <grammar-name>-report.json in the same directory.
//  3. When the path is an empty string, the compiled grammar goes to stdout and the report to
//     <current-directory>/<grammar-name>-report.json.
func writeCompiledGrammarAndReport(cgram *specgrm.CompiledGrammar, report *specgrm.Report, path string) error {
	cgramPath, reportPath, err := makeOutputFilePaths(cgram.Name, path)
	if err != nil {
		return err
	}

	{
		var cgramW io.Writer
		if cgramPath != "" {
			cgramFile, err := os.OpenFile(cgramPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer cgramFile.Close()
			cgramW = cgramFile
		} else {
			cgramW = os.Stdout
		}

		b, err := json.Marshal(cgram)
		if err != nil {
			return err
		}
		fmt.Fprintf(cgramW, "%v\n", string(b))
	}

	{
		reportFile, err := os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer reportFile.Close()

		b, err := json.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(reportFile, "%v\n", string(b))
	}

	return nil
}

func makeOutputFilePaths(gramName string, path string) (string, string, error) {
	reportFileName := gramName + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, gramName+".json"), filepath.Join(path, reportFileName), nil
}
