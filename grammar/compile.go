package grammar

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/lrcomb/compressor"
	spec "github.com/nihei9/lrcomb/spec/grammar"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

const defaultLexSpecName = "lrcomb"

// LexicalEntry tells the lexer how to recognize a terminal or a skipped lexeme.
type LexicalEntry struct {
	// Name is the description of a terminal, or any name for a skipped lexeme.
	Name string

	// Pattern is a maleeni regular expression. When empty, Name is matched literally.
	Pattern string

	// Skip marks lexemes the lexer discards, such as white spaces and comments.
	Skip bool
}

type LexicalSpec struct {
	Name    string
	Entries []*LexicalEntry
}

type compileConfig struct {
	compress bool
}

type CompileOption func(config *compileConfig)

// WithTableCompression packs the action and goto matrices by row displacement.
func WithTableCompression() CompileOption {
	return func(config *compileConfig) {
		config.compress = true
	}
}

// Compile encodes tab in the portable format. When lex is non-nil, the lexical specification
// is compiled with maleeni and embedded; terminals without an entry are matched literally.
func Compile(tab *StateTable, lex *LexicalSpec, opts ...CompileOption) (*spec.CompiledGrammar, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	a := tab.Alphabet()
	nonTerms := tab.grammar.Nonterminals()
	nonTermNums := make(map[Nonterminal]int, len(nonTerms))
	nonTermTexts := make([]string, len(nonTerms))
	for i, n := range nonTerms {
		nonTermNums[n] = i
		nonTermTexts[i] = string(n)
	}

	termCount := a.Size()
	action := make([]int, tab.StateCount()*termCount)
	goTo := make([]int, tab.StateCount()*len(nonTerms))
	for state, row := range tab.rows {
		for term, act := range row.Actions {
			action[state*termCount+int(term)] = int(act.entry())
		}
		for n, next := range row.Gotos {
			goTo[state*len(nonTerms)+nonTermNums[n]] = int(newGoToEntry(next))
		}
	}

	rules := tab.grammar.rules
	lhsSyms := make([]int, len(rules))
	altSymCounts := make([]int, len(rules))
	for _, r := range rules {
		lhsSyms[r.ID] = nonTermNums[r.Name]
		altSymCounts[r.ID] = r.Len()
	}

	terms := make([]string, termCount)
	for _, t := range a.Terminals() {
		terms[t] = a.Name(t)
	}

	name := defaultLexSpecName
	var lexSpec *spec.LexicalSpecification
	if lex != nil {
		if lex.Name != "" {
			name = lex.Name
		}
		var err error
		lexSpec, err = compileLexicalSpec(a, name, lex)
		if err != nil {
			return nil, err
		}
	}

	pt := &spec.ParsingTable{
		Action:                  action,
		GoTo:                    goTo,
		StateCount:              tab.StateCount(),
		InitialState:            tab.InitialState(),
		GoalRule:                tab.GoalRule(),
		LHSSymbols:              lhsSyms,
		AlternativeSymbolCounts: altSymCounts,
		Terminals:               terms,
		TerminalCount:           termCount,
		NonTerminals:            nonTermTexts,
		NonTerminalCount:        len(nonTerms),
		EOFSymbol:               int(TerminalEOF),
		MergeStrategy:           tab.MergeStrategy().String(),
	}
	if config.compress {
		var err error
		pt.CompressedAction, err = compressTable(action, termCount)
		if err != nil {
			return nil, err
		}
		pt.CompressedGoTo, err = compressTable(goTo, len(nonTerms))
		if err != nil {
			return nil, err
		}
		pt.Action = nil
		pt.GoTo = nil
		tracer().Infof("compressed the action table to %.2f and the goto table to %.2f of the dense size",
			pt.CompressedAction.Ratio(), pt.CompressedGoTo.Ratio())
	}

	return &spec.CompiledGrammar{
		Name:                 name,
		LexicalSpecification: lexSpec,
		ParsingTable:         pt,
	}, nil
}

func compressTable(entries []int, cols int) (*compressor.Table, error) {
	d, err := compressor.NewDense(entries, cols)
	if err != nil {
		return nil, err
	}
	return compressor.Compress(d, 0), nil
}

func compileLexicalSpec(a *Alphabet, name string, lex *LexicalSpec) (*spec.LexicalSpecification, error) {
	patterns := map[Terminal]string{}
	var skips []*LexicalEntry
	for _, e := range lex.Entries {
		if e.Skip {
			if e.Pattern == "" {
				return nil, fmt.Errorf("a skipped lexeme needs a pattern: %v", e.Name)
			}
			skips = append(skips, e)
			continue
		}
		t, ok := a.Lookup(e.Name)
		if !ok {
			return nil, fmt.Errorf("a lexical entry refers to an unknown terminal: %v", e.Name)
		}
		if _, ok := patterns[t]; ok {
			return nil, fmt.Errorf("duplicate lexical entry: %v", e.Name)
		}
		patterns[t] = e.Pattern
	}

	// maleeni kind names must be identifiers, so the kinds are named after terminal numbers.
	kind2Term := map[mlspec.LexKindName]Terminal{}
	skipKinds := map[mlspec.LexKindName]struct{}{}
	mlSpec := &mlspec.LexSpec{
		Name: name,
	}
	for _, t := range a.Terminals() {
		if t == TerminalEOF {
			continue
		}
		pat := patterns[t]
		if pat == "" {
			pat = escapePattern(a.Name(t))
		}
		kind := mlspec.LexKindName(fmt.Sprintf("t_%v", int(t)))
		kind2Term[kind] = t
		mlSpec.Entries = append(mlSpec.Entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(pat),
		})
	}
	for i, e := range skips {
		kind := mlspec.LexKindName(fmt.Sprintf("s_%v", i+1))
		skipKinds[kind] = struct{}{}
		mlSpec.Entries = append(mlSpec.Entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(e.Pattern),
		})
	}

	clspec, err, cErrs := mlcompiler.Compile(mlSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}

	kindToTerm := make([]int, len(clspec.KindNames))
	termToKind := make([]int, a.Size())
	skip := make([]int, len(clspec.KindNames))
	for i, k := range clspec.KindNames {
		if k == mlspec.LexKindNameNil {
			continue
		}
		if _, ok := skipKinds[k]; ok {
			skip[i] = 1
			continue
		}
		t, ok := kind2Term[k]
		if !ok {
			return nil, fmt.Errorf("a lexical kind was not found in the alphabet: %v", k)
		}
		kindToTerm[i] = int(t)
		termToKind[t] = i
	}

	return &spec.LexicalSpecification{
		Lexer: "maleeni",
		Maleeni: &spec.Maleeni{
			Spec:           clspec,
			KindToTerminal: kindToTerm,
			TerminalToKind: termToKind,
			Skip:           skip,
		},
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

var patternReplacer = strings.NewReplacer(
	`.`, `\.`,
	`*`, `\*`,
	`+`, `\+`,
	`?`, `\?`,
	`|`, `\|`,
	`(`, `\(`,
	`)`, `\)`,
	`[`, `\[`,
	`\`, `\\`,
)

// escapePattern makes a pattern matching s literally.
func escapePattern(s string) string {
	return patternReplacer.Replace(s)
}
