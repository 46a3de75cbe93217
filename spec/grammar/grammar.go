package grammar

import (
	"github.com/nihei9/lrcomb/compressor"
	mlspec "github.com/nihei9/maleeni/spec"
)

// CompiledGrammar is the portable form of a parse table, written as JSON by `lrcomb compile`.
type CompiledGrammar struct {
	Name                 string                `json:"name"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification,omitempty"`
	ParsingTable         *ParsingTable         `json:"parsing_table"`
}

type LexicalSpecification struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	TerminalToKind []int                   `json:"terminal_to_kind"`
	Skip           []int                   `json:"skip"`
}

// ParsingTable holds dense action and goto matrices indexed by state*TerminalCount+terminal
// and state*NonTerminalCount+nonterminal respectively.
//
// An action entry is 0 for an error, -s for a shift to state s, and r+1 for a reduce by
// rule r. Reducing GoalRule accepts the input. A goto entry is 0 when there is no
// transition and s+1 for a transition to state s.
//
// When the table is compressed, Action and GoTo are nil and the packed CompressedAction and
// CompressedGoTo hold the same entries.
type ParsingTable struct {
	Action                  []int             `json:"action,omitempty"`
	GoTo                    []int             `json:"goto,omitempty"`
	CompressedAction        *compressor.Table `json:"compressed_action,omitempty"`
	CompressedGoTo          *compressor.Table `json:"compressed_goto,omitempty"`
	StateCount              int               `json:"state_count"`
	InitialState            int               `json:"initial_state"`
	GoalRule                int               `json:"goal_rule"`
	LHSSymbols              []int             `json:"lhs_symbols"`
	AlternativeSymbolCounts []int             `json:"alternative_symbol_counts"`
	Terminals               []string          `json:"terminals"`
	TerminalCount           int               `json:"terminal_count"`
	NonTerminals            []string          `json:"non_terminals"`
	NonTerminalCount        int               `json:"non_terminal_count"`
	EOFSymbol               int               `json:"eof_symbol"`
	MergeStrategy           string            `json:"merge_strategy"`
}
