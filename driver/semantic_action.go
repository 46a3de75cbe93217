package driver

import (
	"fmt"
	"io"
	"strings"
)

type SemanticActionSet interface {
	// Shift runs when the driver shifts a symbol onto the state stack. `tok` is a token corresponding to
	// the symbol.
	Shift(tok VToken)

	// Reduce runs when the driver reduces an RHS of a production to its LHS. `prodNum` is a number of
	// the production.
	Reduce(prodNum int)

	// Accept runs when the driver accepts an input.
	Accept()

	// MissError runs when the driver meets a syntax error. `cause` is a token that caused the error.
	MissError(cause VToken)
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// syntheticPrefix starts the names of nonterminals generated for repetitions.
const syntheticPrefix = "$"

type SyntaxTreeActionSet struct {
	gram      Grammar
	inline    bool
	tree      *Node
	semStack  *semanticStack
	errCaused bool
}

// NewSyntaxTreeActionSet returns actions building a concrete syntax tree. When inline is true,
// nodes of synthetic nonterminals are replaced by their children, so a repetition shows up as
// a flat list under the node that contains it.
func NewSyntaxTreeActionSet(gram Grammar, inline bool) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram:     gram,
		inline:   inline,
		semStack: newSemanticStack(),
	}
}

func (a *SyntaxTreeActionSet) Shift(tok VToken) {
	row, col := tok.Position()
	a.semStack.push(&Node{
		KindName: a.gram.Terminal(tok.TerminalID()),
		Text:     string(tok.Lexeme()),
		Row:      row,
		Col:      col,
	})
}

func (a *SyntaxTreeActionSet) Reduce(prodNum int) {
	a.semStack.push(a.reduce(prodNum))
}

func (a *SyntaxTreeActionSet) reduce(prodNum int) *Node {
	lhs := a.gram.NonTerminal(a.gram.LHS(prodNum))

	// When an alternative is empty, `n` will be 0, and `handle` will be empty slice.
	n := a.gram.AlternativeSymbolCount(prodNum)
	handle := a.semStack.pop(n)

	children := make([]*Node, 0, len(handle))
	for _, c := range handle {
		if a.inline && strings.HasPrefix(c.KindName, syntheticPrefix) {
			children = append(children, c.Children...)
			continue
		}
		children = append(children, c)
	}

	node := &Node{
		KindName: lhs,
		Children: children,
	}
	if len(children) > 0 {
		node.Row = children[0].Row
		node.Col = children[0].Col
	}
	return node
}

// Accept takes the node of the goal's body as the tree when the body is a single symbol, and
// a node of the goal otherwise.
func (a *SyntaxTreeActionSet) Accept() {
	goal := a.gram.GoalRule()
	if a.gram.AlternativeSymbolCount(goal) == 1 {
		a.tree = a.semStack.pop(1)[0]
		return
	}
	a.tree = a.reduce(goal)
}

func (a *SyntaxTreeActionSet) MissError(cause VToken) {
	a.errCaused = true
}

// Tree returns the syntax tree. It is nil unless the input was accepted.
func (a *SyntaxTreeActionSet) Tree() *Node {
	if a.errCaused {
		return nil
	}
	return a.tree
}

type semanticStack struct {
	frames []*Node
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(f *Node) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) pop(n int) []*Node {
	fs := make([]*Node, n)
	copy(fs, s.frames[len(s.frames)-n:])
	s.frames = s.frames[:len(s.frames)-n]

	return fs
}
