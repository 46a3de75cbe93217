package grammar

type Terminal struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Pattern string `json:"pattern,omitempty"`
}

type NonTerminal struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Synthetic bool   `json:"synthetic"`
	Nullable  bool   `json:"nullable"`
	First     []int  `json:"first"`
	Follow    []int  `json:"follow"`
}

// Production is a rule. Elements of RHS are terminal numbers when positive and negated
// nonterminal numbers minus one when negative.
type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
	Row    int   `json:"row,omitempty"`
}

type Item struct {
	Production int   `json:"production"`
	Dot        int   `json:"dot"`
	LookAhead  []int `json:"look_ahead"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type SRConflict struct {
	Symbol      int   `json:"symbol"`
	State       int   `json:"state"`
	Productions []int `json:"productions"`
}

type RRConflict struct {
	Symbol            int   `json:"symbol"`
	Productions       []int `json:"productions"`
	AdoptedProduction int   `json:"adopted_production"`
}

type State struct {
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	GoTo       []*Transition `json:"goto"`
	Accept     bool          `json:"accept"`
	SRConflict []*SRConflict `json:"sr_conflict"`
	RRConflict []*RRConflict `json:"rr_conflict"`
}

type Report struct {
	Name          string         `json:"name"`
	MergeStrategy string         `json:"merge_strategy"`
	Terminals     []*Terminal    `json:"terminals"`
	NonTerminals  []*NonTerminal `json:"non_terminals"`
	Productions   []*Production  `json:"productions"`
	States        []*State       `json:"states"`
}
