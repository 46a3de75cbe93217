package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	verr "github.com/nihei9/lrcomb/error"
	"github.com/npillmayer/schuko/tracing"
)

const (
	defaultGoal = Nonterminal("Goal")

	// Synthetic nonterminals start with `$`, which user-defined names cannot.
	syntheticPrefix = "$"
)

type grammarConfig struct {
	goal Nonterminal
	sink DiagnosticSink
}

type GrammarOption func(config *grammarConfig)

// WithGoal changes the name of the entry nonterminal. The default is `Goal`.
func WithGoal(name string) GrammarOption {
	return func(config *grammarConfig) {
		config.goal = Nonterminal(name)
	}
}

// WithDiagnosticSink sets the receiver of warnings and errors. The default sink writes to
// the 'lrcomb.grammar' tracer.
func WithDiagnosticSink(sink DiagnosticSink) GrammarOption {
	return func(config *grammarConfig) {
		config.sink = sink
	}
}

// Grammar is a set of flattened rules over an Alphabet. A Grammar accepts rules until
// Validate succeeds; from then on it is read-only.
type Grammar struct {
	alphabet *Alphabet
	goal     Nonterminal
	sink     DiagnosticSink

	rules   []*Rule
	id2Rule map[productionID]*Rule

	// colls maps a nonterminal name to its *RuleCollection in name order.
	colls *treemap.Map

	// repeats maps the structural key of a repetition body to the synthetic nonterminal
	// lowering it.
	repeats   map[string]Nonterminal
	synthetic map[Nonterminal]struct{}
	synthNum  int

	validated bool
	analyzed  bool
}

func NewGrammar(alphabet *Alphabet, opts ...GrammarOption) *Grammar {
	config := &grammarConfig{
		goal: defaultGoal,
		sink: TracingSink{},
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Grammar{
		alphabet:  alphabet,
		goal:      config.goal,
		sink:      config.sink,
		id2Rule:   map[productionID]*Rule{},
		colls:     treemap.NewWithStringComparator(),
		repeats:   map[string]Nonterminal{},
		synthetic: map[Nonterminal]struct{}{},
	}
}

func (g *Grammar) Alphabet() *Alphabet {
	return g.alphabet
}

func (g *Grammar) Goal() Nonterminal {
	return g.goal
}

// Rules returns all rules ordered by ID.
func (g *Grammar) Rules() []*Rule {
	rules := make([]*Rule, len(g.rules))
	copy(rules, g.rules)
	return rules
}

func (g *Grammar) Rule(id int) (*Rule, bool) {
	if id < 0 || id >= len(g.rules) {
		return nil, false
	}
	return g.rules[id], true
}

func (g *Grammar) Collection(name Nonterminal) (*RuleCollection, bool) {
	v, ok := g.colls.Get(string(name))
	if !ok {
		return nil, false
	}
	return v.(*RuleCollection), true
}

// Nonterminals returns the names of all nonterminals having rules, in name order.
func (g *Grammar) Nonterminals() []Nonterminal {
	keys := g.colls.Keys()
	names := make([]Nonterminal, len(keys))
	for i, k := range keys {
		names[i] = Nonterminal(k.(string))
	}
	return names
}

// IsSynthetic reports whether name was generated to lower a repetition.
func (g *Grammar) IsSynthetic(name Nonterminal) bool {
	_, ok := g.synthetic[name]
	return ok
}

func (g *Grammar) FormatRule(r *Rule) string {
	return r.format(g.alphabet)
}

// AddRule registers the productions described by parts under name.
func (g *Grammar) AddRule(name string, parts ...Part) error {
	return g.AddRuleAt(Position{}, name, parts...)
}

// AddRuleAt is like AddRule but records the source position of the rule for diagnostics.
func (g *Grammar) AddRuleAt(pos Position, name string, parts ...Part) error {
	specErr := func(cause error, detail string) error {
		return &verr.SpecError{
			Cause:  cause,
			Detail: detail,
			Row:    pos.Row,
			Col:    pos.Col,
		}
	}

	if g.validated {
		return specErr(semErrSealedGrammar, name)
	}
	if name == "" {
		return specErr(semErrEmptyName, "")
	}
	if strings.HasPrefix(name, syntheticPrefix) {
		return specErr(semErrReservedName, name)
	}
	for _, p := range parts {
		if detail, cause := g.checkPart(p); cause != nil {
			return specErr(cause, detail)
		}
	}

	seqs := []splitSeq{{}}
	for _, p := range parts {
		seqs = g.split(seqs, p, pos)
	}
	lhs := Nonterminal(name)
	for _, seq := range seqs {
		g.addProduction(lhs, seq.collapse(), pos)
	}

	return nil
}

func (g *Grammar) checkPart(p Part) (string, error) {
	switch p := p.(type) {
	case Terminal:
		if p == TerminalEOF {
			return "", semErrEOFInBody
		}
		if !g.alphabet.contains(p) {
			return fmt.Sprintf("terminal #%v", int(p)), semErrUnknownTerminal
		}
	case Nonterminal:
		if p == "" {
			return "", semErrEmptyName
		}
	case *sequencePart:
		for _, c := range p.parts {
			if detail, cause := g.checkPart(c); cause != nil {
				return detail, cause
			}
		}
	case *oneOfPart:
		if len(p.alts) == 0 {
			return "", semErrEmptyAlternation
		}
		for _, c := range p.alts {
			if detail, cause := g.checkPart(c); cause != nil {
				return detail, cause
			}
		}
	case *optionalPart:
		return g.checkPart(p.body)
	case *repeatPart:
		if seq, ok := p.body.(*sequencePart); ok && len(seq.parts) == 0 {
			return "", semErrEmptyRepetition
		}
		return g.checkPart(p.body)
	default:
		return fmt.Sprintf("%T", p), semErrInvalidPart
	}
	return "", nil
}

type splitSym struct {
	sym SimplePart

	// optRepeat marks a reference to a repetition that may also be absent, as produced
	// by ZeroOrMore.
	optRepeat bool
}

type splitSeq []splitSym

// collapse drops a ZeroOrMore reference that directly follows a reference to the same
// ZeroOrMore. X* X* derives the same strings as X*, and keeping both makes the grammar
// ambiguous.
func (s splitSeq) collapse() []SimplePart {
	syms := make([]SimplePart, 0, len(s))
	for i, e := range s {
		if i > 0 && e.optRepeat && s[i-1].optRepeat && e.sym == s[i-1].sym {
			continue
		}
		syms = append(syms, e.sym)
	}
	return syms
}

func appendSym(seqs []splitSeq, sym splitSym) []splitSeq {
	out := make([]splitSeq, len(seqs))
	for i, s := range seqs {
		ns := make(splitSeq, len(s), len(s)+1)
		copy(ns, s)
		out[i] = append(ns, sym)
	}
	return out
}

// split expands p into every in-progress sequence. seqs is never modified.
func (g *Grammar) split(seqs []splitSeq, p Part, pos Position) []splitSeq {
	switch p := p.(type) {
	case Terminal:
		return appendSym(seqs, splitSym{sym: p})
	case Nonterminal:
		return appendSym(seqs, splitSym{sym: p})
	case *sequencePart:
		for _, c := range p.parts {
			seqs = g.split(seqs, c, pos)
		}
		return seqs
	case *oneOfPart:
		var out []splitSeq
		for _, s := range seqs {
			for _, alt := range p.alts {
				out = append(out, g.split([]splitSeq{s}, alt, pos)...)
			}
		}
		return out
	case *optionalPart:
		var with []splitSeq
		if rep, ok := p.body.(*repeatPart); ok {
			with = appendSym(seqs, splitSym{
				sym:       g.lowerRepeat(rep, pos),
				optRepeat: true,
			})
		} else {
			with = g.split(seqs, p.body, pos)
		}
		return append(with, seqs...)
	case *repeatPart:
		return appendSym(seqs, splitSym{sym: g.lowerRepeat(p, pos)})
	}
	return seqs
}

// lowerRepeat returns the nonterminal N deriving one or more p, registering N → p and
// N → N p the first time a structurally equal body is seen.
func (g *Grammar) lowerRepeat(p *repeatPart, pos Position) Nonterminal {
	k := p.body.key()
	if n, ok := g.repeats[k]; ok {
		return n
	}

	n := g.newSyntheticName()
	g.repeats[k] = n
	g.synthetic[n] = struct{}{}
	tracer().Debugf("%v lowers %v", n, k)

	bodies := g.split([]splitSeq{{}}, p.body, pos)
	for _, b := range bodies {
		g.addProduction(n, b.collapse(), pos)
	}
	for _, b := range bodies {
		body := b.collapse()
		if len(body) == 0 {
			continue
		}
		g.addProduction(n, append([]SimplePart{n}, body...), pos)
	}

	return n
}

func (g *Grammar) newSyntheticName() Nonterminal {
	for {
		g.synthNum++
		n := Nonterminal(fmt.Sprintf("%vrep%v", syntheticPrefix, g.synthNum))
		if _, ok := g.Collection(n); !ok {
			return n
		}
	}
}

func (g *Grammar) addProduction(lhs Nonterminal, rhs []SimplePart, pos Position) bool {
	id := genProductionID(lhs, rhs)
	if _, ok := g.id2Rule[id]; ok {
		return false
	}

	r := &Rule{
		ID:    len(g.rules),
		Name:  lhs,
		Parts: rhs,
		Pos:   pos,
		id:    id,
	}
	g.rules = append(g.rules, r)
	g.id2Rule[id] = r

	coll, ok := g.Collection(lhs)
	if !ok {
		coll = newRuleCollection(lhs, g.alphabet.Size())
		g.colls.Put(string(lhs), coll)
	}
	coll.rules = append(coll.rules, r)

	tracer().Debugf("rule #%v: %v", r.ID, r.format(g.alphabet))

	return true
}

// Validate checks that every referenced nonterminal has rules and that the goal has exactly
// one non-empty production. Empty productions and unreachable nonterminals are reported as
// warnings. After a successful validation no rules can be added.
func (g *Grammar) Validate() error {
	if g.validated {
		return nil
	}

	var errs verr.SpecErrors
	addErr := func(cause error, detail string, pos Position) {
		errs = append(errs, &verr.SpecError{
			Cause:  cause,
			Detail: detail,
			Row:    pos.Row,
			Col:    pos.Col,
		})
	}

	undefined := map[Nonterminal]struct{}{}
	for _, r := range g.rules {
		for _, p := range r.Parts {
			n, ok := p.(Nonterminal)
			if !ok {
				continue
			}
			if n == g.goal {
				addErr(semErrGoalInBody, r.format(g.alphabet), r.Pos)
				continue
			}
			if _, ok := g.Collection(n); ok {
				continue
			}
			if _, ok := undefined[n]; ok {
				continue
			}
			undefined[n] = struct{}{}
			addErr(semErrUndefinedSym, string(n), r.Pos)
		}
	}

	goal, ok := g.Collection(g.goal)
	switch {
	case !ok:
		addErr(semErrNoGoal, string(g.goal), Position{})
	case len(goal.rules) != 1:
		addErr(semErrDuplicateGoal, fmt.Sprintf("%v has %v productions", g.goal, len(goal.rules)), goal.rules[1].Pos)
	case goal.rules[0].IsEmpty():
		addErr(semErrEmptyGoal, string(g.goal), goal.rules[0].Pos)
	}

	if len(errs) > 0 {
		for _, err := range errs {
			g.sink.Emit(Diagnostic{
				Severity: SeverityError,
				Position: Position{Row: err.Row, Col: err.Col},
				Message:  fmt.Sprintf("%v: %v", err.Cause, err.Detail),
			})
		}
		return errs
	}

	for _, r := range g.rules {
		if !r.IsEmpty() {
			continue
		}
		g.sink.Emit(Diagnostic{
			Severity: SeverityWarning,
			Position: r.Pos,
			Message:  fmt.Sprintf("empty production: %v", r.format(g.alphabet)),
		})
	}

	reachable := g.reachableNonterminals()
	for _, n := range g.Nonterminals() {
		if _, ok := reachable[n]; ok {
			continue
		}
		coll, _ := g.Collection(n)
		g.sink.Emit(Diagnostic{
			Severity: SeverityWarning,
			Position: coll.rules[0].Pos,
			Message:  fmt.Sprintf("unreachable nonterminal: %v", n),
		})
	}

	g.validated = true

	return nil
}

func (g *Grammar) reachableNonterminals() map[Nonterminal]struct{} {
	reached := map[Nonterminal]struct{}{
		g.goal: {},
	}
	stack := []Nonterminal{g.goal}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		coll, ok := g.Collection(n)
		if !ok {
			continue
		}
		for _, r := range coll.rules {
			for _, p := range r.Parts {
				m, ok := p.(Nonterminal)
				if !ok {
					continue
				}
				if _, ok := reached[m]; ok {
					continue
				}
				reached[m] = struct{}{}
				stack = append(stack, m)
			}
		}
	}
	return reached
}

// Analyze computes nullable flags, FIRST sets, and FOLLOW sets, validating the grammar
// first when necessary. Running it again leaves every set unchanged.
func (g *Grammar) Analyze() error {
	if err := g.Validate(); err != nil {
		return err
	}

	genNullable(g)
	genFirstSet(g)
	genFollowSet(g)
	g.analyzed = true

	if tracer().GetTraceLevel() == tracing.LevelDebug {
		for _, n := range g.Nonterminals() {
			coll, _ := g.Collection(n)
			tracer().Debugf("%v: nullable=%v FIRST=%v FOLLOW=%v", n, coll.nullable, coll.first.format(g.alphabet), coll.follow.format(g.alphabet))
		}
	}

	return nil
}

func (g *Grammar) goalRule() *Rule {
	coll, _ := g.Collection(g.goal)
	return coll.rules[0]
}

func (g *Grammar) mustCollection(name Nonterminal) *RuleCollection {
	coll, ok := g.Collection(name)
	if !ok {
		panic(fmt.Errorf("a rule collection was not found; nonterminal: %v", name))
	}
	return coll
}
