package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	spec "github.com/nihei9/lrcomb/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	table *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a report in a readable format",
		Example: `  lrcomb show grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.table = cmd.Flags().Bool("table", false, "render the symbols, the productions, and the conflicts as tables")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	if *showFlags.table {
		return renderReportTables(newReportFormatter(report))
	}
	return writeReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

type reportFormatter struct {
	report *spec.Report
}

func newReportFormatter(report *spec.Report) *reportFormatter {
	return &reportFormatter{
		report: report,
	}
}

func (f *reportFormatter) termName(sym int) string {
	if sym < 0 || sym >= len(f.report.Terminals) || f.report.Terminals[sym] == nil {
		return fmt.Sprintf("<t%v>", sym)
	}
	return f.report.Terminals[sym].Name
}

func (f *reportFormatter) termNames(syms []int) string {
	names := make([]string, len(syms))
	for i, sym := range syms {
		names[i] = f.termName(sym)
	}
	return strings.Join(names, ", ")
}

func (f *reportFormatter) nonTermName(sym int) string {
	return f.report.NonTerminals[sym].Name
}

// symbol formats an element of a production's RHS.
func (f *reportFormatter) symbol(e int) string {
	if e < 0 {
		return f.nonTermName(-e - 1)
	}
	return fmt.Sprintf("'%v'", f.termName(e))
}

func (f *reportFormatter) production(prod *spec.Production) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", f.nonTermName(prod.LHS))
	if len(prod.RHS) == 0 {
		fmt.Fprintf(&b, " ε")
	}
	for _, e := range prod.RHS {
		fmt.Fprintf(&b, " %v", f.symbol(e))
	}
	return b.String()
}

func (f *reportFormatter) item(item *spec.Item) string {
	prod := f.report.Productions[item.Production]

	var b strings.Builder
	fmt.Fprintf(&b, "%v →", f.nonTermName(prod.LHS))
	for i, e := range prod.RHS {
		if i == item.Dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", f.symbol(e))
	}
	if item.Dot >= len(prod.RHS) {
		fmt.Fprintf(&b, " ・")
	}
	fmt.Fprintf(&b, " [%v]", f.termNames(item.LookAhead))

	return fmt.Sprintf("%4v %v", prod.Number, b.String())
}

func (f *reportFormatter) conflictCount() (int, int) {
	var sr, rr int
	for _, s := range f.report.States {
		sr += len(s.SRConflict)
		rr += len(s.RRConflict)
	}
	return sr, rr
}

const reportTemplate = `# Conflicts

{{ printConflictSummary }}

# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ if .Accept -}}
accept on <eof>
{{ end -}}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	f := newReportFormatter(report)

	fns := template.FuncMap{
		"printConflictSummary": func() string {
			sr, rr := f.conflictCount()
			if sr == 0 && rr == 0 {
				return "No conflict"
			}
			return fmt.Sprintf("%v shift/reduce and %v reduce/reduce conflicts occurred and resolved implicitly.", sr, rr)
		},
		"printTerminal": func(term *spec.Terminal) string {
			if term == nil {
				return ""
			}
			if term.Pattern != "" {
				return fmt.Sprintf("%4v %v /%v/", term.Number, term.Name, term.Pattern)
			}
			return fmt.Sprintf("%4v %v", term.Number, term.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			return fmt.Sprintf("%4v %v", prod.Number, f.production(prod))
		},
		"printItem": f.item,
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, f.termName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, f.termNames(reduce.LookAhead))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, f.nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: shift %v adopted",
				sr.State, joinInts(sr.Productions), f.termName(sr.Symbol), sr.State)
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			return fmt.Sprintf("reduce/reduce conflict (%v) on %v: reduce %v adopted",
				joinInts(rr.Productions), f.termName(rr.Symbol), rr.AdoptedProduction)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}

func renderReportTables(f *reportFormatter) error {
	report := f.report

	pterm.DefaultSection.Printf("Grammar %v (%v states, merged by %v)\n", report.Name, len(report.States), report.MergeStrategy)

	terms := pterm.TableData{{"#", "Terminal", "Pattern"}}
	for _, t := range report.Terminals {
		if t == nil {
			continue
		}
		terms = append(terms, []string{fmt.Sprint(t.Number), t.Name, t.Pattern})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(terms).Render(); err != nil {
		return err
	}

	nonTerms := pterm.TableData{{"#", "Nonterminal", "Nullable", "FIRST", "FOLLOW"}}
	for _, n := range report.NonTerminals {
		nonTerms = append(nonTerms, []string{
			fmt.Sprint(n.Number),
			n.Name,
			fmt.Sprint(n.Nullable),
			f.termNames(n.First),
			f.termNames(n.Follow),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(nonTerms).Render(); err != nil {
		return err
	}

	prods := pterm.TableData{{"#", "Production", "Line"}}
	for _, p := range report.Productions {
		prods = append(prods, []string{fmt.Sprint(p.Number), f.production(p), fmt.Sprint(p.Row)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(prods).Render(); err != nil {
		return err
	}

	sr, rr := f.conflictCount()
	if sr == 0 && rr == 0 {
		pterm.Success.Println("No conflict")
		return nil
	}
	conflicts := pterm.TableData{{"State", "Kind", "On", "Productions", "Adopted"}}
	for _, s := range report.States {
		for _, c := range s.SRConflict {
			conflicts = append(conflicts, []string{
				fmt.Sprint(s.Number), "shift/reduce", f.termName(c.Symbol), joinInts(c.Productions), fmt.Sprintf("shift %v", c.State),
			})
		}
		for _, c := range s.RRConflict {
			conflicts = append(conflicts, []string{
				fmt.Sprint(s.Number), "reduce/reduce", f.termName(c.Symbol), joinInts(c.Productions), fmt.Sprintf("reduce %v", c.AdoptedProduction),
			})
		}
	}
	pterm.Warning.Printf("%v shift/reduce and %v reduce/reduce conflicts\n", sr, rr)
	return pterm.DefaultTable.WithHasHeader().WithData(conflicts).Render()
}

func joinInts(ns []int) string {
	s := make([]string, len(ns))
	for i, n := range ns {
		s[i] = fmt.Sprint(n)
	}
	return strings.Join(s, ", ")
}
