package grammar

import (
	"fmt"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Position is a location in a grammar source. The zero value means the position is unknown.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	if p.Col == 0 {
		return fmt.Sprintf("%v", p.Row)
	}
	return fmt.Sprintf("%v:%v", p.Row, p.Col)
}

type Diagnostic struct {
	Severity Severity
	Position Position
	Message  string
}

func (d Diagnostic) String() string {
	if d.Position.Row == 0 {
		return fmt.Sprintf("%v: %v", d.Severity, d.Message)
	}
	return fmt.Sprintf("%v: %v: %v", d.Position, d.Severity, d.Message)
}

// DiagnosticSink receives warnings, conflicts, and validation failures found while
// building a grammar and its table.
type DiagnosticSink interface {
	Emit(d Diagnostic)
}

// DiagnosticSinkFunc adapts a function to a DiagnosticSink.
type DiagnosticSinkFunc func(d Diagnostic)

func (f DiagnosticSinkFunc) Emit(d Diagnostic) {
	f(d)
}

// TracingSink writes diagnostics to the 'lrcomb.grammar' tracer.
type TracingSink struct{}

func (TracingSink) Emit(d Diagnostic) {
	switch d.Severity {
	case SeverityError:
		tracer().Errorf("%v", d)
	default:
		tracer().Infof("%v", d)
	}
}

// CollectingSink keeps every diagnostic it receives.
type CollectingSink struct {
	Diagnostics []Diagnostic
}

func (s *CollectingSink) Emit(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}

func (s *CollectingSink) Filter(sev Severity) []Diagnostic {
	var ds []Diagnostic
	for _, d := range s.Diagnostics {
		if d.Severity == sev {
			ds = append(ds, d)
		}
	}
	return ds
}
