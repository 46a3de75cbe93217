package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrUnclosedTerminal = newSyntaxError("unclosed terminal")
	synErrEmptyTerminal    = newSyntaxError("a terminal must have a non-empty description")
	synErrInvalidEscSeq    = newSyntaxError("invalid escape sequence")
	synErrInvalidChar      = newSyntaxError("invalid character")

	// syntax errors
	synErrNoProduction     = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName = newSyntaxError("a production name is missing")
	synErrNoColon          = newSyntaxError("the colon must follow a production name")
	synErrNoBody           = newSyntaxError("a production needs at least one body line")
	synErrUnexpectedToken  = newSyntaxError("unexpected token")
	synErrUnclosedGroup    = newSyntaxError("unclosed group")
	synErrDanglingOperator = newSyntaxError("an operator needs an operand")
	synErrUnknownTerminal  = newSyntaxError("terminal is not a member of the alphabet")
)
