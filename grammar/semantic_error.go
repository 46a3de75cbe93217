package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrSealedGrammar    = newSemanticError("rules cannot be added to a validated grammar")
	semErrEmptyName        = newSemanticError("a nonterminal name must be a non-empty string")
	semErrReservedName     = newSemanticError("names starting with '$' are reserved for generated nonterminals")
	semErrUnknownTerminal  = newSemanticError("terminal is not a member of the alphabet")
	semErrEOFInBody        = newSemanticError("the end-of-input terminal cannot appear in a rule body")
	semErrEmptyAlternation = newSemanticError("an alternation needs at least one alternative")
	semErrEmptyRepetition  = newSemanticError("a repetition needs a non-empty body")
	semErrInvalidPart      = newSemanticError("invalid rule part")
	semErrUndefinedSym     = newSemanticError("undefined symbol")
	semErrNoGoal           = newSemanticError("goal production is missing")
	semErrDuplicateGoal    = newSemanticError("goal must have exactly one production")
	semErrEmptyGoal        = newSemanticError("goal production must not be empty")
	semErrGoalInBody       = newSemanticError("goal cannot appear in a rule body")
)

// Errors that can be tested with errors.Is against the error returned by Grammar.Validate.
var (
	ErrUndefinedSymbol = semErrUndefinedSym
	ErrNoGoal          = semErrNoGoal
	ErrDuplicateGoal   = semErrDuplicateGoal
	ErrEmptyGoal       = semErrEmptyGoal
	ErrGoalInBody      = semErrGoalInBody
)
