package domain

// Rule identifies which construction rule a ValidationError violated.
type Rule string

const (
	RuleMissingField        Rule = "missing_field"
	RuleWrongType           Rule = "wrong_type"
	RuleInvalidValue        Rule = "invalid_value"
	RuleMissingCategory     Rule = "missing_category"
	RuleConflictingCategory Rule = "conflicting_category"
)

// ValidationError reports why a FinancialDocument could not be constructed.
type ValidationError struct {
	Field  string
	Rule   Rule
	Reason string
}

func newValidationError(field string, rule Rule, reason string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Reason: reason}
}

// Error implements the error interface, e.g. "incomeCategory must not be set for Expense transactions".
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}
