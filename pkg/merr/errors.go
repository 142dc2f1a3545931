// Package merr defines the typed error taxonomy the posting engine and
// its surrounding services raise, and the HTTP status/code each maps
// to (spec §6/§7). Domain errors are never bare strings: every failure
// a caller might branch on is one of the structs below.
package merr

import "fmt"

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeDuplicateIdempotencyConflict Code = "DUPLICATE_IDEMPOTENCY_CONFLICT"
	CodeInsufficientFunds            Code = "INSUFFICIENT_FUNDS"
	CodeUnbalancedJournal            Code = "UNBALANCED_JOURNAL"
	CodeCrossCurrencyNotAllowed      Code = "CROSS_CURRENCY_NOT_ALLOWED"
	CodeMissingRequiredField         Code = "MISSING_REQUIRED_FIELD"
	CodeNotFound                     Code = "NOT_FOUND"
	CodeInternalError                Code = "INTERNAL_ERROR"
	CodeIdempotencyInProgress        Code = "IDEMPOTENCY_IN_PROGRESS"
	CodeMakerCheckerConflict         Code = "MAKER_CHECKER_CONFLICT"
)

// httpStatus mirrors spec.md §6's code table.
var httpStatus = map[Code]int{
	CodeDuplicateIdempotencyConflict: 409,
	CodeInsufficientFunds:            409,
	CodeUnbalancedJournal:            422,
	CodeCrossCurrencyNotAllowed:      422,
	CodeMissingRequiredField:         400,
	CodeNotFound:                     404,
	CodeInternalError:                500,
	CodeIdempotencyInProgress:        409,
	CodeMakerCheckerConflict:         409,
}

// HTTPStatus returns the status code a Code maps to, defaulting to 500
// for anything not in the spec's table.
func HTTPStatus(c Code) int {
	if s, ok := httpStatus[c]; ok {
		return s
	}

	return 500
}

// DomainError is a deterministic, client-facing error produced by the
// posting engine or its neighboring services. It is never retried by
// the engine itself (spec §7).
type DomainError struct {
	Code          Code
	Name          string
	Message       string
	CorrelationID string
	Err           error
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return string(e.Code)
}

func (e *DomainError) Unwrap() error { return e.Err }

func newDomain(code Code, name, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Name: name, Message: fmt.Sprintf(format, args...)}
}

// DuplicateIdempotencyConflict: two commands share scope_hash but
// differ in payload_hash.
func DuplicateIdempotencyConflict(scopeHash string) *DomainError {
	return newDomain(CodeDuplicateIdempotencyConflict, "DuplicateIdempotencyConflict",
		"a command with a different payload already completed for idempotency scope %s", scopeHash)
}

// InsufficientFunds: balance plus overdraft limit cannot cover the
// aggregated debit for accountID.
func InsufficientFunds(accountID string, required, available int64) *DomainError {
	return newDomain(CodeInsufficientFunds, "InsufficientFunds",
		"account %s requires %d cents but only %d cents (including overdraft) are available", accountID, required, available)
}

// UnbalancedJournal: sum(DR) != sum(CR) across the command's entries.
func UnbalancedJournal(drTotal, crTotal int64) *DomainError {
	return newDomain(CodeUnbalancedJournal, "UnbalancedJournal",
		"debits (%d) do not equal credits (%d)", drTotal, crTotal)
}

// CrossCurrencyNotAllowed: entries reference more than one currency.
func CrossCurrencyNotAllowed() *DomainError {
	return newDomain(CodeCrossCurrencyNotAllowed, "CrossCurrencyNotAllowed",
		"all entries in a posting command must share one currency")
}

// MissingRequiredField: a required command field was empty.
func MissingRequiredField(field string) *DomainError {
	return newDomain(CodeMissingRequiredField, "MissingRequiredField",
		"field %q is required", field)
}

// NotFound: the referenced entity does not exist.
func NotFound(entityType, id string) *DomainError {
	return newDomain(CodeNotFound, "NotFound", "%s %s not found", entityType, id)
}

// IdempotencyInProgress: a concurrent call already holds the scope
// lock with no completed result yet.
func IdempotencyInProgress(scopeHash string) *DomainError {
	return newDomain(CodeIdempotencyInProgress, "IdempotencyInProgress",
		"a posting for idempotency scope %s is already in progress", scopeHash)
}

// MakerCheckerConflict: a checker attempted to decide a request they
// themselves made (spec §4.11's checker != maker invariant).
func MakerCheckerConflict(staffID string) *DomainError {
	return newDomain(CodeMakerCheckerConflict, "MakerCheckerConflict",
		"staff %s cannot check their own request", staffID)
}

// Internal wraps an unexpected error as a 500, preserving the
// underlying message per spec §7 ("unknown errors escape as
// INTERNAL_ERROR with the message preserved").
func Internal(err error) *DomainError {
	return &DomainError{
		Code:    CodeInternalError,
		Name:    "InternalError",
		Message: err.Error(),
		Err:     err,
	}
}
