package services

import "fmt"

type ErrorKind int

const (
	// KindValidation covers malformed or missing input.
	KindValidation ErrorKind = iota
	// KindEligibility covers zone and restaurant-status mismatches.
	KindEligibility
	// KindNotFound covers missing entities.
	KindNotFound
	// KindConflict covers state-machine violations and ledger conflicts.
	KindConflict
	// KindUpstream covers collaborator failures that abort the operation.
	KindUpstream
	// KindInternal covers everything else.
	KindInternal
)

// Error is the domain error carried from services up to the HTTP layer,
// which maps Kind to a status code.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationErr(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func eligibilityErr(format string, args ...any) *Error {
	return &Error{Kind: KindEligibility, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictErr(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func upstreamErr(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

func internalErr(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
