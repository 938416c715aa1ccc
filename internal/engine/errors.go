package engine

import "errors"

// Error taxonomy raised synchronously by engine methods. Callers translate
// these into their own protocol (HTTP status codes, exit codes).
var (
	// ErrDefinitionNotFound is returned when a definition lookup fails or
	// matches an inactive definition during instance creation.
	ErrDefinitionNotFound = errors.New("workflow definition not found or inactive")

	// ErrInstanceNotFound is returned when an instance lookup fails.
	ErrInstanceNotFound = errors.New("workflow instance not found")

	// ErrNotActive is returned when advancing an instance whose status is
	// not active (completed, paused or cancelled).
	ErrNotActive = errors.New("workflow instance is not active")

	// ErrActionNotAvailable is returned when the requested action has no
	// transition leaving the instance's current state.
	ErrActionNotAvailable = errors.New("action not available from current state")

	// ErrInvalidID is returned when an identifier is not a well-formed UUID,
	// before any lookup is attempted.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrInvalidDefinition is returned when a definition fails structural
	// validation at save time.
	ErrInvalidDefinition = errors.New("invalid workflow definition")

	// errTransitionNotAllowed is raised by the state machine and translated
	// to ErrActionNotAvailable by the engine.
	errTransitionNotAllowed = errors.New("transition not allowed")
)
