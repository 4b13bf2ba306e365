package analysis

import "errors"

var (
	ErrMissingAirport = errors.New("missing airport code")
	ErrUnknownAirport = errors.New("unknown airport code")
	ErrSameAirport    = errors.New("origin and destination are the same")
)

// User-facing validation messages
const (
	MsgMissingAirport = "Enter both origin and destination before analyzing."
	MsgSameAirport    = "Origin and destination cannot be the same."
	MsgUnknownAirport = "Please select valid airport codes from the list."

	msgUnknownOrigin      = "Unknown origin airport code. Pick one from the list."
	msgUnknownDestination = "Unknown destination airport code. Pick one from the list."
	msgMustDiffer         = "Origin and destination must be different."
)

// ValidationError is a rejected input. Message is safe to show to the user and Err is one of
// the sentinel errors above.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, msg string) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}
