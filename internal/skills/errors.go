package skills

import "errors"

// ValidationError is a malformed caller input; Message is safe to return verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var ErrTxNotFound = errors.New("transaction not found")

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	errInvalidAddress = &ValidationError{Message: "Invalid Ethereum address"}
	errInvalidHash    = &ValidationError{Message: "Invalid transaction hash"}
)
