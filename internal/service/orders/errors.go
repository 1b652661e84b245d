package orders

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrLessonsNotFound = errors.New("one or more lesson IDs not found")
)

// ValidationError describes a rejected order payload. It maps to a 400 at
// the transport layer.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func missingField(name string) ValidationError {
	return ValidationError{
		Field: name,
		Msg:   fmt.Sprintf("missing required field: %s", name),
	}
}

type RateLimitedError struct {
	RetryAfter string
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}
