package attempts

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned when a 2xx response cannot be used.
var ErrMalformed = errors.New("attempts: malformed response")

// HTTPError is a non-2xx reply from the attempt service.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("attempts: http %d: %s", e.StatusCode, e.Body)
}

// Code extracts the service error code from the body, if it has one.
func (e *HTTPError) Code() string {
	return errorCode([]byte(e.Body))
}
