package client

import "github.com/pkg/errors"

// ErrTransport covers network failures, malformed bodies and non-2xx
// responses that carry no decodable error message.
var ErrTransport = errors.New("backend unavailable")

// APIError is a non-2xx response from /recommend. Reported is true when the
// backend supplied the message itself; otherwise Message is the generic
// fallback and the error also matches ErrTransport.
type APIError struct {
	StatusCode int
	Message    string
	Reported   bool
	Detail     string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrTransport && !e.Reported
}
