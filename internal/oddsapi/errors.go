package oddsapi

import "fmt"

// TransportError covers timeouts, connection failures and non-2xx responses.
// It aborts the current sport's cycle only; the next cycle retries.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedDataError means the upstream payload's top-level shape could not
// be parsed. Partial or missing fields inside an otherwise valid payload are
// tolerated and never produce this error.
type MalformedDataError struct {
	Op  string
	Err error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed data during %s: %v", e.Op, e.Err)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }
