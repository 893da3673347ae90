package operation

import (
	"fmt"
	"strings"
)

// Status is the structured error a remote operation reports. Details may nest
// further Status values, mirroring the google.rpc.Status shape where details
// can carry sub-errors with their own code and message.
type Status struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Details []*Status `json:"details,omitempty"`
}

// String renders the status and its nested details as a human-readable
// multi-line message, one "OperationError: code=..., message=..." line per
// status, depth first.
func (s *Status) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Status) write(b *strings.Builder) {
	fmt.Fprintf(b, "OperationError: code=%d, message=%s", s.Code, s.Message)
	for _, detail := range s.Details {
		if detail == nil {
			continue
		}
		b.WriteString("\n")
		detail.write(b)
	}
}

// FailedError is returned when the remote operation reports an error. It is
// fatal: a remote-reported error will not resolve itself on further polling.
type FailedError struct {
	Status *Status
}

func NewFailedError(status *Status) *FailedError {
	return &FailedError{Status: status}
}

func (e *FailedError) Error() string {
	return e.Status.String()
}

// TimeoutError is returned when the wait budget is exhausted before the
// operation finishes. Phase records whether stage discovery or status polling
// was active when the budget ran out.
type TimeoutError struct {
	OperationName string
	Phase         string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s is taking too long", e.OperationName)
}
