package board

import "fmt"

// ValidationError is a local precondition failure. It is raised before any
// store mutation and never reaches the remote service.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// RemoteError reports a rejected or failed remote call. By the time the
// caller sees it the optimistic mutation has already been rolled back.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
