package client

import (
	"errors"
	"fmt"

	"github.com/leofalp/capitalagent/internal/utils"
)

// RemoteCallError reports a failed call to the remote model: transport
// errors, non-2xx answers, cancelled contexts and undecodable replies alike.
// The client never retries; the error is surfaced to the caller as is.
type RemoteCallError struct {
	Model string
	// StatusCode is the HTTP status of the reply, 0 when none was received.
	StatusCode int
	Err        error
}

func newRemoteCallError(model string, err error) *RemoteCallError {
	rce := &RemoteCallError{Model: model, Err: err}

	var statusErr *utils.HTTPStatusError
	if errors.As(err, &statusErr) {
		rce.StatusCode = statusErr.StatusCode
	}
	return rce
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote call to model %q failed with status %d: %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote call to model %q failed: %v", e.Model, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}
