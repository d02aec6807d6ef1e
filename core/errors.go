package core

import "errors"

// Completion failure classes. Both are fatal for an extraction run:
// infrastructure failures are never retried within the conversation loop,
// unlike parse and validation failures which drive corrective retries.
var (
	// ErrCompletionTimeout marks a completion call that exceeded its
	// per-attempt deadline.
	ErrCompletionTimeout = errors.New("completion deadline exceeded")

	// ErrCompletionTransport marks a completion backend that was
	// unreachable or returned an error response.
	ErrCompletionTransport = errors.New("completion backend failed")
)

// IsFatalCompletionError reports whether an error from the completion
// service must abort the extraction run without consuming further attempts.
func IsFatalCompletionError(err error) bool {
	return errors.Is(err, ErrCompletionTimeout) || errors.Is(err, ErrCompletionTransport)
}
