// Package errors provides structured error types for better observability
// and programmatic error handling across the agent.
//
// Anticipated failures (a provider being unavailable, the network being down,
// a bad HTTP status) are reported as typed results by their owning packages.
// StructuredError is reserved for conditions callers must branch on, such as
// an operation already being in progress or an internal pipeline fault.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeProvider,
//	    "failed to query installed packages",
//	    err,
//	    map[string]any{
//	        "provider": "software",
//	        "command":  "dpkg-query",
//	    },
//	)
package errors
