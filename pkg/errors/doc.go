// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeConflict,
//	    "failed to register container counter",
//	    regErr,
//	    map[string]any{
//	        "container": name,
//	        "metric":    metricName,
//	    },
//	)
//
// Callers classify errors with Is:
//
//	if errors.Is(err, errors.ErrCodeConflict) { ... }
package errors
