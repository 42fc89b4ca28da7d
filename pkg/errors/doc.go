// Package errors provides the error taxonomy of the reporting API.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬────────┬─────────────────────────────────────┐
//	│ Error Type               │ HTTP   │ Description                         │
//	├──────────────────────────┼────────┼─────────────────────────────────────┤
//	│ ValidationError          │ 400    │ Bad path/query parameter            │
//	│ ResourceNotFoundError    │ 404    │ Single-entity lookup found nothing  │
//	│ QueryFailureError        │ 500    │ Driver or SQL failure               │
//	│ MalformedInputError      │ -      │ Logged and dropped, never returned  │
//	└──────────────────────────┴────────┴─────────────────────────────────────┘
//
// # ValidationError
//
// Returned before any statement is issued: missing or non-numeric company id,
// unknown export format, unknown export table, out of range report parameter.
//
// Usage:
//
//	if errors.IsValidationError(err) {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	}
//
// # QueryFailureError
//
// Every store method wraps driver errors with the name of the operation:
//
//	return nil, errors.NewQueryFailureError("count device_events_management", err)
//
// The underlying message is passed through to the 500 response body under
// "message". QueryFailureError implements Unwrap so context.DeadlineExceeded
// can still be detected with the standard errors.Is.
//
// # MalformedInputError
//
// Produced by the filter compiler when column_filters cannot be decoded as a
// JSON object. The compiler logs it and continues without column filters.
package errors
