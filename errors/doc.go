// Package errors provides the structured error type used across flowkit.
//
// Every failure raised by the library itself is an *AppError carrying a
// machine-readable ErrorCode. Errors returned by caller-supplied functions
// (transforms, predicates, sinks) are never wrapped; they reach the consumer
// exactly as returned.
//
// AppError matches by code, so the exported sentinels work with errors.Is:
//
//	if errors.Is(err, flowerrors.ErrUnsupportedProtocol) {
//	    // fall back to an asynchronous traversal
//	}
package errors
