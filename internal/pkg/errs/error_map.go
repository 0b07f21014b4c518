/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
user-facing alerts, HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Document is not valid JSON.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Document is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrProofRequired:         {Code: ErrProofRequired, Message: "A proof-of-work token is required.", Status: http.StatusForbidden},
	ErrInvalidProof:          {Code: ErrInvalidProof, Message: "Proof-of-work answer rejected.", Status: http.StatusBadRequest},

	// 2xxx: Chat and Bin Errors
	ErrBinNotFound: {Code: ErrBinNotFound, Message: "Bin not found.", Status: http.StatusNotFound},

	// 3xxx: User and Session Errors
	ErrNicknameTaken:      {Code: ErrNicknameTaken, Message: "This nickname already exists! Try another one."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Wrong nickname or password!"},
	ErrNotAuthenticated:   {Code: ErrNotAuthenticated, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSessionStorage:     {Code: ErrSessionStorage, Message: "Could not access the local session."},

	// 5xxx: Internal System Errors
	ErrUnknown:          {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStoreUnavailable: {Code: ErrStoreUnavailable, Message: "Connection problem!", Status: http.StatusBadGateway},
	ErrBinStorageFailed: {Code: ErrBinStorageFailed, Message: "Failed to store the document. Please try again.", Status: http.StatusInternalServerError},
}
