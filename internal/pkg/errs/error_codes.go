/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both inside the chat
client and in responses of the document store server.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that input validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrProofRequired indicates that bin creation needs a valid proof-of-work token.
	ErrProofRequired = 1008

	// ErrInvalidProof indicates a wrong or expired proof-of-work answer.
	ErrInvalidProof = 1009
)

// 2xxx: Chat and Bin Errors
const (
	// ErrBinNotFound indicates that the requested document bin does not exist.
	ErrBinNotFound = 2103
)

// 3xxx: User and Session Errors
const (
	// ErrNicknameTaken indicates that a registration used a nickname already present in the document.
	ErrNicknameTaken = 3005

	// ErrInvalidCredentials indicates an unknown nickname or a password mismatch at login.
	ErrInvalidCredentials = 3006

	// ErrNotAuthenticated indicates that an operation needs a signed-in user.
	ErrNotAuthenticated = 3007

	// ErrSessionStorage indicates that the local session record could not be read or written.
	ErrSessionStorage = 3008
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general internal error.
	ErrUnknown = 5000

	// ErrStoreUnavailable indicates that the shared document could not be fetched or written.
	ErrStoreUnavailable = 5001

	// ErrBinStorageFailed indicates that a bin backend failed to load or persist a document.
	ErrBinStorageFailed = 5002
)
