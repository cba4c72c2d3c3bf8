// Package output provides structured error handling and result rendering.
package output

// Exit codes for the CLI.
const (
	ExitOK           = 0 // Success
	ExitUsage        = 1 // Invalid arguments or flags
	ExitNotFound     = 2 // Resource not found
	ExitAuth         = 3 // Not authenticated
	ExitForbidden    = 4 // Access denied
	ExitTransport    = 5 // Connection/DNS/timeout error
	ExitAPI          = 6 // Server declared an error
	ExitFail         = 7 // Server declared a failure
	ExitPrecondition = 8 // Local precondition not met
	ExitIntegrity    = 9 // Digest mismatch after upload commit
)

// Error codes for the JSON envelope.
const (
	CodeUsage        = "usage"
	CodeNotFound     = "not_found"
	CodeAuth         = "auth_required"
	CodeForbidden    = "forbidden"
	CodeTransport    = "transport"
	CodeAPI          = "api_error"
	CodeFail         = "api_fail"
	CodePrecondition = "precondition"
	CodeIntegrity    = "integrity"
)

// ExitCodeFor returns the exit code for a given error code.
func ExitCodeFor(code string) int {
	switch code {
	case CodeUsage:
		return ExitUsage
	case CodeNotFound:
		return ExitNotFound
	case CodeAuth:
		return ExitAuth
	case CodeForbidden:
		return ExitForbidden
	case CodeTransport:
		return ExitTransport
	case CodeAPI:
		return ExitAPI
	case CodeFail:
		return ExitFail
	case CodePrecondition:
		return ExitPrecondition
	case CodeIntegrity:
		return ExitIntegrity
	default:
		return ExitAPI
	}
}
