// Package errors provides structured, code-carrying errors for the game.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// CodeUserInput marks unrecognised or malformed player input. Callers re-prompt.
	CodeUserInput Code = "USER_INPUT"
	// CodeDataIntegrity marks malformed catalog or save records. Callers skip and log.
	CodeDataIntegrity Code = "DATA_INTEGRITY"
	// CodeStateViolation marks an operation the current state does not allow.
	CodeStateViolation Code = "STATE_VIOLATION"
	// CodePersistence marks a failed save or load.
	CodePersistence Code = "PERSISTENCE"
	// CodeNotFound marks a missing save or record.
	CodeNotFound Code = "NOT_FOUND"
)
