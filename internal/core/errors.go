package core

// Reason strings surfaced to clients on failure events. Validation and
// conflict failures get a specific reason; collaborator failures collapse
// into a generic one so store internals never leak to the wire.
const (
	ReasonInvalidCredentials   = "invalid credentials"
	ReasonInvalidSession       = "invalid session"
	ReasonAlreadyAuthenticated = "already authenticated"
	ReasonInternalError        = "internal error"
	ReasonMessageNotStored     = "message could not be stored"
)
