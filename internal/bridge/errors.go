package bridge

import "errors"

// Error taxonomy for the collaborator boundary. Callers discriminate
// with errors.Is; anything else coming out of a fetch is a generic
// failure to be logged and dropped.
var (
	// ErrTokenDisabled marks a token the bridge refuses to carry.
	ErrTokenDisabled = errors.New("token is disabled for bridging")

	// ErrTokenNotFound marks an address with no token contract behind it.
	ErrTokenNotFound = errors.New("token not found")
)
