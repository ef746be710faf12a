package domain

import "errors"

// Error kinds for store failures. Callers that render errors to clients keep
// these distinguishable internally even when the external rendering does not.
var (
	// ErrBadIdentifier marks an identifier that is not in the canonical
	// 24-hex form the store assigns.
	ErrBadIdentifier = errors.New("malformed document identifier")

	// ErrNotFound marks a lookup that matched no document.
	ErrNotFound = errors.New("document not found")

	// ErrStoreUnavailable marks a failure of the store itself rather than of
	// the request.
	ErrStoreUnavailable = errors.New("store unavailable")
)
