package planning

import "errors"

var (
	// ErrNotOpen indicates a handler was invoked while no planning dialog
	// is open.
	ErrNotOpen = errors.New("planning session is not open")

	// ErrUnknownItem indicates the referenced item is not in the current
	// in-memory lists, typically because a reload removed it.
	ErrUnknownItem = errors.New("item not found in current session")

	// ErrConfirmationRequired indicates a destructive bulk operation was
	// attempted without explicit user confirmation.
	ErrConfirmationRequired = errors.New("existing items would be replaced: confirmation required")
)
