package bubble

import "errors"

// Sentinel errors for the bubble service layer.
var (
	// ErrNotFound means the bubble identifier was never initialized. A bubble
	// is only ever created by an explicit Upsert; reads never create one.
	ErrNotFound = errors.New("bubble not initialized: call initialize with metrics first")
)
