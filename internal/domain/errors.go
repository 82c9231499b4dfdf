package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested media item does not exist
	ErrItemNotFound = errors.New("media item not found")

	// ErrServerOffline indicates the media server is unreachable
	ErrServerOffline = errors.New("media server is unreachable")

	// ErrAuthFailed indicates authentication failed
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrUnsupported indicates the operation is not valid for this kind of item
	ErrUnsupported = errors.New("operation not supported for this item type")

	// ErrUnknownVariant indicates a record carried a type tag with no matching entity
	ErrUnknownVariant = errors.New("unknown media type")

	// ErrReloadFailed wraps a failed re-fetch that followed a successful server mutation.
	// The server state has changed even though the local entity is stale.
	ErrReloadFailed = errors.New("reload after server update failed")
)
