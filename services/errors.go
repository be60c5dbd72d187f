package services

import "errors"

var (
	// ErrStoreUnavailable is returned when the listing store cannot be reached
	// while resolving desire types or fetching candidates. Fatal for the request.
	ErrStoreUnavailable = errors.New("listing store unavailable")

	// ErrProfileNotFound is returned by a ProfileDirectory for unknown users.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileLookupFailed marks a failed per-owner lookup. It never leaves
	// the enrichment stage.
	ErrProfileLookupFailed = errors.New("profile lookup failed")

	// ErrItemNotFound is returned by DynamoService.GetItem for a missing key.
	ErrItemNotFound = errors.New("item not found")

	ErrInvalidListing = errors.New("invalid listing")
	ErrInvalidPicture = errors.New("invalid picture")
	ErrImageUpload    = errors.New("image upload failed")
)
