package model

import "errors"

// Sentinel errors shared across layers for stable error mapping.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired indicates a valid identity whose access window has elapsed.
	ErrExpired = errors.New("account expired")

	// ErrDuplicateIdentity indicates a uniqueness violation on create.
	ErrDuplicateIdentity = errors.New("identity already exists")

	// ErrQuotaExceeded indicates the metadata snapshot is too large for the backing medium.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrStorageUnavailable indicates the backing medium is missing or broken.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrGenerationFailed indicates the generation service failed after all retries.
	ErrGenerationFailed = errors.New("quiz generation failed")

	// ErrDecodeFailed indicates a stored blob cannot be decoded to a renderable resource.
	ErrDecodeFailed = errors.New("document decode failed")

	// ErrValidationFailed indicates client input was rejected before reaching storage.
	ErrValidationFailed = errors.New("validation failed")
)
