package provider

import (
	"errors"
	"fmt"
)

// UnknownModelError indicates the requested model identifier matches no
// configured backend family. Raised before any network call.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Model)
}

// MissingCredentialError indicates the backend family was resolved but no
// API key for it was supplied with the request.
type MissingCredentialError struct {
	Family Family
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing API key for provider %q", e.Family)
}

// ProviderError wraps a failed backend call (network, quota, malformed
// backend response) with the family that failed.
type ProviderError struct {
	Family Family
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q call failed: %v", e.Family, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsUnknownModel returns true if the error indicates an unrecognized model
// identifier.
func IsUnknownModel(err error) bool {
	var target *UnknownModelError
	return errors.As(err, &target)
}

// IsMissingCredential returns true if the error indicates an absent API key.
func IsMissingCredential(err error) bool {
	var target *MissingCredentialError
	return errors.As(err, &target)
}

// IsProviderError returns true if the error came from a failed backend call.
func IsProviderError(err error) bool {
	var target *ProviderError
	return errors.As(err, &target)
}
