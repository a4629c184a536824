package types

import (
	"errors"
	"fmt"
	"strings"
)

// InfeasibleResourcesError reports a requested allocation that exceeds the
// host's capacity. It is fatal and aborts a run before any artifact is written.
type InfeasibleResourcesError struct {
	Resource    string // "memory" or "disk"
	RequiredGB  float64
	AvailableGB float64
}

// Error returns the error message.
func (e *InfeasibleResourcesError) Error() string {
	return fmt.Sprintf("infeasible %s allocation: %.1f GB required, %.1f GB available",
		e.Resource, e.RequiredGB, e.AvailableGB)
}

// NewInfeasibleResourcesError creates a new InfeasibleResourcesError.
func NewInfeasibleResourcesError(resource string, required, available float64) *InfeasibleResourcesError {
	return &InfeasibleResourcesError{Resource: resource, RequiredGB: required, AvailableGB: available}
}

// IsInfeasibleResourcesError checks if an error is an InfeasibleResourcesError.
func IsInfeasibleResourcesError(err error) bool {
	var e *InfeasibleResourcesError
	return errors.As(err, &e)
}

// TopologyConflictError reports a routing conflict between services: duplicate
// ports, overlapping path prefixes, or a required domain that is missing.
type TopologyConflictError struct {
	Service string
	Other   string // second service involved, empty for single-service conflicts
	Field   string // "port", "path", "domain", "base_domain"
	Value   string
	Reason  string
}

// Error returns the error message.
func (e *TopologyConflictError) Error() string {
	if e.Other != "" {
		return fmt.Sprintf("topology conflict: services %q and %q both use %s %q", e.Service, e.Other, e.Field, e.Value)
	}
	return fmt.Sprintf("topology conflict for service %q: %s %q: %s", e.Service, e.Field, e.Value, e.Reason)
}

// IsTopologyConflictError checks if an error is a TopologyConflictError.
func IsTopologyConflictError(err error) bool {
	var e *TopologyConflictError
	return errors.As(err, &e)
}

// MissingCredentialError reports a required credential field that cannot be
// auto-generated and was not supplied.
type MissingCredentialError struct {
	Field string
}

// Error returns the error message.
func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing required credential input: %s", e.Field)
}

// IsMissingCredentialError checks if an error is a MissingCredentialError.
func IsMissingCredentialError(err error) bool {
	var e *MissingCredentialError
	return errors.As(err, &e)
}

// MissingFieldError is returned by a generator that cannot produce an artifact
// because a required input is unresolved. Generators fail closed with this
// error instead of emitting an artifact the validator would reject.
type MissingFieldError struct {
	Artifact string // artifact kind the generator was producing
	Service  string // service the field belongs to, empty for global fields
	Field    string
}

// Error returns the error message.
func (e *MissingFieldError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s generation requires %s for service %q", e.Artifact, e.Field, e.Service)
	}
	return fmt.Sprintf("%s generation requires %s", e.Artifact, e.Field)
}

// IsMissingFieldError checks if an error is a MissingFieldError.
func IsMissingFieldError(err error) bool {
	var e *MissingFieldError
	return errors.As(err, &e)
}

// Inconsistency is a single cross-artifact disagreement found after generation.
type Inconsistency struct {
	Service string
	Field   string // "enabled", "address", "tls_email"
	Detail  string
}

func (i Inconsistency) String() string {
	if i.Service != "" {
		return fmt.Sprintf("%s/%s: %s", i.Service, i.Field, i.Detail)
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Detail)
}

// InconsistencyError aggregates the validator's findings. Any non-empty result
// is fatal: the caller must roll back to backups rather than apply a mixed state.
type InconsistencyError struct {
	Items []Inconsistency
}

// Error returns the error message.
func (e *InconsistencyError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, it.String())
	}
	return fmt.Sprintf("artifacts are inconsistent: %s", strings.Join(parts, "; "))
}

// IsInconsistencyError checks if an error is an InconsistencyError.
func IsInconsistencyError(err error) bool {
	var e *InconsistencyError
	return errors.As(err, &e)
}

// ValidationError represents an error that occurs during spec validation.
type ValidationError struct {
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// WrapValidationError wraps an error with additional context.
func WrapValidationError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	message := fmt.Sprintf(format, args...)
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ValidationError{Message: fmt.Sprintf("%s: %s", message, ve.Message)}
	}
	return &ValidationError{Message: fmt.Sprintf("%s: %v", message, err)}
}
