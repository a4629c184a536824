package types

import (
	"fmt"
	"regexp"
	"strings"
)

var pathPrefixPattern = regexp.MustCompile(`^/[a-zA-Z0-9/-]*$`)

// ServiceSpec is the per-service configuration record persisted across runs.
//
// Resource fields are set iff Enabled is true: disabling a service tombstones
// the allocation rather than deleting the entry, so the ID survives for later
// re-enable or removal flows.
type ServiceSpec struct {
	ID      string `json:"id" yaml:"id"`
	Enabled bool   `json:"enabled" yaml:"enabled"`

	// Resource limits, present only while enabled.
	MemoryLimitGB float64 `json:"memoryLimitGb,omitempty" yaml:"memoryLimitGb,omitempty"`
	CPULimitCores float64 `json:"cpuLimitCores,omitempty" yaml:"cpuLimitCores,omitempty"`

	// External address inputs. Which of these is meaningful depends on the
	// routing mode; the topology resolver owns that decision.
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Domain     string `json:"domain,omitempty" yaml:"domain,omitempty"`
	PathPrefix string `json:"pathPrefix,omitempty" yaml:"pathPrefix,omitempty"`
}

// Validate validates the service specification.
func (s *ServiceSpec) Validate() error {
	if s.ID == "" {
		return NewValidationError("service id is required")
	}
	if !KnownService(s.ID) {
		return NewValidationError(fmt.Sprintf("unknown service %q", s.ID))
	}

	if s.Enabled {
		if s.MemoryLimitGB <= 0 {
			return NewValidationError(fmt.Sprintf("enabled service %q has no memory limit", s.ID))
		}
		if s.CPULimitCores <= 0 {
			return NewValidationError(fmt.Sprintf("enabled service %q has no cpu limit", s.ID))
		}
	} else {
		if s.MemoryLimitGB != 0 || s.CPULimitCores != 0 {
			return NewValidationError(fmt.Sprintf("disabled service %q must not carry a resource reservation", s.ID))
		}
	}

	if s.Port != 0 {
		if s.Port < 1 || s.Port > 65535 {
			return NewValidationError(fmt.Sprintf("service %q: port must be between 1 and 65535", s.ID))
		}
		if s.Port < 1024 {
			return NewValidationError(fmt.Sprintf("service %q: ports below 1024 require root privileges", s.ID))
		}
	}

	if s.PathPrefix != "" {
		if err := ValidatePathPrefix(s.PathPrefix); err != nil {
			return WrapValidationError(err, "service %q", s.ID)
		}
	}

	if s.Domain != "" {
		if err := ValidateDomain(s.Domain); err != nil {
			return WrapValidationError(err, "service %q", s.ID)
		}
	}

	return nil
}

// Tombstone clears the resource reservation while keeping the identity and
// address preferences. Used when a service is disabled.
func (s *ServiceSpec) Tombstone() {
	s.Enabled = false
	s.MemoryLimitGB = 0
	s.CPULimitCores = 0
}

// EffectivePort returns the configured host port, falling back to the
// catalog default.
func (s *ServiceSpec) EffectivePort() int {
	if s.Port != 0 {
		return s.Port
	}
	return DefaultPort(s.ID)
}

// EffectivePathPrefix returns the configured path prefix, falling back to
// the catalog default.
func (s *ServiceSpec) EffectivePathPrefix() string {
	if s.PathPrefix != "" {
		return s.PathPrefix
	}
	return DefaultPathPrefix(s.ID)
}

var domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// ValidateDomain validates a bare domain name (no scheme, no path).
func ValidateDomain(domain string) error {
	if domain == "" {
		return NewValidationError("domain cannot be empty")
	}
	if len(domain) > 253 {
		return NewValidationError("domain is too long (253 characters maximum)")
	}
	if !domainPattern.MatchString(strings.ToLower(domain)) {
		return NewValidationError(fmt.Sprintf("invalid domain %q, expected e.g. example.com or sub.example.com", domain))
	}
	return nil
}

// ValidatePathPrefix validates a routing path prefix.
func ValidatePathPrefix(path string) error {
	if path == "" {
		return NewValidationError("path prefix cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return NewValidationError(fmt.Sprintf("path prefix %q must start with /", path))
	}
	if !pathPrefixPattern.MatchString(path) {
		return NewValidationError(fmt.Sprintf("path prefix %q may only contain letters, digits, / and -", path))
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		return NewValidationError(fmt.Sprintf("path prefix %q must not end with /", path))
	}
	return nil
}
