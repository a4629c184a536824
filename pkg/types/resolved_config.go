package types

import "fmt"

// RoutingMode selects the external-access topology.
type RoutingMode string

// Routing modes.
const (
	// RoutingSubdomain gives each exposed service its own domain.
	RoutingSubdomain RoutingMode = "subdomain"
	// RoutingPath shares one base domain with per-service path prefixes.
	RoutingPath RoutingMode = "path"
	// RoutingNone exposes services on distinct local ports with no proxy routing.
	RoutingNone RoutingMode = "none"
)

// Valid reports whether the routing mode is a known value.
func (m RoutingMode) Valid() bool {
	switch m {
	case RoutingSubdomain, RoutingPath, RoutingNone:
		return true
	}
	return false
}

// ProxyBackend selects the reverse proxy the proxy artifact targets.
type ProxyBackend string

// Proxy backends.
const (
	ProxyCaddy      ProxyBackend = "caddy"
	ProxyNginxProxy ProxyBackend = "nginx-proxy"
)

// Valid reports whether the proxy backend is a known value.
func (b ProxyBackend) Valid() bool {
	return b == ProxyCaddy || b == ProxyNginxProxy
}

// ResolvedConfig is the fully-determined snapshot consumed by all three
// generators. It is rebuilt fresh each run from persisted state plus new
// choices and is never a long-lived object.
type ResolvedConfig struct {
	RoutingMode  RoutingMode             `json:"routingMode" yaml:"routingMode"`
	ProxyBackend ProxyBackend            `json:"proxyBackend" yaml:"proxyBackend"`
	Services     map[string]*ServiceSpec `json:"services" yaml:"services"`
	Credentials  CredentialSet           `json:"credentials" yaml:"credentials"`
	Hardware     HardwareProfile         `json:"hardware" yaml:"hardware"`
	BaseDomain   string                  `json:"baseDomain,omitempty" yaml:"baseDomain,omitempty"`
	TLSEmail     string                  `json:"tlsEmail,omitempty" yaml:"tlsEmail,omitempty"`
}

// Validate checks the structural invariants that do not need address
// resolution: mode and backend are known, every service spec is well formed,
// path mode has a base domain. Domains and paths stored while another mode
// was active are dormant preferences, not errors; the topology resolver
// decides which fields are meaningful under the active mode.
func (c *ResolvedConfig) Validate() error {
	if !c.RoutingMode.Valid() {
		return NewValidationError(fmt.Sprintf("unknown routing mode %q", c.RoutingMode))
	}
	if !c.ProxyBackend.Valid() {
		return NewValidationError(fmt.Sprintf("unknown proxy backend %q", c.ProxyBackend))
	}

	for id, svc := range c.Services {
		if svc.ID != id {
			return NewValidationError(fmt.Sprintf("service map key %q does not match spec id %q", id, svc.ID))
		}
		if err := svc.Validate(); err != nil {
			return err
		}
	}

	backend, ok := c.Services[ServiceSupabase]
	if !ok || !backend.Enabled {
		return NewValidationError("backend service must always be enabled")
	}

	if c.RoutingMode == RoutingPath && c.BaseDomain == "" {
		return &TopologyConflictError{
			Service: "", Field: "base_domain", Value: "",
			Reason: "path routing mode requires a base domain",
		}
	}

	return c.Credentials.Validate()
}

// EnabledServices returns the enabled service IDs in artifact section order.
func (c *ResolvedConfig) EnabledServices() []string {
	out := make([]string, 0, len(ServiceIDs))
	for _, id := range ServiceIDs {
		if svc, ok := c.Services[id]; ok && svc.Enabled {
			out = append(out, id)
		}
	}
	return out
}
