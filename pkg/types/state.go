package types

import "time"

// State is the document persisted between runs: the service set with their
// single-field edits, the credential set, and the routing choices. A run
// loads it, rebuilds a fresh ResolvedConfig from it, and saves it back after
// the artifacts are accepted.
type State struct {
	RoutingMode  RoutingMode             `json:"routingMode"`
	ProxyBackend ProxyBackend            `json:"proxyBackend"`
	BaseDomain   string                  `json:"baseDomain,omitempty"`
	TLSEmail     string                  `json:"tlsEmail,omitempty"`
	Services     map[string]*ServiceSpec `json:"services"`
	Credentials  CredentialSet           `json:"credentials"`

	// Hardware is the profile captured at init time so later runs do not
	// need it re-supplied. A new profile on the command line replaces it.
	Hardware  HardwareProfile `json:"hardware"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// DefaultState returns the initial state of a fresh install: backend enabled,
// automation and agent-builder enabled, model serving off, port routing with
// the caddy backend.
func DefaultState() *State {
	return &State{
		RoutingMode:  RoutingNone,
		ProxyBackend: ProxyCaddy,
		Services: map[string]*ServiceSpec{
			ServiceN8N:      {ID: ServiceN8N, Enabled: true},
			ServiceLangflow: {ID: ServiceLangflow, Enabled: true},
			ServiceSupabase: {ID: ServiceSupabase, Enabled: true},
			ServiceOllama:   {ID: ServiceOllama, Enabled: false},
		},
	}
}

// Service returns the spec for id, creating a tombstoned entry if the state
// predates the service.
func (s *State) Service(id string) *ServiceSpec {
	if s.Services == nil {
		s.Services = make(map[string]*ServiceSpec)
	}
	if svc, ok := s.Services[id]; ok {
		return svc
	}
	svc := &ServiceSpec{ID: id}
	s.Services[id] = svc
	return svc
}
