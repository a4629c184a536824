package topology

import (
	"fmt"
	"sort"
	"strings"

	"github.com/forgectl/forge/pkg/types"
)

// Resolution is the output of Resolve: per-service addresses plus the values
// derived from them.
type Resolution struct {
	Mode      types.RoutingMode
	Addresses map[string]ExternalAddress

	// Suggestions maps a service ID to a synthesized default domain inferred
	// from a sibling's domain. Suggestions are surfaced as choices and never
	// applied silently; a service with only a suggestion stays local-only.
	Suggestions map[string]string

	// Scheme is the public URL scheme: https only when a domain and a TLS
	// contact email are both configured.
	Scheme string

	// WebhookURL is the callback base URL the automation service announces.
	WebhookURL string

	// PublicURL is the externally reachable URL of the backend service.
	PublicURL string

	// CORSOrigins is the allow-list for browser clients. ["*"] is the
	// permissive fallback when no domain exists, flagged in Warnings.
	CORSOrigins []string

	Warnings []string
}

// Resolve computes the external address of every enabled service under the
// configured routing mode. Conflicts (duplicate ports or domains, overlapping
// path prefixes) are fatal.
func Resolve(cfg *types.ResolvedConfig) (*Resolution, error) {
	res := &Resolution{
		Mode:        cfg.RoutingMode,
		Addresses:   make(map[string]ExternalAddress),
		Suggestions: make(map[string]string),
	}

	var err error
	switch cfg.RoutingMode {
	case types.RoutingSubdomain:
		err = resolveSubdomain(cfg, res)
	case types.RoutingPath:
		err = resolvePath(cfg, res)
	case types.RoutingNone:
		err = resolveNone(cfg, res)
	default:
		err = types.NewValidationError(fmt.Sprintf("unknown routing mode %q", cfg.RoutingMode))
	}
	if err != nil {
		return nil, err
	}

	derive(cfg, res)
	return res, nil
}

func resolveSubdomain(cfg *types.ResolvedConfig, res *Resolution) error {
	seen := make(map[string]string) // domain -> service id

	for _, id := range cfg.EnabledServices() {
		svc := cfg.Services[id]
		if svc.Domain == "" {
			continue
		}
		if other, dup := seen[svc.Domain]; dup {
			return &types.TopologyConflictError{Service: other, Other: id, Field: "domain", Value: svc.Domain}
		}
		seen[svc.Domain] = id
		res.Addresses[id] = Domain{Host: svc.Domain}
	}

	// Services without an explicit domain stay local-only on their port, but
	// when a sibling's domain reveals a parent we surface "<id>.<parent>" as
	// a default choice.
	parent := inferParent(cfg)
	for _, id := range cfg.EnabledServices() {
		if _, ok := res.Addresses[id]; ok {
			continue
		}
		if parent != "" {
			res.Suggestions[id] = id + "." + parent
		}
		res.Addresses[id] = Port{N: cfg.Services[id].EffectivePort()}
	}

	return checkPortCollisions(cfg, res)
}

// inferParent looks at the already-configured sibling domains and strips the
// leftmost label of the first one that yields a usable parent.
func inferParent(cfg *types.ResolvedConfig) string {
	for _, id := range types.ServiceIDs {
		svc, ok := cfg.Services[id]
		if !ok || !svc.Enabled || svc.Domain == "" {
			continue
		}
		if parent := parentDomain(svc.Domain); parent != "" {
			return parent
		}
	}
	return ""
}

func resolvePath(cfg *types.ResolvedConfig, res *Resolution) error {
	if cfg.BaseDomain == "" {
		return &types.TopologyConflictError{
			Field: "base_domain", Reason: "path routing mode requires a base domain",
		}
	}

	prefixes := make(map[string]string) // prefix -> service id
	for _, id := range cfg.EnabledServices() {
		prefix := cfg.Services[id].EffectivePathPrefix()
		for existing, other := range prefixes {
			if prefixesOverlap(prefix, existing) {
				a, b := other, id
				return &types.TopologyConflictError{Service: a, Other: b, Field: "path", Value: prefix}
			}
		}
		prefixes[prefix] = id
		res.Addresses[id] = PathPrefix{Base: cfg.BaseDomain, Path: prefix}
	}
	return nil
}

// prefixesOverlap reports whether two path prefixes collide: equal, or one is
// a path-boundary prefix of the other (/svc vs /svc/admin).
func prefixesOverlap(a, b string) bool {
	if a == b {
		return true
	}
	return strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

func resolveNone(cfg *types.ResolvedConfig, res *Resolution) error {
	for _, id := range cfg.EnabledServices() {
		res.Addresses[id] = Port{N: cfg.Services[id].EffectivePort()}
	}
	return checkPortCollisions(cfg, res)
}

func checkPortCollisions(cfg *types.ResolvedConfig, res *Resolution) error {
	seen := make(map[int]string)
	for _, id := range types.ServiceIDs {
		addr, ok := res.Addresses[id]
		if !ok {
			continue
		}
		port, ok := addr.(Port)
		if !ok {
			continue
		}
		if port.N < 1 || port.N > 65535 {
			return &types.TopologyConflictError{
				Service: id, Field: "port", Value: fmt.Sprintf("%d", port.N),
				Reason: "port must be between 1 and 65535",
			}
		}
		if other, dup := seen[port.N]; dup {
			return &types.TopologyConflictError{Service: other, Other: id, Field: "port", Value: fmt.Sprintf("%d", port.N)}
		}
		seen[port.N] = id
	}
	return nil
}

// derive fills in scheme, webhook URL, public URL and the CORS allow-list
// from the resolved addresses.
func derive(cfg *types.ResolvedConfig, res *Resolution) {
	hosts := exposedHosts(res)

	res.Scheme = "http"
	if len(hosts) > 0 && cfg.TLSEmail != "" {
		res.Scheme = "https"
	}

	if addr, ok := res.Addresses[types.ServiceN8N]; ok {
		res.WebhookURL = serviceURL(res.Scheme, addr) + "/"
	}
	if addr, ok := res.Addresses[types.ServiceSupabase]; ok {
		res.PublicURL = serviceURL(res.Scheme, addr)
	}

	if len(hosts) == 0 {
		res.CORSOrigins = []string{"*"}
		res.Warnings = append(res.Warnings,
			"no domain configured, falling back to a permissive CORS allow-list (*)")
		return
	}

	// With TLS the origin scheme is unambiguous. Without it, clients may
	// reach the host over either scheme, so both origins are allowed.
	for _, host := range hosts {
		if cfg.TLSEmail != "" {
			res.CORSOrigins = append(res.CORSOrigins, "https://"+host)
		} else {
			res.CORSOrigins = append(res.CORSOrigins, "http://"+host, "https://"+host)
		}
	}
	sort.Strings(res.CORSOrigins)
}

// exposedHosts returns the distinct domains the proxy serves, sorted.
func exposedHosts(res *Resolution) []string {
	set := make(map[string]struct{})
	for _, addr := range res.Addresses {
		switch a := addr.(type) {
		case Domain:
			set[a.Host] = struct{}{}
		case PathPrefix:
			set[a.Base] = struct{}{}
		}
	}
	hosts := make([]string, 0, len(set))
	for h := range set {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

func serviceURL(scheme string, addr ExternalAddress) string {
	switch a := addr.(type) {
	case Domain:
		return scheme + "://" + a.Host
	case PathPrefix:
		return scheme + "://" + a.Base + a.Path
	case Port:
		return fmt.Sprintf("http://localhost:%d", a.N)
	}
	return ""
}

// Proxied reports whether the address is served by the reverse proxy.
func Proxied(addr ExternalAddress) bool {
	switch addr.(type) {
	case Domain, PathPrefix:
		return true
	}
	return false
}
