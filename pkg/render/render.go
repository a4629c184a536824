// Package render turns a resolved configuration into the three deployment
// artifacts: env file, container manifest and proxy routing file.
//
// Every generator is a pure function of its input: identical input renders
// byte-identical output, and artifacts are always produced in full rather
// than patched, so re-running the engine on its own output is a no-op.
package render

import (
	"strconv"
	"strings"

	"github.com/forgectl/forge/pkg/allocator"
	"github.com/forgectl/forge/pkg/topology"
	"github.com/forgectl/forge/pkg/types"
)

// Input is the fully-resolved snapshot every generator consumes. Generators
// never derive defaults themselves; missing values are a fail-closed error.
type Input struct {
	Config   *types.ResolvedConfig
	Limits   map[string]allocator.Limits
	Topology *topology.Resolution
}

// Renderer renders one artifact from the resolved configuration.
type Renderer interface {
	Kind() types.ArtifactKind
	Render(in *Input) (*types.Artifact, error)
}

// Renderers returns the three generators for the configured proxy backend.
func Renderers(backend types.ProxyBackend) []Renderer {
	proxy := Renderer(&CaddyRenderer{})
	if backend == types.ProxyNginxProxy {
		proxy = &NginxRenderer{}
	}
	return []Renderer{&EnvRenderer{}, &ComposeRenderer{}, proxy}
}

// escapeExpansion escapes '$' in a literal value so the manifest's
// variable-expansion syntax never interprets part of a secret as a reference
// to an unrelated variable.
func escapeExpansion(v string) string {
	return strings.ReplaceAll(v, "$", "$$")
}

// enabledFlags snapshots the enablement of every known service for the
// artifact metadata the consistency validator compares.
func enabledFlags(cfg *types.ResolvedConfig) map[string]bool {
	out := make(map[string]bool, len(types.ServiceIDs))
	for _, id := range types.ServiceIDs {
		svc, ok := cfg.Services[id]
		out[id] = ok && svc.Enabled
	}
	return out
}

// addressStrings snapshots the resolved external address per enabled service.
func addressStrings(in *Input) map[string]string {
	out := make(map[string]string)
	for _, id := range types.ServiceIDs {
		if addr, ok := in.Topology.Addresses[id]; ok {
			out[id] = addr.String()
		}
	}
	return out
}

// proxiedAddressStrings is addressStrings restricted to addresses the
// reverse proxy serves; port addresses never appear in the proxy artifact.
func proxiedAddressStrings(in *Input) map[string]string {
	out := make(map[string]string)
	for _, id := range types.ServiceIDs {
		if addr, ok := in.Topology.Addresses[id]; ok && topology.Proxied(addr) {
			out[id] = addr.String()
		}
	}
	return out
}

// upstream is the in-network target the proxy forwards to.
func upstream(id string) string {
	return id + ":" + strconv.Itoa(types.InternalPort(id))
}
