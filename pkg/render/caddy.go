package render

import (
	"strings"

	"github.com/forgectl/forge/pkg/crypto"
	"github.com/forgectl/forge/pkg/topology"
	"github.com/forgectl/forge/pkg/types"
)

// CaddyFileName is the target file of the caddy proxy artifact.
const CaddyFileName = "Caddyfile"

// CaddyRenderer renders the proxy artifact for the caddy backend.
//
// In subdomain mode every service with a resolved domain gets its own site
// block; in path mode one site on the base domain routes by handle_path; in
// none mode the artifact is a stub that encodes zero routes. The backend's
// admin surface is protected with a basic_auth directive carrying the
// decoded (native bcrypt) admin hash.
type CaddyRenderer struct{}

// Kind implements Renderer.
func (CaddyRenderer) Kind() types.ArtifactKind { return types.ArtifactProxy }

// Render implements Renderer.
func (r CaddyRenderer) Render(in *Input) (*types.Artifact, error) {
	cfg := in.Config

	var b strings.Builder

	if cfg.TLSEmail != "" && cfg.RoutingMode != types.RoutingNone {
		b.WriteString("{\n")
		b.WriteString("\temail " + cfg.TLSEmail + "\n")
		b.WriteString("}\n\n")
	}

	switch cfg.RoutingMode {
	case types.RoutingSubdomain:
		if err := r.subdomainSites(in, &b); err != nil {
			return nil, err
		}
	case types.RoutingPath:
		if err := r.pathSite(in, &b); err != nil {
			return nil, err
		}
	case types.RoutingNone:
		b.WriteString("# routing mode is none: services are exposed on local ports, no proxy routes\n")
	}

	return &types.Artifact{
		Kind:      types.ArtifactProxy,
		Name:      CaddyFileName,
		Text:      b.String(),
		Enabled:   enabledFlags(cfg),
		Addresses: proxiedAddressStrings(in),
		TLSEmail:  cfg.TLSEmail,
	}, nil
}

func (r CaddyRenderer) subdomainSites(in *Input, b *strings.Builder) error {
	res := in.Topology

	routed := false
	for _, id := range types.ServiceIDs {
		addr, ok := res.Addresses[id].(topology.Domain)
		if !ok {
			continue
		}
		routed = true

		b.WriteString(siteAddress(res.Scheme, addr.Host) + " {\n")
		if err := r.siteBody(in, id, "\t", b); err != nil {
			return err
		}
		b.WriteString("}\n\n")
	}

	if !routed {
		// Subdomain mode with nothing to route means no exposed service
		// resolved to a domain; emitting an empty proxy would fail validation.
		for _, id := range types.ServiceIDs {
			if on, ok := in.Config.Services[id]; ok && on.Enabled {
				return &types.MissingFieldError{Artifact: "proxy", Service: id, Field: "domain"}
			}
		}
		return &types.MissingFieldError{Artifact: "proxy", Field: "domain"}
	}
	return nil
}

func (r CaddyRenderer) pathSite(in *Input, b *strings.Builder) error {
	cfg := in.Config
	res := in.Topology

	if cfg.BaseDomain == "" {
		return &types.MissingFieldError{Artifact: "proxy", Field: "base_domain"}
	}

	b.WriteString(siteAddress(res.Scheme, cfg.BaseDomain) + " {\n")
	for _, id := range types.ServiceIDs {
		addr, ok := res.Addresses[id].(topology.PathPrefix)
		if !ok {
			continue
		}
		b.WriteString("\thandle_path " + addr.Path + "/* {\n")
		if err := r.siteBody(in, id, "\t\t", b); err != nil {
			return err
		}
		b.WriteString("\t}\n")
	}
	b.WriteString("}\n")
	return nil
}

func (r CaddyRenderer) siteBody(in *Input, id, indent string, b *strings.Builder) error {
	if id == types.ServiceSupabase {
		creds := in.Config.Credentials
		if creds.AdminPasswordHashEncoded == "" {
			return &types.MissingFieldError{Artifact: "proxy", Service: id, Field: "admin password hash"}
		}
		hash, err := crypto.DecodeHash(creds.AdminPasswordHashEncoded)
		if err != nil {
			return types.WrapValidationError(err, "proxy generation")
		}
		b.WriteString(indent + "basic_auth {\n")
		b.WriteString(indent + "\t" + creds.AdminLogin + " " + hash + "\n")
		b.WriteString(indent + "}\n")
	}
	b.WriteString(indent + "reverse_proxy " + upstream(id) + "\n")
	return nil
}

// siteAddress prefixes the host with http:// when TLS is not configured so
// caddy does not try to provision a certificate it cannot get.
func siteAddress(scheme, host string) string {
	if scheme == "https" {
		return host
	}
	return "http://" + host
}
