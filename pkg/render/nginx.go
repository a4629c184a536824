package render

import (
	"strings"

	"github.com/forgectl/forge/pkg/topology"
	"github.com/forgectl/forge/pkg/types"
)

// NginxFileName is the target file of the nginx proxy artifact.
const NginxFileName = "nginx/conf.d/main.conf"

// NginxRenderer renders the proxy artifact for the nginx-proxy backend: one
// server block per domain in subdomain mode, a single server with location
// blocks in path mode, and a stub in none mode.
type NginxRenderer struct{}

// Kind implements Renderer.
func (NginxRenderer) Kind() types.ArtifactKind { return types.ArtifactProxy }

// Render implements Renderer.
func (r NginxRenderer) Render(in *Input) (*types.Artifact, error) {
	cfg := in.Config

	var b strings.Builder
	ssl := cfg.TLSEmail != ""

	switch cfg.RoutingMode {
	case types.RoutingSubdomain:
		routed := false
		for _, id := range types.ServiceIDs {
			addr, ok := in.Topology.Addresses[id].(topology.Domain)
			if !ok {
				continue
			}
			routed = true
			writeServerBlock(&b, addr.Host, ssl, func(ind string) {
				writeLocation(&b, ind, "/", id, "")
			})
		}
		if !routed {
			for _, id := range types.ServiceIDs {
				if svc, ok := cfg.Services[id]; ok && svc.Enabled {
					return nil, &types.MissingFieldError{Artifact: "proxy", Service: id, Field: "domain"}
				}
			}
			return nil, &types.MissingFieldError{Artifact: "proxy", Field: "domain"}
		}

	case types.RoutingPath:
		if cfg.BaseDomain == "" {
			return nil, &types.MissingFieldError{Artifact: "proxy", Field: "base_domain"}
		}
		writeServerBlock(&b, cfg.BaseDomain, ssl, func(ind string) {
			for _, id := range types.ServiceIDs {
				addr, ok := in.Topology.Addresses[id].(topology.PathPrefix)
				if !ok {
					continue
				}
				writeLocation(&b, ind, addr.Path+"/", id, addr.Path)
			}
		})

	case types.RoutingNone:
		b.WriteString("# routing mode is none: services are exposed on local ports, no proxy routes\n")
	}

	return &types.Artifact{
		Kind:      types.ArtifactProxy,
		Name:      NginxFileName,
		Text:      b.String(),
		Enabled:   enabledFlags(cfg),
		Addresses: proxiedAddressStrings(in),
		TLSEmail:  cfg.TLSEmail,
	}, nil
}

// writeServerBlock writes the listen-80 block (plus the TLS block with a
// redirect when SSL is on) and calls body to fill in locations.
func writeServerBlock(b *strings.Builder, host string, ssl bool, body func(indent string)) {
	b.WriteString("server {\n")
	b.WriteString("    listen 80;\n")
	b.WriteString("    server_name " + host + ";\n")
	if ssl {
		b.WriteString("    return 301 https://$server_name$request_uri;\n")
		b.WriteString("}\n\n")
		b.WriteString("server {\n")
		b.WriteString("    listen 443 ssl http2;\n")
		b.WriteString("    server_name " + host + ";\n\n")
		b.WriteString("    ssl_certificate /etc/letsencrypt/live/" + host + "/fullchain.pem;\n")
		b.WriteString("    ssl_certificate_key /etc/letsencrypt/live/" + host + "/privkey.pem;\n")
		b.WriteString("    ssl_protocols TLSv1.2 TLSv1.3;\n\n")
	} else {
		b.WriteString("\n")
	}
	body("    ")
	b.WriteString("}\n\n")
}

// writeLocation proxies path to the service's internal port, stripping the
// prefix first when one is set.
func writeLocation(b *strings.Builder, indent, path, id, stripPrefix string) {
	b.WriteString(indent + "location " + path + " {\n")
	if stripPrefix != "" {
		b.WriteString(indent + "    rewrite ^" + stripPrefix + "/(.*)$ /$1 break;\n")
	}
	b.WriteString(indent + "    proxy_pass http://" + upstream(id) + ";\n")
	b.WriteString(indent + "    proxy_http_version 1.1;\n")
	b.WriteString(indent + "    proxy_set_header Upgrade $http_upgrade;\n")
	b.WriteString(indent + "    proxy_set_header Connection 'upgrade';\n")
	b.WriteString(indent + "    proxy_set_header Host $host;\n")
	b.WriteString(indent + "    proxy_set_header X-Real-IP $remote_addr;\n")
	b.WriteString(indent + "    proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;\n")
	b.WriteString(indent + "    proxy_set_header X-Forwarded-Proto $scheme;\n")
	b.WriteString(indent + "    proxy_read_timeout 86400;\n")
	b.WriteString(indent + "}\n")
}
