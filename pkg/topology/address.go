// Package topology resolves the external address of every exposed service
// for the active routing mode, and derives the values other components
// consume (public URL scheme, webhook URL, CORS allow-list). Generators never
// re-derive defaults; they only consume what this package resolved.
package topology

import (
	"fmt"
	"strings"
)

// ExternalAddress is the resolved external address of a service: a dedicated
// domain, a path prefix under a shared base domain, or a local port.
type ExternalAddress interface {
	fmt.Stringer
	isExternalAddress()
}

// Domain is a dedicated host in subdomain routing mode.
type Domain struct {
	Host string
}

func (Domain) isExternalAddress() {}

func (d Domain) String() string { return d.Host }

// PathPrefix is a shared-domain path in path routing mode.
type PathPrefix struct {
	Base string
	Path string
}

func (PathPrefix) isExternalAddress() {}

func (p PathPrefix) String() string { return p.Base + p.Path }

// Port is a local port in none routing mode, or for a service that stays
// local-only in subdomain mode.
type Port struct {
	N int
}

func (Port) isExternalAddress() {}

func (p Port) String() string { return fmt.Sprintf("localhost:%d", p.N) }

// parentDomain strips the leftmost label: "n8n.example.com" -> "example.com".
// Returns "" when the remainder would not be a usable parent.
func parentDomain(host string) string {
	i := strings.Index(host, ".")
	if i < 0 {
		return ""
	}
	parent := host[i+1:]
	if !strings.Contains(parent, ".") {
		// A bare TLD is not a parent anyone wants subdomains under.
		return ""
	}
	return parent
}
