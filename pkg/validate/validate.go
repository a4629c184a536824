// Package validate cross-checks the three rendered artifacts before any of
// them is applied. Any finding is fatal: the engine rolls back to backups
// rather than leave a mixed state on disk.
package validate

import (
	"fmt"
	"strings"

	"github.com/forgectl/forge/pkg/types"
)

// Artifacts checks that env, manifest and proxy agree on service enablement
// and external addresses, and that the TLS contact email is usable. An empty
// result means the artifact set is consistent.
func Artifacts(env, manifest, proxy *types.Artifact) []types.Inconsistency {
	var out []types.Inconsistency

	for _, id := range types.ServiceIDs {
		envOn := env.Enabled[id]
		manOn := manifest.Enabled[id]
		proxyOn := proxy.Enabled[id]

		if envOn != manOn || manOn != proxyOn {
			out = append(out, types.Inconsistency{
				Service: id,
				Field:   "enabled",
				Detail: fmt.Sprintf("env=%t manifest=%t proxy=%t",
					envOn, manOn, proxyOn),
			})
			continue
		}

		if !manOn {
			if blockPresent(manifest.Text, id) {
				out = append(out, types.Inconsistency{
					Service: id,
					Field:   "enabled",
					Detail:  "disabled service still has a manifest block",
				})
			}
			continue
		}

		if !blockPresent(manifest.Text, id) {
			out = append(out, types.Inconsistency{
				Service: id,
				Field:   "enabled",
				Detail:  "enabled service has no manifest block",
			})
		}

		manAddr, manHas := manifest.Addresses[id]
		proxyAddr, proxyHas := proxy.Addresses[id]
		if proxyHas {
			if !manHas || manAddr != proxyAddr {
				out = append(out, types.Inconsistency{
					Service: id,
					Field:   "address",
					Detail:  fmt.Sprintf("manifest=%q proxy=%q", manAddr, proxyAddr),
				})
			}
			if !strings.Contains(proxy.Text, hostOf(proxyAddr)) {
				out = append(out, types.Inconsistency{
					Service: id,
					Field:   "address",
					Detail:  fmt.Sprintf("proxy text does not route %q", proxyAddr),
				})
			}
		}
	}

	if env.TLSEmail != manifest.TLSEmail || manifest.TLSEmail != proxy.TLSEmail {
		out = append(out, types.Inconsistency{
			Field:  "tls_email",
			Detail: "artifacts disagree on the TLS contact email",
		})
	} else if env.TLSEmail != "" {
		if err := TLSEmail(env.TLSEmail); err != nil {
			out = append(out, types.Inconsistency{
				Field:  "tls_email",
				Detail: err.Error(),
			})
		}
	}

	return out
}

// Err wraps a non-empty finding list in an InconsistencyError.
func Err(items []types.Inconsistency) error {
	if len(items) == 0 {
		return nil
	}
	return &types.InconsistencyError{Items: items}
}

// blockPresent reports whether the manifest text declares a service block.
// The match is anchored on the yaml nesting ("    id:") so service names that
// are substrings of each other do not collide.
func blockPresent(manifest, id string) bool {
	return strings.Contains(manifest, "\n    "+id+":")
}

func hostOf(addr string) string {
	if i := strings.IndexAny(addr, "/:"); i > 0 {
		return addr[:i]
	}
	return addr
}
