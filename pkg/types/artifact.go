package types

// ArtifactKind identifies one of the three generated outputs.
type ArtifactKind string

// Artifact kinds.
const (
	ArtifactEnv      ArtifactKind = "env"
	ArtifactManifest ArtifactKind = "manifest"
	ArtifactProxy    ArtifactKind = "proxy"
)

// Artifact is one rendered output: the text blob plus the service enablement
// and addresses it encodes. The consistency validator cross-checks the
// metadata of all three before any of them is applied.
type Artifact struct {
	Kind ArtifactKind
	Name string // target file name, e.g. ".env", "docker-compose.yml", "Caddyfile"
	Text string

	// Enabled records, for every known service ID, the enablement flag this
	// artifact encodes. Every generator fills in all known IDs.
	Enabled map[string]bool

	// Addresses records the external address string per exposed service, for
	// artifacts that encode one (manifest and proxy).
	Addresses map[string]string

	// TLSEmail is the TLS contact email this artifact encodes, if any.
	TLSEmail string
}
