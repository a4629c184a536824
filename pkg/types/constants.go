package types

// Known service IDs. The backend service is always enabled; the others are
// user toggles. A disabled service keeps its ID in state (tombstoned) so a
// later re-enable restores the same entry.
const (
	ServiceN8N      = "n8n"      // workflow automation
	ServiceLangflow = "langflow" // visual agent builder
	ServiceSupabase = "supabase" // backend-as-a-service, always enabled
	ServiceOllama   = "ollama"   // local model serving, optional
)

// ServiceIDs lists every known service in artifact section order. All
// generators iterate in this order so output is byte-stable.
var ServiceIDs = []string{ServiceN8N, ServiceLangflow, ServiceSupabase, ServiceOllama}

// serviceDefaults carries the static per-service facts the generators need.
type serviceDefaults struct {
	DisplayName  string
	Image        string
	GPUImage     string // used instead of Image when CUDA is available, empty if no GPU build exists
	Port         int    // default host port ("none" routing mode)
	InternalPort int    // port the container listens on
	Volume       string // named data volume
	DiskGB       float64
}

var serviceCatalog = map[string]serviceDefaults{
	ServiceN8N: {
		DisplayName:  "n8n",
		Image:        "n8nio/n8n:latest",
		Port:         5678,
		InternalPort: 5678,
		Volume:       "n8n_data",
		DiskGB:       3,
	},
	ServiceLangflow: {
		DisplayName:  "Langflow",
		Image:        "langflowai/langflow:latest",
		Port:         7860,
		InternalPort: 7860,
		Volume:       "langflow_data",
		DiskGB:       3,
	},
	ServiceSupabase: {
		DisplayName:  "Supabase",
		Image:        "supabase/postgres:latest",
		Port:         8000,
		InternalPort: 5432,
		Volume:       "supabase_data",
		DiskGB:       5,
	},
	ServiceOllama: {
		DisplayName:  "Ollama",
		Image:        "ollama/ollama:latest",
		GPUImage:     "ollama/ollama:latest-gpu",
		Port:         11434,
		InternalPort: 11434,
		Volume:       "ollama_data",
		DiskGB:       5,
	},
}

// KnownService reports whether id names a service this engine manages.
func KnownService(id string) bool {
	_, ok := serviceCatalog[id]
	return ok
}

// DefaultPort returns the default host port for a service.
func DefaultPort(id string) int { return serviceCatalog[id].Port }

// InternalPort returns the container-side port for a service.
func InternalPort(id string) int { return serviceCatalog[id].InternalPort }

// DefaultPathPrefix returns the default path prefix for path routing mode.
func DefaultPathPrefix(id string) string { return "/" + id }

// ServiceImage returns the container image for a service, selecting the GPU
// build when a CUDA-capable GPU is present.
func ServiceImage(id string, cuda bool) string {
	d := serviceCatalog[id]
	if cuda && d.GPUImage != "" {
		return d.GPUImage
	}
	return d.Image
}

// ServiceVolume returns the named data volume for a service.
func ServiceVolume(id string) string { return serviceCatalog[id].Volume }

// ServiceDiskGB returns the disk increment a service adds to the install
// footprint. The backend's share doubles as the base floor.
func ServiceDiskGB(id string) float64 { return serviceCatalog[id].DiskGB }

// ServiceDisplayName returns the human-readable name for a service.
func ServiceDisplayName(id string) string { return serviceCatalog[id].DisplayName }
