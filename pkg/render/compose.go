package render

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/forgectl/forge/pkg/topology"
	"github.com/forgectl/forge/pkg/types"
)

// ManifestFileName is the target file of the manifest artifact.
const ManifestFileName = "docker-compose.yml"

// stackNetwork is the shared network every service attaches to.
const stackNetwork = "stack"

// ComposeRenderer renders the container manifest. The manifest is marshaled
// from typed structs so a disabled service's block simply does not exist, and
// yaml marshaling keeps map keys sorted so output is byte-stable.
type ComposeRenderer struct{}

// Kind implements Renderer.
func (ComposeRenderer) Kind() types.ArtifactKind { return types.ArtifactManifest }

type composeFile struct {
	Services map[string]*composeService `yaml:"services"`
	Volumes  map[string]*composeVolume  `yaml:"volumes,omitempty"`
	Networks map[string]*composeNetwork `yaml:"networks,omitempty"`
}

type composeService struct {
	Image       string          `yaml:"image"`
	Restart     string          `yaml:"restart,omitempty"`
	EnvFile     []string        `yaml:"env_file,omitempty"`
	Environment []string        `yaml:"environment,omitempty"`
	Ports       []string        `yaml:"ports,omitempty"`
	Volumes     []string        `yaml:"volumes,omitempty"`
	Networks    []string        `yaml:"networks,omitempty"`
	DependsOn   []string        `yaml:"depends_on,omitempty"`
	Deploy      *composeDeploy `yaml:"deploy,omitempty"`
}

type composeDeploy struct {
	Resources composeResources `yaml:"resources"`
}

type composeResources struct {
	Limits       composeLimits  `yaml:"limits"`
	Reservations *composeReservations `yaml:"reservations,omitempty"`
}

type composeLimits struct {
	Memory string `yaml:"memory"`
	CPUs   string `yaml:"cpus"`
}

type composeReservations struct {
	Devices []composeDevice `yaml:"devices"`
}

type composeDevice struct {
	Driver       string   `yaml:"driver"`
	Count        int      `yaml:"count"`
	Capabilities []string `yaml:"capabilities"`
}

type composeVolume struct {
	Driver string `yaml:"driver"`
}

type composeNetwork struct {
	Driver string `yaml:"driver"`
}

// Render implements Renderer.
func (r ComposeRenderer) Render(in *Input) (*types.Artifact, error) {
	cfg := in.Config

	file := composeFile{
		Services: make(map[string]*composeService),
		Volumes:  make(map[string]*composeVolume),
		Networks: map[string]*composeNetwork{stackNetwork: {Driver: "bridge"}},
	}

	for _, id := range cfg.EnabledServices() {
		svc, err := r.service(in, id)
		if err != nil {
			return nil, err
		}
		file.Services[id] = svc
		file.Volumes[types.ServiceVolume(id)] = &composeVolume{Driver: "local"}
	}

	if cfg.RoutingMode != types.RoutingNone {
		name, svc := r.proxyService(in)
		file.Services[name] = svc
		if cfg.ProxyBackend == types.ProxyCaddy {
			file.Volumes["caddy_data"] = &composeVolume{Driver: "local"}
		}
	}

	out, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	return &types.Artifact{
		Kind:      types.ArtifactManifest,
		Name:      ManifestFileName,
		Text:      string(out),
		Enabled:   enabledFlags(cfg),
		Addresses: addressStrings(in),
		TLSEmail:  cfg.TLSEmail,
	}, nil
}

func (r ComposeRenderer) service(in *Input, id string) (*composeService, error) {
	cfg := in.Config

	limits, ok := in.Limits[id]
	if !ok {
		return nil, &types.MissingFieldError{Artifact: "manifest", Service: id, Field: "resource limits"}
	}
	addr, ok := in.Topology.Addresses[id]
	if !ok {
		return nil, &types.MissingFieldError{Artifact: "manifest", Service: id, Field: "external address"}
	}

	svc := &composeService{
		Image:    types.ServiceImage(id, cfg.Hardware.CUDAReady()),
		Restart:  "unless-stopped",
		EnvFile:  []string{EnvFileName},
		Volumes:  serviceMounts(id),
		Networks: []string{stackNetwork},
		Deploy: &composeDeploy{
			Resources: composeResources{
				Limits: composeLimits{
					Memory: types.FormatMemoryGB(limits.MemoryGB),
					CPUs:   types.FormatCPU(limits.CPUCores),
				},
			},
		},
	}

	svc.Environment = serviceEnvironment(id)
	sort.Strings(svc.Environment)

	// Ports are only published when the service is reached directly; behind
	// the proxy it stays on the internal network.
	if port, direct := addr.(topology.Port); direct {
		svc.Ports = []string{fmt.Sprintf("%d:%d", port.N, types.InternalPort(id))}
	}

	if id != types.ServiceSupabase {
		svc.DependsOn = []string{types.ServiceSupabase}
	}

	if id == types.ServiceOllama && cfg.Hardware.CUDAReady() {
		svc.Deploy.Resources.Reservations = &composeReservations{
			Devices: []composeDevice{{Driver: "nvidia", Count: 1, Capabilities: []string{"gpu"}}},
		}
	}

	return svc, nil
}

// serviceEnvironment builds the environment entries for a service. Values are
// env-file references (the expansion happens at manifest evaluation time), so
// no literal secret ever appears in the manifest.
func serviceEnvironment(id string) []string {
	var env []string
	switch id {
	case types.ServiceN8N:
		env = []string{
			"N8N_HOST=0.0.0.0",
			"N8N_PROTOCOL=${N8N_PROTOCOL}",
			"WEBHOOK_URL=${WEBHOOK_URL}",
		}
	case types.ServiceLangflow:
		env = []string{
			"LANGFLOW_HOST=0.0.0.0",
		}
	case types.ServiceSupabase:
		env = []string{
			"POSTGRES_PASSWORD=${POSTGRES_PASSWORD}",
			"JWT_SECRET=${JWT_SECRET}",
			"ANON_KEY=${ANON_KEY}",
			"SERVICE_ROLE_KEY=${SERVICE_ROLE_KEY}",
		}
	case types.ServiceOllama:
		env = []string{
			"OLLAMA_HOST=0.0.0.0",
		}
	}

	return env
}

func serviceMounts(id string) []string {
	volume := types.ServiceVolume(id)
	switch id {
	case types.ServiceN8N:
		return []string{volume + ":/home/node/.n8n"}
	case types.ServiceLangflow:
		return []string{volume + ":/app/data"}
	case types.ServiceSupabase:
		return []string{volume + ":/var/lib/postgresql/data"}
	case types.ServiceOllama:
		return []string{volume + ":/root/.ollama"}
	}
	return nil
}

func (r ComposeRenderer) proxyService(in *Input) (string, *composeService) {
	cfg := in.Config

	// The nginx backend runs a stock nginx over the rendered conf; routing
	// lives entirely in the proxy artifact, never in container env vars.
	if cfg.ProxyBackend == types.ProxyNginxProxy {
		volumes := []string{"./nginx/conf.d:/etc/nginx/conf.d:ro"}
		if cfg.TLSEmail != "" {
			volumes = append(volumes, "/etc/letsencrypt:/etc/letsencrypt:ro")
		}
		return "nginx", &composeService{
			Image:    "nginx:alpine",
			Restart:  "unless-stopped",
			Ports:    []string{"80:80", "443:443"},
			Volumes:  volumes,
			Networks: []string{stackNetwork},
		}
	}

	return "caddy", &composeService{
		Image:    "caddy:2-alpine",
		Restart:  "unless-stopped",
		Ports:    []string{"80:80", "443:443"},
		Volumes:  []string{"./Caddyfile:/etc/caddy/Caddyfile:ro", "caddy_data:/data"},
		Networks: []string{stackNetwork},
	}
}
