package render

import (
	"strconv"
	"strings"

	"github.com/forgectl/forge/pkg/topology"
	"github.com/forgectl/forge/pkg/types"
)

// EnvFileName is the target file of the env artifact.
const EnvFileName = ".env"

// EnvRenderer renders the env artifact. Every known key is always declared,
// empty when unset or when its service is disabled, so downstream tooling can
// distinguish "known but unset" from "unknown". Section order is fixed.
type EnvRenderer struct{}

// Kind implements Renderer.
func (EnvRenderer) Kind() types.ArtifactKind { return types.ArtifactEnv }

type envSection struct {
	title string
	keys  []string
}

// envLayout is the complete key set of the env artifact, in declaration
// order. The downstream runtime expects exactly these keys.
var envLayout = []envSection{
	{"ROUTING", []string{
		"ROUTING_MODE",
		"PROXY_BACKEND",
	}},
	{"SUBDOMAIN MODE", []string{
		"N8N_DOMAIN",
		"LANGFLOW_DOMAIN",
		"SUPABASE_DOMAIN",
		"OLLAMA_DOMAIN",
	}},
	{"PATH MODE", []string{
		"BASE_DOMAIN",
		"N8N_PATH",
		"LANGFLOW_PATH",
		"SUPABASE_PATH",
		"OLLAMA_PATH",
	}},
	{"SSL/TLS", []string{
		"LETSENCRYPT_EMAIL",
		"SSL_ENABLED",
	}},
	{"N8N", []string{
		"N8N_ENABLED",
		"N8N_PORT",
		"N8N_MEMORY_LIMIT",
		"N8N_CPU_LIMIT",
		"N8N_PROTOCOL",
		"WEBHOOK_URL",
	}},
	{"LANGFLOW", []string{
		"LANGFLOW_ENABLED",
		"LANGFLOW_PORT",
		"LANGFLOW_MEMORY_LIMIT",
		"LANGFLOW_CPU_LIMIT",
	}},
	{"SUPABASE", []string{
		"SUPABASE_PORT",
		"SUPABASE_MEMORY_LIMIT",
		"SUPABASE_CPU_LIMIT",
		"POSTGRES_PASSWORD",
		"SUPABASE_ADMIN_LOGIN",
		"SUPABASE_ADMIN_PASSWORD_HASH",
		"JWT_SECRET",
		"ANON_KEY",
		"SERVICE_ROLE_KEY",
		"SUPABASE_PUBLIC_URL",
		"CORS_ALLOWED_ORIGINS",
	}},
	{"OLLAMA", []string{
		"OLLAMA_ENABLED",
		"OLLAMA_PORT",
		"OLLAMA_MEMORY_LIMIT",
		"OLLAMA_CPU_LIMIT",
		"OLLAMA_IMAGE",
	}},
}

// EnvKeys returns every key the env artifact declares, in order.
func EnvKeys() []string {
	var keys []string
	for _, s := range envLayout {
		keys = append(keys, s.keys...)
	}
	return keys
}

// Render implements Renderer.
func (r EnvRenderer) Render(in *Input) (*types.Artifact, error) {
	values, err := r.values(in)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for i, section := range envLayout {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("# ============================================\n")
		b.WriteString("# " + section.title + "\n")
		b.WriteString("# ============================================\n")
		for _, key := range section.keys {
			b.WriteString(key)
			b.WriteString("=")
			b.WriteString(escapeExpansion(values[key]))
			b.WriteString("\n")
		}
	}

	return &types.Artifact{
		Kind:     types.ArtifactEnv,
		Name:     EnvFileName,
		Text:     b.String(),
		Enabled:  enabledFlags(in.Config),
		TLSEmail: in.Config.TLSEmail,
	}, nil
}

func (r EnvRenderer) values(in *Input) (map[string]string, error) {
	cfg := in.Config
	res := in.Topology

	v := make(map[string]string, len(EnvKeys()))
	for _, key := range EnvKeys() {
		v[key] = ""
	}

	v["ROUTING_MODE"] = string(cfg.RoutingMode)
	v["PROXY_BACKEND"] = string(cfg.ProxyBackend)

	if cfg.RoutingMode == types.RoutingSubdomain {
		v["N8N_DOMAIN"] = cfg.Services[types.ServiceN8N].Domain
		v["LANGFLOW_DOMAIN"] = cfg.Services[types.ServiceLangflow].Domain
		v["SUPABASE_DOMAIN"] = cfg.Services[types.ServiceSupabase].Domain
		v["OLLAMA_DOMAIN"] = cfg.Services[types.ServiceOllama].Domain
	}

	if cfg.RoutingMode == types.RoutingPath {
		v["BASE_DOMAIN"] = cfg.BaseDomain
		for _, id := range cfg.EnabledServices() {
			if addr, ok := res.Addresses[id].(topology.PathPrefix); ok {
				v[strings.ToUpper(id)+"_PATH"] = addr.Path
			}
		}
	}

	v["LETSENCRYPT_EMAIL"] = cfg.TLSEmail
	v["SSL_ENABLED"] = strconv.FormatBool(res.Scheme == "https")

	for _, id := range types.ServiceIDs {
		svc := cfg.Services[id]
		prefix := strings.ToUpper(id)
		if id != types.ServiceSupabase {
			v[prefix+"_ENABLED"] = strconv.FormatBool(svc.Enabled)
		}
		if !svc.Enabled {
			continue
		}
		v[prefix+"_PORT"] = strconv.Itoa(svc.EffectivePort())
		if l, ok := in.Limits[id]; ok {
			v[prefix+"_MEMORY_LIMIT"] = types.FormatMemoryGB(l.MemoryGB)
			v[prefix+"_CPU_LIMIT"] = types.FormatCPU(l.CPUCores)
		}
	}

	if cfg.Services[types.ServiceN8N].Enabled {
		v["N8N_PROTOCOL"] = res.Scheme
		v["WEBHOOK_URL"] = res.WebhookURL
	}

	creds := cfg.Credentials
	v["POSTGRES_PASSWORD"] = creds.DBPassword
	v["SUPABASE_ADMIN_LOGIN"] = creds.AdminLogin
	v["SUPABASE_ADMIN_PASSWORD_HASH"] = creds.AdminPasswordHashEncoded
	v["JWT_SECRET"] = creds.SigningSecret
	v["ANON_KEY"] = creds.PublicKey
	v["SERVICE_ROLE_KEY"] = creds.ServiceKey
	v["SUPABASE_PUBLIC_URL"] = res.PublicURL
	v["CORS_ALLOWED_ORIGINS"] = strings.Join(res.CORSOrigins, ",")

	if cfg.Services[types.ServiceOllama].Enabled {
		v["OLLAMA_IMAGE"] = types.ServiceImage(types.ServiceOllama, cfg.Hardware.CUDAReady())
	}

	return v, nil
}
