package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgectl/forge/pkg/types"
)

func testConfig(mode types.RoutingMode) *types.ResolvedConfig {
	return &types.ResolvedConfig{
		RoutingMode:  mode,
		ProxyBackend: types.ProxyCaddy,
		Services: map[string]*types.ServiceSpec{
			types.ServiceN8N:      {ID: types.ServiceN8N, Enabled: true},
			types.ServiceLangflow: {ID: types.ServiceLangflow, Enabled: true},
			types.ServiceSupabase: {ID: types.ServiceSupabase, Enabled: true},
			types.ServiceOllama:   {ID: types.ServiceOllama},
		},
	}
}

func TestResolveNoneUsesDefaultPorts(t *testing.T) {
	res, err := Resolve(testConfig(types.RoutingNone))
	require.NoError(t, err)

	assert.Equal(t, Port{N: 5678}, res.Addresses[types.ServiceN8N])
	assert.Equal(t, Port{N: 7860}, res.Addresses[types.ServiceLangflow])
	assert.Equal(t, Port{N: 8000}, res.Addresses[types.ServiceSupabase])
	_, hasOllama := res.Addresses[types.ServiceOllama]
	assert.False(t, hasOllama, "disabled service must not resolve")

	assert.Equal(t, "http", res.Scheme)
	assert.Equal(t, "http://localhost:5678/", res.WebhookURL)
	assert.Equal(t, "http://localhost:8000", res.PublicURL)
	assert.Equal(t, []string{"*"}, res.CORSOrigins)
	assert.NotEmpty(t, res.Warnings, "permissive CORS must be flagged")
}

func TestResolveNoneIgnoresDormantDomains(t *testing.T) {
	// Domains configured under a previous routing mode stay stored but must
	// not leak into port resolution.
	cfg := testConfig(types.RoutingNone)
	cfg.Services[types.ServiceN8N].Domain = "n8n.acme.dev"
	cfg.Services[types.ServiceLangflow].Domain = "langflow.acme.dev"
	cfg.BaseDomain = "acme.dev"

	res, err := Resolve(cfg)
	require.NoError(t, err)

	assert.Equal(t, Port{N: 5678}, res.Addresses[types.ServiceN8N])
	assert.Equal(t, Port{N: 7860}, res.Addresses[types.ServiceLangflow])
	assert.Equal(t, "http://localhost:5678/", res.WebhookURL)
	assert.Equal(t, []string{"*"}, res.CORSOrigins)
	assert.Empty(t, res.Suggestions)
}

func TestResolveNoneDuplicatePorts(t *testing.T) {
	cfg := testConfig(types.RoutingNone)
	cfg.Services[types.ServiceLangflow].Port = 5678

	_, err := Resolve(cfg)
	require.Error(t, err)
	assert.True(t, types.IsTopologyConflictError(err))

	// Moving one service to a free port resolves the conflict.
	cfg.Services[types.ServiceLangflow].Port = 7861
	_, err = Resolve(cfg)
	assert.NoError(t, err)
}

func TestResolveSubdomain(t *testing.T) {
	cfg := testConfig(types.RoutingSubdomain)
	cfg.TLSEmail = "ops@acme.dev"
	cfg.Services[types.ServiceN8N].Domain = "n8n.acme.dev"
	cfg.Services[types.ServiceSupabase].Domain = "api.acme.dev"

	res, err := Resolve(cfg)
	require.NoError(t, err)

	assert.Equal(t, Domain{Host: "n8n.acme.dev"}, res.Addresses[types.ServiceN8N])
	assert.Equal(t, Domain{Host: "api.acme.dev"}, res.Addresses[types.ServiceSupabase])

	// No explicit domain: local-only port plus a suggested sibling domain.
	assert.Equal(t, Port{N: 7860}, res.Addresses[types.ServiceLangflow])
	assert.Equal(t, "langflow.acme.dev", res.Suggestions[types.ServiceLangflow])

	assert.Equal(t, "https", res.Scheme)
	assert.Equal(t, "https://n8n.acme.dev/", res.WebhookURL)
	assert.Equal(t, "https://api.acme.dev", res.PublicURL)
	assert.Equal(t, []string{"https://api.acme.dev", "https://n8n.acme.dev"}, res.CORSOrigins)
}

func TestResolveSubdomainDuplicateDomain(t *testing.T) {
	cfg := testConfig(types.RoutingSubdomain)
	cfg.Services[types.ServiceN8N].Domain = "apps.acme.dev"
	cfg.Services[types.ServiceLangflow].Domain = "apps.acme.dev"

	_, err := Resolve(cfg)
	require.Error(t, err)
	assert.True(t, types.IsTopologyConflictError(err))
}

func TestResolveSubdomainWithoutTLSAllowsBothSchemes(t *testing.T) {
	cfg := testConfig(types.RoutingSubdomain)
	cfg.Services[types.ServiceN8N].Domain = "n8n.acme.dev"

	res, err := Resolve(cfg)
	require.NoError(t, err)

	assert.Equal(t, "http", res.Scheme)
	assert.Equal(t, []string{"http://n8n.acme.dev", "https://n8n.acme.dev"}, res.CORSOrigins)
}

func TestResolvePath(t *testing.T) {
	cfg := testConfig(types.RoutingPath)
	cfg.BaseDomain = "acme.dev"
	cfg.TLSEmail = "ops@acme.dev"

	res, err := Resolve(cfg)
	require.NoError(t, err)

	assert.Equal(t, PathPrefix{Base: "acme.dev", Path: "/n8n"}, res.Addresses[types.ServiceN8N])
	assert.Equal(t, PathPrefix{Base: "acme.dev", Path: "/supabase"}, res.Addresses[types.ServiceSupabase])
	assert.Equal(t, "https://acme.dev/n8n/", res.WebhookURL)
	assert.Equal(t, []string{"https://acme.dev"}, res.CORSOrigins)
}

func TestResolvePathOverlap(t *testing.T) {
	cfg := testConfig(types.RoutingPath)
	cfg.BaseDomain = "acme.dev"
	cfg.Services[types.ServiceN8N].PathPrefix = "/svc"
	cfg.Services[types.ServiceLangflow].PathPrefix = "/svc"

	_, err := Resolve(cfg)
	require.Error(t, err)
	assert.True(t, types.IsTopologyConflictError(err))

	// A nested prefix is a collision too.
	cfg.Services[types.ServiceLangflow].PathPrefix = "/svc/flows"
	_, err = Resolve(cfg)
	assert.Error(t, err)

	// Distinct prefixes that merely share leading characters are fine.
	cfg.Services[types.ServiceLangflow].PathPrefix = "/svc2"
	_, err = Resolve(cfg)
	assert.NoError(t, err)
}

func TestResolvePathRequiresBaseDomain(t *testing.T) {
	_, err := Resolve(testConfig(types.RoutingPath))
	require.Error(t, err)
	assert.True(t, types.IsTopologyConflictError(err))
}

func TestParentDomainInference(t *testing.T) {
	assert.Equal(t, "acme.dev", parentDomain("n8n.acme.dev"))
	assert.Equal(t, "internal.acme.dev", parentDomain("x.internal.acme.dev"))
	// Stripping a bare registrable domain would leave just a TLD.
	assert.Equal(t, "", parentDomain("acme.dev"))
}

func TestProxied(t *testing.T) {
	assert.True(t, Proxied(Domain{Host: "a.example.com"}))
	assert.True(t, Proxied(PathPrefix{Base: "example.com", Path: "/a"}))
	assert.False(t, Proxied(Port{N: 8080}))
}
