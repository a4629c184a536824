package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgectl/forge/pkg/types"
)

func consistentSet() (env, manifest, proxy *types.Artifact) {
	enabled := map[string]bool{
		types.ServiceN8N:      true,
		types.ServiceLangflow: true,
		types.ServiceSupabase: true,
		types.ServiceOllama:   false,
	}
	addresses := map[string]string{
		types.ServiceN8N:      "n8n.acme.dev",
		types.ServiceLangflow: "langflow.acme.dev",
		types.ServiceSupabase: "api.acme.dev",
	}
	manifestText := "services:\n    n8n:\n        image: x\n    langflow:\n        image: x\n    supabase:\n        image: x\n"
	proxyText := "n8n.acme.dev {\n}\nlangflow.acme.dev {\n}\napi.acme.dev {\n}\n"

	env = &types.Artifact{Kind: types.ArtifactEnv, Enabled: enabled, TLSEmail: "ops@acme.dev"}
	manifest = &types.Artifact{Kind: types.ArtifactManifest, Text: manifestText, Enabled: enabled, Addresses: addresses, TLSEmail: "ops@acme.dev"}
	proxy = &types.Artifact{Kind: types.ArtifactProxy, Text: proxyText, Enabled: enabled, Addresses: addresses, TLSEmail: "ops@acme.dev"}
	return env, manifest, proxy
}

func TestConsistentArtifactsPass(t *testing.T) {
	env, manifest, proxy := consistentSet()
	findings := Artifacts(env, manifest, proxy)
	assert.Empty(t, findings)
	assert.NoError(t, Err(findings))
}

func TestEnablementDisagreement(t *testing.T) {
	env, manifest, proxy := consistentSet()
	env.Enabled[types.ServiceOllama] = true

	findings := Artifacts(env, manifest, proxy)
	require.Len(t, findings, 1)
	assert.Equal(t, types.ServiceOllama, findings[0].Service)
	assert.Equal(t, "enabled", findings[0].Field)

	err := Err(findings)
	require.Error(t, err)
	assert.True(t, types.IsInconsistencyError(err))
}

func TestAddressDisagreement(t *testing.T) {
	env, manifest, proxy := consistentSet()
	manifest.Addresses[types.ServiceN8N] = "other.acme.dev"

	findings := Artifacts(env, manifest, proxy)
	require.NotEmpty(t, findings)
	assert.Equal(t, "address", findings[0].Field)
}

func TestMissingManifestBlock(t *testing.T) {
	env, manifest, proxy := consistentSet()
	manifest.Text = "services:\n    n8n:\n        image: x\n    supabase:\n        image: x\n"

	findings := Artifacts(env, manifest, proxy)
	require.NotEmpty(t, findings)
	assert.Equal(t, types.ServiceLangflow, findings[0].Service)
}

func TestProxyMissingRoute(t *testing.T) {
	env, manifest, proxy := consistentSet()
	proxy.Text = "n8n.acme.dev {\n}\nlangflow.acme.dev {\n}\n"

	findings := Artifacts(env, manifest, proxy)
	require.NotEmpty(t, findings)
	assert.Equal(t, types.ServiceSupabase, findings[0].Service)
}

func TestTLSEmailDisagreement(t *testing.T) {
	env, manifest, proxy := consistentSet()
	proxy.TLSEmail = "other@acme.dev"

	findings := Artifacts(env, manifest, proxy)
	require.Len(t, findings, 1)
	assert.Equal(t, "tls_email", findings[0].Field)
}

func TestPlaceholderTLSEmailRejected(t *testing.T) {
	env, manifest, proxy := consistentSet()
	for _, a := range []*types.Artifact{env, manifest, proxy} {
		a.TLSEmail = "test@test.test"
	}

	findings := Artifacts(env, manifest, proxy)
	require.Len(t, findings, 1)
	assert.Equal(t, "tls_email", findings[0].Field)
}

func TestTLSEmail(t *testing.T) {
	assert.NoError(t, TLSEmail("ops@acme.dev"))
	assert.NoError(t, TLSEmail("first.last+tag@company.co.uk"))

	for _, bad := range []string{
		"",
		"not-an-email",
		"missing@tld",
		"test@test.test",
		"admin@example.com",
		"anything@example.org",
	} {
		assert.Error(t, TLSEmail(bad), bad)
	}
}
