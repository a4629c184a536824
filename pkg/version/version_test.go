package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version = "1.2.3"
	Commit = "abcdef1234567890"

	info := Info()
	if !strings.Contains(info, "1.2.3") {
		t.Errorf("Info() = %q, want it to contain the version", info)
	}
	if !strings.Contains(info, "abcdef12") || strings.Contains(info, "abcdef123") {
		t.Errorf("Info() = %q, want the commit truncated to 8 chars", info)
	}
}

func TestMap(t *testing.T) {
	m := Map()
	if m["goVersion"] != runtime.Version() {
		t.Errorf("Map()[goVersion] = %q, want %q", m["goVersion"], runtime.Version())
	}
	for _, key := range []string{"version", "commit", "buildTime", "os", "arch"} {
		if m[key] == "" {
			t.Errorf("Map()[%s] is empty", key)
		}
	}
}
