package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgectl/forge/pkg/types"
)

func TestHardwareFlagsParseMemoryUnits(t *testing.T) {
	f := hardwareFlags{cpus: 4, ramTotal: "8g", ramAvail: "6144m", diskFree: 50}

	hw, err := f.profile(types.HardwareProfile{})
	require.NoError(t, err)
	assert.Equal(t, 4, hw.CPUCores)
	assert.Equal(t, 8.0, hw.RAMTotalGB)
	assert.Equal(t, 6.0, hw.RAMAvailableGB)

	// A bare number is gigabytes.
	f = hardwareFlags{cpus: 4, ramTotal: "16", diskFree: 50}
	hw, err = f.profile(types.HardwareProfile{})
	require.NoError(t, err)
	assert.Equal(t, 16.0, hw.RAMTotalGB)
	assert.Equal(t, 16.0, hw.RAMAvailableGB, "available RAM defaults to total")

	f = hardwareFlags{cpus: 4, ramTotal: "lots", diskFree: 50}
	_, err = f.profile(types.HardwareProfile{})
	assert.Error(t, err)
}

func TestHardwareFlagsFallBackToSavedProfile(t *testing.T) {
	saved := types.HardwareProfile{CPUCores: 4, RAMTotalGB: 8, RAMAvailableGB: 6, DiskFreeGB: 50}

	hw, err := (&hardwareFlags{}).profile(saved)
	require.NoError(t, err)
	assert.Equal(t, saved, hw)

	_, err = (&hardwareFlags{}).profile(types.HardwareProfile{})
	assert.Error(t, err, "no flags and no saved profile")
}

func TestHardwareFlagsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hardware.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cpuCores: 8\nramTotalGb: 16\ndiskFreeGb: 100\n"), 0o644))

	hw, err := (&hardwareFlags{file: path}).profile(types.HardwareProfile{})
	require.NoError(t, err)
	assert.Equal(t, 8, hw.CPUCores)
	assert.Equal(t, 16.0, hw.RAMTotalGB)
	assert.Equal(t, 16.0, hw.RAMAvailableGB)
}
