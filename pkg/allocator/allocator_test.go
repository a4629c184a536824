package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgectl/forge/pkg/types"
)

func defaultHost() types.HardwareProfile {
	return types.HardwareProfile{
		CPUCores:       4,
		RAMTotalGB:     8,
		RAMAvailableGB: 6,
		DiskFreeGB:     50,
	}
}

var defaultSet = []string{types.ServiceN8N, types.ServiceLangflow, types.ServiceSupabase}

func TestAllocateDefaultSet(t *testing.T) {
	limits, diag := Allocate(defaultHost(), defaultSet)
	require.False(t, diag.Fatal(), "unexpected errors: %v", diag.Errors)
	require.Empty(t, diag.Warnings)

	assert.InDelta(t, 1.6, limits[types.ServiceN8N].MemoryGB, 0.001)
	assert.InDelta(t, 4.0, limits[types.ServiceLangflow].MemoryGB, 0.001)
	assert.InDelta(t, 0.8, limits[types.ServiceSupabase].MemoryGB, 0.001)

	assert.InDelta(t, 0.4, limits[types.ServiceN8N].CPUCores, 0.001)
	assert.InDelta(t, 0.4, limits[types.ServiceLangflow].CPUCores, 0.001)
	assert.InDelta(t, 0.2, limits[types.ServiceSupabase].CPUCores, 0.001)

	_, hasOllama := limits[types.ServiceOllama]
	assert.False(t, hasOllama, "disabled service must get no entry")
}

func TestAllocateNeverExceedsTotalRAM(t *testing.T) {
	for _, ram := range []float64{16, 32, 64} {
		hw := defaultHost()
		hw.RAMTotalGB = ram
		hw.RAMAvailableGB = ram

		limits, diag := Allocate(hw, append(defaultSet, types.ServiceOllama))
		require.False(t, diag.Fatal(), "ram=%v: %v", ram, diag.Errors)

		var sum float64
		for _, l := range limits {
			sum += l.MemoryGB
		}
		assert.LessOrEqual(t, sum, ram, "ram=%v", ram)
	}
}

func TestAllocateInfeasibleMemory(t *testing.T) {
	hw := defaultHost()
	hw.RAMTotalGB = 4
	hw.RAMAvailableGB = 4

	// n8n 1 + langflow 3 (small-host floor) + supabase 0.5 = 4.5 > 4
	limits, diag := Allocate(hw, defaultSet)
	require.True(t, diag.Fatal())
	assert.Nil(t, limits)
	assert.True(t, types.IsInfeasibleResourcesError(diag.Err()))
}

func TestAllocateInfeasibleDisk(t *testing.T) {
	hw := defaultHost()
	hw.DiskFreeGB = 5 // default set needs 3+3+5 = 11

	_, diag := Allocate(hw, defaultSet)
	require.True(t, diag.Fatal())
	assert.True(t, types.IsInfeasibleResourcesError(diag.Err()))
}

func TestAllocateLowDiskWarning(t *testing.T) {
	hw := defaultHost()
	hw.DiskFreeGB = 12 // above the 11 GB requirement, below the 1.5x margin

	_, diag := Allocate(hw, defaultSet)
	require.False(t, diag.Fatal())
	require.NotEmpty(t, diag.Warnings)
	assert.Contains(t, diag.Warnings[0], "disk")
}

func TestAllocateOllamaBands(t *testing.T) {
	hw := defaultHost()
	hw.RAMTotalGB = 16
	hw.RAMAvailableGB = 14

	// Without CUDA the model server gets the fallback band.
	limits, diag := Allocate(hw, []string{types.ServiceSupabase, types.ServiceOllama})
	require.False(t, diag.Fatal())
	assert.InDelta(t, 4.0, limits[types.ServiceOllama].MemoryGB, 0.001)
	assert.InDelta(t, 0.5, limits[types.ServiceOllama].CPUCores, 0.001)

	hw.GPUAvailable = true
	hw.GPUCUDA = true
	limits, diag = Allocate(hw, []string{types.ServiceSupabase, types.ServiceOllama})
	require.False(t, diag.Fatal())
	assert.InDelta(t, 6.4, limits[types.ServiceOllama].MemoryGB, 0.001)
	assert.InDelta(t, 1.0, limits[types.ServiceOllama].CPUCores, 0.001)
}

func TestAllocateSmallHostWarnings(t *testing.T) {
	hw := defaultHost()
	hw.RAMTotalGB = 6
	hw.RAMAvailableGB = 5

	// langflow drops to the 3 GB floor and a slow-host warning is raised.
	limits, diag := Allocate(hw, defaultSet)
	require.False(t, diag.Fatal(), "errors: %v", diag.Errors)
	assert.InDelta(t, 3.0, limits[types.ServiceLangflow].MemoryGB, 0.001)

	found := false
	for _, w := range diag.Warnings {
		if w == "less than 8 GB RAM, some services may run slowly" {
			found = true
		}
	}
	assert.True(t, found, "warnings: %v", diag.Warnings)
}

func TestAllocateTinyHostRejected(t *testing.T) {
	hw := defaultHost()
	hw.RAMTotalGB = 2
	hw.RAMAvailableGB = 2

	_, diag := Allocate(hw, []string{types.ServiceSupabase})
	assert.True(t, diag.Fatal())
}

func TestAllocateUnknownService(t *testing.T) {
	_, diag := Allocate(defaultHost(), []string{"redis"})
	assert.True(t, diag.Fatal())
}
