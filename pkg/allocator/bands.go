package allocator

import "github.com/forgectl/forge/pkg/types"

// Allocation bands. Each service gets a share of the host clamped to a
// [min, max] range; the agent builder carries a higher floor than the
// automation service because agent workloads are memory hungry. The model
// server switches bands on CUDA availability but never collapses to zero:
// "enabled but unaccelerated" still reserves a usable allocation.

type band struct {
	weight float64
	min    float64
	max    float64
}

func (b band) apply(total float64) float64 {
	return clamp(total*b.weight, b.min, b.max)
}

var memoryBands = map[string]band{
	types.ServiceN8N:      {weight: 0.2, min: 1, max: 4},
	types.ServiceSupabase: {weight: 0.1, min: 0.5, max: 2},
}

var cpuBands = map[string]band{
	types.ServiceN8N:      {weight: 0.1, min: 0.25, max: 0.5},
	types.ServiceLangflow: {weight: 0.1, min: 0.25, max: 0.5},
	types.ServiceSupabase: {weight: 0.05, min: 0.2, max: 0.3},
}

const (
	// The agent builder wants 4 GB, but on hosts under 8 GB total the floor
	// drops to 3 GB so the stack still fits.
	langflowMemWeight     = 0.4
	langflowMemFloorSmall = 3
	langflowMemFloor      = 4
	langflowMemCap        = 8

	smallHostRAMGB = 8
)

var (
	ollamaMemGPU      = band{weight: 0.4, min: 2, max: 8}
	ollamaMemFallback = band{weight: 0.3, min: 2, max: 4}
)

func memoryLimit(id string, hw types.HardwareProfile) float64 {
	switch id {
	case types.ServiceLangflow:
		floor := float64(langflowMemFloor)
		if hw.RAMTotalGB < smallHostRAMGB {
			floor = langflowMemFloorSmall
		}
		return clamp(hw.RAMTotalGB*langflowMemWeight, floor, langflowMemCap)
	case types.ServiceOllama:
		if hw.CUDAReady() {
			return ollamaMemGPU.apply(hw.RAMTotalGB)
		}
		return ollamaMemFallback.apply(hw.RAMTotalGB)
	default:
		return memoryBands[id].apply(hw.RAMTotalGB)
	}
}

func cpuLimit(id string, hw types.HardwareProfile) float64 {
	cores := float64(hw.CPUCores)
	if id == types.ServiceOllama {
		if hw.CUDAReady() {
			return min(1.0, cores*0.5)
		}
		return min(0.5, cores*0.3)
	}
	return cpuBands[id].apply(cores)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
