// Package allocator turns a hardware profile and an enabled-service set into
// per-service resource limits plus feasibility diagnostics.
package allocator

import (
	"fmt"

	"github.com/forgectl/forge/pkg/types"
)

// Limits is the allocation for one enabled service.
type Limits struct {
	MemoryGB float64
	CPUCores float64
}

// Diagnostics carries the outcome of feasibility validation. Errors are
// fatal and block the run; warnings are advisory and generation proceeds.
type Diagnostics struct {
	Errors   []error
	Warnings []string
}

// Fatal reports whether any error blocks the run.
func (d *Diagnostics) Fatal() bool { return len(d.Errors) > 0 }

// Err returns the first fatal error, or nil.
func (d *Diagnostics) Err() error {
	if len(d.Errors) == 0 {
		return nil
	}
	return d.Errors[0]
}

func (d *Diagnostics) warnf(format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// RAM headroom threshold: allocations above this share of total RAM draw a
// warning even when they still fit.
const ramWarnShare = 0.85

// Allocate computes resource limits for every enabled service and validates
// the result against the host. Disabled services get no entry at all, so
// downstream generators omit their blocks.
//
// Validation uses unrounded values; rounding happens only at display time.
func Allocate(hw types.HardwareProfile, enabled []string) (map[string]Limits, *Diagnostics) {
	limits := make(map[string]Limits, len(enabled))
	diag := &Diagnostics{}

	for _, id := range enabled {
		if !types.KnownService(id) {
			diag.Errors = append(diag.Errors, types.NewValidationError(fmt.Sprintf("unknown service %q", id)))
			continue
		}
		limits[id] = Limits{
			MemoryGB: memoryLimit(id, hw),
			CPUCores: cpuLimit(id, hw),
		}
	}
	if diag.Fatal() {
		return nil, diag
	}

	validateMemory(hw, limits, diag)
	validateDisk(hw, enabled, diag)
	validateCPU(hw, limits, diag)
	advisories(hw, limits, diag)

	if diag.Fatal() {
		return nil, diag
	}
	return limits, diag
}

func validateMemory(hw types.HardwareProfile, limits map[string]Limits, diag *Diagnostics) {
	var sum float64
	for _, l := range limits {
		sum += l.MemoryGB
	}

	switch {
	case sum > hw.RAMTotalGB:
		diag.Errors = append(diag.Errors, types.NewInfeasibleResourcesError("memory", sum, hw.RAMTotalGB))
	case sum > hw.RAMTotalGB*ramWarnShare:
		diag.warnf("allocated memory %.1f GB leaves little headroom on a %.1f GB host, keep 1-2 GB free for the system",
			sum, hw.RAMTotalGB)
	case hw.RAMAvailableGB < 1.0:
		diag.warnf("only %.1f GB RAM currently free, consider freeing memory before installing", hw.RAMAvailableGB)
	}
}

func validateDisk(hw types.HardwareProfile, enabled []string, diag *Diagnostics) {
	var required float64
	for _, id := range enabled {
		required += types.ServiceDiskGB(id)
	}

	switch {
	case hw.DiskFreeGB < required:
		diag.Errors = append(diag.Errors, types.NewInfeasibleResourcesError("disk", required, hw.DiskFreeGB))
	case hw.DiskFreeGB < required*1.5:
		diag.warnf("low disk space: %.1f GB free, %.0f GB recommended", hw.DiskFreeGB, required*1.5)
	}
}

// CPU oversubscription is advisory only: containers share cores gracefully.
func validateCPU(hw types.HardwareProfile, limits map[string]Limits, diag *Diagnostics) {
	var sum float64
	for _, l := range limits {
		sum += l.CPUCores
	}
	if sum > float64(hw.CPUCores) {
		diag.warnf("cpu may be oversubscribed: %.1f cores allocated, %d available", sum, hw.CPUCores)
	}
}

func advisories(hw types.HardwareProfile, limits map[string]Limits, diag *Diagnostics) {
	if hw.RAMTotalGB < 4 {
		diag.Errors = append(diag.Errors,
			types.NewValidationError(fmt.Sprintf("at least 4 GB RAM is required, host has %.1f GB", hw.RAMTotalGB)))
		return
	}
	if hw.RAMTotalGB < 8 {
		diag.warnf("less than 8 GB RAM, some services may run slowly")
		if l, ok := limits[types.ServiceLangflow]; ok {
			diag.warnf("the agent builder gets a reduced %.1f GB floor on small hosts, 4 GB or more is recommended for agent workloads",
				l.MemoryGB)
		}
	}
	if _, ok := limits[types.ServiceOllama]; ok && !hw.CUDAReady() && hw.RAMTotalGB < 16 {
		diag.warnf("model serving without a CUDA GPU is not recommended below 16 GB RAM")
	}
}
