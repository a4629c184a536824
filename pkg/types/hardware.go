package types

// HardwareProfile is an immutable snapshot of the host, supplied by the
// operator or a detection step. The synthesis engine never mutates it.
type HardwareProfile struct {
	CPUCores       int     `json:"cpuCores" yaml:"cpuCores"`
	RAMTotalGB     float64 `json:"ramTotalGb" yaml:"ramTotalGb"`
	RAMAvailableGB float64 `json:"ramAvailableGb" yaml:"ramAvailableGb"`
	GPUAvailable   bool    `json:"gpuAvailable" yaml:"gpuAvailable"`
	GPUCUDA        bool    `json:"gpuCuda" yaml:"gpuCuda"`
	DiskFreeGB     float64 `json:"diskFreeGb" yaml:"diskFreeGb"`
}

// Validate validates the hardware profile.
func (h HardwareProfile) Validate() error {
	if h.CPUCores <= 0 {
		return NewValidationError("hardware profile: cpu cores must be positive")
	}
	if h.RAMTotalGB <= 0 {
		return NewValidationError("hardware profile: total RAM must be positive")
	}
	if h.RAMAvailableGB < 0 {
		return NewValidationError("hardware profile: available RAM cannot be negative")
	}
	if h.RAMAvailableGB > h.RAMTotalGB {
		return NewValidationError("hardware profile: available RAM exceeds total RAM")
	}
	if h.DiskFreeGB < 0 {
		return NewValidationError("hardware profile: free disk cannot be negative")
	}
	return nil
}

// CUDAReady reports whether a CUDA-capable GPU is usable for model serving.
// A GPU without CUDA support does not count.
func (h HardwareProfile) CUDAReady() bool {
	return h.GPUAvailable && h.GPUCUDA
}
