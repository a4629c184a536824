package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/forgectl/forge/internal/config"
	"github.com/forgectl/forge/pkg/engine"
	"github.com/forgectl/forge/pkg/log"
	"github.com/forgectl/forge/pkg/store"
	"github.com/forgectl/forge/pkg/types"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	hintColor    = color.New(color.FgCyan)
)

// runtime holds everything a command needs: settings, logger, an open store
// and the engine over it. close must be called when the command is done.
type runtime struct {
	cfg    *config.Config
	logger log.Logger
	store  store.Store
	engine *engine.Engine
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger := log.New(level, cfg.Log.Format != "json")

	st := store.NewBadgerStore(logger)
	if err := st.Open(cfg.StatePath()); err != nil {
		return nil, err
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		store:  st,
		engine: engine.New(st, cfg, logger),
	}, nil
}

func (r *runtime) close() {
	if err := r.store.Close(); err != nil {
		r.logger.Error("failed to close store", log.Error(err))
	}
	r.logger.Sync()
}

// hardwareFlags collects the host profile from the command line, or from a
// yaml file when --hardware is given.
type hardwareFlags struct {
	file     string
	cpus     int
	ramTotal string
	ramAvail string
	diskFree float64
	gpu      bool
	cuda     bool
}

func (f *hardwareFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "hardware", "", "yaml file with the host hardware profile")
	cmd.Flags().IntVar(&f.cpus, "cpus", 0, "host CPU cores")
	cmd.Flags().StringVar(&f.ramTotal, "ram", "", "host total RAM (e.g. 8, 8g, 512m)")
	cmd.Flags().StringVar(&f.ramAvail, "ram-available", "", "host available RAM (defaults to total)")
	cmd.Flags().Float64Var(&f.diskFree, "disk-free", 0, "host free disk in GB")
	cmd.Flags().BoolVar(&f.gpu, "gpu", false, "host has a GPU")
	cmd.Flags().BoolVar(&f.cuda, "cuda", false, "host GPU supports CUDA")
}

// profile builds the hardware profile from the flags, falling back to the
// saved one when no flag was given.
func (f *hardwareFlags) profile(saved types.HardwareProfile) (types.HardwareProfile, error) {
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return types.HardwareProfile{}, fmt.Errorf("failed to read hardware profile: %w", err)
		}
		var hw types.HardwareProfile
		if err := yaml.Unmarshal(data, &hw); err != nil {
			return types.HardwareProfile{}, fmt.Errorf("failed to parse hardware profile: %w", err)
		}
		if hw.RAMAvailableGB == 0 {
			hw.RAMAvailableGB = hw.RAMTotalGB
		}
		return hw, hw.Validate()
	}

	if f.cpus == 0 && f.ramTotal == "" {
		if err := saved.Validate(); err != nil {
			return types.HardwareProfile{}, fmt.Errorf("no hardware profile: pass --hardware or --cpus/--ram/--disk-free")
		}
		return saved, nil
	}

	ramTotal, err := types.ParseMemoryGB(f.ramTotal)
	if err != nil {
		return types.HardwareProfile{}, fmt.Errorf("--ram: %w", err)
	}
	var ramAvail float64
	if f.ramAvail != "" {
		if ramAvail, err = types.ParseMemoryGB(f.ramAvail); err != nil {
			return types.HardwareProfile{}, fmt.Errorf("--ram-available: %w", err)
		}
	}

	hw := types.HardwareProfile{
		CPUCores:       f.cpus,
		RAMTotalGB:     ramTotal,
		RAMAvailableGB: ramAvail,
		DiskFreeGB:     f.diskFree,
		GPUAvailable:   f.gpu || f.cuda,
		GPUCUDA:        f.cuda,
	}
	if hw.RAMAvailableGB == 0 {
		hw.RAMAvailableGB = hw.RAMTotalGB
	}
	return hw, hw.Validate()
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		warnColor.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
