// Package engine runs the synthesis pipeline: load state, allocate resources,
// derive credentials, resolve topology, render the artifacts, cross-check
// them, and only then touch the filesystem.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/forgectl/forge/internal/config"
	"github.com/forgectl/forge/pkg/allocator"
	"github.com/forgectl/forge/pkg/credentials"
	"github.com/forgectl/forge/pkg/log"
	"github.com/forgectl/forge/pkg/render"
	"github.com/forgectl/forge/pkg/store"
	"github.com/forgectl/forge/pkg/topology"
	"github.com/forgectl/forge/pkg/types"
	"github.com/forgectl/forge/pkg/validate"
)

// Engine wires the pipeline stages together over a state store.
type Engine struct {
	store  store.Store
	cfg    *config.Config
	logger log.Logger
}

// Plan is the outcome of a synthesis run before anything is written.
type Plan struct {
	RunID    string
	Config   *types.ResolvedConfig
	Limits   map[string]allocator.Limits
	Topology *topology.Resolution

	// Warnings are advisory findings (tight RAM, suggested domains). They
	// never block an apply.
	Warnings []string

	Artifacts []*types.Artifact
}

// New creates an engine over the given store.
func New(st store.Store, cfg *config.Config, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{store: st, cfg: cfg, logger: logger}
}

// LoadState returns the saved state, or the default one on first run.
func (e *Engine) LoadState(ctx context.Context) (*types.State, error) {
	state, err := e.store.GetState(ctx)
	if err == store.ErrNotFound {
		e.logger.Debug("no saved state, starting from defaults")
		return types.DefaultState(), nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// SaveState persists the state.
func (e *Engine) SaveState(ctx context.Context, state *types.State) error {
	return e.store.SaveState(ctx, state)
}

// Synthesize runs the full pipeline against a state and hardware profile. The
// state's credential set is filled in place so a later SaveState keeps the
// derived values stable across runs. adminPassword is only needed when no
// admin hash exists yet.
func (e *Engine) Synthesize(ctx context.Context, state *types.State, hw types.HardwareProfile, adminPassword string) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := e.logger.With(log.String("run_id", runID))

	if err := hw.Validate(); err != nil {
		return nil, err
	}

	cfg := resolvedConfig(state, hw)

	limits, diag := allocator.Allocate(hw, cfg.EnabledServices())
	if diag.Fatal() {
		return nil, diag.Err()
	}
	for id, l := range limits {
		svc := cfg.Services[id]
		svc.MemoryLimitGB = l.MemoryGB
		svc.CPULimitCores = l.CPUCores
	}

	creds, err := credentials.DeriveOrReuse(state.Credentials, adminPassword)
	if err != nil {
		return nil, err
	}
	state.Credentials = creds
	cfg.Credentials = creds

	// The config is fully determined only now that limits and credentials
	// are in place.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := topology.Resolve(cfg)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		RunID:    runID,
		Config:   cfg,
		Limits:   limits,
		Topology: res,
		Warnings: append(append([]string{}, diag.Warnings...), res.Warnings...),
	}

	in := &render.Input{Config: cfg, Limits: limits, Topology: res}
	for _, r := range render.Renderers(cfg.ProxyBackend) {
		artifact, err := r.Render(in)
		if err != nil {
			return nil, err
		}
		plan.Artifacts = append(plan.Artifacts, artifact)
	}

	if len(plan.Artifacts) != 3 {
		return nil, fmt.Errorf("expected 3 artifacts, rendered %d", len(plan.Artifacts))
	}
	findings := validate.Artifacts(plan.Artifacts[0], plan.Artifacts[1], plan.Artifacts[2])
	if err := validate.Err(findings); err != nil {
		return nil, err
	}

	logger.Info("synthesis complete",
		log.Int("services", len(cfg.EnabledServices())),
		log.Int("warnings", len(plan.Warnings)))
	return plan, nil
}

// Apply writes a plan's artifacts under the configured artifact directory and
// persists the state. Existing files are backed up first and restored if any
// write fails, so the artifact set never ends up half-replaced.
func (e *Engine) Apply(ctx context.Context, state *types.State, plan *Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock, err := acquireLock(e.cfg.LockPath())
	if err != nil {
		return err
	}
	defer lock.release()

	w := newWriter(e.cfg.ArtifactDir, e.logger)
	if err := w.writeAll(plan.Artifacts); err != nil {
		if rbErr := w.rollback(); rbErr != nil {
			e.logger.Error("rollback failed", log.Error(rbErr))
		}
		return err
	}

	if err := e.store.SaveState(ctx, state); err != nil {
		return fmt.Errorf("artifacts written but state not saved: %w", err)
	}

	e.logger.Info("artifacts applied",
		log.String("run_id", plan.RunID),
		log.String("dir", e.cfg.ArtifactDir))
	return nil
}

// resolvedConfig joins the saved state with a hardware profile.
func resolvedConfig(state *types.State, hw types.HardwareProfile) *types.ResolvedConfig {
	services := make(map[string]*types.ServiceSpec, len(types.ServiceIDs))
	for _, id := range types.ServiceIDs {
		services[id] = state.Service(id)
	}
	return &types.ResolvedConfig{
		RoutingMode:  state.RoutingMode,
		ProxyBackend: state.ProxyBackend,
		Services:     services,
		Credentials:  state.Credentials,
		Hardware:     hw,
		BaseDomain:   state.BaseDomain,
		TLSEmail:     state.TLSEmail,
	}
}
