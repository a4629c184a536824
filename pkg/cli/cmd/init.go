package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgectl/forge/pkg/types"
)

var (
	initHardware      hardwareFlags
	initRoutingMode   string
	initProxyBackend  string
	initBaseDomain    string
	initTLSEmail      string
	initEnable        []string
	initAdminPassword string
)

// initCmd performs the first synthesis: capture the hardware profile, pick
// the routing mode and service set, derive credentials and write the three
// artifacts.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a deployment and write the artifacts",
	RunE:  runInit,

	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initHardware.register(initCmd)
	initCmd.Flags().StringVar(&initRoutingMode, "routing-mode", string(types.RoutingNone), "routing mode: subdomain, path or none")
	initCmd.Flags().StringVar(&initProxyBackend, "proxy-backend", string(types.ProxyCaddy), "proxy backend: caddy or nginx-proxy")
	initCmd.Flags().StringVar(&initBaseDomain, "base-domain", "", "base domain for path routing")
	initCmd.Flags().StringVar(&initTLSEmail, "email", "", "contact email for TLS certificates")
	initCmd.Flags().StringSliceVar(&initEnable, "enable", nil, "services to enable in addition to the defaults")
	initCmd.Flags().StringVar(&initAdminPassword, "admin-password", "", "admin password for the backend dashboard")
}

func runInit(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()

	state, err := rt.engine.LoadState(ctx)
	if err != nil {
		return err
	}

	state.RoutingMode = types.RoutingMode(initRoutingMode)
	state.ProxyBackend = types.ProxyBackend(initProxyBackend)
	if initBaseDomain != "" {
		state.BaseDomain = initBaseDomain
	}
	if initTLSEmail != "" {
		state.TLSEmail = initTLSEmail
	}
	for _, id := range initEnable {
		id = strings.TrimSpace(id)
		if !types.KnownService(id) {
			return types.NewValidationError("unknown service: " + id)
		}
		state.Service(id).Enabled = true
	}

	hw, err := initHardware.profile(state.Hardware)
	if err != nil {
		return err
	}
	state.Hardware = hw

	plan, err := rt.engine.Synthesize(ctx, state, hw, initAdminPassword)
	if err != nil {
		return err
	}
	printWarnings(plan.Warnings)

	if err := rt.engine.Apply(ctx, state, plan); err != nil {
		return err
	}

	successColor.Printf("Deployment initialized: %d artifacts written to %s\n",
		len(plan.Artifacts), rt.cfg.ArtifactDir)
	return nil
}
