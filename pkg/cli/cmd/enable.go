package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgectl/forge/pkg/types"
)

// enableCmd turns a service on. The change is saved to state only; run
// `forge apply` to regenerate the artifacts.
var enableCmd = &cobra.Command{
	Use:   "enable <service>",
	Short: "Enable a service",
	Long: `Enable a service. Known services: ` + strings.Join(types.ServiceIDs, ", ") + `.
The change takes effect on the next apply.`,
	Args:         cobra.ExactArgs(1),
	RunE:         func(cmd *cobra.Command, args []string) error { return setEnabled(cmd, args[0], true) },
	SilenceUsage: true,
}

// disableCmd turns a service off. The backend cannot be disabled since every
// other service depends on it.
var disableCmd = &cobra.Command{
	Use:          "disable <service>",
	Short:        "Disable a service",
	Args:         cobra.ExactArgs(1),
	RunE:         func(cmd *cobra.Command, args []string) error { return setEnabled(cmd, args[0], false) },
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func setEnabled(cmd *cobra.Command, id string, enabled bool) error {
	if !types.KnownService(id) {
		return types.NewValidationError("unknown service: " + id)
	}
	if id == types.ServiceSupabase && !enabled {
		return types.NewValidationError("the backend cannot be disabled, other services depend on it")
	}

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

	svc := state.Service(id)
	if svc.Enabled == enabled {
		hintColor.Printf("%s is already %s\n", id, verb(enabled))
		return nil
	}

	svc.Enabled = enabled
	if !enabled {
		// Drop the per-service tuning so a later re-enable starts clean.
		svc.Tombstone()
	}

	if err := rt.engine.SaveState(ctx, state); err != nil {
		return err
	}

	successColor.Printf("%s %s\n", id, verb(enabled))
	hintColor.Println("run `forge apply` to regenerate the artifacts")
	return nil
}

func verb(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
