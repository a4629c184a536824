package cmd

import (
	"github.com/spf13/cobra"
)

var (
	applyHardware      hardwareFlags
	applyAdminPassword string
	applyDryRun        bool
)

// applyCmd re-runs the synthesis over the saved state and replaces the
// artifacts. Credentials are reused, so re-running with no changes produces
// byte-identical output.
var applyCmd = &cobra.Command{
	Use:          "apply",
	Short:        "Synthesize and write the deployment artifacts",
	RunE:         runApply,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyHardware.register(applyCmd)
	applyCmd.Flags().StringVar(&applyAdminPassword, "admin-password", "", "admin password, only needed when none was set before")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "synthesize and validate without writing anything")
}

func runApply(cmd *cobra.Command, args []string) error {
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

	hw, err := applyHardware.profile(state.Hardware)
	if err != nil {
		return err
	}
	state.Hardware = hw

	plan, err := rt.engine.Synthesize(ctx, state, hw, applyAdminPassword)
	if err != nil {
		return err
	}
	printWarnings(plan.Warnings)

	if applyDryRun {
		successColor.Println("synthesis ok, nothing written (dry run)")
		return nil
	}

	if err := rt.engine.Apply(ctx, state, plan); err != nil {
		return err
	}

	successColor.Printf("%d artifacts written to %s\n", len(plan.Artifacts), rt.cfg.ArtifactDir)
	return nil
}
