package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgectl/forge/pkg/types"
)

var checkHardware hardwareFlags

// checkCmd runs the full synthesis, including the cross-artifact consistency
// pass, and reports findings without writing anything.
var checkCmd = &cobra.Command{
	Use:          "check",
	Short:        "Validate the deployment configuration",
	RunE:         runCheck,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkHardware.register(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	hw, err := checkHardware.profile(state.Hardware)
	if err != nil {
		return err
	}

	plan, err := rt.engine.Synthesize(ctx, state, hw, "")
	if err != nil {
		if incons, ok := err.(*types.InconsistencyError); ok {
			errorColor.Fprintln(os.Stderr, "artifacts are inconsistent:")
			for _, item := range incons.Items {
				fmt.Fprintf(os.Stderr, "  - %s\n", item)
			}
		}
		return err
	}

	printWarnings(plan.Warnings)
	successColor.Printf("configuration ok: %d services, %d artifacts\n",
		len(plan.Config.EnabledServices()), len(plan.Artifacts))
	return nil
}
