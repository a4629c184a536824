package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/forgectl/forge/pkg/types"
)

// statusCmd shows the current service set with the allocation and addresses a
// synthesis over the saved state would produce. Nothing is written.
var statusCmd = &cobra.Command{
	Use:          "status",
	Short:        "Show the deployment configuration",
	RunE:         runStatus,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("routing mode:  %s\n", state.RoutingMode)
	fmt.Printf("proxy backend: %s\n", state.ProxyBackend)
	if state.BaseDomain != "" {
		fmt.Printf("base domain:   %s\n", state.BaseDomain)
	}
	if state.TLSEmail != "" {
		fmt.Printf("tls email:     %s\n", state.TLSEmail)
	}
	if state.Hardware.Validate() == nil {
		hw := state.Hardware
		fmt.Printf("hardware:      %d cores, %vG RAM (%vG available), %vG disk free\n",
			hw.CPUCores, types.RoundGB(hw.RAMTotalGB), types.RoundGB(hw.RAMAvailableGB), types.RoundGB(hw.DiskFreeGB))
	}
	fmt.Println()

	// A full synthesis gives the table its limits and addresses; without a
	// usable hardware profile only the enablement column is shown.
	plan, synthErr := rt.engine.Synthesize(ctx, state, state.Hardware, "")

	rows := pterm.TableData{{"SERVICE", "ENABLED", "ADDRESS", "MEMORY", "CPUS"}}
	for _, id := range types.ServiceIDs {
		svc := state.Service(id)
		row := []string{types.ServiceDisplayName(id), verb(svc.Enabled), "", "", ""}
		if plan != nil && svc.Enabled {
			if addr, ok := plan.Topology.Addresses[id]; ok {
				row[2] = addr.String()
			}
			if l, ok := plan.Limits[id]; ok {
				row[3] = types.FormatMemoryGB(l.MemoryGB)
				row[4] = types.FormatCPU(l.CPUCores)
			}
		}
		rows = append(rows, row)
	}

	headerStyle := pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	if err := pterm.DefaultTable.WithHasHeader(true).WithHeaderStyle(headerStyle).WithData(rows).Render(); err != nil {
		return err
	}

	if synthErr != nil {
		warnColor.Printf("\nsynthesis incomplete: %v\n", synthErr)
		return nil
	}
	printWarnings(plan.Warnings)
	return nil
}
