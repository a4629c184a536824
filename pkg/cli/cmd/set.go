package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forgectl/forge/pkg/types"
	"github.com/forgectl/forge/pkg/validate"
)

var (
	setDomain       string
	setPath         string
	setPort         int
	setBaseDomain   string
	setTLSEmail     string
	setRoutingMode  string
	setProxyBackend string
)

// setCmd edits one or more settings in the saved state. Per-service settings
// (domain, path, port) need the service name as the argument; deployment-wide
// settings apply without one.
var setCmd = &cobra.Command{
	Use:   "set [service]",
	Short: "Change deployment or service settings",
	Example: `  forge set n8n --domain n8n.example.com
  forge set n8n --domain ""
  forge set langflow --port 7861
  forge set --routing-mode subdomain --email ops@example.com`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runSet,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&setDomain, "domain", "", "service domain for subdomain routing")
	setCmd.Flags().StringVar(&setPath, "path", "", "service path prefix for path routing")
	setCmd.Flags().IntVar(&setPort, "port", 0, "service host port for direct access")
	setCmd.Flags().StringVar(&setBaseDomain, "base-domain", "", "base domain for path routing")
	setCmd.Flags().StringVar(&setTLSEmail, "email", "", "contact email for TLS certificates")
	setCmd.Flags().StringVar(&setRoutingMode, "routing-mode", "", "routing mode: subdomain, path or none")
	setCmd.Flags().StringVar(&setProxyBackend, "proxy-backend", "", "proxy backend: caddy or nginx-proxy")
}

func runSet(cmd *cobra.Command, args []string) error {
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

	// A flag that was passed with an empty value clears the stored field, so
	// presence is decided by Changed, not by the value.
	flags := cmd.Flags()

	serviceFlag := flags.Changed("domain") || flags.Changed("path") || flags.Changed("port")
	if serviceFlag && len(args) == 0 {
		return types.NewValidationError("--domain, --path and --port need a service argument")
	}

	if len(args) == 1 {
		id := args[0]
		if !types.KnownService(id) {
			return types.NewValidationError("unknown service: " + id)
		}
		svc := state.Service(id)
		if flags.Changed("domain") {
			if setDomain != "" {
				if err := types.ValidateDomain(setDomain); err != nil {
					return err
				}
			}
			svc.Domain = setDomain
		}
		if flags.Changed("path") {
			if setPath != "" {
				if err := types.ValidatePathPrefix(setPath); err != nil {
					return err
				}
			}
			svc.PathPrefix = setPath
		}
		if flags.Changed("port") {
			if setPort != 0 {
				if setPort < 1 || setPort > 65535 {
					return types.NewValidationError("port must be between 1 and 65535")
				}
				if setPort < 1024 {
					return types.NewValidationError("ports below 1024 require root privileges")
				}
			}
			svc.Port = setPort
		}
	}

	if flags.Changed("base-domain") {
		if setBaseDomain != "" {
			if err := types.ValidateDomain(setBaseDomain); err != nil {
				return err
			}
		}
		state.BaseDomain = setBaseDomain
	}
	if flags.Changed("email") {
		if setTLSEmail != "" {
			if err := validate.TLSEmail(setTLSEmail); err != nil {
				return types.WrapValidationError(err, "set email")
			}
		}
		state.TLSEmail = setTLSEmail
	}
	if setRoutingMode != "" {
		mode := types.RoutingMode(setRoutingMode)
		if !mode.Valid() {
			return types.NewValidationError("unknown routing mode: " + setRoutingMode)
		}
		state.RoutingMode = mode
	}
	if setProxyBackend != "" {
		backend := types.ProxyBackend(setProxyBackend)
		if !backend.Valid() {
			return types.NewValidationError("unknown proxy backend: " + setProxyBackend)
		}
		state.ProxyBackend = backend
	}

	if err := rt.engine.SaveState(ctx, state); err != nil {
		return err
	}

	successColor.Println("settings saved")
	hintColor.Println("run `forge apply` to regenerate the artifacts")
	return nil
}
