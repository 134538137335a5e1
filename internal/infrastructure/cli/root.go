package cli

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/wxq/internal/app"
	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	debug      bool
	jsonOutput bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Lazy) {
	flags := &globalFlags{}
	var root *cobra.Command

	lazy := app.NewLazy(ctx, func() app.Options {
		return app.Options{
			ConfigPath: flags.configPath,
			Verbose:    opts.Verbose || flags.debug,
			Override:   flagOverrides(root, flags),
		}
	})

	lookupCmd := newLookupCommand(lazy, flags)

	root = &cobra.Command{
		Use:   "wxq [city]",
		Short: "wxq - current weather for one city",
		Long:  "wxq looks up current conditions for a city against a weather API endpoint.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return lookupCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default ~/.wxq/config.yaml)")
	pf.StringVar(&flags.baseURL, "base-url", "", "Override endpoint base URL (empty string for same-origin)")
	pf.DurationVar(&flags.timeout, "timeout", domain.DefaultHTTPTimeout, "Override request timeout (0 disables)")
	pf.BoolVar(&flags.debug, "debug", false, "Enable verbose logging")
	pf.BoolVar(&flags.jsonOutput, "json", false, "Print the lookup state as JSON")

	root.AddCommand(lookupCmd)
	root.AddCommand(newInteractiveCommand(lazy))
	root.AddCommand(commands.NewHistoryCommand(lazy))
	root.AddCommand(commands.NewConfigCommand(lazy))
	root.AddCommand(commands.NewDoctorCommand(lazy))
	root.AddCommand(commands.NewVersionCommand())
	return root, lazy
}

// flagOverrides applies only the flags the user actually set.
func flagOverrides(root *cobra.Command, flags *globalFlags) func(*domain.Config) {
	return func(cfg *domain.Config) {
		if root == nil {
			return
		}
		pf := root.PersistentFlags()
		if pf.Changed("base-url") {
			cfg.Endpoint.BaseURL = strings.TrimSpace(flags.baseURL)
		}
		if pf.Changed("timeout") {
			cfg.Endpoint.TimeoutSeconds = timeoutSeconds(flags.timeout)
		}
		if flags.debug {
			cfg.Logging.Level = "debug"
		}
	}
}

// timeoutSeconds rounds up to whole seconds; non-positive disables the timeout.
func timeoutSeconds(d time.Duration) int {
	if d <= 0 {
		return -1
	}
	return int(math.Ceil(d.Seconds()))
}

func newInteractiveCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"tui"},
		Short:   "Open the interactive lookup form",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := lazy.Container()
			if err != nil {
				return err
			}
			return RunInteractive(cmd.Context(), container.NewController)
		},
	}
}
