package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/wxq/internal/app"
	"github.com/doeshing/wxq/internal/application/query"
)

// ErrLookupFailed signals a lookup that ended with an error message. The
// message has already been rendered, so main only sets the exit status.
var ErrLookupFailed = errors.New("lookup failed")

func newLookupCommand(lazy *app.Lazy, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [city]",
		Short: "Look up current weather for a city",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := lazy.Container()
			if err != nil {
				return err
			}

			var opts []query.Option
			stderr := cmd.ErrOrStderr()
			if !flags.jsonOutput && isTerminal(stderr) {
				spinner := NewSpinner(stderr, loadingText)
				defer spinner.Stop()
				opts = append(opts, query.WithObserver(spinner.Observe))
			}

			controller := container.NewController(opts...)
			controller.SetInput(strings.Join(args, " "))
			controller.SubmitInput(cmd.Context())
			state := controller.State()

			out := cmd.OutOrStdout()
			if flags.jsonOutput {
				if err := RenderJSON(out, state); err != nil {
					return err
				}
			} else {
				RenderState(out, state)
			}

			if state.HasError() {
				return ErrLookupFailed
			}
			return nil
		},
	}
}
