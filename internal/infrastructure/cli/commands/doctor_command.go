package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/wxq/internal/app"
	"github.com/doeshing/wxq/internal/application/doctor"
	"github.com/doeshing/wxq/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, endpoint and history setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd.Context(), cmd.OutOrStdout(), doctorService(lazy))
		},
	}
}

// doctorService falls back to a config-only service when the container can
// not be built, so a broken config still gets a report.
func doctorService(lazy *app.Lazy) *doctor.Service {
	container, err := lazy.Container()
	if err != nil {
		return &doctor.Service{ConfigProvider: lazy.Loader()}
	}
	return container.DoctorService
}

// runDoctorDiagnostics runs environment diagnostics
func runDoctorDiagnostics(ctx context.Context, out io.Writer, svc *doctor.Service) error {
	if svc == nil {
		return errors.New(ErrDoctorServiceUnavailable)
	}

	report, err := svc.Run(ctx)

	// Display report even if there were errors
	displayDoctorReport(out, report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	if !report.Healthy() {
		return errors.New("diagnostics found problems")
	}
	return nil
}

// displayDoctorReport displays the health check report
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
