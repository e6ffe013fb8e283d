package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/baishi/internal/app"
	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/infrastructure/cli/helpers"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd, cmd.OutOrStdout(), container)
		},
	}
}

// runDoctorDiagnostics runs environment diagnostics
func runDoctorDiagnostics(cmd *cobra.Command, out io.Writer, container *app.Container) error {
	if container.DoctorService == nil {
		return errors.New(ErrDoctorServiceUnavailable)
	}

	report, err := container.DoctorService.Run(cmd.Context())

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
		fmt.Fprintf(out, "%s %s - %s\n",
			statusBadge(check.Status),
			check.Name,
			check.Details)
	}
}

func statusBadge(status domain.HealthStatus) string {
	badge := "[" + strings.ToUpper(string(status)) + "]"
	switch status {
	case domain.HealthOK:
		return helpers.SuccessStyle.Render(badge)
	case domain.HealthWarn:
		return helpers.WarnStyle.Render(badge)
	default:
		return helpers.ErrorStyle.Render(badge)
	}
}
