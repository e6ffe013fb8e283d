package commands

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/doeshing/baishi/internal/infrastructure/cli/helpers"
	"github.com/doeshing/baishi/internal/version"
)

// buildDetails is what `baishi version` reports.
type buildDetails struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Platform  string
}

// NewVersionCommand creates the version command. --short prints the bare
// version for scripts.
func NewVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show baishi version and build details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			details := currentBuild(debug.ReadBuildInfo)
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), details.Version)
				return nil
			}
			writeBuildDetails(cmd.OutOrStdout(), details)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

// currentBuild prefers -ldflags metadata and falls back to the VCS stamp Go
// embeds in `go install` builds.
func currentBuild(readInfo func() (*debug.BuildInfo, bool)) buildDetails {
	details := buildDetails{
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	info, ok := readInfo()
	if !ok || info == nil {
		return details
	}
	if details.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		details.Version = info.Main.Version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = shortRevision(s.Value)
		case "vcs.time":
			if details.BuildDate == "" {
				details.BuildDate = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if details.Commit == "" && revision != "" {
		details.Commit = revision
		if dirty {
			details.Commit += "-dirty"
		}
	}
	return details
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func writeBuildDetails(out io.Writer, d buildDetails) {
	fmt.Fprintln(out, helpers.HeadingStyle.Render("baishi "+d.Version))
	rows := [][2]string{
		{"commit", d.Commit},
		{"built", d.BuildDate},
		{"go", d.GoVersion},
		{"platform", d.Platform},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(out, "  %s %s\n", helpers.MutedStyle.Render(fmt.Sprintf("%-9s", row[0])), row[1])
	}
}
