package helpers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/baishi/internal/domain"
)

// Terminal styles shared by the commands. lipgloss drops the colors when the
// output is not a terminal.
var (
	CommandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	HeadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// Rule renders a horizontal separator of width cells.
func Rule(width int) string {
	return MutedStyle.Render(strings.Repeat("─", width))
}

// YesNo renders a boolean setting.
func YesNo(v bool) string {
	if v {
		return SuccessStyle.Render("Yes")
	}
	return ErrorStyle.Render("No")
}

// FormatCommand renders a generated command behind a "$ " prompt, indenting
// continuation lines.
func FormatCommand(command string) string {
	lines := strings.Split(command, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = "$ " + line
		} else {
			lines[i] = "  " + line
		}
	}
	return CommandStyle.Render(strings.Join(lines, "\n"))
}

// FormatResult renders captured output: stdout as is, stderr in red, and a
// failure line when the command failed silently.
func FormatResult(result domain.ExecutionResult) string {
	var parts []string
	if result.Stdout != "" {
		parts = append(parts, strings.TrimRight(result.Stdout, "\n"))
	}
	if result.Stderr != "" {
		parts = append(parts, ErrorStyle.Render(strings.TrimRight(result.Stderr, "\n")))
	}
	if !result.Success && result.Stderr == "" {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("Command failed with exit code %d", result.ExitCode)))
	}
	if result.Truncated {
		parts = append(parts, WarnStyle.Render(fmt.Sprintf("(output truncated at %d bytes)", domain.MaxOutputBytes)))
	}
	return strings.Join(parts, "\n")
}
