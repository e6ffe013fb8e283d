package cli

import (
	"fmt"
	"io"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/infrastructure/cli/helpers"
	"github.com/doeshing/baishi/internal/ports"
)

// Renderer prints progress to errOut and results to out. Spinners only run
// when errOut is a terminal.
type Renderer struct {
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

// NewRenderer builds a renderer.
func NewRenderer(out, errOut io.Writer, interactive bool) *Renderer {
	return &Renderer{out: out, errOut: errOut, interactive: interactive}
}

// Generating implements ports.Presenter.
func (r *Renderer) Generating() func(ok bool) {
	return r.status("Generating command...", "Command generated", "Failed")
}

// ShowCommand implements ports.Presenter.
func (r *Renderer) ShowCommand(command string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, helpers.FormatCommand(command))
}

// Executing implements ports.Presenter.
func (r *Renderer) Executing() {
	fmt.Fprintln(r.errOut, helpers.MutedStyle.Render("\nExecuting...\n"))
}

// Formatting implements ports.Presenter.
func (r *Renderer) Formatting() func(ok bool) {
	return r.status("Formatting output...", "Output formatted", "Failed to format output")
}

// Testing implements ports.SetupPresenter.
func (r *Renderer) Testing() func(ok bool) {
	return r.status("Testing configuration...", "Configuration test successful!", "Configuration test failed")
}

// Notice implements ports.SetupPresenter.
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, helpers.MutedStyle.Render(msg))
}

// Failure implements ports.SetupPresenter.
func (r *Renderer) Failure(msg string) {
	fmt.Fprintln(r.out, helpers.ErrorStyle.Render(msg))
}

// RenderResponse prints the outcome of a query run.
func (r *Renderer) RenderResponse(resp domain.QueryResponse) {
	if resp.Command == "" {
		return
	}
	if !resp.Confirmed {
		fmt.Fprintln(r.out, helpers.WarnStyle.Render("\nCommand cancelled."))
		return
	}
	if resp.ExecutionResult == nil {
		return
	}
	if resp.Formatted != "" {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, resp.Formatted)
		return
	}
	if text := helpers.FormatResult(*resp.ExecutionResult); text != "" {
		fmt.Fprintln(r.out, text)
	}
}

func (r *Renderer) status(msg, okMsg, failMsg string) func(ok bool) {
	var spinner *Spinner
	if r.interactive {
		spinner = NewSpinner(r.errOut, msg)
		spinner.Start()
	}
	return func(ok bool) {
		if spinner != nil {
			spinner.Stop()
		}
		if ok {
			fmt.Fprintln(r.errOut, helpers.SuccessStyle.Render("✔ "+okMsg))
		} else {
			fmt.Fprintln(r.errOut, helpers.ErrorStyle.Render("✖ "+failMsg))
		}
	}
}

var (
	_ ports.Presenter      = (*Renderer)(nil)
	_ ports.SetupPresenter = (*Renderer)(nil)
)
