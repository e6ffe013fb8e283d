package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/doeshing/baishi/internal/ports"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter implements the interactive prompts with huh forms.
type Prompter struct {
	theme *huh.Theme
}

// NewPrompter constructs a prompter.
func NewPrompter() *Prompter {
	return &Prompter{theme: huh.ThemeCharm()}
}

// AskQuery reads the natural language request when none was given on the
// command line.
func (p *Prompter) AskQuery() (string, error) {
	var query string
	err := huh.NewInput().
		Title("What would you like to do?").
		Value(&query).
		Validate(func(v string) error {
			if strings.TrimSpace(v) == "" {
				return errors.New("please enter a command description")
			}
			return nil
		}).
		WithTheme(p.theme).
		Run()
	return strings.TrimSpace(query), cancelled(err)
}

// ConfirmExecution implements ports.ConfirmationPrompter. Aborting the
// prompt declines.
func (p *Prompter) ConfirmExecution(command string) (bool, error) {
	approved := true
	err := huh.NewConfirm().
		Title("Execute this command?").
		Description(command).
		Affirmative("Yes").
		Negative("No").
		Value(&approved).
		WithTheme(p.theme).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return approved, nil
}

// Select implements ports.SetupPrompter.
func (p *Prompter) Select(title string, options []ports.Option, current string) (string, error) {
	huhOptions := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		huhOptions = append(huhOptions, huh.NewOption(option.Label, option.Value))
	}
	choice := current
	err := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&choice).
		WithTheme(p.theme).
		Run()
	return choice, cancelled(err)
}

// Input implements ports.SetupPrompter.
func (p *Prompter) Input(title, current string, validate func(string) error) (string, error) {
	value := current
	err := huh.NewInput().
		Title(title).
		Value(&value).
		Validate(orAccept(validate)).
		WithTheme(p.theme).
		Run()
	return value, cancelled(err)
}

// Password implements ports.SetupPrompter.
func (p *Prompter) Password(title string, validate func(string) error) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Validate(orAccept(validate)).
		WithTheme(p.theme).
		Run()
	return value, cancelled(err)
}

// Confirm implements ports.SetupPrompter.
func (p *Prompter) Confirm(title string, current bool) (bool, error) {
	value := current
	err := huh.NewConfirm().
		Title(title).
		Value(&value).
		WithTheme(p.theme).
		Run()
	return value, cancelled(err)
}

func cancelled(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

func orAccept(validate func(string) error) func(string) error {
	if validate == nil {
		return func(string) error { return nil }
	}
	return validate
}

var (
	_ ports.ConfirmationPrompter = (*Prompter)(nil)
	_ ports.SetupPrompter        = (*Prompter)(nil)
)
