package cli

import "fmt"

// ExitError carries the exit code of a failed command up to main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}
