package domain

import "time"

// QueryRequest captures user intent originating from the CLI.
type QueryRequest struct {
	Query            string
	ProviderOverride ProviderID
	ModelOverride    string
	NoConfirm        bool
	Format           bool
	Raw              bool
}

// QueryResponse is the canonical response propagated back to the CLI.
type QueryResponse struct {
	Query           string
	Command         string
	Provider        ProviderID
	Confirmed       bool
	ExecutionResult *ExecutionResult
	Formatted       string
	FormatErr       error
}

// ExitCode is the process exit code implied by the response.
func (r QueryResponse) ExitCode() int {
	if r.ExecutionResult == nil || r.ExecutionResult.Success {
		return 0
	}
	if r.ExecutionResult.ExitCode == 0 {
		return 1
	}
	return r.ExecutionResult.ExitCode
}

// ExecutionResult wraps details from the command runner.
type ExecutionResult struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Success   bool
	TimedOut  bool
	Truncated bool
	Duration  time.Duration
}

// CombinedOutput is stdout followed by stderr.
func (r ExecutionResult) CombinedOutput() string {
	return r.Stdout + r.Stderr
}
