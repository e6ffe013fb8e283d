package domain

import "time"

// HistoryEntry captures one generation and its outcome.
type HistoryEntry struct {
	ID               string     `json:"id,omitempty"`
	Timestamp        time.Time  `json:"timestamp"`
	NaturalLanguage  string     `json:"naturalLanguage"`
	GeneratedCommand string     `json:"generatedCommand"`
	Executed         bool       `json:"executed"`
	Output           string     `json:"output,omitempty"`
	Provider         ProviderID `json:"provider,omitempty"`
	ExitCode         int        `json:"exitCode,omitempty"`
	Success          bool       `json:"success,omitempty"`
}

// TrimHistory keeps the newest limit entries in their original order.
// A non-positive limit falls back to DefaultHistoryLimit.
func TrimHistory(entries []HistoryEntry, limit int) []HistoryEntry {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if len(entries) <= limit {
		return entries
	}
	trimmed := make([]HistoryEntry, limit)
	copy(trimmed, entries[len(entries)-limit:])
	return trimmed
}
