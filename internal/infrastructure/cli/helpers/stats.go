package helpers

import (
	"sort"

	"github.com/doeshing/baishi/internal/domain"
)

// CommandStatistic is how often one generated command appears in history.
type CommandStatistic struct {
	Command string
	Count   int
}

// HistoryStatistics summarizes a slice of history entries.
type HistoryStatistics struct {
	Total      int
	Executed   int
	Successful int
	ByProvider map[domain.ProviderID]int
	Top        []CommandStatistic
}

// SuccessRate is the percentage of executed commands that succeeded.
func (s HistoryStatistics) SuccessRate() float64 {
	if s.Executed == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Executed) * 100
}

// AnalyzeHistory counts outcomes and the topN most frequent commands.
// A non-positive topN keeps every command.
func AnalyzeHistory(entries []domain.HistoryEntry, topN int) HistoryStatistics {
	stats := HistoryStatistics{
		Total:      len(entries),
		ByProvider: make(map[domain.ProviderID]int),
	}
	freq := make(map[string]int)
	for _, e := range entries {
		if e.Executed {
			stats.Executed++
			if e.Success {
				stats.Successful++
			}
		}
		if e.Provider != "" {
			stats.ByProvider[e.Provider]++
		}
		freq[e.GeneratedCommand]++
	}
	stats.Top = topCommands(freq, topN)
	return stats
}

// topCommands sorts by count descending, then by command ascending.
func topCommands(freq map[string]int, limit int) []CommandStatistic {
	stats := make([]CommandStatistic, 0, len(freq))
	for cmd, count := range freq {
		stats = append(stats, CommandStatistic{Command: cmd, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Command < stats[j].Command
		}
		return stats[i].Count > stats[j].Count
	})
	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}
