package helpers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/baishi/internal/domain"
)

func TestAnalyzeHistory(t *testing.T) {
	entries := []domain.HistoryEntry{
		{GeneratedCommand: "ls", Executed: true, Success: true, Provider: domain.ProviderOpenAI},
		{GeneratedCommand: "ls", Executed: true, Success: false, Provider: domain.ProviderOpenAI},
		{GeneratedCommand: "df -h", Executed: false, Provider: domain.ProviderOllama},
		{GeneratedCommand: "du -sh", Executed: true, Success: true},
	}

	stats := AnalyzeHistory(entries, 2)

	if stats.Total != 4 || stats.Executed != 3 || stats.Successful != 2 {
		t.Errorf("counts = %+v", stats)
	}
	wantTop := []CommandStatistic{{"ls", 2}, {"df -h", 1}}
	if diff := cmp.Diff(wantTop, stats.Top); diff != "" {
		t.Errorf("top commands mismatch (-want +got):\n%s", diff)
	}
	if stats.ByProvider[domain.ProviderOpenAI] != 2 || stats.ByProvider[domain.ProviderOllama] != 1 {
		t.Errorf("ByProvider = %v", stats.ByProvider)
	}
	if rate := stats.SuccessRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("SuccessRate() = %f", rate)
	}
}

func TestSuccessRateWithoutExecutions(t *testing.T) {
	if rate := AnalyzeHistory(nil, 5).SuccessRate(); rate != 0 {
		t.Errorf("SuccessRate() = %f, want 0", rate)
	}
}
