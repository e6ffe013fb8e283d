package query

import (
	"strings"
	"testing"
)

func TestBuildPromptIncludesOS(t *testing.T) {
	got := BuildPrompt("show disk usage")
	if !strings.HasPrefix(got, "Current OS: "+DetectOS()+"\n\n") || !strings.HasSuffix(got, "show disk usage") {
		t.Errorf("BuildPrompt() = %q", got)
	}
}

func TestOSName(t *testing.T) {
	for goos, want := range map[string]string{"darwin": "macOS", "windows": "Windows", "linux": "Linux", "freebsd": "freebsd"} {
		if got := osName(goos); got != want {
			t.Errorf("osName(%s) = %s, want %s", goos, got, want)
		}
	}
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "  ls -la \n", "ls -la"},
		{"fenced with language", "```bash\nfind . -name '*.go'\n```", "find . -name '*.go'"},
		{"fenced without language", "```\ndu -sh *\n```", "du -sh *"},
		{"inline fence", "```pwd```", "pwd"},
		{"command label", "Command: git status", "git status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCommand(tt.content); got != tt.want {
				t.Errorf("extractCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}
