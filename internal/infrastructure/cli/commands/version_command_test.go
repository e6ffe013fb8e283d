package commands

import (
	"bytes"
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/doeshing/baishi/internal/version"
)

func setBuildVars(t *testing.T, v, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := version.Version, version.Commit, version.BuildDate
	version.Version, version.Commit, version.BuildDate = v, commit, date
	t.Cleanup(func() {
		version.Version, version.Commit, version.BuildDate = oldVersion, oldCommit, oldDate
	})
}

func TestCurrentBuildPrefersLinkerValues(t *testing.T) {
	setBuildVars(t, "v1.2.0", "abc1234", "2025-01-01")
	info := &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffffffffffffff"}},
	}

	got := currentBuild(func() (*debug.BuildInfo, bool) { return info, true })
	if got.Version != "v1.2.0" || got.Commit != "abc1234" || got.BuildDate != "2025-01-01" {
		t.Errorf("currentBuild() = %+v", got)
	}
	if got.GoVersion != runtime.Version() || got.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("runtime details = %+v", got)
	}
}

func TestCurrentBuildFallsBackToVCSStamp(t *testing.T) {
	setBuildVars(t, "dev", "", "")
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2025-06-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	got := currentBuild(func() (*debug.BuildInfo, bool) { return info, true })
	if got.Version != "v0.3.0" {
		t.Errorf("Version = %q, want v0.3.0", got.Version)
	}
	if got.Commit != "0123456789ab-dirty" {
		t.Errorf("Commit = %q, want short dirty revision", got.Commit)
	}
	if got.BuildDate != "2025-06-01T10:00:00Z" {
		t.Errorf("BuildDate = %q", got.BuildDate)
	}

	info.Main.Version = "(devel)"
	if got := currentBuild(func() (*debug.BuildInfo, bool) { return info, true }); got.Version != "dev" {
		t.Errorf("devel build Version = %q, want dev", got.Version)
	}
	if got := currentBuild(func() (*debug.BuildInfo, bool) { return nil, false }); got.Commit != "" {
		t.Errorf("no build info Commit = %q", got.Commit)
	}
}

func TestWriteBuildDetailsSkipsEmptyRows(t *testing.T) {
	var out bytes.Buffer
	writeBuildDetails(&out, buildDetails{Version: "dev", GoVersion: "go1.25.3", Platform: "linux/amd64"})
	if text := out.String(); strings.Contains(text, "commit") || strings.Contains(text, "built") {
		t.Errorf("empty rows rendered:\n%s", text)
	}
}

func TestVersionCommandOutput(t *testing.T) {
	setBuildVars(t, "v1.2.0", "abc1234", "2025-01-01")

	var out bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	text := out.String()
	for _, want := range []string{"baishi v1.2.0", "commit", "abc1234", "built", "2025-01-01", "platform", runtime.GOOS} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	out.Reset()
	cmd = NewVersionCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute(--short) error = %v", err)
	}
	if got := out.String(); got != "v1.2.0\n" {
		t.Errorf("--short output = %q, want v1.2.0", got)
	}
}
