package version

import (
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() {
		Version, Commit = origVersion, origCommit
	})

	Version, Commit = "1.2.0", "none"
	if got := Summary(); got != "1.2.0" {
		t.Errorf("Summary() = %q, want %q", got, "1.2.0")
	}

	Commit = "abcdef0123456"
	if got := Summary(); got != "1.2.0 (abcdef0)" {
		t.Errorf("Summary() = %q, want %q", got, "1.2.0 (abcdef0)")
	}

	Version = ""
	if got := Summary(); !strings.HasPrefix(got, "dev") {
		t.Errorf("Summary() with empty version = %q, want dev prefix", got)
	}
}

func TestUserAgent(t *testing.T) {
	origVersion := Version
	t.Cleanup(func() { Version = origVersion })

	Version = "0.3.1"
	if got := UserAgent(); got != "ResearchMate-CLI/0.3.1" {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestPlatform(t *testing.T) {
	if !strings.Contains(Platform(), "/") {
		t.Errorf("Platform() = %q, want os/arch", Platform())
	}
}
