package gotext

import (
	"strings"
	"testing"
)

func TestFullVersion(t *testing.T) {
	prev := GitCommit
	defer func() { GitCommit = prev }()

	GitCommit = "unknown"
	if FullVersion() != LibraryVersion {
		t.Errorf("Expected %q, got %q", LibraryVersion, FullVersion())
	}

	GitCommit = "0123456789abcdef"
	if FullVersion() != LibraryVersion+"+0123456" {
		t.Errorf("Expected short commit suffix, got %q", FullVersion())
	}
}

func TestUserAgent(t *testing.T) {
	prev := GitCommit
	defer func() { GitCommit = prev }()
	GitCommit = "unknown"

	ua := UserAgent()
	if !strings.HasPrefix(ua, "gotext/"+LibraryVersion+" ") {
		t.Errorf("Unexpected user agent %q", ua)
	}
	if !strings.Contains(ua, Repository) {
		t.Errorf("User agent should name the repository, got %q", ua)
	}
}

func TestLibraryVersionOverridable(t *testing.T) {
	prev := LibraryVersion
	defer func() { LibraryVersion = prev }()

	LibraryVersion = "9.9.9"
	if !strings.Contains(UserAgent(), "gotext/9.9.9") {
		t.Errorf("User agent should follow LibraryVersion, got %q", UserAgent())
	}
}
