package version

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	s := Short()
	if !strings.HasPrefix(s, ApplicationName) {
		t.Errorf("expected version string to start with %q, got %q", ApplicationName, s)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if ua != ApplicationName+"/"+Version {
		t.Errorf("unexpected user agent: %q", ua)
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version != Version {
		t.Errorf("expected version %q, got %q", Version, info.Version)
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("expected platform in os/arch form, got %q", info.Platform)
	}
}
