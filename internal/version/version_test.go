package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	Version, Commit, Date = "1.2.3", "abc123", "2026-01-02"
	t.Cleanup(func() { Version, Commit, Date = "dev", "unknown", "unknown" })

	info := Get()
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.Date != "2026-01-02" {
		t.Fatalf("unexpected info: %+v", info)
	}
	s := info.String()
	for _, want := range []string{"fieldmatch 1.2.3", "abc123", "2026-01-02"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
}
