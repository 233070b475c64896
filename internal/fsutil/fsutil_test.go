package fsutil

import (
	"path/filepath"
	"testing"
)

func TestCleanRelPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{".", ""},
		{"/", ""},
		{"a", "a"},
		{"/a/b", "a/b"},
		{"a//b", "a/b"},
		{"a/./b", "a/b"},
		{"a/b/", "a/b"},
		{"../a", "a"},
		{"a/../../b", "b"},
		{"..", ""},
		{"\\a\\b", "a/b"},
		{"  a/b  ", "a/b"},
	}
	for _, tt := range tests {
		if got := CleanRelPath(tt.in); got != tt.want {
			t.Errorf("CleanRelPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinWithinRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "share")

	got, err := JoinWithinRoot(root, "docs/report.txt")
	if err != nil {
		t.Fatalf("JoinWithinRoot: %v", err)
	}
	want := filepath.Join(root, "docs", "report.txt")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, err = JoinWithinRoot(root, "")
	if err != nil || got != root {
		t.Errorf("empty rel: got %q, %v; want root", got, err)
	}

	if _, err := JoinWithinRoot(root, "a\x00b"); err == nil {
		t.Error("expected error for NUL byte in path")
	}
}

func TestRelToRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "share")

	tests := []struct {
		abs     string
		want    string
		wantErr bool
	}{
		{root, "", false},
		{filepath.Join(root, "a"), "a", false},
		{filepath.Join(root, "a", "b"), "a/b", false},
		{filepath.Join(string(filepath.Separator), "srv"), "", true},
		{filepath.Join(string(filepath.Separator), "etc", "passwd"), "", true},
	}
	for _, tt := range tests {
		got, err := RelToRoot(root, tt.abs)
		if tt.wantErr {
			if err == nil {
				t.Errorf("RelToRoot(%q): expected error, got %q", tt.abs, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("RelToRoot(%q): %v", tt.abs, err)
			continue
		}
		if got != tt.want {
			t.Errorf("RelToRoot(%q) = %q, want %q", tt.abs, got, tt.want)
		}
	}
}
