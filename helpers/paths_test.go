package helpers

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanAnnotation(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"src/index.ts", "src/index.ts", false},
		{"  README.md  ", "README.md", false},
		{"a/b/../c.ts", "a/c.ts", false},
		{"", "", true},
		{"/etc/passwd", "", true},
		{"../escape.ts", "", true},
		{"a/../../escape.ts", "", true},
		{".", "", true},
		{"src\\index.ts", "", true},
		{"src/my file.ts", "", true},
	}

	for _, tt := range tests {
		got, err := CleanAnnotation(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("CleanAnnotation(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("CleanAnnotation(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanAnnotation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	dest := t.TempDir()

	got, err := SafeJoin(dest, "src/index.ts")
	if err != nil {
		t.Fatalf("SafeJoin failed: %v", err)
	}
	if !strings.HasPrefix(got, dest+string(filepath.Separator)) {
		t.Errorf("SafeJoin result %q not under %q", got, dest)
	}

	if _, err := SafeJoin(dest, "../outside.ts"); err == nil {
		t.Error("SafeJoin should refuse traversal")
	}
}
