package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"0x046D", 0x046D, false},
		{"0X0a44", 0x0A44, false},
		{"1133", 1133, false},
		{" 42 ", 42, false},
		{"0x10000", 0, true},
		{"headset", 0, true},
	}

	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestHistoryPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	defaultPath := filepath.Join(dir, "state", "hookpad", "history.db")

	got, err := historyPath(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("historyPath() error = %v", err)
	}
	if got != defaultPath {
		t.Errorf("historyPath() without config = %q, want %q", got, defaultPath)
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	custom := filepath.Join(dir, "gestures.db")
	content := "device:\n  vendor_id: 0x046D\n  product_id: 0x0A44\njournal:\n  path: " + custom + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err = historyPath(cfgPath)
	if err != nil {
		t.Fatalf("historyPath() error = %v", err)
	}
	if got != custom {
		t.Errorf("historyPath() with config = %q, want %q", got, custom)
	}
}
