package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistory_Add_MaxSize(t *testing.T) {
	h := NewHistory("")
	h.maxSize = 3

	for _, cmd := range []string{"a", "b", "c", "d"} {
		h.Add(cmd)
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if got := h.Get(0); got != "d" {
		t.Errorf("Get(0) = %q, want %q", got, "d")
	}
	if got := h.Get(2); got != "b" {
		t.Errorf("Get(2) = %q, want %q", got, "b")
	}
	if got := h.Get(3); got != "" {
		t.Errorf("Get(3) = %q, want empty", got)
	}
	if got := h.Get(-1); got != "" {
		t.Errorf("Get(-1) = %q, want empty", got)
	}
}

func TestHistory_RedactsPasswords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"login -e a@b.co -p hunter22", "login -e a@b.co -p ***"},
		{"signup --password hunter22 --email a@b.co", "signup --password *** --email a@b.co"},
		{"login --password=hunter22", "login --password=***"},
		{"todo add buy milk", "todo add buy milk"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h := NewHistory("")
			h.Add(tt.in)
			if got := h.Get(0); got != tt.want {
				t.Errorf("Get(0) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(file)
	h.Add("status")
	h.Add("todo list")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("history mode = %o, want 600", perm)
	}

	loaded := NewHistory(file)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Len() != 2 || loaded.Get(0) != "todo list" {
		t.Errorf("loaded entries = %d, most recent %q", loaded.Len(), loaded.Get(0))
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() error: %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")
	h.Add("status")
	if err := h.Save(); err != nil {
		t.Errorf("Save() error: %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() error: %v", err)
	}
	if !strings.EqualFold(h.Get(0), "status") {
		t.Errorf("Get(0) = %q", h.Get(0))
	}
}
