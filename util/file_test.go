package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveJsonCreatesDirectories(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a", "b", "config.json")
	if err := SaveJson(file, map[string]int{"steps": 100000}); err != nil {
		t.Fatalf("saving: %s", err)
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading: %s", err)
	}
	out := make(map[string]int)
	if err := json.Unmarshal(bs, &out); err != nil || out["steps"] != 100000 {
		t.Fatalf("read back %v (%v)", out, err)
	}
}

func TestParallelOutput(t *testing.T) {
	out := NewParallelOutput()
	out.Set("waiting")
	if !out.TrySet("running") || out.Get() != "running" {
		t.Fatalf("got %q", out.Get())
	}
}
