package policy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	loader := NewLoader("")

	pol, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !pol.Blocks("chrome://settings") {
		t.Error("default policy does not block chrome:// pages")
	}
	if pol.Blocks("https://example.com/") {
		t.Error("default policy blocks a regular URL")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := `
restricted_prefixes:
  - "edge://"
skip_url_contains:
  - "intranet.corp"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	pol, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// File additions
	if !pol.Blocks("edge://settings") {
		t.Error("policy does not block the configured prefix")
	}
	if !pol.Blocks("https://intranet.corp/wiki") {
		t.Error("policy does not block the configured substring")
	}
	// Built-ins survive the merge
	if !pol.Blocks("about:blank") {
		t.Error("built-in restriction lost after merging the file")
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Fatal("Load accepted malformed yaml")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := NewLoader("/nonexistent/policy.yaml").Load(); err == nil {
		t.Fatal("Load accepted a missing file path")
	}
}
