package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestAPIKeyPrecedence(t *testing.T) {
	dir := chdirTemp(t)

	if err := os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"GEMINI_API_KEY": "from-config"}`), 0644); err != nil {
		t.Fatal(err)
	}

	// config.json only
	if got := APIKey("GEMINI_API_KEY"); got != "from-config" {
		t.Errorf("Expected from-config, got %q", got)
	}

	// env beats config.json
	t.Setenv("GEMINI_API_KEY", "from-env")
	if got := APIKey("GEMINI_API_KEY"); got != "from-env" {
		t.Errorf("Expected from-env, got %q", got)
	}

	// secrets.json beats everything
	if err := os.WriteFile(filepath.Join(dir, "secrets.json"),
		[]byte(`{"GEMINI_API_KEY": "from-secrets"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if got := APIKey("GEMINI_API_KEY"); got != "from-secrets" {
		t.Errorf("Expected from-secrets, got %q", got)
	}
}

func TestAPIKeyMissingAndMalformed(t *testing.T) {
	dir := chdirTemp(t)

	if got := APIKey("NOPE_KEY"); got != "" {
		t.Errorf("Expected empty for missing key, got %q", got)
	}
	if _, err := RequireAPIKey("NOPE_KEY"); err == nil {
		t.Error("Expected error from RequireAPIKey")
	}

	// Malformed config file behaves like an empty store.
	if err := os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if got := APIKey("NOPE_KEY"); got != "" {
		t.Errorf("Expected empty for malformed file, got %q", got)
	}
}
