package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultsWhenMissing(t *testing.T) {
	baseDir := t.TempDir()
	c, err := New(baseDir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.APIURL() != defaultAPIURL {
		t.Fatalf("expected default api url %q, got %q", defaultAPIURL, c.APIURL())
	}
	if c.LogLevel() != defaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", defaultLogLevel, c.LogLevel())
	}
	if got := c.RequestTimeout().Seconds(); got != defaultRequestTimeout {
		t.Fatalf("expected default timeout %d, got %v", defaultRequestTimeout, got)
	}
}

func TestNewParsesYaml(t *testing.T) {
	baseDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
api_url: https://api.votoinformado.example/
log_level: debug
request_timeout_seconds: 5
`)
	if err := os.WriteFile(filepath.Join(baseDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(baseDir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.APIURL() != "https://api.votoinformado.example" {
		t.Fatalf("expected trailing slash stripped, got %q", c.APIURL())
	}
	if c.LogLevel() != "debug" {
		t.Fatalf("expected log level debug, got %q", c.LogLevel())
	}
	if got := int(c.RequestTimeout().Seconds()); got != 5 {
		t.Fatalf("expected 5s timeout, got %d", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	baseDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(baseDir, "config.yaml"), []byte("api_url: http://file.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIURL, "http://env.example")
	c, err := New(baseDir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.APIURL() != "http://env.example" {
		t.Fatalf("expected env override, got %q", c.APIURL())
	}
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"relative origin", "api_url: not-a-url\n", true},
		{"bad log level", "log_level: loud\n", true},
		// applyDefaults repairs non-positive timeouts, so this loads.
		{"negative timeout", "api_url: http://ok.example\nrequest_timeout_seconds: -2\n", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			baseDir := t.TempDir()
			if err := os.WriteFile(filepath.Join(baseDir, "config.yaml"), []byte(tc.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := New(baseDir)
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected repaired config, got error: %v", err)
			}
		})
	}
}

func TestInitAppDirCreatesStructure(t *testing.T) {
	baseDir := t.TempDir()
	if err := InitAppDir(baseDir); err != nil {
		t.Fatalf("InitAppDir returned error: %v", err)
	}
	for _, dir := range []string{"logs", "state"} {
		if info, err := os.Stat(filepath.Join(baseDir, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory, err=%v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(baseDir, "config.yaml")); err != nil {
		t.Fatalf("expected seeded config.yaml: %v", err)
	}
	// A second call must not clobber an existing config file.
	if err := os.WriteFile(filepath.Join(baseDir, "config.yaml"), []byte("api_url: http://keep.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitAppDir(baseDir); err != nil {
		t.Fatalf("InitAppDir second call: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(baseDir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "keep.example") {
		t.Fatalf("existing config must be preserved, got: %s", data)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	baseDir := t.TempDir()
	c, err := New(baseDir)
	if err != nil {
		t.Fatal(err)
	}
	c.File.APIURL = "http://saved.example"
	if err := c.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	reloaded, err := New(baseDir)
	if err != nil {
		t.Fatalf("reload after save: %v", err)
	}
	if reloaded.APIURL() != "http://saved.example" {
		t.Fatalf("expected saved origin, got %q", reloaded.APIURL())
	}
}
