package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	API struct {
		BaseURL string        `koanf:"base_url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"api"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/path/to/config.yaml"))
	if l.envPrefix != "TEST_" || l.FilePath() != "/path/to/config.yaml" {
		t.Errorf("options not applied: %q %q", l.envPrefix, l.FilePath())
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: \"http://10.0.2.2:8000\"\n  timeout: 5s\n")

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got := l.GetString("api.base_url"); got != "http://10.0.2.2:8000" {
		t.Errorf("api.base_url = %q", got)
	}

	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") error = %v", err)
	}
}

func TestLoader_EnvKeyMapping(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"TODO_API_BASE_URL", "api.base_url"},
		{"TODO_LOG_LEVEL", "log.level"},
		{"TODO_AUTH_TOKEN_TTL", "auth.token_ttl"},
		{"TODO_DEBUG", "debug"},
	}
	l := NewLoader()
	for _, tt := range tests {
		if got := l.envKey(tt.env); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("TODO_STUB_HTTP_READ_HEADER_TIMEOUT", "3s")

	l := NewLoader(WithEnvPrefix("TODO_STUB_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := l.GetString("http.read_header_timeout"); got != "3s" {
		t.Errorf("http.read_header_timeout = %q", got)
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"api.base_url": "localhost:3000", "debug": true, "port": 8080}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if got := l.GetString("api.base_url"); got != "localhost:3000" {
		t.Errorf("api.base_url = %q", got)
	}
	if !l.GetBool("debug") {
		t.Error("debug should be true")
	}
	if l.GetInt("port") != 8080 {
		t.Errorf("port = %d", l.GetInt("port"))
	}
	if len(l.Keys()) != 3 || len(l.All()) != 3 {
		t.Errorf("Keys() = %v", l.Keys())
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: from-file\n  timeout: 5s\n")
	t.Setenv("TODO_API_BASE_URL", "from-env")

	l := NewLoader(
		WithConfigFile(path),
		WithDefaults(map[string]any{
			"api.base_url": "from-default",
			"api.timeout":  "15s",
			"log.level":    "info",
		}),
	)

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "from-env" {
		t.Errorf("BaseURL = %q, want env to override file", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want file to override default", cfg.API.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, want default", cfg.Log.Level)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_OptionalFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	var cfg testConfig
	if err := NewLoader(WithConfigFile(missing)).Load(&cfg); err == nil {
		t.Error("Load() should fail for a missing required file")
	}
	if err := NewLoader(WithConfigFile(missing), WithOptionalFile()).Load(&cfg); err != nil {
		t.Errorf("Load() with optional file error = %v", err)
	}

	broken := writeConfig(t, "api: [unclosed")
	if err := NewLoader(WithConfigFile(broken), WithOptionalFile()).Load(&cfg); err == nil {
		t.Error("Load() should fail for a malformed optional file")
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	l := NewLoader(WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var next testConfig
	if err := l.Reload(&next); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if next.Log.Level != "debug" {
		t.Errorf("Level after reload = %q", next.Log.Level)
	}
}
