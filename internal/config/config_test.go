package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/relgpt/internal/models"
)

// isolate points the config directory at a temp dir and clears relgpt env vars
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	for _, key := range []string{EnvEndpoint, EnvTimeout, EnvAssistantName, EnvDebug} {
		t.Setenv(key, "")
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Endpoint != models.DefaultEndpoint {
		t.Errorf("Expected endpoint %q, got %q", models.DefaultEndpoint, cfg.Endpoint)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("Expected RequestTimeout %d, got %d", DefaultRequestTimeout, cfg.RequestTimeout)
	}
	if cfg.AssistantName != models.DefaultAssistantName {
		t.Errorf("Expected AssistantName %q, got %q", models.DefaultAssistantName, cfg.AssistantName)
	}
	if cfg.Verbose {
		t.Error("Expected Verbose to be false")
	}
	if cfg.Markdown.Style != "dark" {
		t.Errorf("Expected markdown style dark, got %q", cfg.Markdown.Style)
	}
}

func TestConfigTimeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{30, 30 * time.Second},
		{0, DefaultRequestTimeout * time.Second},
		{-5, DefaultRequestTimeout * time.Second},
	}
	for _, tt := range tests {
		cfg := Config{RequestTimeout: tt.seconds}
		if got := cfg.Timeout(); got != tt.want {
			t.Errorf("Timeout() with %d = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestGetConfigDir_EnvOverride(t *testing.T) {
	dir := isolate(t)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if got != dir {
		t.Errorf("GetConfigDir() = %q, want %q", got, dir)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if path != filepath.Join(dir, "config.json") {
		t.Errorf("GetConfigPath() = %q", path)
	}

	logPath, err := GetLogPath()
	if err != nil {
		t.Fatalf("GetLogPath() returned error: %v", err)
	}
	if logPath != filepath.Join(dir, "debug.log") {
		t.Errorf("GetLogPath() = %q", logPath)
	}
}

func TestGetConfigDir_Home(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("GetConfigDir() returned relative path: %s", dir)
	}
	if filepath.Base(dir) != ".relgpt" {
		t.Errorf("GetConfigDir() = %q, want .relgpt suffix", dir)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.Endpoint = "http://advice.internal:9000/advice/"
	cfg.RequestTimeout = 15
	cfg.CopyToClipboard = true
	cfg.TUITheme = "nord"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file permissions = %o, want 600", perm)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded != cfg {
		t.Errorf("LoadConfig() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := isolate(t)

	data, _ := json.Marshal(map[string]any{"endpoint": "https://example.com/advice/"})
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Endpoint != "https://example.com/advice/" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %d, want default", cfg.RequestTimeout)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := isolate(t)

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg != DefaultConfig() {
		t.Error("expected defaults on parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvEndpoint, "http://10.0.0.2:8000/advice/")
	t.Setenv(EnvTimeout, "1m30s")
	t.Setenv(EnvAssistantName, "Sam")
	t.Setenv(EnvDebug, "true")

	cfg, err := ApplyEnv(DefaultConfig())
	if err != nil {
		t.Fatalf("ApplyEnv() returned error: %v", err)
	}
	if cfg.Endpoint != "http://10.0.0.2:8000/advice/" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.RequestTimeout != 90 {
		t.Errorf("RequestTimeout = %d, want 90", cfg.RequestTimeout)
	}
	if cfg.AssistantName != "Sam" {
		t.Errorf("AssistantName = %q", cfg.AssistantName)
	}
	if !cfg.Verbose {
		t.Error("expected Verbose from RELGPT_DEBUG")
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"timeout word", EnvTimeout, "soon"},
		{"timeout zero", EnvTimeout, "0"},
		{"timeout too small", EnvTimeout, "10ms"},
		{"debug", EnvDebug, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			if _, err := ApplyEnv(DefaultConfig()); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := EnvEndpoint + "=http://dotenv.test/advice/\n" + EnvAssistantName + "=Sam\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// Already-set variables win over the file
	t.Setenv(EnvAssistantName, "Alex")
	os.Unsetenv(EnvEndpoint)
	t.Cleanup(func() { os.Unsetenv(EnvEndpoint) })

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv() returned error: %v", err)
	}

	cfg, err := ApplyEnv(DefaultConfig())
	if err != nil {
		t.Fatalf("ApplyEnv() returned error: %v", err)
	}
	if cfg.Endpoint != "http://dotenv.test/advice/" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.AssistantName != "Alex" {
		t.Errorf("AssistantName = %q, want Alex", cfg.AssistantName)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	isolate(t)
	t.Chdir(t.TempDir())
	t.Setenv(EnvTimeout, "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.RequestTimeout != 12 {
		t.Errorf("RequestTimeout = %d, want 12", cfg.RequestTimeout)
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		wantErr  bool
	}{
		{"http://localhost:8000/advice/", false},
		{"https://advice.example.com/v1/advice", false},
		{"localhost:8000/advice/", true},
		{"ftp://example.com/", true},
		{"http://", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateEndpoint(tt.endpoint)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEndpoint(%q) error = %v, wantErr %v", tt.endpoint, err, tt.wantErr)
		}
	}
}
