package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.BaseURL != "http://localhost:5000" {
			t.Errorf("expected base url http://localhost:5000, got %s", config.Server.BaseURL)
		}
		if config.Client.FailurePolicy != PolicyBestEffort {
			t.Errorf("expected failure policy %s, got %s", PolicyBestEffort, config.Client.FailurePolicy)
		}
		if config.Database.Path != "./wishctl.db" {
			t.Errorf("expected database path ./wishctl.db, got %s", config.Database.Path)
		}
		if config.Server.TimeoutSeconds != 10 {
			t.Errorf("expected timeout 10, got %d", config.Server.TimeoutSeconds)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
base_url = "https://wish.example.com"

[client]
failure_policy = "report"
rate_limit = 2.5

[database]
path = "/custom/path.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.BaseURL != "https://wish.example.com" {
			t.Errorf("expected base url override, got %s", config.Server.BaseURL)
		}
		if config.Client.FailurePolicy != PolicyReport {
			t.Errorf("expected report policy, got %s", config.Client.FailurePolicy)
		}
		if config.Client.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Client.RateLimit)
		}
		if config.Server.TimeoutSeconds != 10 {
			t.Errorf("expected default timeout to survive partial config, got %d", config.Server.TimeoutSeconds)
		}
	})

	t.Run("LoadConfig Rejects Unknown Policy", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[client]\nfailure_policy = \"loud\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		dotenv := "WISHCTL_DB_PATH=/from/dotenv.db\nWISHCTL_BASE_URL=http://dotenv\n"
		if err := os.WriteFile(envPath, []byte(dotenv), 0644); err != nil {
			t.Fatalf("failed to write dotenv: %v", err)
		}

		t.Setenv(EnvBaseURL, "http://process")
		t.Setenv(EnvFailurePolicy, PolicyReport)
		t.Setenv(EnvRateLimit, "3")
		t.Cleanup(func() { os.Unsetenv(EnvDatabasePath) })

		config := DefaultConfig()
		if err := config.ApplyEnv(envPath, filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}

		if config.Server.BaseURL != "http://process" {
			t.Errorf("process env should win over dotenv, got %s", config.Server.BaseURL)
		}
		if config.Database.Path != "/from/dotenv.db" {
			t.Errorf("expected dotenv database path, got %s", config.Database.Path)
		}
		if config.Client.FailurePolicy != PolicyReport {
			t.Errorf("expected report policy, got %s", config.Client.FailurePolicy)
		}
		if config.Client.RateLimit != 3 {
			t.Errorf("expected rate limit 3, got %v", config.Client.RateLimit)
		}
	})

	t.Run("ApplyEnv Invalid Rate", func(t *testing.T) {
		t.Setenv(EnvRateLimit, "fast")
		config := DefaultConfig()
		if err := config.ApplyEnv(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
