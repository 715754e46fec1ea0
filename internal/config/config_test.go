package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

const validConfig = `
server:
  port: 9090
  environment: test
database:
  postgres:
    host: localhost
    port: 5432
    database: pdi
    user: pdi
    password: secret
  redis:
    host: localhost
    port: 6379
auth:
  jwt_secret: test-secret
storage:
  base_path: /tmp/pdi-media
  public_base_url: https://cdn.example.com/media
scheduler:
  enabled: true
  time: "03:00"
  timezone: America/Sao_Paulo
logging:
  level: debug
  format: json
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Postgres.Database != "pdi" {
		t.Errorf("Postgres.Database = %q, want %q", cfg.Database.Postgres.Database, "pdi")
	}
	if cfg.Scheduler.Time != "03:00" {
		t.Errorf("Scheduler.Time = %q, want %q", cfg.Scheduler.Time, "03:00")
	}

	// Defaults fill the knobs the file leaves out.
	if cfg.Auth.TokenTTL() != 24*time.Hour {
		t.Errorf("Auth.TokenTTL() = %v, want 24h default", cfg.Auth.TokenTTL())
	}
	if cfg.Storage.MaxUploadMB != 3 {
		t.Errorf("Storage.MaxUploadMB = %d, want default 3", cfg.Storage.MaxUploadMB)
	}
	if cfg.Recs.CacheTTLDuration() != 15*time.Minute {
		t.Errorf("Recs.CacheTTLDuration() = %v, want 15m default", cfg.Recs.CacheTTLDuration())
	}
	if cfg.Recs.MaxItems != 20 {
		t.Errorf("Recs.MaxItems = %d, want default 20", cfg.Recs.MaxItems)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "8181")
	t.Setenv("POSTGRES_PASSWORD", "from-env")

	cfg, err := Load(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d, want env override 8181", cfg.Server.Port)
	}
	if cfg.Database.Postgres.Password != "from-env" {
		t.Errorf("Postgres.Password = %q, want env override", cfg.Database.Postgres.Password)
	}
}

func TestLoadMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing postgres host", `
database:
  postgres:
    database: pdi
    user: pdi
  redis:
    host: localhost
auth:
  jwt_secret: s
storage:
  base_path: /tmp/m
  public_base_url: http://x
`},
		{"missing jwt secret", `
database:
  postgres:
    host: localhost
    database: pdi
    user: pdi
  redis:
    host: localhost
storage:
  base_path: /tmp/m
  public_base_url: http://x
`},
		{"missing storage base path", `
database:
  postgres:
    host: localhost
    database: pdi
    user: pdi
  redis:
    host: localhost
auth:
  jwt_secret: s
storage:
  public_base_url: http://x
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfigFile(t, tt.content)); err == nil {
				t.Error("Load() accepted an incomplete configuration")
			}
		})
	}
}

func TestSchedulerGetLocation(t *testing.T) {
	cfg := SchedulerConfig{Timezone: "America/Sao_Paulo"}
	if _, err := cfg.GetLocation(); err != nil {
		t.Errorf("GetLocation() unexpected error: %v", err)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.GetLocation(); err == nil {
		t.Error("GetLocation() accepted an invalid timezone")
	}
}
