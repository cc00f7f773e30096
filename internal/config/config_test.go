package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "liftlog"
  user: "liftlog"
  password: "secret"
  sslmode: "disable"
state:
  dir: "/var/lib/liftlog"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "liftlog" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "liftlog")
	}
	if cfg.State.Dir != "/var/lib/liftlog" {
		t.Errorf("state.dir = %q, want %q", cfg.State.Dir, "/var/lib/liftlog")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
}

// TestEnvOverride verifies that LIFTLOG_ env vars take precedence over YAML
// values, so deployments can override config via environment.
func TestEnvOverride(t *testing.T) {
	t.Setenv("LIFTLOG_DB_HOST", "override-host")
	t.Setenv("LIFTLOG_DB_PORT", "9999")
	t.Setenv("LIFTLOG_STATE_DIR", "/tmp/liftlog-state")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "override-host" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "override-host")
	}
	if cfg.Database.Port != 9999 {
		t.Errorf("database.port = %d, want 9999", cfg.Database.Port)
	}
	if cfg.State.Dir != "/tmp/liftlog-state" {
		t.Errorf("state.dir = %q, want %q", cfg.State.Dir, "/tmp/liftlog-state")
	}
	// Unchanged fields should keep YAML values.
	if cfg.Database.Name != "liftlog" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "liftlog")
	}
}

// TestDSN verifies the PostgreSQL connection string format, including the
// sslmode default when none is configured.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "liftlog", User: "u", Password: "p"}
	want := "postgres://u:p@db:5432/liftlog?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

// TestValidateMissingFields verifies that each required field is enforced.
func TestValidateMissingFields(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing server port", `
database: {host: h, port: 5432, name: n, user: u}
state: {dir: /x}
`},
		{"missing database host", `
server: {port: 8080}
database: {port: 5432, name: n, user: u}
state: {dir: /x}
`},
		{"missing state dir", `
server: {port: 8080}
database: {host: h, port: 5432, name: n, user: u}
`},
		{"tailscale enabled without hostname", `
server: {port: 8080}
database: {host: h, port: 5432, name: n, user: u}
state: {dir: /x}
tailscale: {enabled: true}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tc.yaml)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
