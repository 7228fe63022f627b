package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/liyacrafter/viewcheck/internal/connection"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewcheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	t.Setenv("TEST_SF_PASSWORD", "sfpass")
	path := writeConfig(t, `version: 1
connections:
  warehouse:
    type: snowflake
    params:
      account: acme-eu
      user: svc_bi
      password: ${ENV:TEST_SF_PASSWORD}
      warehouse: BI_WH
  oracle_src:
    type: oracle_rdbms
    params:
      host: ora.internal
      port: "1521"
      service_name: ORCL
      user: reader
      password: plain
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if got := cfg.ConnectionNames(); len(got) != 2 || got[0] != "oracle_src" {
		t.Errorf("unexpected connection names %v", got)
	}
	if pw := cfg.Connections["warehouse"].Params["password"]; pw != "sfpass" {
		t.Errorf("expected resolved password, got %q", pw)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.RetentionDays != 30 {
		t.Errorf("expected default retention 30, got %d", cfg.Logging.RetentionDays)
	}
	if cfg.Results.Collection != "validation_runs" || cfg.Results.Database != "viewcheck" {
		t.Errorf("unexpected results defaults %+v", cfg.Results)
	}

	specs := cfg.Specs()
	if specs["oracle_src"].Backend != "oracle_rdbms" {
		t.Errorf("unexpected spec %+v", specs["oracle_src"])
	}
	if _, err := connection.NewManager(specs["warehouse"].Backend, specs["warehouse"].Params, nil); err != nil {
		t.Errorf("spec should build a manager: %v", err)
	}
}

func TestLoadInvalidVersion(t *testing.T) {
	path := writeConfig(t, "version: 99\n")
	_, err := Load(path)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	path := writeConfig(t, `version: 1
connections:
  weird:
    type: mainframe
`)
	_, err := Load(path)
	if !errors.Is(err, connection.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestLoadMissingType(t *testing.T) {
	path := writeConfig(t, `version: 1
connections:
  local:
    params:
      path: data.duckdb
`)
	_, err := Load(path)
	if !errors.Is(err, ErrNoConnectionType) {
		t.Fatalf("expected ErrNoConnectionType, got %v", err)
	}
}

func TestLoadUnresolvedSecret(t *testing.T) {
	path := writeConfig(t, `version: 1
results:
  mongodb_uri: ${ENV:VIEWCHECK_TEST_UNSET_URI}
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unset environment variable")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "viewcheck.yaml")
	cfg := &Config{
		Version: 1,
		Connections: map[string]ConnectionConfig{
			"local": {Type: "lakehouse", Params: map[string]string{"path": ":memory:"}},
		},
		Logging: LogConfig{Level: "debug"},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Logging.Level != "debug" || loaded.Connections["local"].Type != "lakehouse" {
		t.Errorf("unexpected round trip %+v", loaded)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config should be private, got %v", info.Mode().Perm())
	}
}

func TestResolveEnvSecret(t *testing.T) {
	t.Setenv("TEST_SECRET", "mysecret")
	val, err := ResolveValue("${ENV:TEST_SECRET}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "mysecret" {
		t.Errorf("expected mysecret, got %s", val)
	}
}

func TestResolveEmbeddedSecrets(t *testing.T) {
	t.Setenv("TEST_USER", "svc")
	t.Setenv("TEST_PASS", "p@ss")
	val, err := ResolveValue("sqlserver://${ENV:TEST_USER}:${ENV:TEST_PASS}@db.example.com?database=bi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "sqlserver://svc:p@ss@db.example.com?database=bi" {
		t.Errorf("unexpected value %q", val)
	}
}

func TestResolvePlainValue(t *testing.T) {
	val, err := ResolveValue("plaintext")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "plaintext" {
		t.Errorf("expected plaintext, got %s", val)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs"); got != "/abs" {
		t.Errorf("absolute paths should be unchanged, got %q", got)
	}
}
