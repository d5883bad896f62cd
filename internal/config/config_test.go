package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "app:\n  env: dev\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("Server.Addr = %q", c.Server.Addr)
	}
	if c.Server.ShutdownTimeout != "10s" {
		t.Fatalf("Server.ShutdownTimeout = %q", c.Server.ShutdownTimeout)
	}
	if c.Log.Level != "info" {
		t.Fatalf("Log.Level = %q", c.Log.Level)
	}
	if c.Cache.Kind != "memory" {
		t.Fatalf("Cache.Kind = %q", c.Cache.Kind)
	}
	if c.ACL.Driver != "none" {
		t.Fatalf("ACL.Driver = %q", c.ACL.Driver)
	}
	if c.Identity.Enabled {
		t.Fatal("Identity.Enabled default debe ser false")
	}
}

func TestLoadOverrides(t *testing.T) {
	body := `
server:
  addr: ":9090"
identity:
  enabled: true
  base_url: "http://identity:8080"
  timeout: "2s"
acl:
  driver: memory
  seed_file: /etc/groupgate/acl.yaml
`
	c, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":9090" {
		t.Fatalf("Server.Addr = %q", c.Server.Addr)
	}
	if !c.Identity.Enabled || c.Identity.BaseURL != "http://identity:8080" {
		t.Fatalf("Identity = %+v", c.Identity)
	}
	if c.Identity.Timeout != "2s" {
		t.Fatalf("Identity.Timeout = %q", c.Identity.Timeout)
	}
	if c.ACL.Driver != "memory" || c.ACL.SeedFile == "" {
		t.Fatalf("ACL = %+v", c.ACL)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  shutdown_timeout: \"pronto\"\n"))
	if err == nil {
		t.Fatal("se esperaba error por duración inválida")
	}
}

func TestLoadRejectsIdentityWithoutBaseURL(t *testing.T) {
	_, err := Load(writeConfig(t, "identity:\n  enabled: true\n"))
	if err == nil {
		t.Fatal("identity.enabled sin base_url debe fallar")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("se esperaba error por archivo inexistente")
	}
}

func TestDuration(t *testing.T) {
	if Duration("90s") != 90*time.Second {
		t.Fatal("Duration(90s)")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Duration inválida debe panicear")
		}
	}()
	Duration("nope")
}
