// Package config carga la configuración del proceso desde YAML.
// Los defaults son aptos para desarrollo; producción sobreescribe por archivo
// (y main aplica overrides puntuales por env).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	// Identity: el servicio de identidad externo que verifica tokens y
	// resuelve el directorio de grupos.
	Identity struct {
		// Enabled: false = el proceso entero corre SIN autenticación
		// (AuthDisabled; habilita escritura anónima como "public").
		Enabled      bool   `yaml:"enabled"`
		BaseURL      string `yaml:"base_url"`
		Issuer       string `yaml:"issuer"`
		Timeout      string `yaml:"timeout"`
		DirectoryTTL string `yaml:"directory_ttl"`
		JWKSTTL      string `yaml:"jwks_ttl"`
	} `yaml:"identity"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	// ACL: el store opcional de tablas por grupo. driver "none" degrada el
	// control de acceso a pertenencia simple.
	ACL struct {
		Driver   string `yaml:"driver"` // none | memory | postgres
		SeedFile string `yaml:"seed_file"`
		Postgres struct {
			DSN             string `yaml:"dsn"`
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
			// Migrate: aplicar las migraciones embebidas al arrancar.
			Migrate bool `yaml:"migrate"`
		} `yaml:"postgres"`
	} `yaml:"acl"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Identity.Timeout == "" {
		c.Identity.Timeout = "5s"
	}
	if c.Identity.DirectoryTTL == "" {
		c.Identity.DirectoryTTL = "30s"
	}
	if c.Identity.JWKSTTL == "" {
		c.Identity.JWKSTTL = "5m"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.ACL.Driver == "" {
		c.ACL.Driver = "none"
	}

	// validate string durations
	for name, d := range map[string]string{
		"server.shutdown_timeout":  c.Server.ShutdownTimeout,
		"identity.timeout":         c.Identity.Timeout,
		"identity.directory_ttl":   c.Identity.DirectoryTTL,
		"identity.jwks_ttl":        c.Identity.JWKSTTL,
		"cache.memory.default_ttl": c.Cache.Memory.DefaultTTL,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, fmt.Errorf("config: %s: %w", name, err)
		}
	}
	if c.ACL.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.ACL.Postgres.ConnMaxLifetime); err != nil {
			return nil, fmt.Errorf("config: acl.postgres.conn_max_lifetime: %w", err)
		}
	}

	// coherencia: con identity habilitado la base_url es obligatoria
	if c.Identity.Enabled && c.Identity.BaseURL == "" {
		return nil, fmt.Errorf("config: identity.enabled requiere identity.base_url")
	}

	return &c, nil
}

// Duration parsea una duración ya validada por Load. Panic si no parsea:
// solo usar sobre campos que Load validó.
func Duration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic("config: duración inválida: " + s)
	}
	return d
}
