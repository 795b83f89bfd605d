package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
)

// Config holds all configuration for the application.
type Config struct {
	Backend   BackendConfig
	Gateway   GatewayConfig
	Discovery DiscoveryConfig
	Database  DatabaseConfig
	Server    ServerConfig
	OIDC      OIDCConfig
}

// BackendConfig holds the command-line backend configuration.
type BackendConfig struct {
	// ExePath is the delegation CLI executable. The bare name is resolved
	// through PATH.
	ExePath string `env:"DELEGADM_EXE" envDefault:"enterpriseadmin.exe"`
	// Server is the delegation server to target. Empty means the primary
	// server handles the request.
	Server string `env:"DELEGADM_SERVER"`
}

// GatewayConfig holds the distributed-object gateway configuration.
type GatewayConfig struct {
	Enabled bool   `env:"GATEWAY_ENABLED" envDefault:"true"`
	ProgID  string `env:"GATEWAY_PROGID" envDefault:"EnterpriseAdmin.Gateway"`
}

// DiscoveryConfig holds directory server discovery configuration.
type DiscoveryConfig struct {
	URL          string `env:"LDAP_URL"`
	BindDN       string `env:"LDAP_BIND_DN"`
	BindPassword string `env:"LDAP_BIND_PASSWORD"`
	BaseDN       string `env:"LDAP_BASE_DN"`
	LocalSite    string `env:"LDAP_LOCAL_SITE"`
}

// DatabaseConfig holds audit/API-key store configuration.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/delegation-manager.db"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int    `env:"SERVER_PORT" envDefault:"8080"`
	BootstrapAPIKey string `env:"BOOTSTRAP_API_KEY"`
}

// OIDCConfig holds OIDC bearer-token authentication configuration.
type OIDCConfig struct {
	Enabled        bool   `env:"OIDC_ENABLED" envDefault:"false"`
	IssuerURL      string `env:"OIDC_ISSUER_URL"`
	ClientID       string `env:"OIDC_CLIENT_ID"`
	AllowedDomains string `env:"OIDC_ALLOWED_DOMAINS"`
}

// GetAllowedDomains returns the allowed domains as a slice.
func (c *OIDCConfig) GetAllowedDomains() []string {
	if c.AllowedDomains == "" {
		return nil
	}
	domains := strings.Split(c.AllowedDomains, ",")
	for i := range domains {
		domains[i] = strings.TrimSpace(domains[i])
	}
	return domains
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Backend); err != nil {
		return nil, fmt.Errorf("parsing backend config: %w", err)
	}
	if err := env.Parse(&cfg.Gateway); err != nil {
		return nil, fmt.Errorf("parsing gateway config: %w", err)
	}
	if err := env.Parse(&cfg.Discovery); err != nil {
		return nil, fmt.Errorf("parsing discovery config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.OIDC); err != nil {
		return nil, fmt.Errorf("parsing oidc config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DiscoveryEnabled reports whether server discovery is configured.
func (c *Config) DiscoveryEnabled() bool {
	return c.Discovery.URL != "" && c.Discovery.BaseDN != ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Backend.ExePath == "" {
		return fmt.Errorf("DELEGADM_EXE is required")
	}
	if c.Gateway.Enabled && c.Gateway.ProgID == "" {
		return fmt.Errorf("GATEWAY_PROGID is required when the gateway is enabled")
	}
	if c.Discovery.URL != "" && c.Discovery.BaseDN == "" {
		return fmt.Errorf("LDAP_BASE_DN is required when LDAP_URL is set")
	}
	if c.OIDC.Enabled {
		if c.OIDC.IssuerURL == "" {
			return fmt.Errorf("OIDC_ISSUER_URL is required when OIDC is enabled")
		}
		if c.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC_CLIENT_ID is required when OIDC is enabled")
		}
	}
	return nil
}
