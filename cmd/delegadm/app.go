package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/delegation-tools/delegation-manager/internal/backend/cli"
	"github.com/delegation-tools/delegation-manager/internal/backend/gateway"
	"github.com/delegation-tools/delegation-manager/internal/config"
	"github.com/delegation-tools/delegation-manager/internal/discovery"
	"github.com/delegation-tools/delegation-manager/internal/service"
	"github.com/delegation-tools/delegation-manager/internal/storage"
	"github.com/delegation-tools/delegation-manager/internal/storage/sql"
)

// app bundles the wired service with the resources it owns.
type app struct {
	cfg   *config.Config
	svc   *service.AdminService
	store storage.Storage
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// buildApp loads configuration and wires the service stack. The --server
// flag overrides the configured target server.
func buildApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if server, _ := cmd.Root().PersistentFlags().GetString("server"); server != "" {
		cfg.Backend.Server = server
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cmdBackend := cli.New(cfg.Backend.ExePath, cfg.Backend.Server)

	var query service.QueryBackend
	if cfg.Gateway.Enabled {
		query = gateway.New(gateway.NewComDispatcher(cfg.Gateway.ProgID), cfg.Backend.Server)
	}

	var resolver service.ServerResolver
	if cfg.DiscoveryEnabled() {
		resolver = discovery.New(discovery.Config{
			URL:          cfg.Discovery.URL,
			BindDN:       cfg.Discovery.BindDN,
			BindPassword: cfg.Discovery.BindPassword,
			BaseDN:       cfg.Discovery.BaseDN,
			LocalSite:    cfg.Discovery.LocalSite,
		})
	}

	var store storage.Storage
	if cfg.Database.DSN != "" {
		if cfg.Database.Driver == "sqlite3" {
			if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return nil, fmt.Errorf("creating data directory: %w", err)
				}
			}
		}
		st, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		store = st
	}

	svc := service.NewAdminService(cmdBackend, query, resolver, store, cfg.Backend.Server, logger)
	return &app{cfg: cfg, svc: svc, store: store}, nil
}
