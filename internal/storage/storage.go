package storage

import (
	"context"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// AuditFilter narrows an audit listing. Zero values mean no constraint;
// a zero Limit falls back to the implementation default.
type AuditFilter struct {
	Operation string
	Target    string
	Status    string
	Limit     int
	Offset    int
}

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// API Keys
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error)
	DeleteAPIKey(ctx context.Context, id string) error
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error
	CountAPIKeys(ctx context.Context) (int, error)

	// Audit trail
	CreateAuditEntry(ctx context.Context, entry *domain.AuditEntry) error
	GetAuditEntry(ctx context.Context, id string) (*domain.AuditEntry, error)
	ListAuditEntries(ctx context.Context, filter AuditFilter) ([]*domain.AuditEntry, error)
	CountAuditEntries(ctx context.Context) (int, error)
	PruneAuditEntries(ctx context.Context, keep int) error
}
