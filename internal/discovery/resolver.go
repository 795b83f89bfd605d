// Package discovery locates delegation servers through their directory
// service registrations and selects targets by policy.
package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// Registration attributes read from each service entry.
const (
	attrName     = "name"
	attrKeywords = "keywords"
)

// Config holds the directory endpoint and the registration container to
// search. LocalSite feeds the site selection policy.
type Config struct {
	URL          string
	BindDN       string
	BindPassword string
	BaseDN       string
	LocalSite    string
}

// Searcher is the directory search surface the resolver needs. *ldap.Conn
// satisfies it.
type Searcher interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
}

// Resolver discovers registered delegation servers. Each Discover call is a
// fresh directory round trip; the returned snapshot is immutable and
// refreshed only by calling Discover again.
type Resolver struct {
	cfg  Config
	dial func(ctx context.Context) (Searcher, func(), error)
}

// New creates a Resolver that dials the configured directory URL for each
// discovery call.
func New(cfg Config) *Resolver {
	return &Resolver{
		cfg: cfg,
		dial: func(ctx context.Context) (Searcher, func(), error) {
			conn, err := ldap.DialURL(cfg.URL)
			if err != nil {
				return nil, nil, fmt.Errorf("dialing %s: %w", cfg.URL, err)
			}
			if cfg.BindDN != "" {
				if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
					conn.Close()
					return nil, nil, fmt.Errorf("binding as %s: %w", cfg.BindDN, err)
				}
			}
			return conn, func() { conn.Close() }, nil
		},
	}
}

// NewWithSearcher creates a Resolver over an injected search surface.
func NewWithSearcher(cfg Config, dial func(ctx context.Context) (Searcher, func(), error)) *Resolver {
	return &Resolver{cfg: cfg, dial: dial}
}

// Discover searches the registration container and returns a snapshot of
// the registered servers. A fully empty result means no servers are
// reachable or configured and is an error, not an empty snapshot.
func (r *Resolver) Discover(ctx context.Context) (*Snapshot, error) {
	conn, closeConn, err := r.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering delegation servers: %w: %v", domain.ErrConnection, err)
	}
	defer closeConn()

	req := ldap.NewSearchRequest(
		r.cfg.BaseDN,
		ldap.ScopeSingleLevel,
		ldap.NeverDerefAliases,
		0, 0, false,
		"(objectClass=*)",
		[]string{attrName, attrKeywords},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w: %v", r.cfg.BaseDN, domain.ErrConnection, err)
	}

	records := make([]domain.ServerRecord, 0, len(res.Entries))
	for _, entry := range res.Entries {
		name := entry.GetAttributeValue(attrName)
		if name == "" {
			continue
		}
		records = append(records, decodeRecord(name, entry.GetAttributeValues(attrKeywords)))
	}
	return NewSnapshot(records, r.cfg.LocalSite)
}

// decodeRecord turns a registration entry's keyword blob into a server
// record. Keywords are Key=Value lines; unknown keys are ignored and the
// role defaults to secondary unless Type names the primary.
func decodeRecord(name string, keywords []string) domain.ServerRecord {
	rec := domain.ServerRecord{Name: name, Role: domain.ServerSecondary}
	for _, kw := range keywords {
		key, value, ok := strings.Cut(kw, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "domain":
			rec.Domain = strings.TrimSpace(value)
		case "forest":
			rec.Forest = strings.TrimSpace(value)
		case "site":
			rec.Site = strings.TrimSpace(value)
		case "type":
			if strings.EqualFold(strings.TrimSpace(value), "Primary") {
				rec.Role = domain.ServerPrimary
			}
		case "version":
			rec.Version = strings.TrimSpace(value)
		}
	}
	return rec
}
