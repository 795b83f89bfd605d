package domain

// ServerRole distinguishes the primary server from the rest of the
// discovered set.
type ServerRole string

const (
	ServerPrimary   ServerRole = "primary"
	ServerSecondary ServerRole = "secondary"
)

// ServerRecord is a discovered delegation-server endpoint. Records are
// rebuilt on every discovery call and never persisted.
type ServerRecord struct {
	Name    string     `json:"name"`
	Domain  string     `json:"domain"`
	Forest  string     `json:"forest"`
	Site    string     `json:"site"`
	Role    ServerRole `json:"role"`
	Version string     `json:"version"`
}

// SelectionPolicy chooses which discovered servers a call should target.
type SelectionPolicy string

const (
	// SelectPrimary requires exactly one primary in the discovered set.
	SelectPrimary SelectionPolicy = "primary"
	// SelectSite prefers servers in the local site, falling back to the
	// full discovered set when none match.
	SelectSite SelectionPolicy = "site"
	// SelectAll returns the entire discovered set.
	SelectAll SelectionPolicy = "all"
)

// Valid reports whether p names a known selection policy.
func (p SelectionPolicy) Valid() bool {
	switch p {
	case SelectPrimary, SelectSite, SelectAll:
		return true
	}
	return false
}
