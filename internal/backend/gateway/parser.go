package gateway

import (
	"fmt"
	"strings"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// ResultSet is the tabular result handle returned by the server object. It
// is a strict sequential cursor: fields must be read left-to-right by
// positional index and the cursor advanced exactly once per row. Reading out
// of order or skipping an advance corrupts every subsequent record.
type ResultSet interface {
	// Rows returns the number of rows in the result.
	Rows() int
	// Columns returns the number of columns per row.
	Columns() int
	// Fetch reads the value at the column index in the current row.
	Fetch(col int) (any, error)
	// Advance moves the cursor to the next row.
	Advance() error
	// LastError returns the backend status code of the submission; zero
	// means success.
	LastError() uint32
}

// EmptyMode decides what an empty result set means for a lookup of one
// specific name. Internal existence checks use Silent; user-facing gets use
// Reporting, which turns emptiness into ObjectNotFound. The two modes are
// deliberately distinct — do not unify them.
type EmptyMode int

const (
	// Silent treats zero rows as an empty, successful result.
	Silent EmptyMode = iota
	// Reporting treats zero rows as ObjectNotFound for the requested name.
	Reporting
)

// Entity column positions, fixed per the backend's output contract.
const (
	colName        = 0
	colDescription = 1
	colComment     = 2
	colBuiltin     = 3
	colAssigned    = 4
)

// MaterializeEntities walks the cursor and produces one typed record per
// row. A result with only four columns carries no assigned flag; the field
// is left unpopulated.
func MaterializeEntities(rs ResultSet, kind domain.Kind, mode EmptyMode, requested string) ([]domain.Entity, error) {
	if rs.Rows() == 0 {
		if mode == Reporting {
			return nil, &domain.OperationError{
				Op:     "get-entities",
				Kind:   kind,
				Target: requested,
				Err:    domain.ErrNotFound,
			}
		}
		return nil, nil
	}

	hasAssigned := rs.Columns() > colAssigned
	records := make([]domain.Entity, 0, rs.Rows())
	for row := 0; row < rs.Rows(); row++ {
		rec := domain.Entity{Kind: kind}
		var err error
		if rec.Name, err = fetchString(rs, colName); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if rec.Description, err = fetchString(rs, colDescription); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if rec.Comment, err = fetchString(rs, colComment); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if rec.Builtin, err = fetchBool(rs, colBuiltin); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if hasAssigned {
			if rec.Assigned, err = fetchBool(rs, colAssigned); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		}
		if err := rs.Advance(); err != nil {
			return nil, fmt.Errorf("advancing past row %d: %w", row, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Delegation column positions.
const (
	colDelegationGroup = 0
	colDelegationRole  = 1
	colDelegationView  = 2
)

// MaterializeDelegations produces the delegation triples held by one admin
// group. Zero rows is a valid empty result: a group may hold no delegations.
func MaterializeDelegations(rs ResultSet) ([]domain.Delegation, error) {
	records := make([]domain.Delegation, 0, rs.Rows())
	for row := 0; row < rs.Rows(); row++ {
		var d domain.Delegation
		var err error
		if d.AdminGroup, err = fetchString(rs, colDelegationGroup); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if d.Role, err = fetchString(rs, colDelegationRole); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if d.ScopedView, err = fetchString(rs, colDelegationView); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if err := rs.Advance(); err != nil {
			return nil, fmt.Errorf("advancing past row %d: %w", row, err)
		}
		records = append(records, d)
	}
	return records, nil
}

// MaterializePowers produces the read-only permission primitives.
func MaterializePowers(rs ResultSet) ([]domain.Power, error) {
	records := make([]domain.Power, 0, rs.Rows())
	for row := 0; row < rs.Rows(); row++ {
		var p domain.Power
		var err error
		if p.Name, err = fetchString(rs, 0); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if rs.Columns() > 1 {
			if p.Description, err = fetchString(rs, 1); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		}
		if err := rs.Advance(); err != nil {
			return nil, fmt.Errorf("advancing past row %d: %w", row, err)
		}
		records = append(records, p)
	}
	return records, nil
}

// fetchString reads a column and coerces it to a string. The backend has no
// schema; missing values come back as nil and are treated as empty.
func fetchString(rs ResultSet, col int) (string, error) {
	v, err := rs.Fetch(col)
	if err != nil {
		return "", fmt.Errorf("column %d: %w", col, err)
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		return fmt.Sprintf("%v", t), nil
	}
}

// fetchBool reads a column and coerces it to a bool. The backend variously
// reports booleans as native values or as the strings "True"/"False".
func fetchBool(rs ResultSet, col int) (bool, error) {
	v, err := rs.Fetch(col)
	if err != nil {
		return false, fmt.Errorf("column %d: %w", col, err)
	}
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string:
		return strings.EqualFold(t, "true"), nil
	case int:
		return t != 0, nil
	default:
		return false, fmt.Errorf("column %d: unexpected boolean value %v", col, v)
	}
}
