// Package gateway implements the distributed-object backend of the
// delegation server: building request parameter sets, submitting them to a
// resolved server object, and materializing tabular result sets into typed
// records.
package gateway

// Parameter keys understood by the server object. The request bag has no
// schema; these names are the contract, so all writes go through typed
// setters to keep key typos out of call sites.
const (
	keyOperation = "OperationName"
	keyHints     = "Hints"
	keyContainer = "Container"
	keyFilter    = "Filter"
)

// ParameterSet is the request record submitted to the server object: an
// open key/value bag written through typed accessors for the known keys.
type ParameterSet struct {
	values map[string]any
	order  []string
}

// NewParameterSet creates an empty parameter set.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{values: make(map[string]any)}
}

// SetOperation sets the operation name.
func (p *ParameterSet) SetOperation(name string) {
	p.set(keyOperation, name)
}

// SetHints sets the requested output columns, in order. Column order here
// fixes the positional indexes the tabular parser reads by.
func (p *ParameterSet) SetHints(columns []string) {
	p.set(keyHints, append([]string(nil), columns...))
}

// SetContainer sets the entity-path field identifying the target object.
// The value must already be path-escaped; see EscapePath.
func (p *ParameterSet) SetContainer(path string) {
	p.set(keyContainer, path)
}

// SetFilter sets the filter expression. Literal name fragments inside the
// expression must already be escaped; see EscapeFilterPattern.
func (p *ParameterSet) SetFilter(expr string) {
	p.set(keyFilter, expr)
}

// Set writes an arbitrary key for version-specific parameters outside the
// known set.
func (p *ParameterSet) Set(key string, value any) {
	p.set(key, value)
}

func (p *ParameterSet) set(key string, value any) {
	if _, ok := p.values[key]; !ok {
		p.order = append(p.order, key)
	}
	p.values[key] = value
}

// Get returns the value for key, if present.
func (p *ParameterSet) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Operation returns the operation name, or "" when unset.
func (p *ParameterSet) Operation() string {
	if v, ok := p.values[keyOperation]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Keys returns the keys in insertion order.
func (p *ParameterSet) Keys() []string {
	return append([]string(nil), p.order...)
}
