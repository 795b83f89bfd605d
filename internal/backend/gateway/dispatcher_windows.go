//go:build windows

package gateway

import (
	"context"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// ComDispatcher reaches the server object through COM automation. The
// object type is resolved by ProgID; binding to a specific server happens
// through the object's own Connect method. COM requires the calling
// goroutine to stay on one OS thread for the duration of a call.
type ComDispatcher struct {
	progID string
}

// NewComDispatcher creates a dispatcher for the automation object
// registered under progID.
func NewComDispatcher(progID string) *ComDispatcher {
	return &ComDispatcher{progID: progID}
}

// Ensure ComDispatcher implements Dispatcher.
var _ Dispatcher = (*ComDispatcher)(nil)

// Submit instantiates the server object, binds it to the named server,
// writes the parameter bag, and submits it. Instantiation and binding
// failures are returned as plain errors; the Gateway classifies them as
// connection failures.
func (d *ComDispatcher) Submit(ctx context.Context, server string, params *ParameterSet) (ResultSet, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitialize(0); err != nil {
		oleErr, ok := err.(*ole.OleError)
		// S_FALSE: already initialized on this thread.
		if !ok || oleErr.Code() != 0x00000001 {
			return nil, fmt.Errorf("initializing COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject(d.progID)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", d.progID, err)
	}
	defer unknown.Release()

	obj, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("querying IDispatch on %s: %w", d.progID, err)
	}
	defer obj.Release()

	if _, err := oleutil.CallMethod(obj, "Connect", server); err != nil {
		return nil, fmt.Errorf("connecting to server %q: %w", server, err)
	}

	bagVar, err := oleutil.CallMethod(obj, "CreateParameterSet")
	if err != nil {
		return nil, fmt.Errorf("creating parameter set: %w", err)
	}
	bag := bagVar.ToIDispatch()
	defer bag.Release()

	for _, key := range params.Keys() {
		value, _ := params.Get(key)
		if _, err := oleutil.CallMethod(bag, "Put", key, comValue(value)); err != nil {
			return nil, fmt.Errorf("writing parameter %q: %w", key, err)
		}
	}

	resVar, err := oleutil.CallMethod(obj, "Submit", bag)
	if err != nil {
		return nil, fmt.Errorf("submitting %s: %w", params.Operation(), err)
	}
	return newComResultSet(resVar.ToIDispatch())
}

// comValue converts parameter values to shapes the automation layer
// accepts. String slices travel as a single delimited string; everything
// else passes through.
func comValue(v any) any {
	if ss, ok := v.([]string); ok {
		out := ""
		for i, s := range ss {
			if i > 0 {
				out += ","
			}
			out += s
		}
		return out
	}
	return v
}

// comResultSet adapts the automation result object to the ResultSet cursor.
type comResultSet struct {
	obj       *ole.IDispatch
	rows      int
	columns   int
	lastError uint32
}

func newComResultSet(obj *ole.IDispatch) (*comResultSet, error) {
	rs := &comResultSet{obj: obj}

	v, err := oleutil.GetProperty(obj, "RowCount")
	if err != nil {
		return nil, fmt.Errorf("reading RowCount: %w", err)
	}
	rs.rows = int(variantInt(v))

	v, err = oleutil.GetProperty(obj, "ColumnCount")
	if err != nil {
		return nil, fmt.Errorf("reading ColumnCount: %w", err)
	}
	rs.columns = int(variantInt(v))

	errsVar, err := oleutil.GetProperty(obj, "Errors")
	if err != nil {
		return nil, fmt.Errorf("reading Errors: %w", err)
	}
	errsObj := errsVar.ToIDispatch()
	defer errsObj.Release()
	v, err = oleutil.GetProperty(errsObj, "LastError")
	if err != nil {
		return nil, fmt.Errorf("reading Errors.LastError: %w", err)
	}
	rs.lastError = uint32(variantInt(v))

	return rs, nil
}

func (r *comResultSet) Rows() int             { return r.rows }
func (r *comResultSet) Columns() int          { return r.columns }
func (r *comResultSet) LastError() uint32     { return r.lastError }

func (r *comResultSet) Fetch(col int) (any, error) {
	v, err := oleutil.GetProperty(r.obj, "Value", col)
	if err != nil {
		return nil, fmt.Errorf("fetching column %d: %w", col, err)
	}
	return v.Value(), nil
}

func (r *comResultSet) Advance() error {
	if _, err := oleutil.CallMethod(r.obj, "NextRow"); err != nil {
		return fmt.Errorf("advancing cursor: %w", err)
	}
	return nil
}

// variantInt coerces the numeric VARIANT shapes the backend uses.
func variantInt(v *ole.VARIANT) int64 {
	switch t := v.Value().(type) {
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint32:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}
