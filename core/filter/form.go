package filter

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core"
)

var (
	ErrInconsistentFieldAccess = errors.New("a preceding field must be selected first")
	ErrInvalidOption           = errors.New("not one of the available options")
	ErrUnknownField            = errors.New("unknown field")
	ErrUnknownMode             = errors.New("unknown mode")
)

// FieldError reports the field a form mutation was rejected for.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// Form is the state of one cascading filter form.
// Invariant: when a field of the active mode is empty, every field after it is empty too.
// A Form is not safe for concurrent use; each view session owns its own.
type Form struct {
	cfg     Config
	graph   *OptionsGraph
	mode    int
	values  Values
	options map[string][]Option // derived options, computed on the last mutation
}

func New(cfg Config, graph *OptionsGraph) (*Form, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Form{cfg: cfg, graph: graph}
	f.Reset()
	return f, nil
}

func (f *Form) fields() []Field {
	return f.cfg.Modes[f.mode].Fields
}

func (f *Form) index(name string) int {
	for i, fld := range f.fields() {
		if fld.Name == name {
			return i
		}
	}
	return -1
}

func (f *Form) Config() Config {
	return f.cfg
}

func (f *Form) Mode() string {
	return f.cfg.Modes[f.mode].Name
}

// SwitchMode activates another mode. Values and derived options are discarded, even when the mode does not change.
func (f *Form) SwitchMode(name string) error {
	i, ok := f.cfg.mode(name)
	if !ok {
		return fieldErr("mode", ErrUnknownMode)
	}
	f.mode = i
	f.Reset()
	return nil
}

// Reset clears all values and derived options of the active mode.
func (f *Form) Reset() {
	f.values = make(Values)
	f.options = make(map[string][]Option)
}

// SetField selects value for the field name and clears every field after it.
// An empty value clears the field itself. Setting a field while a preceding one is empty fails with
// ErrInconsistentFieldAccess and leaves the form untouched.
func (f *Form) SetField(name, value string) error {
	idx := f.index(name)
	if idx < 0 {
		return fieldErr(name, ErrUnknownField)
	}
	flds := f.fields()
	for _, prev := range flds[:idx] {
		if f.values[prev.Name] == "" {
			return fieldErr(name, ErrInconsistentFieldAccess)
		}
	}

	value = core.CleanString(value)
	if value != "" && !containsValue(f.Options(name), value) {
		return fieldErr(name, ErrInvalidOption)
	}

	if value == "" {
		delete(f.values, name)
	} else {
		f.values[name] = value
	}
	for _, next := range flds[idx+1:] {
		delete(f.values, next.Name)
	}
	f.refresh(idx + 1)
	return nil
}

// refresh recomputes the derived options of the fields from index from on.
func (f *Form) refresh(from int) {
	flds := f.fields()
	for i := from; i < len(flds); i++ {
		fld := flds[i]
		if !isDerived(fld.Source) {
			continue
		}
		if f.interactable(i) {
			f.options[fld.Name] = fld.Source.Options(f.graph, f.values)
		} else {
			delete(f.options, fld.Name)
		}
	}
}

func (f *Form) interactable(idx int) bool {
	for _, prev := range f.fields()[:idx] {
		if f.values[prev.Name] == "" {
			return false
		}
	}
	return true
}

// Value returns the selected value of name, "" when unset.
func (f *Form) Value(name string) string {
	return f.values[name]
}

// Values returns a copy of the selected values.
func (f *Form) Values() Values {
	return f.values.clone()
}

// Options returns the options currently offered for name. Derived fields with an empty ancestor offer none.
func (f *Form) Options(name string) []Option {
	idx := f.index(name)
	if idx < 0 {
		return nil
	}
	fld := f.fields()[idx]
	if isDerived(fld.Source) {
		return f.options[name]
	}
	return fld.Source.Options(f.graph, f.values)
}

// IsComplete reports whether every required field of the active mode is selected.
func (f *Form) IsComplete() bool {
	for _, fld := range f.fields() {
		if fld.Required && f.values[fld.Name] == "" {
			return false
		}
	}
	return true
}

// Restore rebuilds a form state from submitted values by replaying them in field order.
// Values leaving a gap before a later value are rejected with ErrInconsistentFieldAccess.
// On error the form keeps its previous state.
func (f *Form) Restore(mode string, values Values) error {
	next := &Form{cfg: f.cfg, graph: f.graph, mode: f.mode}
	next.Reset()
	if mode != "" {
		if err := next.SwitchMode(mode); err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(values) {
		if values[name] != "" && next.index(name) < 0 {
			return fieldErr(name, ErrUnknownField)
		}
	}

	gap := ""
	for _, fld := range next.fields() {
		val := core.CleanString(values[fld.Name])
		if val == "" {
			if gap == "" {
				gap = fld.Name
			}
			continue
		}
		if gap != "" {
			return fieldErr(fld.Name, ErrInconsistentFieldAccess)
		}
		if err := next.SetField(fld.Name, val); err != nil {
			return err
		}
	}

	*f = *next
	return nil
}

func containsValue(opts []Option, value string) bool {
	for _, opt := range opts {
		if opt.Value == value {
			return true
		}
	}
	return false
}
