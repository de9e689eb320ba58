package filter

import "github.com/pkg/errors"

// Field is one dropdown of a form. The fields before it in its mode are its ancestors:
// it can only be set once they all are.
type Field struct {
	Name     string
	Label    string
	Required bool
	Source   Source
}

type Mode struct {
	Name   string
	Label  string
	Fields []Field
}

// Config declares a filter form. The first mode is the default one.
type Config struct {
	Name  string
	Title string
	Modes []Mode
}

func (cfg Config) mode(name string) (int, bool) {
	for i, m := range cfg.Modes {
		if m.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Validate checks that names are unique and that derived fields come after the fields they derive from.
func (cfg Config) Validate() error {
	if len(cfg.Modes) == 0 {
		return errors.Errorf("form %q: no modes", cfg.Name)
	}
	seenModes := make(map[string]bool, len(cfg.Modes))
	for _, m := range cfg.Modes {
		if seenModes[m.Name] {
			return errors.Errorf("form %q: duplicate mode %q", cfg.Name, m.Name)
		}
		seenModes[m.Name] = true

		before := make(map[string]bool, len(m.Fields))
		for _, fld := range m.Fields {
			if fld.Name == "" {
				return errors.Errorf("form %q, mode %q: unnamed field", cfg.Name, m.Name)
			}
			if before[fld.Name] {
				return errors.Errorf("form %q, mode %q: duplicate field %q", cfg.Name, m.Name, fld.Name)
			}
			if fld.Source == nil {
				return errors.Errorf("form %q, mode %q: field %q has no options source", cfg.Name, m.Name, fld.Name)
			}
			for _, p := range fld.Source.Parents() {
				if !before[p] {
					return errors.Errorf("form %q, mode %q: field %q derives from %q which does not precede it", cfg.Name, m.Name, fld.Name, p)
				}
			}
			before[fld.Name] = true
		}
	}
	return nil
}
