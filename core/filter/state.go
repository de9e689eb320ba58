package filter

type (
	FieldState struct {
		Name        string   `json:"name"`
		Label       string   `json:"label"`
		Value       string   `json:"value"`
		Options     []Option `json:"options"`
		Required    bool     `json:"required"`
		Disabled    bool     `json:"disabled"`
		Placeholder string   `json:"placeholder"`
	}

	ModeState struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	}

	// State is a render-ready snapshot of a form.
	State struct {
		Form     string       `json:"form"`
		Title    string       `json:"title"`
		Mode     string       `json:"mode"`
		Modes    []ModeState  `json:"modes"`
		Fields   []FieldState `json:"fields"`
		Values   Values       `json:"values"`
		Complete bool         `json:"complete"`
	}
)

func (f *Form) State() State {
	st := State{
		Form:     f.cfg.Name,
		Title:    f.cfg.Title,
		Mode:     f.Mode(),
		Modes:    make([]ModeState, 0, len(f.cfg.Modes)),
		Values:   f.Values(),
		Complete: f.IsComplete(),
	}
	for _, m := range f.cfg.Modes {
		st.Modes = append(st.Modes, ModeState{Name: m.Name, Label: m.Label})
	}

	flds := f.fields()
	st.Fields = make([]FieldState, 0, len(flds))
	for i, fld := range flds {
		fs := FieldState{
			Name:        fld.Name,
			Label:       fld.Label,
			Value:       f.values[fld.Name],
			Options:     f.Options(fld.Name),
			Required:    fld.Required,
			Placeholder: "Select " + fld.Label,
		}
		if fs.Options == nil {
			fs.Options = []Option{}
		}
		for _, prev := range flds[:i] {
			if f.values[prev.Name] == "" {
				fs.Disabled = true
				fs.Placeholder = "Select " + prev.Label + " first"
				break
			}
		}
		st.Fields = append(st.Fields, fs)
	}
	return st
}
