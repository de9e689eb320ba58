package filter

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func casGraph(t *testing.T) *OptionsGraph {
	g, err := LoadGraph(strings.NewReader(`{
		"colleges": [{"value": "CAS", "label": "College of Arts and Sciences"}, {"value": "CON", "label": "College of Nursing"}],
		"programs": {"CAS": [{"value": "BSIT", "label": "BS Information Technology"}, {"value": "BSPSY", "label": "BS Psychology"}]},
		"years": {"BSIT": 2},
		"sections": {"BSIT-1": [{"value": "1A", "label": "1A"}]}
	}`))
	require.NoError(t, err)
	return g
}

func chainConfig() Config {
	return Config{
		Name: "chain",
		Modes: []Mode{{Name: "section", Fields: []Field{
			{Name: "college", Label: "College", Required: true, Source: StaticList(Colleges)},
			{Name: "program", Label: "Program", Required: true, Source: KeyedList(Programs, "college")},
			{Name: "year_level", Label: "Year Level", Required: true, Source: YearRange(Years, "program", 4)},
			{Name: "section", Label: "Section", Source: KeyedList(Sections, "program", "year_level")},
		}}},
	}
}

func newChainForm(t *testing.T) *Form {
	f, err := New(chainConfig(), casGraph(t))
	require.NoError(t, err)
	return f
}

// checkPrefix asserts the form invariant: once a field is empty, all later ones are.
func checkPrefix(t *testing.T, f *Form) {
	t.Helper()
	empty := false
	for _, fld := range f.fields() {
		if f.Value(fld.Name) == "" {
			empty = true
		} else if empty {
			t.Errorf("field %q is set after an empty field: %v", fld.Name, f.Values())
		}
	}
}

func TestForm_SetField(t *testing.T) {
	f := newChainForm(t)
	assert.Empty(t, f.Options("program"))

	require.NoError(t, f.SetField("college", "CAS"))
	assert.Equal(t, []Option{{"BSIT", "BS Information Technology"}, {"BSPSY", "BS Psychology"}}, f.Options("program"))
	assert.Empty(t, f.Options("year_level"))

	require.NoError(t, f.SetField("program", "BSIT"))
	assert.Equal(t, []Option{{"1", "1"}, {"2", "2"}}, f.Options("year_level"))

	require.NoError(t, f.SetField("year_level", "1"))
	assert.Equal(t, []Option{{"1A", "1A"}}, f.Options("section"))
	require.NoError(t, f.SetField("section", "1A"))
	checkPrefix(t, f)

	// setting an ancestor clears every later field and their options
	require.NoError(t, f.SetField("program", "BSPSY"))
	assert.Equal(t, Values{"college": "CAS", "program": "BSPSY"}, f.Values())
	assert.Equal(t, []Option{{"1", "1"}, {"2", "2"}, {"3", "3"}, {"4", "4"}}, f.Options("year_level")) // default duration
	assert.Empty(t, f.Options("section"))
	checkPrefix(t, f)

	// clearing the root
	require.NoError(t, f.SetField("college", "CAS"))
	require.NoError(t, f.SetField("program", "BSIT"))
	require.NoError(t, f.SetField("year_level", "1"))
	require.NoError(t, f.SetField("college", ""))
	assert.Empty(t, f.Values())
	assert.Empty(t, f.Options("program"))
	assert.Empty(t, f.Options("year_level"))
	assert.Empty(t, f.Options("section"))
	checkPrefix(t, f)
}

func TestForm_SetField_errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare Values
		field   string
		value   string
		wantErr error
	}{
		{name: "ancestor empty", field: "program", value: "BSIT", wantErr: ErrInconsistentFieldAccess},
		{name: "distant ancestor empty", prepare: Values{"college": "CAS"}, field: "year_level", value: "1", wantErr: ErrInconsistentFieldAccess},
		{name: "clearing below an empty ancestor", field: "section", value: "", wantErr: ErrInconsistentFieldAccess},
		{name: "unknown option", field: "college", value: "LOL", wantErr: ErrInvalidOption},
		{name: "option of another parent", prepare: Values{"college": "CON"}, field: "program", value: "BSIT", wantErr: ErrInvalidOption},
		{name: "year above the program duration", prepare: Values{"college": "CAS", "program": "BSIT"}, field: "year_level", value: "3", wantErr: ErrInvalidOption},
		{name: "unknown field", field: "batch_year", value: "2025", wantErr: ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChainForm(t)
			require.NoError(t, f.Restore("", tt.prepare))
			before := f.Values()

			err := f.SetField(tt.field, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetField() error = %v, wantErr %v", err, tt.wantErr)
			}
			var fErr *FieldError
			require.True(t, errors.As(err, &fErr))
			assert.Equal(t, tt.field, fErr.Field)
			assert.Equal(t, before, f.Values(), "state must be left untouched")
		})
	}
}

func TestForm_IsComplete_Reset(t *testing.T) {
	f := newChainForm(t)
	assert.False(t, f.IsComplete())

	require.NoError(t, f.Restore("", Values{"college": "CAS", "program": "BSIT", "year_level": "2"}))
	assert.True(t, f.IsComplete(), "section is optional")

	f.Reset()
	assert.False(t, f.IsComplete())
	assert.Empty(t, f.Values())
	assert.Empty(t, f.Options("program"))
	assert.Len(t, f.Options("college"), 2)
}

func TestForm_Modes(t *testing.T) {
	f, err := NewPreset(StudentInfo, DemoGraph())
	require.NoError(t, err)
	assert.Equal(t, SectionMode, f.Mode())

	require.NoError(t, f.SetField("academic_year", "2024-2025"))
	require.NoError(t, f.SetField("college", "CAS"))
	assert.NotEmpty(t, f.Options("program"))

	require.NoError(t, f.SwitchMode(BatchMode))
	assert.Equal(t, BatchMode, f.Mode())
	assert.Empty(t, f.Values())
	assert.Empty(t, f.Options("batch_program"))
	assert.False(t, f.IsComplete())

	require.NoError(t, f.SetField("batch_college", "CMT"))
	require.NoError(t, f.SetField("batch_program", "BSMT"))
	require.NoError(t, f.SetField("batch_year", "2026"))
	require.NoError(t, f.SetField("board_batch", "2"))
	assert.True(t, f.IsComplete())

	// fields of another mode are unknown
	assert.True(t, errors.Is(f.SetField("college", "CAS"), ErrUnknownField))

	assert.True(t, errors.Is(f.SwitchMode("lol"), ErrUnknownMode))
	assert.Equal(t, BatchMode, f.Mode())

	// switching back discards everything
	require.NoError(t, f.SwitchMode(SectionMode))
	assert.Empty(t, f.Values())
}

func TestForm_Restore(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		values  Values
		want    Values
		wantErr error
	}{
		{name: "empty", want: Values{}},
		{name: "prefix", values: Values{"college": "CAS", "program": "BSIT"}, want: Values{"college": "CAS", "program": "BSIT"}},
		{name: "values are cleaned", values: Values{"college": " CAS "}, want: Values{"college": "CAS"}},
		{name: "gap", values: Values{"college": "CAS", "year_level": "1"}, wantErr: ErrInconsistentFieldAccess},
		{name: "bad option", values: Values{"college": "CAS", "program": "BSN"}, wantErr: ErrInvalidOption},
		{name: "unknown field", values: Values{"lol": "1"}, wantErr: ErrUnknownField},
		{name: "unknown mode", mode: "lol", wantErr: ErrUnknownMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChainForm(t)
			require.NoError(t, f.SetField("college", "CON"))

			err := f.Restore(tt.mode, tt.values)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Restore() error = %v, wantErr %v", err, tt.wantErr)
				}
				assert.Equal(t, Values{"college": "CON"}, f.Values(), "state must be left untouched")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Values())
			checkPrefix(t, f)
		})
	}
}

func TestForm_State(t *testing.T) {
	f := newChainForm(t)
	require.NoError(t, f.SetField("college", "CAS"))

	st := f.State()
	assert.Equal(t, "chain", st.Form)
	assert.Equal(t, "section", st.Mode)
	assert.False(t, st.Complete)
	require.Len(t, st.Fields, 4)

	assert.Equal(t, FieldState{
		Name: "college", Label: "College", Value: "CAS", Required: true, Placeholder: "Select College",
		Options: []Option{{"CAS", "College of Arts and Sciences"}, {"CON", "College of Nursing"}},
	}, st.Fields[0])
	assert.False(t, st.Fields[1].Disabled)
	assert.Len(t, st.Fields[1].Options, 2)
	assert.True(t, st.Fields[2].Disabled)
	assert.Equal(t, "Select Program first", st.Fields[2].Placeholder)
	assert.Equal(t, []Option{}, st.Fields[2].Options)
	assert.True(t, st.Fields[3].Disabled)
	assert.Equal(t, "Select Program first", st.Fields[3].Placeholder)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "chain", cfg: chainConfig()},
		{name: "no modes", cfg: Config{Name: "x"}, wantErr: true},
		{
			name: "derived before its parent",
			cfg: Config{Name: "x", Modes: []Mode{{Name: "m", Fields: []Field{
				{Name: "program", Source: KeyedList(Programs, "college")},
				{Name: "college", Source: StaticList(Colleges)},
			}}}},
			wantErr: true,
		},
		{
			name: "duplicate field",
			cfg: Config{Name: "x", Modes: []Mode{{Name: "m", Fields: []Field{
				{Name: "college", Source: StaticList(Colleges)},
				{Name: "college", Source: StaticList(Colleges)},
			}}}},
			wantErr: true,
		},
		{name: "no source", cfg: Config{Name: "x", Modes: []Mode{{Name: "m", Fields: []Field{{Name: "college"}}}}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	g := DemoGraph()
	for _, cfg := range Presets() {
		t.Run(cfg.Name, func(t *testing.T) {
			f, err := New(cfg, g)
			require.NoError(t, err)
			assert.Equal(t, cfg.Modes[0].Name, f.Mode())
		})
	}

	_, err := NewPreset("lol", g)
	assert.Equal(t, ErrUnknownForm, err)
}

func TestReportGeneration_endYear(t *testing.T) {
	f, err := NewPreset(ReportGeneration, DemoGraph())
	require.NoError(t, err)
	require.NoError(t, f.Restore(BatchReportsMode, Values{"college": "CAS", "program": "BSPSY", "start_year": "2023"}))

	assert.Equal(t, []Option{{"2023", "2023"}, {"2024", "2024"}, {"2025", "2025"}}, f.Options("end_year"))
	assert.True(t, errors.Is(f.SetField("end_year", "2021"), ErrInvalidOption))
	require.NoError(t, f.SetField("end_year", "2024"))
	assert.True(t, f.IsComplete())

	require.NoError(t, f.SwitchMode(ProgramStatsMode))
	require.NoError(t, f.SetField("stat_year", "2025"))
	assert.True(t, f.IsComplete())
}
