package filter

import "github.com/pkg/errors"

// ErrUnknownForm is returned by Preset for names that are not registered.
var ErrUnknownForm = errors.New("unknown filter form")

// Form names.
const (
	StudentInfo      = "student-info"
	AcademicProfile  = "academic-profile"
	ProgramMetrics   = "program-metrics"
	ReportGeneration = "report-generation"
	StudentEntry     = "student-entry"
)

// Mode names.
const (
	SectionMode      = "section"
	BatchMode        = "batch"
	BatchReportsMode = "batch_reports"
	ProgramStatsMode = "program_stats"
)

// defaultProgramYears is offered when the graph has no duration for a program.
const defaultProgramYears = 4

func sectionFields() []Field {
	return []Field{
		{Name: "academic_year", Label: "Academic Year", Required: true, Source: StaticList(AcademicYears)},
		{Name: "college", Label: "College", Required: true, Source: StaticList(Colleges)},
		{Name: "program", Label: "Program", Required: true, Source: KeyedList(Programs, "college")},
		{Name: "year_level", Label: "Year Level", Required: true, Source: YearRange(Years, "program", defaultProgramYears)},
		{Name: "semester", Label: "Semester", Required: true, Source: StaticList(Semesters)},
		{Name: "section", Label: "Section", Required: true, Source: KeyedList(Sections, "program", "year_level")},
	}
}

var presets = []Config{
	{
		Name:  StudentInfo,
		Title: "Student Information",
		Modes: []Mode{
			{Name: SectionMode, Label: "By Section", Fields: sectionFields()},
			{Name: BatchMode, Label: "By Batch", Fields: []Field{
				{Name: "batch_college", Label: "College", Required: true, Source: StaticList(Colleges)},
				{Name: "batch_program", Label: "Program", Required: true, Source: KeyedList(Programs, "batch_college")},
				{Name: "batch_year", Label: "Batch", Required: true, Source: StaticList(Batches)},
				{Name: "board_batch", Label: "Board Batch", Required: true, Source: Fixed(
					Option{Value: "1", Label: "Batch 1"},
					Option{Value: "2", Label: "Batch 2"},
				)},
			}},
		},
	},
	{
		Name:  AcademicProfile,
		Title: "Academic Profile",
		Modes: []Mode{{Name: SectionMode, Label: "By Section", Fields: sectionFields()}},
	},
	{
		Name:  ProgramMetrics,
		Title: "Program Metrics",
		Modes: []Mode{{Name: BatchMode, Label: "By Batch", Fields: []Field{
			{Name: "college", Label: "College", Required: true, Source: StaticList(Colleges)},
			{Name: "program", Label: "Program", Required: true, Source: KeyedList(Programs, "college")},
			{Name: "batch_year", Label: "Year", Required: true, Source: StaticList(Batches)},
			{Name: "board_batch", Label: "Board Batch", Required: true, Source: StaticList(BoardBatches)},
		}}},
	},
	{
		Name:  ReportGeneration,
		Title: "Report Generation",
		Modes: []Mode{
			{Name: BatchReportsMode, Label: "Batch Reports", Fields: []Field{
				{Name: "college", Label: "College", Required: true, Source: StaticList(Colleges)},
				{Name: "program", Label: "Program", Required: true, Source: KeyedList(Programs, "college")},
				{Name: "start_year", Label: "Start Year", Required: true, Source: StaticList(BatchYears)},
				{Name: "end_year", Label: "End Year", Required: true, Source: AtLeast(BatchYears, "start_year")},
			}},
			{Name: ProgramStatsMode, Label: "Program Statistics", Fields: []Field{
				{Name: "stat_year", Label: "Year", Required: true, Source: StaticList(StatYears)},
			}},
		},
	},
	{
		Name:  StudentEntry,
		Title: "Student Entry",
		Modes: []Mode{{Name: "default", Label: "Default", Fields: []Field{
			{Name: "college", Label: "College", Required: true, Source: StaticList(Colleges)},
			{Name: "program", Label: "Program", Required: true, Source: KeyedList(Programs, "college")},
		}}},
	},
}

// Presets returns the registered form configurations.
func Presets() []Config {
	out := make([]Config, len(presets))
	copy(out, presets)
	return out
}

func Preset(name string) (Config, error) {
	for _, cfg := range presets {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return Config{}, ErrUnknownForm
}

// NewPreset builds a fresh form for a registered configuration.
func NewPreset(name string, graph *OptionsGraph) (*Form, error) {
	cfg, err := Preset(name)
	if err != nil {
		return nil, err
	}
	return New(cfg, graph)
}
