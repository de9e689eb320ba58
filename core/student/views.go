package student

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/masomo-records/core/filter"
	"github.com/trezcool/masomo-records/core/table"
)

// Metric view groups.
const (
	GroupAcademic = "academic"
	GroupProgram  = "program"
)

// View is a report-like table over one metric of the students.
type View struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Group string `json:"group"`

	nest  string   // row key the metric columns are nested under; "" sets them on the row itself
	fixed []string // metric columns; nil lists the columns recorded on the students
	terms bool     // one column per program term ("1Y-1S", "1Y-2S", ...)
}

var views = []View{
	{Name: "gwa", Label: "GWA", Group: GroupAcademic, nest: "grades", terms: true},
	{Name: "board-grades", Label: "Grades in Board Subjects", Group: GroupAcademic, nest: "grades"},
	{Name: "retakes", Label: "Back Subjects/Retakes", Group: GroupAcademic, nest: "grades"},
	{Name: "performance", Label: "Performance Rating", Group: GroupAcademic, nest: "ratings"},
	{Name: "simulation", Label: "Simulation Exam Results", Group: GroupAcademic, nest: "results"},
	{Name: "attendance", Label: "Attendance in Review Classes", Group: GroupAcademic, fixed: []string{"attended", "total"}},
	{Name: "recognition", Label: "Academic Recognition", Group: GroupAcademic, fixed: []string{"recognition_count"}},
	{Name: "review-center", Label: "Review Center", Group: GroupProgram, fixed: []string{"review_center"}},
	{Name: "mock-scores", Label: "Mock Exam Scores", Group: GroupProgram, nest: "scores"},
	{Name: "licensure", Label: "Licensure Exam Results", Group: GroupProgram, fixed: []string{"exam_date", "status", "first_attempt"}},
}

// Views returns the metric views of group, or all of them when group is empty.
func Views(group string) []View {
	out := make([]View, 0, len(views))
	for _, v := range views {
		if group == "" || v.Group == group {
			out = append(out, v)
		}
	}
	return out
}

func LookupView(name string) (View, bool) {
	for _, v := range views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

func termColumns(years int) []string {
	cols := make([]string, 0, 2*years)
	for y := 1; y <= years; y++ {
		cols = append(cols, strconv.Itoa(y)+"Y-1S", strconv.Itoa(y)+"Y-2S")
	}
	return cols
}

// metricColumns lists the metric columns shown for students.
func (v View) metricColumns(students []Student, graph *filter.OptionsGraph) []string {
	switch {
	case v.terms:
		// widest program among the listed students
		years := 0
		for _, s := range students {
			n, ok := graph.Count(filter.Years, s.Program)
			if !ok {
				n = defaultProgramYears
			}
			if n > years {
				years = n
			}
		}
		if years == 0 {
			years = defaultProgramYears
		}
		return termColumns(years)
	case v.fixed != nil:
		return v.fixed
	}

	seen := make(map[string]bool)
	var cols []string
	for _, s := range students {
		for col := range s.Metric(v.Name) {
			if !seen[col] {
				seen[col] = true
				cols = append(cols, col)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

func (v View) columnKey(col string) string {
	if v.nest == "" {
		return col
	}
	return v.nest + "." + col
}

// ColumnDefs returns the sortable columns of the view for students.
func (v View) ColumnDefs(students []Student, graph *filter.OptionsGraph) []table.ColumnDef {
	defs := []table.ColumnDef{
		{Key: "student_number", Label: "Student No."},
		{Key: "name", Label: "Name"},
	}
	for _, col := range v.metricColumns(students, graph) {
		defs = append(defs, table.ColumnDef{Key: v.columnKey(col), Label: humanize(col)})
	}
	return defs
}

// Rows flattens students into table rows holding the view's metric.
func (v View) Rows(students []Student, graph *filter.OptionsGraph) []table.Row {
	cols := v.metricColumns(students, graph)
	rows := make([]table.Row, 0, len(students))
	for _, s := range students {
		row := identityRow(s, graph)
		values := s.Metric(v.Name)
		if v.nest != "" {
			nested := make(map[string]*string, len(cols))
			for _, col := range cols {
				nested[col] = values[col]
			}
			row[v.nest] = nested
		} else {
			for _, col := range cols {
				row[col] = values[col]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func identityRow(s Student, graph *filter.OptionsGraph) table.Row {
	return table.Row{
		"id":             s.ID,
		"student_number": s.StudentNumber,
		"name":           s.Name(),
		"college":        s.College,
		"college_name":   filter.Label(graph.List(filter.Colleges), s.College),
		"program":        s.Program,
		"program_name":   filter.Label(graph.KeyedList(filter.Programs, s.College), s.Program),
		"year_level":     nullInt(s.YearLevel),
		"section":        nullString(s.Section),
	}
}

var masterlistColumns = []table.ColumnDef{
	{Key: "student_number", Label: "Student No."},
	{Key: "name", Label: "Name"},
	{Key: "college", Label: "College"},
	{Key: "program", Label: "Program"},
	{Key: "year_level", Label: "Year Level"},
	{Key: "section", Label: "Section"},
	{Key: "sex", Label: "Sex"},
	{Key: "age", Label: "Age"},
}

// MasterlistColumns returns the sortable columns of the student masterlist.
func MasterlistColumns() []table.ColumnDef {
	out := make([]table.ColumnDef, len(masterlistColumns))
	copy(out, masterlistColumns)
	return out
}

// MasterlistRow is the masterlist representation of s.
func MasterlistRow(s Student, graph *filter.OptionsGraph, now time.Time) table.Row {
	row := identityRow(s, graph)
	row["last_name"] = s.LastName
	row["first_name"] = s.FirstName
	row["middle_name"] = nullString(s.MiddleName)
	row["suffix"] = nullString(s.Suffix)
	row["academic_year"] = nullString(s.AcademicYear)
	row["semester"] = nullString(s.Semester)
	row["batch_year"] = nullString(s.BatchYear)
	row["board_batch"] = nullString(s.BoardBatch)
	row["birthdate"] = nullString(s.Birthdate)
	row["age"] = nullInt(s.Age(now))
	row["sex"] = nullString(s.Sex)
	row["socioeconomic_status"] = nullString(s.SocioeconomicStatus)
	row["address"] = nullString(s.Address)
	row["living_arrangement"] = nullString(s.LivingArrangement)
	row["work_status"] = nullString(s.WorkStatus)
	row["scholarship"] = nullString(s.Scholarship)
	row["language"] = nullString(s.Language)
	row["last_school"] = nullString(s.LastSchool)
	return row
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

// humanize turns a column name into a header label: "recognition_count" -> "Recognition Count".
func humanize(col string) string {
	words := strings.Fields(strings.ReplaceAll(col, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
