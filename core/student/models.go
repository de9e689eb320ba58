package student

import (
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/masomo-records/core"
)

const dateLayout = "2006-01-02"

// MetricValues holds one metric of a student: column (subject, exam, term...) -> value, nil when not recorded.
type MetricValues map[string]*string

type Student struct {
	ID                  string                  `json:"id"`
	StudentNumber       string                  `json:"student_number"`
	LastName            string                  `json:"last_name"`
	FirstName           string                  `json:"first_name"`
	MiddleName          string                  `json:"middle_name"`
	Suffix              string                  `json:"suffix"`
	College             string                  `json:"college"`
	Program             string                  `json:"program"`
	YearLevel           int                     `json:"year_level,omitempty"`
	Section             string                  `json:"section"`
	AcademicYear        string                  `json:"academic_year"`
	Semester            string                  `json:"semester"`
	BatchYear           string                  `json:"batch_year"`
	BoardBatch          string                  `json:"board_batch"`
	Birthdate           string                  `json:"birthdate"` // YYYY-MM-DD
	Sex                 string                  `json:"sex"`
	SocioeconomicStatus string                  `json:"socioeconomic_status"`
	Address             string                  `json:"address"`
	LivingArrangement   string                  `json:"living_arrangement"`
	WorkStatus          string                  `json:"work_status"`
	Scholarship         string                  `json:"scholarship"`
	Language            string                  `json:"language"`
	LastSchool          string                  `json:"last_school"`
	Metrics             map[string]MetricValues `json:"metrics,omitempty"`
	CreatedAt           time.Time               `json:"created_at"` // UTC
	UpdatedAt           time.Time               `json:"updated_at"` // UTC
}

// Name formats the student's name the way the masterlist shows it: "LAST, FIRST MIDDLE SUFFIX".
func (s Student) Name() string {
	name := strings.ToUpper(s.LastName)
	rest := strings.Join(strings.Fields(strings.Join([]string{s.FirstName, s.MiddleName, s.Suffix}, " ")), " ")
	if rest != "" {
		name += ", " + strings.ToUpper(rest)
	}
	return name
}

// Age in full years at now; 0 when the birthdate is unknown.
func (s Student) Age(now time.Time) int {
	born, err := time.Parse(dateLayout, s.Birthdate)
	if err != nil {
		return 0
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// Metric returns the values recorded for metric, nil when none.
func (s Student) Metric(metric string) MetricValues {
	return s.Metrics[metric]
}

// NewStudent contains information needed to add a Student to the masterlist.
type NewStudent struct {
	StudentNumber       string `json:"student_number" validate:"required,student_number"`
	LastName            string `json:"last_name" validate:"required,notblank,max=128"`
	FirstName           string `json:"first_name" validate:"required,notblank,max=128"`
	MiddleName          string `json:"middle_name" validate:"max=128"`
	Suffix              string `json:"suffix" validate:"max=16"`
	College             string `json:"college" validate:"required"`
	Program             string `json:"program" validate:"required"`
	YearLevel           int    `json:"year_level" validate:"omitempty,gte=1,lte=10"`
	Section             string `json:"section" validate:"max=32"`
	AcademicYear        string `json:"academic_year" validate:"max=16"`
	Semester            string `json:"semester" validate:"max=16"`
	BatchYear           string `json:"batch_year" validate:"omitempty,numeric,len=4"`
	BoardBatch          string `json:"board_batch" validate:"max=16"`
	Birthdate           string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Sex                 string `json:"sex" validate:"omitempty,oneof=MALE FEMALE"`
	SocioeconomicStatus string `json:"socioeconomic_status" validate:"max=64"`
	Address             string `json:"address" validate:"max=512"`
	LivingArrangement   string `json:"living_arrangement" validate:"max=64"`
	WorkStatus          string `json:"work_status" validate:"max=64"`
	Scholarship         string `json:"scholarship" validate:"max=128"`
	Language            string `json:"language" validate:"max=64"`
	LastSchool          string `json:"last_school" validate:"max=256"`
}

func (ns *NewStudent) clean() {
	ns.StudentNumber = core.CleanString(ns.StudentNumber)
	ns.LastName = core.CleanString(ns.LastName)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.MiddleName = core.CleanString(ns.MiddleName)
	ns.Suffix = core.CleanString(ns.Suffix)
	ns.College = strings.ToUpper(core.CleanString(ns.College))
	ns.Program = strings.ToUpper(core.CleanString(ns.Program))
	ns.Section = core.CleanString(ns.Section)
	ns.AcademicYear = core.CleanString(ns.AcademicYear)
	ns.Semester = strings.ToUpper(core.CleanString(ns.Semester))
	ns.BatchYear = core.CleanString(ns.BatchYear)
	ns.BoardBatch = core.CleanString(ns.BoardBatch)
	ns.Birthdate = core.CleanString(ns.Birthdate)
	ns.Sex = strings.ToUpper(core.CleanString(ns.Sex))
	ns.SocioeconomicStatus = core.CleanString(ns.SocioeconomicStatus)
	ns.Address = core.CleanString(ns.Address)
	ns.LivingArrangement = core.CleanString(ns.LivingArrangement)
	ns.WorkStatus = core.CleanString(ns.WorkStatus)
	ns.Scholarship = core.CleanString(ns.Scholarship)
	ns.Language = core.CleanString(ns.Language)
	ns.LastSchool = core.CleanString(ns.LastSchool)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	StudentNumber       string `json:"student_number" validate:"omitempty,student_number"`
	LastName            string `json:"last_name" validate:"omitempty,notblank,max=128"`
	FirstName           string `json:"first_name" validate:"omitempty,notblank,max=128"`
	MiddleName          string `json:"middle_name" validate:"max=128"`
	Suffix              string `json:"suffix" validate:"max=16"`
	College             string `json:"college"`
	Program             string `json:"program"`
	YearLevel           int    `json:"year_level" validate:"omitempty,gte=1,lte=10"`
	Section             string `json:"section" validate:"max=32"`
	AcademicYear        string `json:"academic_year" validate:"max=16"`
	Semester            string `json:"semester" validate:"max=16"`
	BatchYear           string `json:"batch_year" validate:"omitempty,numeric,len=4"`
	BoardBatch          string `json:"board_batch" validate:"max=16"`
	Birthdate           string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Sex                 string `json:"sex" validate:"omitempty,oneof=MALE FEMALE"`
	SocioeconomicStatus string `json:"socioeconomic_status" validate:"max=64"`
	Address             string `json:"address" validate:"max=512"`
	LivingArrangement   string `json:"living_arrangement" validate:"max=64"`
	WorkStatus          string `json:"work_status" validate:"max=64"`
	Scholarship         string `json:"scholarship" validate:"max=128"`
	Language            string `json:"language" validate:"max=64"`
	LastSchool          string `json:"last_school" validate:"max=256"`
}

func (us *UpdateStudent) clean() {
	ns := NewStudent(*us)
	ns.clean()
	*us = UpdateStudent(ns)
}

// apply overwrites the fields of s that are set in us.
func (us UpdateStudent) apply(s Student) Student {
	set := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}
	set(&s.StudentNumber, us.StudentNumber)
	set(&s.LastName, us.LastName)
	set(&s.FirstName, us.FirstName)
	set(&s.MiddleName, us.MiddleName)
	set(&s.Suffix, us.Suffix)
	set(&s.College, us.College)
	set(&s.Program, us.Program)
	if us.YearLevel != 0 {
		s.YearLevel = us.YearLevel
	}
	set(&s.Section, us.Section)
	set(&s.AcademicYear, us.AcademicYear)
	set(&s.Semester, us.Semester)
	set(&s.BatchYear, us.BatchYear)
	set(&s.BoardBatch, us.BoardBatch)
	set(&s.Birthdate, us.Birthdate)
	set(&s.Sex, us.Sex)
	set(&s.SocioeconomicStatus, us.SocioeconomicStatus)
	set(&s.Address, us.Address)
	set(&s.LivingArrangement, us.LivingArrangement)
	set(&s.WorkStatus, us.WorkStatus)
	set(&s.Scholarship, us.Scholarship)
	set(&s.Language, us.Language)
	set(&s.LastSchool, us.LastSchool)
	return s
}

// Filter narrows the student list to the selection of a completed filter form. Empty fields match everything.
type Filter struct {
	College      string `query:"college" json:"college"`
	Program      string `query:"program" json:"program"`
	YearLevel    string `query:"year_level" json:"year_level"`
	Section      string `query:"section" json:"section"`
	AcademicYear string `query:"academic_year" json:"academic_year"`
	Semester     string `query:"semester" json:"semester"`
	BatchYear    string `query:"batch_year" json:"batch_year"`
	BoardBatch   string `query:"board_batch" json:"board_batch"`
}

// FilterFromValues maps filter form values (either mode) to a Filter.
func FilterFromValues(values map[string]string) Filter {
	pick := func(names ...string) string {
		for _, n := range names {
			if v := core.CleanString(values[n]); v != "" {
				return v
			}
		}
		return ""
	}
	return Filter{
		College:      pick("college", "batch_college"),
		Program:      pick("program", "batch_program"),
		YearLevel:    pick("year_level"),
		Section:      pick("section"),
		AcademicYear: pick("academic_year"),
		Semester:     pick("semester"),
		BatchYear:    pick("batch_year"),
		BoardBatch:   pick("board_batch"),
	}
}

func (f *Filter) Clean() {
	f.College = strings.ToUpper(core.CleanString(f.College))
	f.Program = strings.ToUpper(core.CleanString(f.Program))
	f.YearLevel = core.CleanString(f.YearLevel)
	f.Section = core.CleanString(f.Section)
	f.AcademicYear = core.CleanString(f.AcademicYear)
	f.Semester = strings.ToUpper(core.CleanString(f.Semester))
	f.BatchYear = core.CleanString(f.BatchYear)
	f.BoardBatch = core.CleanString(f.BoardBatch)
}

// Match reports whether s satisfies every set field of f.
func (f Filter) Match(s Student) bool {
	eq := func(want, got string) bool {
		return want == "" || strings.EqualFold(want, got)
	}
	if f.YearLevel != "" && f.YearLevel != strconv.Itoa(s.YearLevel) {
		return false
	}
	return eq(f.College, s.College) &&
		eq(f.Program, s.Program) &&
		eq(f.Section, s.Section) &&
		eq(f.AcademicYear, s.AcademicYear) &&
		eq(f.Semester, s.Semester) &&
		eq(f.BatchYear, s.BatchYear) &&
		eq(f.BoardBatch, s.BoardBatch)
}
