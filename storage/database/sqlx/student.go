package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-records/core/student"
	"github.com/trezcool/masomo-records/core/table"
)

const dateLayout = "2006-01-02"

const studentColumns = `id, student_number, last_name, first_name, middle_name, suffix, college, program,
	year_level, section, academic_year, semester, batch_year, board_batch, birthdate, sex,
	socioeconomic_status, address, living_arrangement, work_status, scholarship, language,
	last_school, created_at, updated_at`

// searchColumns are matched by the masterlist search: the stored columns plus the derived name and age.
var searchColumns = []string{
	nameExpr,
	"NULLIF(GREATEST(date_part('year', age(birthdate)), 0), 0)::text",
	"student_number", "last_name", "first_name", "middle_name", "suffix", "college", "program",
	"CAST(year_level AS TEXT)", "section", "academic_year", "semester", "batch_year", "board_batch",
	"CAST(birthdate AS TEXT)", "sex", "socioeconomic_status", "address", "living_arrangement",
	"work_status", "scholarship", "language", "last_school",
}

// nameExpr renders the masterlist name, "DELA CRUZ, JUAN".
const nameExpr = "UPPER(last_name) || ', ' || UPPER(CONCAT_WS(' ', first_name, middle_name, suffix))"

// sortExprs maps masterlist column keys to their ORDER BY expression. Text compares case-insensitively.
var sortExprs = map[string]string{
	"student_number":       "student_number",
	"name":                 "LOWER(last_name || ', ' || CONCAT_WS(' ', first_name, middle_name, suffix))",
	"last_name":            "LOWER(last_name)",
	"first_name":           "LOWER(first_name)",
	"middle_name":          "LOWER(middle_name)",
	"college":              "LOWER(college)",
	"program":              "LOWER(program)",
	"year_level":           "year_level",
	"section":              "LOWER(section)",
	"academic_year":        "academic_year",
	"semester":             "LOWER(semester)",
	"batch_year":           "batch_year",
	"board_batch":          "board_batch",
	"birthdate":            "birthdate",
	"sex":                  "LOWER(sex)",
	"socioeconomic_status": "LOWER(socioeconomic_status)",
	"living_arrangement":   "LOWER(living_arrangement)",
	"work_status":          "LOWER(work_status)",
	"scholarship":          "LOWER(scholarship)",
	"language":             "LOWER(language)",
	"last_school":          "LOWER(last_school)",
}

type dbStudent struct {
	ID                  string      `db:"id"`
	StudentNumber       string      `db:"student_number"`
	LastName            string      `db:"last_name"`
	FirstName           string      `db:"first_name"`
	MiddleName          null.String `db:"middle_name"`
	Suffix              null.String `db:"suffix"`
	College             string      `db:"college"`
	Program             string      `db:"program"`
	YearLevel           null.Int    `db:"year_level"`
	Section             null.String `db:"section"`
	AcademicYear        null.String `db:"academic_year"`
	Semester            null.String `db:"semester"`
	BatchYear           null.String `db:"batch_year"`
	BoardBatch          null.String `db:"board_batch"`
	Birthdate           null.Time   `db:"birthdate"`
	Sex                 null.String `db:"sex"`
	SocioeconomicStatus null.String `db:"socioeconomic_status"`
	Address             null.String `db:"address"`
	LivingArrangement   null.String `db:"living_arrangement"`
	WorkStatus          null.String `db:"work_status"`
	Scholarship         null.String `db:"scholarship"`
	Language            null.String `db:"language"`
	LastSchool          null.String `db:"last_school"`
	CreatedAt           time.Time   `db:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at"`
}

type dbMetric struct {
	StudentID string      `db:"student_id"`
	Metric    string      `db:"metric"`
	Col       string      `db:"col"`
	Value     null.String `db:"value"`
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func toDBStudent(s student.Student) dbStudent {
	d := dbStudent{
		ID:                  s.ID,
		StudentNumber:       s.StudentNumber,
		LastName:            s.LastName,
		FirstName:           s.FirstName,
		MiddleName:          nullString(s.MiddleName),
		Suffix:              nullString(s.Suffix),
		College:             s.College,
		Program:             s.Program,
		YearLevel:           null.NewInt(s.YearLevel, s.YearLevel != 0),
		Section:             nullString(s.Section),
		AcademicYear:        nullString(s.AcademicYear),
		Semester:            nullString(s.Semester),
		BatchYear:           nullString(s.BatchYear),
		BoardBatch:          nullString(s.BoardBatch),
		Sex:                 nullString(s.Sex),
		SocioeconomicStatus: nullString(s.SocioeconomicStatus),
		Address:             nullString(s.Address),
		LivingArrangement:   nullString(s.LivingArrangement),
		WorkStatus:          nullString(s.WorkStatus),
		Scholarship:         nullString(s.Scholarship),
		Language:            nullString(s.Language),
		LastSchool:          nullString(s.LastSchool),
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	if born, err := time.Parse(dateLayout, s.Birthdate); err == nil {
		d.Birthdate = null.TimeFrom(born)
	}
	return d
}

func (d dbStudent) toStudent() student.Student {
	s := student.Student{
		ID:                  d.ID,
		StudentNumber:       d.StudentNumber,
		LastName:            d.LastName,
		FirstName:           d.FirstName,
		MiddleName:          d.MiddleName.String,
		Suffix:              d.Suffix.String,
		College:             d.College,
		Program:             d.Program,
		YearLevel:           d.YearLevel.Int,
		Section:             d.Section.String,
		AcademicYear:        d.AcademicYear.String,
		Semester:            d.Semester.String,
		BatchYear:           d.BatchYear.String,
		BoardBatch:          d.BoardBatch.String,
		Sex:                 d.Sex.String,
		SocioeconomicStatus: d.SocioeconomicStatus.String,
		Address:             d.Address.String,
		LivingArrangement:   d.LivingArrangement.String,
		WorkStatus:          d.WorkStatus.String,
		Scholarship:         d.Scholarship.String,
		Language:            d.Language.String,
		LastSchool:          d.LastSchool.String,
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
	}
	if d.Birthdate.Valid {
		s.Birthdate = d.Birthdate.Time.Format(dateLayout)
	}
	return s
}

type studentRepository struct {
	db *sqlx.DB
}

var (
	_ student.Repository  = (*studentRepository)(nil) // interface compliance check
	_ student.PageQuerier = (*studentRepository)(nil)
)

func NewStudentRepository(db *sql.DB) *studentRepository {
	return &studentRepository{db: sqlx.NewDb(db, "postgres")}
}

// validIDs drops ids that are not uuids; postgres rejects them instead of matching nothing.
func validIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return valid
}

// whereClause renders the AND of the set filter fields and the search, with "?" placeholders.
func whereClause(f student.Filter, search string) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	eq := func(col, val string) {
		if val != "" {
			conds = append(conds, "UPPER("+col+") = UPPER(?)")
			args = append(args, val)
		}
	}
	eq("college", f.College)
	eq("program", f.Program)
	eq("CAST(year_level AS TEXT)", f.YearLevel)
	eq("section", f.Section)
	eq("academic_year", f.AcademicYear)
	eq("semester", f.Semester)
	eq("batch_year", f.BatchYear)
	eq("board_batch", f.BoardBatch)

	if search != "" {
		pattern := "%" + escapeLike(search) + "%"
		ors := make([]string, 0, len(searchColumns))
		for _, col := range searchColumns {
			ors = append(ors, col+" ILIKE ?")
			args = append(args, pattern)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderClause sorts on one column, nulls last in both directions; insertion order breaks ties.
func orderClause(q table.Query) string {
	if q.SortKey == "age" {
		// older students have an earlier birthdate
		q.SortKey = "birthdate"
		if q.SortDirection == table.Desc {
			q.SortDirection = table.Asc
		} else {
			q.SortDirection = table.Desc
		}
	}
	expr, ok := sortExprs[q.SortKey]
	if !ok {
		return " ORDER BY seq"
	}
	dir := "ASC"
	if q.SortDirection == table.Desc {
		dir = "DESC"
	}
	return " ORDER BY " + expr + " " + dir + " NULLS LAST, seq"
}

func (repo *studentRepository) selectStudents(ctx context.Context, query string, args ...interface{}) ([]student.Student, error) {
	var rows []dbStudent
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo *studentRepository) loadMetrics(ctx context.Context, students []student.Student) error {
	if len(students) == 0 {
		return nil
	}
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}

	var metrics []dbMetric
	q := `SELECT student_id, metric, col, value FROM student_metrics WHERE student_id = ANY($1)`
	if err := repo.db.SelectContext(ctx, &metrics, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "loading metrics")
	}

	byID := make(map[string]map[string]student.MetricValues, len(students))
	for _, m := range metrics {
		if byID[m.StudentID] == nil {
			byID[m.StudentID] = make(map[string]student.MetricValues)
		}
		if byID[m.StudentID][m.Metric] == nil {
			byID[m.StudentID][m.Metric] = make(student.MetricValues)
		}
		byID[m.StudentID][m.Metric][m.Col] = m.Value.Ptr()
	}
	for i := range students {
		students[i].Metrics = byID[students[i].ID]
	}
	return nil
}

func (repo *studentRepository) CheckStudentNumberUniqueness(ctx context.Context, number string, excluded ...student.Student) error {
	query := `SELECT COUNT(*) FROM students WHERE student_number = ?`
	args := []interface{}{number}

	exclIDs := make([]string, 0, len(excluded))
	for _, s := range excluded {
		exclIDs = append(exclIDs, s.ID)
	}
	if exclIDs = validIDs(exclIDs); len(exclIDs) > 0 {
		var err error
		if query, args, err = sqlx.In(query+` AND id NOT IN (?)`, number, exclIDs); err != nil {
			return err
		}
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking student number")
	}
	if count > 0 {
		return student.ErrStudentNumberExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := `INSERT INTO students (` + studentColumns + `) VALUES (
		:id, :student_number, :last_name, :first_name, :middle_name, :suffix, :college, :program,
		:year_level, :section, :academic_year, :semester, :batch_year, :board_batch, :birthdate, :sex,
		:socioeconomic_status, :address, :living_arrangement, :work_status, :scholarship, :language,
		:last_school, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toDBStudent(s)); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return student.Student{}, student.ErrStudentNumberExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	for metric, values := range s.Metrics {
		if err := repo.SetStudentMetric(ctx, s.ID, metric, values); err != nil {
			return student.Student{}, err
		}
	}
	return s, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	if len(validIDs([]string{id})) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	students, err := repo.selectStudents(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	if len(students) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	if err = repo.loadMetrics(ctx, students); err != nil {
		return student.Student{}, err
	}
	return students[0], nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, f student.Filter) ([]student.Student, error) {
	where, args := whereClause(f, "")
	students, err := repo.selectStudents(ctx, `SELECT `+studentColumns+` FROM students`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	if err = repo.loadMetrics(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// QueryStudentsPage searches, sorts and paginates the masterlist in the database.
func (repo *studentRepository) QueryStudentsPage(ctx context.Context, f student.Filter, q table.Query) ([]student.Student, table.Pagination, error) {
	where, args := whereClause(f, q.Search)

	var total int
	if err := repo.db.GetContext(ctx, &total, repo.db.Rebind(`SELECT COUNT(*) FROM students`+where), args...); err != nil {
		return nil, table.Pagination{}, errors.Wrap(err, "counting students")
	}
	p := table.NewPagination(total, q.Page, q.PageSize)

	query := `SELECT ` + studentColumns + ` FROM students` + where + orderClause(q) + ` LIMIT ? OFFSET ?`
	students, err := repo.selectStudents(ctx, query, append(args, p.Limit(), p.Offset())...)
	if err != nil {
		return nil, table.Pagination{}, errors.Wrap(err, "querying students page")
	}
	return students, p, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := `UPDATE students SET
		student_number = :student_number, last_name = :last_name, first_name = :first_name,
		middle_name = :middle_name, suffix = :suffix, college = :college, program = :program,
		year_level = :year_level, section = :section, academic_year = :academic_year,
		semester = :semester, batch_year = :batch_year, board_batch = :board_batch,
		birthdate = :birthdate, sex = :sex, socioeconomic_status = :socioeconomic_status,
		address = :address, living_arrangement = :living_arrangement, work_status = :work_status,
		scholarship = :scholarship, language = :language, last_school = :last_school,
		updated_at = :updated_at
		WHERE id = :id`
	if len(validIDs([]string{s.ID})) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	res, err := repo.db.NamedExecContext(ctx, q, toDBStudent(s))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return student.Student{}, student.ErrStudentNumberExists
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(ctx, s.ID)
}

func (repo *studentRepository) SetStudentMetric(ctx context.Context, id, metric string, values student.MetricValues) error {
	if len(validIDs([]string{id})) == 0 {
		return student.ErrNotFound
	}
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err = tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, id); err != nil {
		return errors.Wrap(err, "checking student")
	}
	if !exists {
		return student.ErrNotFound
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM student_metrics WHERE student_id = $1 AND metric = $2`, id, metric); err != nil {
		return errors.Wrap(err, "clearing metric")
	}
	for col, val := range values {
		m := dbMetric{StudentID: id, Metric: metric, Col: col, Value: null.StringFromPtr(val)}
		q := `INSERT INTO student_metrics (student_id, metric, col, value) VALUES (:student_id, :metric, :col, :value)`
		if _, err = sqlx.NamedExecContext(ctx, tx, q, m); err != nil {
			return errors.Wrap(err, "inserting metric")
		}
	}
	return errors.Wrap(tx.Commit(), "committing metric")
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM students WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}
