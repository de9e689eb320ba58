package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/filter"
	"github.com/trezcool/masomo-records/core/table"
)

var (
	// errors
	ErrNotFound            = errors.New("student not found")
	ErrStudentNumberExists = errors.New("a student with this student number already exists")
	ErrUnknownMetric       = errors.New("unknown metric")
)

var (
	nowFunc = func() time.Time { return time.Now().UTC() } // mockable
	newID   = func() string { return uuid.New().String() } // mockable
)

const defaultProgramYears = 4

type (
	Repository interface {
		CheckStudentNumberUniqueness(ctx context.Context, number string, excluded ...Student) error
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// QueryStudents applies AND on the set Filter fields, in insertion order.
		QueryStudents(ctx context.Context, f Filter) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		// SetStudentMetric replaces the values of one metric of a student.
		SetStudentMetric(ctx context.Context, id, metric string, values MetricValues) error
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	// PageQuerier is implemented by repositories that search, sort and paginate the masterlist themselves.
	PageQuerier interface {
		QueryStudentsPage(ctx context.Context, f Filter, q table.Query) ([]Student, table.Pagination, error)
	}

	Service struct {
		repo  Repository
		graph *filter.OptionsGraph
	}
)

func NewService(repo Repository, graph *filter.OptionsGraph) *Service {
	return &Service{repo: repo, graph: graph}
}

// Graph returns the options graph the service validates colleges and programs against.
func (svc *Service) Graph() *filter.OptionsGraph {
	return svc.graph
}

func (svc *Service) checkUniqueness(ctx context.Context, number string, excluded ...Student) error {
	if err := svc.repo.CheckStudentNumberUniqueness(ctx, number, excluded...); err != nil {
		if err == ErrStudentNumberExists {
			return core.NewValidationError(err, core.FieldError{Field: "student_number", Error: err.Error()})
		}
		return err
	}
	return nil
}

// checkProgram makes sure program is offered by college, the same way the student entry form would.
func (svc *Service) checkProgram(college, program string) error {
	form, err := filter.NewPreset(filter.StudentEntry, svc.graph)
	if err != nil {
		return err
	}
	if err := form.Restore("", filter.Values{"college": college, "program": program}); err != nil {
		var fErr *filter.FieldError
		if errors.As(err, &fErr) {
			return core.NewValidationError(err, core.FieldError{Field: fErr.Field, Error: fErr.Err.Error()})
		}
		return err
	}
	return nil
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	if err := svc.checkProgram(ns.College, ns.Program); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, ns.StudentNumber)
}

func (us *UpdateStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service, orig Student) error {
	us.clean()
	if err := validate.Struct(us); err != nil {
		return err
	}
	merged := us.apply(orig)
	if us.College != "" || us.Program != "" {
		if err := svc.checkProgram(merged.College, merged.Program); err != nil {
			return err
		}
	}
	if us.StudentNumber != "" {
		return svc.checkUniqueness(ctx, us.StudentNumber, orig)
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := nowFunc()
	s := UpdateStudent(ns).apply(Student{ID: newID(), CreatedAt: now, UpdatedAt: now})
	return svc.repo.CreateStudent(ctx, s)
}

func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Student, upd UpdateStudent) (Student, error) {
	s := upd.apply(orig)
	s.UpdatedAt = nowFunc()
	return svc.repo.UpdateStudent(ctx, s)
}

// UpdateMetric replaces the values of a metric of student id. Blank values are stored as not recorded.
func (svc *Service) UpdateMetric(ctx context.Context, id, metric string, values map[string]string) (Student, error) {
	view, ok := LookupView(metric)
	if !ok {
		return Student{}, ErrUnknownMetric
	}
	s, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	allowed := make(map[string]bool)
	if view.fixed != nil || view.terms {
		for _, col := range view.metricColumns([]Student{s}, svc.graph) {
			allowed[col] = true
		}
	}
	mv := make(MetricValues, len(values))
	var flds []core.FieldError
	for col, val := range values {
		col = core.CleanString(col)
		if col == "" || (len(allowed) > 0 && !allowed[col]) {
			flds = append(flds, core.FieldError{Field: col, Error: "unknown column for " + view.Label})
			continue
		}
		if val = core.CleanString(val); val != "" {
			v := val
			mv[col] = &v
		} else {
			mv[col] = nil
		}
	}
	if flds != nil {
		return Student{}, core.NewValidationError(errors.New("invalid metric values"), flds...)
	}

	if err := svc.repo.SetStudentMetric(ctx, id, metric, mv); err != nil {
		return Student{}, err
	}
	return svc.repo.GetStudentByID(ctx, id)
}

// Delete removes every student of ids; unknown ids are ignored.
func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

// masterlistSource serves the students matching f: paged by the repository when it can, in memory otherwise.
func (svc *Service) masterlistSource(ctx context.Context, f Filter) (table.Source, error) {
	now := nowFunc()
	toRows := func(students []Student) []table.Row {
		rows := make([]table.Row, 0, len(students))
		for _, s := range students {
			rows = append(rows, MasterlistRow(s, svc.graph, now))
		}
		return rows
	}

	if pq, ok := svc.repo.(PageQuerier); ok {
		return table.SourceFunc(func(ctx context.Context, q table.Query) (table.PageResult, error) {
			students, p, err := pq.QueryStudentsPage(ctx, f, q)
			if err != nil {
				return table.PageResult{}, err
			}
			return table.NewPageResult(toRows(students), p), nil
		}), nil
	}

	students, err := svc.repo.QueryStudents(ctx, f)
	if err != nil {
		return nil, err
	}
	return table.NewMemorySource(toRows(students)), nil
}

// Query returns a page of the student masterlist and its columns.
func (svc *Service) Query(ctx context.Context, f Filter, q table.Query) (table.PageResult, []table.ColumnDef, error) {
	f.Clean()
	src, err := svc.masterlistSource(ctx, f)
	if err != nil {
		return table.PageResult{}, nil, err
	}
	res, err := src.Fetch(ctx, q)
	if err != nil {
		return table.PageResult{}, nil, err
	}
	return res, MasterlistColumns(), nil
}

// QueryMetric returns a page of a metric view and its columns.
func (svc *Service) QueryMetric(ctx context.Context, metric string, f Filter, q table.Query) (table.PageResult, []table.ColumnDef, error) {
	view, ok := LookupView(metric)
	if !ok {
		return table.PageResult{}, nil, ErrUnknownMetric
	}
	f.Clean()
	students, err := svc.repo.QueryStudents(ctx, f)
	if err != nil {
		return table.PageResult{}, nil, err
	}
	src := table.NewMemorySource(view.Rows(students, svc.graph))
	res, err := src.Fetch(ctx, q)
	if err != nil {
		return table.PageResult{}, nil, err
	}
	return res, view.ColumnDefs(students, svc.graph), nil
}

func (svc *Service) Views(group string) []View {
	return Views(group)
}
