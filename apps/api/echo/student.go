package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/student"
)

var errStudentNotFoundInCtx = errors.New("student object not found in echo.Context")

const objectContextKey = "object"

type studentApi struct {
	conf       *core.Config
	logger     core.Logger
	svc        *student.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		conf:       deps.Conf,
		logger:     deps.Logger,
		svc:        deps.StudentSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	sg := g.Group("/students", jwt, staffMiddleware())
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.DELETE("", api.destroyMultiple, adminMiddleware())

	// detail endpoints
	dg := sg.Group("/:id", studentObjectMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, adminMiddleware())
	dg.PUT("/metrics/:metric", api.updateMetric)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	f, err := bindFilter(ctx)
	if err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	q, err := bindTableQuery(ctx, api.conf)
	if err != nil {
		return err
	}

	res, defs, err := api.svc.Query(ctx.Request().Context(), f, q)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, newPageResponse(ctx, res, defs, f, q))
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, ok := ctx.Get(objectContextKey).(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	s, ok := ctx.Get(objectContextKey).(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc, s); err != nil {
		return err
	}

	s, err := api.svc.Update(ctx.Request().Context(), s, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) updateMetric(ctx echo.Context) error {
	s, ok := ctx.Get(objectContextKey).(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	var data MetricValuesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MetricValuesRequest")
	}

	s, err := api.svc.UpdateMetric(ctx.Request().Context(), s.ID, ctx.Param("metric"), data.Values)
	if err != nil {
		return errors.Wrap(err, "updating metric")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	s, ok := ctx.Get(objectContextKey).(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), s.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	id, _ := getContextIdentity(ctx)
	api.logger.Info("student removed", map[string]interface{}{"ids": []string{s.ID}}, id)
	return ctx.NoContent(http.StatusNoContent)
}

// destroyMultiple removes the selected rows of a table in one call.
func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	id, _ := getContextIdentity(ctx)
	api.logger.Info("students removed", map[string]interface{}{"ids": query.IDs}, id)
	return ctx.NoContent(http.StatusNoContent)
}

func studentObjectMiddleware(svc *student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			s, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == student.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding student by ID")
			}
			ctx.Set(objectContextKey, s)
			return next(ctx)
		}
	}
}

type (
	MetricValuesRequest struct {
		Values map[string]string `json:"values"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)
