package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/student"
)

type metricApi struct {
	conf *core.Config
	svc  *student.Service
}

func registerMetricAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := metricApi{conf: deps.Conf, svc: deps.StudentSvc}

	mg := g.Group("/metrics", jwt, staffMiddleware())
	mg.GET("", api.views)
	mg.GET("/:metric", api.query)
}

func (api *metricApi) views(ctx echo.Context) error {
	group := ctx.QueryParam("group")
	if group != "" && group != student.GroupAcademic && group != student.GroupProgram {
		return core.NewValidationError(nil, core.FieldError{Field: "group", Error: "group must be one of academic, program"})
	}
	return ctx.JSON(http.StatusOK, api.svc.Views(group))
}

func (api *metricApi) query(ctx echo.Context) error {
	f, err := bindFilter(ctx)
	if err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	q, err := bindTableQuery(ctx, api.conf)
	if err != nil {
		return err
	}

	res, defs, err := api.svc.QueryMetric(ctx.Request().Context(), ctx.Param("metric"), f, q)
	if err != nil {
		return errors.Wrap(err, "querying metric")
	}
	return ctx.JSON(http.StatusOK, newPageResponse(ctx, res, defs, f, q))
}
