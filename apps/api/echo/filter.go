package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core/filter"
	"github.com/trezcool/masomo-records/core/student"
)

// Filter forms are stateless on the server: clients send back the values they hold and get the next state.
type filterApi struct {
	graph *filter.OptionsGraph
}

func registerFilterAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := filterApi{graph: deps.StudentSvc.Graph()}

	fg := g.Group("/filters", jwt, staffMiddleware())
	fg.GET("", api.list)
	fg.GET("/:form", api.retrieve)
	fg.POST("/:form", api.setField)
	fg.POST("/:form/reset", api.reset)
}

type (
	FilterRequest struct {
		Mode   string            `json:"mode"`
		Values map[string]string `json:"values"`
		Field  string            `json:"field"` // field to set after restoring Values; "" only restores
		Value  string            `json:"value"`
	}

	FilterResponse struct {
		filter.State
		Filter *student.Filter `json:"filter,omitempty"` // set once the form is complete
	}
)

func newFilterResponse(form *filter.Form) FilterResponse {
	res := FilterResponse{State: form.State()}
	if res.Complete {
		f := student.FilterFromValues(form.Values())
		res.Filter = &f
	}
	return res
}

func (api *filterApi) list(ctx echo.Context) error {
	presets := filter.Presets()
	states := make([]filter.State, 0, len(presets))
	for _, cfg := range presets {
		form, err := filter.New(cfg, api.graph)
		if err != nil {
			return errors.Wrapf(err, "building %s form", cfg.Name)
		}
		states = append(states, form.State())
	}
	return ctx.JSON(http.StatusOK, states)
}

func (api *filterApi) retrieve(ctx echo.Context) error {
	form, err := filter.NewPreset(ctx.Param("form"), api.graph)
	if err != nil {
		return err
	}
	if mode := ctx.QueryParam("mode"); mode != "" {
		if err = form.SwitchMode(mode); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, newFilterResponse(form))
}

func (api *filterApi) setField(ctx echo.Context) error {
	form, err := filter.NewPreset(ctx.Param("form"), api.graph)
	if err != nil {
		return err
	}
	var data FilterRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FilterRequest")
	}

	if err = form.Restore(data.Mode, data.Values); err != nil {
		return errors.Wrap(err, "restoring form")
	}
	if data.Field != "" {
		if err = form.SetField(data.Field, data.Value); err != nil {
			return errors.Wrap(err, "setting field")
		}
	}
	return ctx.JSON(http.StatusOK, newFilterResponse(form))
}

func (api *filterApi) reset(ctx echo.Context) error {
	form, err := filter.NewPreset(ctx.Param("form"), api.graph)
	if err != nil {
		return err
	}
	var data FilterRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FilterRequest")
	}
	if data.Mode != "" {
		if err = form.SwitchMode(data.Mode); err != nil {
			return err
		}
	}
	form.Reset()
	return ctx.JSON(http.StatusOK, newFilterResponse(form))
}
