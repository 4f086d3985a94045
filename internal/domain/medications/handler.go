package medications

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
	"github.com/medrefer-ai/interaction-engine/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/medications", h.ListMedications)
	api.POST("/patients/:id/medications", h.AddMedication)
	api.POST("/medications/:id/discontinue", h.DiscontinueMedication)
}

func (h *Handler) ListMedications(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	if c.QueryParam("all") == "true" {
		pg := pagination.FromContext(c)
		items, total, err := h.svc.List(c.Request().Context(), patientID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	items, err := h.svc.ListActive(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
}

func (h *Handler) AddMedication(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.PatientID = patientID
	if err := h.svc.Add(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) DiscontinueMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Discontinue(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
