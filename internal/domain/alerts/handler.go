package alerts

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
	api.GET("/patients/:id/alerts", h.ListPatientAlerts)
	api.POST("/alerts/:id/acknowledge", h.AcknowledgeAlert)
}

func (h *Handler) ListPatientAlerts(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	if c.QueryParam("open") == "true" {
		items, err := h.svc.GetOpenAlerts(c.Request().Context(), patientID)
		if err != nil {
			return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.GetPatientAlerts(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type acknowledgeRequest struct {
	AcknowledgedBy string  `json:"acknowledged_by"`
	Notes          *string `json:"notes,omitempty"`
}

func (h *Handler) AcknowledgeAlert(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid alert id")
	}
	var req acknowledgeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	alert, err := h.svc.Acknowledge(c.Request().Context(), id, req.AcknowledgedBy, req.Notes)
	if err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, alert)
}
