package checker

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:id/interactions/check", h.CheckNewMedication)
	api.POST("/patients/:id/interactions/check-list", h.CheckMedicationList)
}

type checkRequest struct {
	NewMedication string   `json:"new_medication"`
	Medications   []string `json:"medications"`
}

type checkResponse struct {
	Interactions    []*knowledge.DrugInteraction `json:"interactions"`
	Count           int                          `json:"count"`
	HighestSeverity knowledge.Severity           `json:"highest_severity,omitempty"`
}

func newCheckResponse(found []*knowledge.DrugInteraction) checkResponse {
	resp := checkResponse{Interactions: found, Count: len(found)}
	if len(found) > 0 {
		resp.HighestSeverity = found[0].Severity
	}
	return resp
}

func (h *Handler) CheckNewMedication(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	found, err := h.svc.CheckNewMedication(c.Request().Context(), patientID, req.Medications, req.NewMedication)
	if err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, newCheckResponse(found))
}

func (h *Handler) CheckMedicationList(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	found, err := h.svc.CheckMedicationList(c.Request().Context(), patientID, req.Medications)
	if err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, newCheckResponse(found))
}
