package risk

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrefer-ai/interaction-engine/internal/domain/alerts"
	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
)

// InteractionChecker supplies the patient's current interaction set.
type InteractionChecker interface {
	CheckMedicationList(ctx context.Context, patientID uuid.UUID, meds []string) ([]*knowledge.DrugInteraction, error)
}

// AlertReader supplies the patient's open alerts.
type AlertReader interface {
	GetOpenAlerts(ctx context.Context, patientID uuid.UUID) ([]*alerts.DrugInteractionAlert, error)
}

// Handler serves the on-demand risk summary, composing the checker and the
// alert store.
type Handler struct {
	checker InteractionChecker
	alerts  AlertReader
}

func NewHandler(checker InteractionChecker, alerts AlertReader) *Handler {
	return &Handler{checker: checker, alerts: alerts}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/risk-summary", h.GetRiskSummary)
}

func (h *Handler) GetRiskSummary(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ctx := c.Request().Context()

	interactions, err := h.checker.CheckMedicationList(ctx, patientID, nil)
	if err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}
	open, err := h.alerts.GetOpenAlerts(ctx, patientID)
	if err != nil {
		return echo.NewHTTPError(engineerr.HTTPStatus(err), err.Error())
	}

	return c.JSON(http.StatusOK, Summarize(interactions, len(open)))
}
