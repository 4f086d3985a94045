package checker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
)

func postCheck(e *echo.Echo, patientID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(patientID)
	return c, rec
}

func TestHandler_CheckMedicationList(t *testing.T) {
	kb := newMockKB(
		entry("warfarin", "aspirin", knowledge.SeverityMajor),
		entry("aspirin", "ibuprofen", knowledge.SeverityModerate),
	)
	h := NewHandler(NewService(kb, &mockMeds{}, nil, zerolog.Nop()))
	e := echo.New()

	body := `{"medications":["Warfarin","Aspirin","Ibuprofen"]}`
	c, rec := postCheck(e, uuid.New().String(), body)
	if err := h.CheckMedicationList(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp checkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Interactions) != 2 {
		t.Fatalf("expected 2 interactions, got count=%d len=%d", resp.Count, len(resp.Interactions))
	}
	if resp.HighestSeverity != knowledge.SeverityMajor {
		t.Errorf("highest_severity = %s, want major", resp.HighestSeverity)
	}
	if resp.Interactions[0].Severity != knowledge.SeverityMajor {
		t.Errorf("expected the major interaction first, got %s", resp.Interactions[0].Severity)
	}
}

func TestHandler_CheckNewMedication_InvalidPatientID(t *testing.T) {
	h := NewHandler(NewService(newMockKB(), &mockMeds{}, nil, zerolog.Nop()))
	e := echo.New()

	c, _ := postCheck(e, "not-a-uuid", `{"new_medication":"aspirin"}`)
	err := h.CheckNewMedication(c)
	if err == nil {
		t.Fatal("expected error for malformed patient id")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
}

func TestHandler_CheckMedicationList_KnowledgeUnavailable(t *testing.T) {
	kb := newMockKB()
	kb.err = engineerr.Unavailablef("knowledge base not loaded")
	h := NewHandler(NewService(kb, &mockMeds{}, nil, zerolog.Nop()))
	e := echo.New()

	c, _ := postCheck(e, uuid.New().String(), `{"medications":["warfarin","aspirin"]}`)
	err := h.CheckMedicationList(c)
	if err == nil {
		t.Fatal("an unloaded knowledge base must not produce a clean empty response")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", he.Code)
	}
}
