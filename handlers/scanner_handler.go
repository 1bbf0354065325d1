package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticket-scanner/services"
)

// ScannerHandler exposes the scanner HTTP surface: event listing, ticket
// verification and the per-event activity log.
type ScannerHandler struct {
	scanner *services.ScannerService
	stats   *services.StatsService
	logs    *services.LogService
}

func NewScannerHandler(scanner *services.ScannerService, stats *services.StatsService, logs *services.LogService) *ScannerHandler {
	return &ScannerHandler{
		scanner: scanner,
		stats:   stats,
		logs:    logs,
	}
}

type verifyRequest struct {
	Code        string `json:"code"`
	EventID     string `json:"event_id"`
	OrganizerID string `json:"organizer_id"`
}

// Verify checks a scanned code against the event being scanned for.
// Rejections (not found, wrong event, already used, revoked) are ordinary
// 200 responses; only a malformed request is an HTTP error.
func (h *ScannerHandler) Verify(e *core.RequestEvent) error {
	var req verifyRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if req.Code == "" || req.EventID == "" {
		return apis.NewBadRequestError("code and event_id are required", nil)
	}

	resp := h.scanner.VerifyTicket(e.Request.Context(), req.Code, req.EventID, req.OrganizerID)
	if !resp.Success {
		slog.Info("scan rejected",
			"code", req.Code,
			"event_id", req.EventID,
			"reason", resp.Error,
		)
	}

	return e.JSON(http.StatusOK, resp)
}

// GetEvents lists upcoming events with check-in counters for the scanner
// event picker.
func (h *ScannerHandler) GetEvents(e *core.RequestEvent) error {
	events := h.stats.GetScannerEvents(e.Request.Context())
	return e.JSON(http.StatusOK, events)
}

// GetStats returns the check-in counters for one event.
func (h *ScannerHandler) GetStats(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")
	if eventID == "" {
		return apis.NewBadRequestError("eventId is required", nil)
	}

	stats := h.stats.GetEventStats(e.Request.Context(), eventID)
	return e.JSON(http.StatusOK, stats)
}

// GetLogs returns the most recent check-ins for one event, newest first.
func (h *ScannerHandler) GetLogs(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")
	if eventID == "" {
		return apis.NewBadRequestError("eventId is required", nil)
	}

	items := h.logs.GetEventLogs(e.Request.Context(), eventID)
	return e.JSON(http.StatusOK, items)
}

// ExportLogs streams the activity log as a CSV download.
func (h *ScannerHandler) ExportLogs(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")
	if eventID == "" {
		return apis.NewBadRequestError("eventId is required", nil)
	}

	csv := h.logs.ExportEventLogs(e.Request.Context(), eventID)

	e.Response.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="checkin-log-%s.csv"`, eventID))
	return e.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
