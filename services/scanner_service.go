package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ticket-scanner/internal/status"
	"ticket-scanner/models"
	"ticket-scanner/monitoring"
	"ticket-scanner/store"
)

// CheckInPublisher pushes successful check-ins to the live activity feed.
type CheckInPublisher interface {
	PublishCheckIn(ctx context.Context, eventID string, ticket models.ScanTicket)
}

// ScannerService verifies scanned codes and commits the check-in transition.
type ScannerService struct {
	store    store.Store
	notifier CheckInPublisher
	monitor  *monitoring.Monitor
}

func NewScannerService(st store.Store, notifier CheckInPublisher, monitor *monitoring.Monitor) *ScannerService {
	return &ScannerService{
		store:    st,
		notifier: notifier,
		monitor:  monitor,
	}
}

// VerifyTicket runs the verification sequence for a scanned code against
// the event being scanned for. Every rejection is a normal result, never an
// error; infrastructure failures are logged and reported as a not-found
// outcome with the cause attached for diagnostics.
//
// organizerID identifies the scanning operator; it is logged but not yet
// enforced as an authorization scope.
func (s *ScannerService) VerifyTicket(ctx context.Context, code, eventID, organizerID string) models.ScanResponse {
	started := time.Now()

	ticket, err := s.store.FindTicketByCode(ctx, code)
	if err != nil {
		if errors.Is(err, status.ErrTicketNotFound) {
			s.track(eventID, "not_found", started)
			return models.ScanFailure(models.ScanErrorNotFound)
		}

		slog.Error("ticket lookup failed", "error", err, "event_id", eventID, "organizer_id", organizerID)
		s.track(eventID, "error", started)
		resp := models.ScanFailure(models.ScanErrorNotFound)
		resp.Details = &models.ScanDetails{Cause: err.Error()}
		return resp
	}

	// A revoked ticket is dead no matter which event it is scanned for.
	if ticket.Status == models.TicketStatusRevoked {
		s.track(eventID, "revoked", started)
		return models.ScanFailure(models.ScanErrorRevoked)
	}

	// The ticket's event, via its ticket type, must match the scanning
	// context. A mismatch is a rejected scan, not a data error.
	if ticket.EventID != eventID {
		s.track(eventID, "wrong_event", started)
		return models.ScanFailure(models.ScanErrorWrongEvent)
	}

	if ticket.Status == models.TicketStatusCheckedIn {
		s.track(eventID, "already_used", started)
		return models.ScanAlreadyUsed(ticket.Updated.UTC().Format(time.RFC3339))
	}

	checkedIn, err := s.store.CheckInTicket(ctx, ticket.ID)
	if err != nil {
		slog.Error("check-in update failed", "error", err, "ticket_id", ticket.ID)
		s.track(eventID, "error", started)
		resp := models.ScanFailure(models.ScanErrorNotFound)
		resp.Details = &models.ScanDetails{Cause: err.Error()}
		return resp
	}
	if !checkedIn {
		// A concurrent scan won the conditional update. For the second
		// physical scan that is exactly an already-used ticket.
		s.track(eventID, "already_used", started)
		return models.ScanAlreadyUsed(s.checkInTimeOf(ctx, code))
	}

	name := ticket.AttendeeName
	if name == "" {
		name = "Unknown Guest"
	}

	result := models.ScanTicket{
		Name: name,
		Type: ticket.TypeName,
		ID:   ticket.ID,
	}

	if s.notifier != nil {
		s.notifier.PublishCheckIn(ctx, eventID, result)
	}
	s.track(eventID, "success", started)

	return models.ScanSuccess(result)
}

// checkInTimeOf re-reads a ticket after a lost check-in race to report the
// winner's timestamp.
func (s *ScannerService) checkInTimeOf(ctx context.Context, code string) string {
	ticket, err := s.store.FindTicketByCode(ctx, code)
	if err != nil {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return ticket.Updated.UTC().Format(time.RFC3339)
}

func (s *ScannerService) track(eventID, result string, started time.Time) {
	if s.monitor != nil {
		s.monitor.TrackScan(eventID, result, time.Since(started))
	}
}
