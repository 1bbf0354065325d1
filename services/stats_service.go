package services

import (
	"context"
	"log/slog"
	"time"

	"ticket-scanner/config"
	"ticket-scanner/models"
	"ticket-scanner/store"
)

// StatsService computes per-event check-in counters. Counts are recomputed
// on every call; there is no materialized counter or cache.
type StatsService struct {
	store  store.Store
	config *config.Config
}

func NewStatsService(st store.Store, cfg *config.Config) *StatsService {
	return &StatsService{
		store:  st,
		config: cfg,
	}
}

// GetScannerEvents lists the soonest-starting events with their check-in
// counters for the scanner event picker. Failures degrade to an empty
// list; this is an informational path.
func (s *StatsService) GetScannerEvents(ctx context.Context) []models.EventSummary {
	events, err := s.store.ListEvents(ctx, s.config.EventListLimit)
	if err != nil {
		slog.Error("failed to list scanner events", "error", err)
		return []models.EventSummary{}
	}

	summaries := make([]models.EventSummary, 0, len(events))
	for _, event := range events {
		name := event.Title
		if name == "" {
			name = "Unnamed Event"
		}

		date := ""
		if !event.StartDate.IsZero() {
			date = event.StartDate.UTC().Format(time.RFC3339)
		}

		checkedIn, total := s.countsForEvent(ctx, event.ID)

		summaries = append(summaries, models.EventSummary{
			ID:   event.ID,
			Name: name,
			Date: date,
			Stats: models.EventStats{
				CheckedIn: checkedIn,
				Total:     total,
			},
		})
	}

	return summaries
}

// GetEventStats returns the counters for a single event plus the time of
// its most recent check-in. Zeroed on any failure.
func (s *StatsService) GetEventStats(ctx context.Context, eventID string) models.EventCheckInStats {
	typeIDs, err := s.ticketTypeIDs(ctx, eventID)
	if err != nil {
		slog.Error("failed to resolve ticket types for stats", "error", err, "event_id", eventID)
		return models.EventCheckInStats{}
	}

	total, err := s.store.CountTickets(ctx, typeIDs, "")
	if err != nil {
		slog.Error("failed to count tickets", "error", err, "event_id", eventID)
		return models.EventCheckInStats{}
	}

	checkedIn, err := s.store.CountTickets(ctx, typeIDs, models.TicketStatusCheckedIn)
	if err != nil {
		slog.Error("failed to count checked-in tickets", "error", err, "event_id", eventID)
		return models.EventCheckInStats{}
	}

	lastCheckIn := ""
	if last, err := s.store.LastCheckIn(ctx, typeIDs); err != nil {
		slog.Warn("failed to resolve last check-in", "error", err, "event_id", eventID)
	} else if !last.IsZero() {
		lastCheckIn = last.UTC().Format(time.RFC3339)
	}

	return models.EventCheckInStats{
		CheckedIn:   checkedIn,
		Total:       total,
		LastCheckIn: lastCheckIn,
	}
}

func (s *StatsService) countsForEvent(ctx context.Context, eventID string) (checkedIn, total int) {
	typeIDs, err := s.ticketTypeIDs(ctx, eventID)
	if err != nil {
		slog.Warn("failed to resolve ticket types", "error", err, "event_id", eventID)
		return 0, 0
	}

	total, err = s.store.CountTickets(ctx, typeIDs, "")
	if err != nil {
		slog.Warn("failed to count tickets", "error", err, "event_id", eventID)
		return 0, 0
	}

	checkedIn, err = s.store.CountTickets(ctx, typeIDs, models.TicketStatusCheckedIn)
	if err != nil {
		slog.Warn("failed to count checked-in tickets", "error", err, "event_id", eventID)
		return 0, total
	}

	return checkedIn, total
}

func (s *StatsService) ticketTypeIDs(ctx context.Context, eventID string) ([]string, error) {
	types, err := s.store.ListTicketTypes(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(types))
	for _, t := range types {
		ids = append(ids, t.ID)
	}
	return ids, nil
}
