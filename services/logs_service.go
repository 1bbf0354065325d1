package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ticket-scanner/config"
	"ticket-scanner/models"
	"ticket-scanner/store"
)

// csvHeader is the fixed export column order. External tooling parses this
// verbatim; do not reorder.
const csvHeader = "Ticket ID,Ticket Code,Attendee Name,Ticket Type,Status,Check-in Time,Purchase Date,Order ID,Buyer Name,Buyer Email"

// LogService lists and exports recent check-in activity.
type LogService struct {
	store  store.Store
	config *config.Config
}

func NewLogService(st store.Store, cfg *config.Config) *LogService {
	return &LogService{
		store:  st,
		config: cfg,
	}
}

// GetEventLogs returns the most recent check-ins for an event, newest
// first, capped at the configured limit. Any failure degrades to an empty
// list; unresolved buyers degrade per row to the unknown fallbacks.
func (s *LogService) GetEventLogs(ctx context.Context, eventID string) []models.TicketLogItem {
	types, err := s.store.ListTicketTypes(ctx, eventID)
	if err != nil {
		slog.Error("failed to resolve ticket types for logs", "error", err, "event_id", eventID)
		return []models.TicketLogItem{}
	}

	typeIDs := make([]string, 0, len(types))
	for _, t := range types {
		typeIDs = append(typeIDs, t.ID)
	}

	records, err := s.store.ListCheckedIns(ctx, typeIDs, s.config.LogFetchLimit)
	if err != nil {
		slog.Error("failed to list check-ins", "error", err, "event_id", eventID)
		return []models.TicketLogItem{}
	}

	items := make([]models.TicketLogItem, 0, len(records))
	for _, rec := range records {
		items = append(items, logItemFromRecord(rec))
	}
	return items
}

func logItemFromRecord(rec store.CheckInRecord) models.TicketLogItem {
	typeName := rec.TypeName
	if typeName == "" {
		typeName = "Unknown Type"
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	if !rec.CheckedInAt.IsZero() {
		timestamp = rec.CheckedInAt.UTC().Format(time.RFC3339)
	}

	purchaseDate := "Unknown"
	if !rec.PurchasedAt.IsZero() {
		purchaseDate = rec.PurchasedAt.UTC().Format("1/2/2006")
	}

	orderID := rec.OrderID
	if orderID == "" {
		orderID = "N/A"
	}

	buyerName := rec.BuyerName
	if buyerName == "" {
		buyerName = "Unknown"
	}
	buyerEmail := rec.BuyerEmail
	if buyerEmail == "" {
		buyerEmail = "Unknown"
	}

	return models.TicketLogItem{
		ID:           rec.TicketID,
		TicketCode:   rec.TicketCode,
		Status:       rec.Status,
		AttendeeName: models.DisplayName(rec.AttendeeName, rec.BuyerName),
		TicketType:   typeName,
		Timestamp:    timestamp,
		PurchaseDate: purchaseDate,
		OrderID:      orderID,
		BuyerName:    buyerName,
		BuyerEmail:   buyerEmail,
	}
}

// ExportEventLogs renders the activity log as CSV text. The first line is
// the fixed header; every value is double-quoted with embedded quotes
// doubled. Returns the empty string when there is nothing to export.
func (s *LogService) ExportEventLogs(ctx context.Context, eventID string) string {
	items := s.GetEventLogs(ctx, eventID)
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, csvHeader)

	for _, item := range items {
		fields := []string{
			item.ID,
			item.TicketCode,
			item.AttendeeName,
			item.TicketType,
			item.Status,
			item.Timestamp,
			item.PurchaseDate,
			item.OrderID,
			item.BuyerName,
			item.BuyerEmail,
		}
		for i, f := range fields {
			fields[i] = csvQuote(f)
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

func csvQuote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
