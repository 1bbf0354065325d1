package store

import (
	"context"
	"time"
)

// TicketWithType is a ticket joined with its ticket type, enough to run the
// full verification sequence in one lookup.
type TicketWithType struct {
	ID           string
	TicketCode   string
	Status       string
	AttendeeName string
	OrderID      string
	TicketTypeID string
	TypeName     string
	EventID      string // the event the ticket type belongs to
	Created      time.Time
	Updated      time.Time
}

type EventRecord struct {
	ID        string
	Title     string
	StartDate time.Time // zero when the event has no start date
}

type TicketTypeRef struct {
	ID   string
	Name string
}

// CheckInRecord is one row of the check-in activity feed: a checked-in
// ticket joined with its type, owning order and the order's buyer. Buyer
// fields are empty when the order or user could not be resolved.
type CheckInRecord struct {
	TicketID     string
	TicketCode   string
	Status       string
	AttendeeName string
	TypeName     string
	OrderID      string
	BuyerName    string
	BuyerEmail   string
	CheckedInAt  time.Time
	PurchasedAt  time.Time
}

// Store is the persistence surface of the scanner. All reads are point
// queries or joins; the only write is the conditional check-in transition.
type Store interface {
	// FindTicketByCode looks up a ticket by its exact scan code, joined
	// with its ticket type. Returns status.ErrTicketNotFound on a miss.
	FindTicketByCode(ctx context.Context, code string) (*TicketWithType, error)

	// CheckInTicket transitions a ticket from active to checked_in.
	// The update is conditional on the current status, so two concurrent
	// scans cannot both succeed: the loser sees false.
	CheckInTicket(ctx context.Context, ticketID string) (bool, error)

	// ListEvents returns up to limit events, soonest-starting first.
	ListEvents(ctx context.Context, limit int) ([]EventRecord, error)

	// ListTicketTypes returns the ticket types scoped to an event.
	ListTicketTypes(ctx context.Context, eventID string) ([]TicketTypeRef, error)

	// CountTickets counts tickets referencing the given ticket types,
	// optionally filtered by status ("" counts all).
	CountTickets(ctx context.Context, ticketTypeIDs []string, ticketStatus string) (int, error)

	// LastCheckIn returns the most recent check-in time across the given
	// ticket types, or the zero time when nothing was checked in yet.
	LastCheckIn(ctx context.Context, ticketTypeIDs []string) (time.Time, error)

	// ListCheckedIns returns up to limit checked-in tickets referencing
	// the given ticket types, newest check-in first, with buyer info
	// resolved through the owning order.
	ListCheckedIns(ctx context.Context, ticketTypeIDs []string, limit int) ([]CheckInRecord, error)

	// CheckInCountsByEvent returns the number of checked-in tickets per
	// event id, for metrics collection.
	CheckInCountsByEvent(ctx context.Context) (map[string]int, error)
}
