package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"ticket-scanner/internal/status"
	"ticket-scanner/models"
)

// DBStore implements Store on top of the PocketBase database.
type DBStore struct {
	app core.App
}

func New(app core.App) *DBStore {
	return &DBStore{app: app}
}

type ticketRow struct {
	ID           string         `db:"id"`
	TicketCode   string         `db:"ticketCode"`
	Status       string         `db:"status"`
	AttendeeName string         `db:"attendeeName"`
	OrderID      string         `db:"orderId"`
	TicketTypeID string         `db:"ticketTypeId"`
	TypeName     sql.NullString `db:"typeName"`
	TypeEventID  sql.NullString `db:"typeEventId"`
	Created      types.DateTime `db:"created"`
	Updated      types.DateTime `db:"updated"`
}

func (s *DBStore) FindTicketByCode(ctx context.Context, code string) (*TicketWithType, error) {
	row := ticketRow{}
	err := s.app.DB().
		NewQuery(`
			SELECT t.id, t.ticketCode, t.status, t.attendeeName, t.orderId, t.ticketTypeId,
				t.created, t.updated,
				tt.name AS typeName, tt.event AS typeEventId
			FROM tickets t
			LEFT JOIN ticket_types tt ON tt.id = t.ticketTypeId
			WHERE t.ticketCode = {:code}
			LIMIT 1`).
		Bind(dbx.Params{"code": code}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrTicketNotFound
		}
		return nil, err
	}

	return &TicketWithType{
		ID:           row.ID,
		TicketCode:   row.TicketCode,
		Status:       row.Status,
		AttendeeName: row.AttendeeName,
		OrderID:      row.OrderID,
		TicketTypeID: row.TicketTypeID,
		TypeName:     row.TypeName.String,
		EventID:      row.TypeEventID.String,
		Created:      row.Created.Time(),
		Updated:      row.Updated.Time(),
	}, nil
}

// CheckInTicket performs the compare-and-set status transition. A ticket
// that is no longer active matches zero rows and the caller reports the
// scan as a duplicate.
func (s *DBStore) CheckInTicket(ctx context.Context, ticketID string) (bool, error) {
	res, err := s.app.DB().
		Update(
			"tickets",
			dbx.Params{
				"status":  models.TicketStatusCheckedIn,
				"updated": types.NowDateTime().String(),
			},
			dbx.HashExp{"id": ticketID, "status": models.TicketStatusActive},
		).
		WithContext(ctx).
		Execute()
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *DBStore) ListEvents(ctx context.Context, limit int) ([]EventRecord, error) {
	rows := []struct {
		ID        string         `db:"id"`
		Title     string         `db:"title"`
		StartDate types.DateTime `db:"startDate"`
	}{}
	err := s.app.DB().
		Select("id", "title", "startDate").
		From("events").
		OrderBy("startDate ASC").
		Limit(int64(limit)).
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}

	events := make([]EventRecord, 0, len(rows))
	for _, row := range rows {
		events = append(events, EventRecord{
			ID:        row.ID,
			Title:     row.Title,
			StartDate: row.StartDate.Time(),
		})
	}
	return events, nil
}

func (s *DBStore) ListTicketTypes(ctx context.Context, eventID string) ([]TicketTypeRef, error) {
	rows := []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}{}
	err := s.app.DB().
		Select("id", "name").
		From("ticket_types").
		Where(dbx.HashExp{"event": eventID}).
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}

	refs := make([]TicketTypeRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, TicketTypeRef{ID: row.ID, Name: row.Name})
	}
	return refs, nil
}

func (s *DBStore) CountTickets(ctx context.Context, ticketTypeIDs []string, ticketStatus string) (int, error) {
	if len(ticketTypeIDs) == 0 {
		return 0, nil
	}

	query := s.app.DB().
		Select("COUNT(*)").
		From("tickets").
		Where(dbx.In("ticketTypeId", toAnySlice(ticketTypeIDs)...))
	if ticketStatus != "" {
		query.AndWhere(dbx.HashExp{"status": ticketStatus})
	}

	var count int
	if err := query.WithContext(ctx).Row(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *DBStore) LastCheckIn(ctx context.Context, ticketTypeIDs []string) (time.Time, error) {
	if len(ticketTypeIDs) == 0 {
		return time.Time{}, nil
	}

	var last types.DateTime
	err := s.app.DB().
		Select("updated").
		From("tickets").
		Where(dbx.In("ticketTypeId", toAnySlice(ticketTypeIDs)...)).
		AndWhere(dbx.HashExp{"status": models.TicketStatusCheckedIn}).
		OrderBy("updated DESC").
		Limit(1).
		WithContext(ctx).
		Row(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return last.Time(), nil
}

type checkInRow struct {
	ID           string         `db:"id"`
	TicketCode   string         `db:"ticketCode"`
	Status       string         `db:"status"`
	AttendeeName string         `db:"attendeeName"`
	OrderID      string         `db:"orderId"`
	TypeName     sql.NullString `db:"typeName"`
	BuyerName    sql.NullString `db:"buyerName"`
	BuyerEmail   sql.NullString `db:"buyerEmail"`
	PurchasedAt  types.DateTime `db:"purchasedAt"`
	Updated      types.DateTime `db:"updated"`
}

// ListCheckedIns resolves the whole activity feed with a single join
// instead of per-ticket order and user lookups. Missing orders or users
// leave the buyer columns NULL and degrade to the unknown fallbacks.
func (s *DBStore) ListCheckedIns(ctx context.Context, ticketTypeIDs []string, limit int) ([]CheckInRecord, error) {
	if len(ticketTypeIDs) == 0 {
		return []CheckInRecord{}, nil
	}

	rows := []checkInRow{}
	err := s.app.DB().
		Select(
			"t.id", "t.ticketCode", "t.status", "t.attendeeName", "t.orderId",
			"t.updated",
			"tt.name AS typeName",
			"o.created AS purchasedAt",
			"u.name AS buyerName",
			"u.email AS buyerEmail",
		).
		From("tickets t").
		LeftJoin("ticket_types tt", dbx.NewExp("tt.id = t.ticketTypeId")).
		LeftJoin("orders o", dbx.NewExp("o.id = t.orderId")).
		LeftJoin("users u", dbx.NewExp("u.id = o.user")).
		Where(dbx.In("t.ticketTypeId", toAnySlice(ticketTypeIDs)...)).
		AndWhere(dbx.HashExp{"t.status": models.TicketStatusCheckedIn}).
		OrderBy("t.updated DESC").
		Limit(int64(limit)).
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}

	records := make([]CheckInRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, CheckInRecord{
			TicketID:     row.ID,
			TicketCode:   row.TicketCode,
			Status:       row.Status,
			AttendeeName: row.AttendeeName,
			TypeName:     row.TypeName.String,
			OrderID:      row.OrderID,
			BuyerName:    row.BuyerName.String,
			BuyerEmail:   row.BuyerEmail.String,
			CheckedInAt:  row.Updated.Time(),
			PurchasedAt:  row.PurchasedAt.Time(),
		})
	}
	return records, nil
}

func (s *DBStore) CheckInCountsByEvent(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		EventID string `db:"eventId"`
		Count   int    `db:"n"`
	}{}
	err := s.app.DB().
		NewQuery(`
			SELECT tt.event AS eventId, COUNT(*) AS n
			FROM tickets t
			INNER JOIN ticket_types tt ON tt.id = t.ticketTypeId
			WHERE t.status = {:status}
			GROUP BY tt.event`).
		Bind(dbx.Params{"status": models.TicketStatusCheckedIn}).
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
