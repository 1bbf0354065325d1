package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ticket-scanner/internal/status"
	"ticket-scanner/models"
	"ticket-scanner/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindTicketByCode(ctx context.Context, code string) (*store.TicketWithType, error) {
	args := m.Called(ctx, code)
	if t, ok := args.Get(0).(*store.TicketWithType); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) CheckInTicket(ctx context.Context, ticketID string) (bool, error) {
	args := m.Called(ctx, ticketID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ListEvents(ctx context.Context, limit int) ([]store.EventRecord, error) {
	args := m.Called(ctx, limit)
	if events, ok := args.Get(0).([]store.EventRecord); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListTicketTypes(ctx context.Context, eventID string) ([]store.TicketTypeRef, error) {
	args := m.Called(ctx, eventID)
	if types, ok := args.Get(0).([]store.TicketTypeRef); ok {
		return types, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) CountTickets(ctx context.Context, ticketTypeIDs []string, ticketStatus string) (int, error) {
	args := m.Called(ctx, ticketTypeIDs, ticketStatus)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) LastCheckIn(ctx context.Context, ticketTypeIDs []string) (time.Time, error) {
	args := m.Called(ctx, ticketTypeIDs)
	if ts, ok := args.Get(0).(time.Time); ok {
		return ts, args.Error(1)
	}
	return time.Time{}, args.Error(1)
}

func (m *MockStore) ListCheckedIns(ctx context.Context, ticketTypeIDs []string, limit int) ([]store.CheckInRecord, error) {
	args := m.Called(ctx, ticketTypeIDs, limit)
	if records, ok := args.Get(0).([]store.CheckInRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) CheckInCountsByEvent(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if counts, ok := args.Get(0).(map[string]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishCheckIn(ctx context.Context, eventID string, ticket models.ScanTicket) {
	m.Called(ctx, eventID, ticket)
}

func activeTicket() *store.TicketWithType {
	return &store.TicketWithType{
		ID:           "t1",
		TicketCode:   "ABC123",
		Status:       models.TicketStatusActive,
		AttendeeName: "Jane Doe",
		OrderID:      "o1",
		TicketTypeID: "tt1",
		TypeName:     "VIP",
		EventID:      "e1",
		Updated:      time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestVerifyTicketNotFound(t *testing.T) {
	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "NOPE").Return(nil, status.ErrTicketNotFound)

	service := NewScannerService(mockStore, nil, nil)
	resp := service.VerifyTicket(context.Background(), "NOPE", "e1", "org1")

	assert.False(t, resp.Success)
	assert.Equal(t, models.ScanErrorNotFound, resp.Error)
	assert.Nil(t, resp.Ticket)
	mockStore.AssertNotCalled(t, "CheckInTicket", mock.Anything, mock.Anything)
}

func TestVerifyTicketWrongEvent(t *testing.T) {
	ticket := activeTicket()
	ticket.EventID = "e2"

	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(ticket, nil)

	service := NewScannerService(mockStore, nil, nil)
	resp := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")

	assert.False(t, resp.Success)
	assert.Equal(t, models.ScanErrorWrongEvent, resp.Error)
	mockStore.AssertNotCalled(t, "CheckInTicket", mock.Anything, mock.Anything)
}

func TestVerifyTicketRevokedBeatsWrongEvent(t *testing.T) {
	// A revoked ticket is rejected as revoked even when it also belongs
	// to a different event.
	ticket := activeTicket()
	ticket.Status = models.TicketStatusRevoked
	ticket.EventID = "e2"

	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(ticket, nil)

	service := NewScannerService(mockStore, nil, nil)
	resp := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")

	assert.False(t, resp.Success)
	assert.Equal(t, models.ScanErrorRevoked, resp.Error)
	mockStore.AssertNotCalled(t, "CheckInTicket", mock.Anything, mock.Anything)
}

func TestVerifyTicketAlreadyUsed(t *testing.T) {
	ticket := activeTicket()
	ticket.Status = models.TicketStatusCheckedIn

	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(ticket, nil)

	service := NewScannerService(mockStore, nil, nil)
	resp := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")

	assert.False(t, resp.Success)
	assert.Equal(t, models.ScanErrorAlreadyUsed, resp.Error)
	if assert.NotNil(t, resp.Details) {
		assert.Equal(t, "2026-08-01T10:00:00Z", resp.Details.CheckInTime)
	}
	mockStore.AssertNotCalled(t, "CheckInTicket", mock.Anything, mock.Anything)
}

func TestVerifyTicketSuccess(t *testing.T) {
	ticket := activeTicket()

	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(ticket, nil)
	mockStore.On("CheckInTicket", mock.Anything, "t1").Return(true, nil)

	notifier := &MockNotifier{}
	notifier.On("PublishCheckIn", mock.Anything, "e1", models.ScanTicket{
		Name: "Jane Doe",
		Type: "VIP",
		ID:   "t1",
	}).Return()

	service := NewScannerService(mockStore, notifier, nil)
	resp := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	if assert.NotNil(t, resp.Ticket) {
		assert.Equal(t, "Jane Doe", resp.Ticket.Name)
		assert.Equal(t, "VIP", resp.Ticket.Type)
		assert.Equal(t, "t1", resp.Ticket.ID)
	}
	mockStore.AssertNumberOfCalls(t, "CheckInTicket", 1)
	notifier.AssertExpectations(t)
}

func TestVerifyTicketSuccessUnnamedGuest(t *testing.T) {
	ticket := activeTicket()
	ticket.AttendeeName = ""

	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(ticket, nil)
	mockStore.On("CheckInTicket", mock.Anything, "t1").Return(true, nil)

	service := NewScannerService(mockStore, nil, nil)
	resp := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")

	assert.True(t, resp.Success)
	assert.Equal(t, "Unknown Guest", resp.Ticket.Name)
}

func TestVerifyTicketSecondScanOfSameCode(t *testing.T) {
	ticket := activeTicket()

	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(ticket, nil).Once()
	mockStore.On("CheckInTicket", mock.Anything, "t1").Return(true, nil).Once()

	service := NewScannerService(mockStore, nil, nil)

	first := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")
	assert.True(t, first.Success)

	used := activeTicket()
	used.Status = models.TicketStatusCheckedIn
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(used, nil).Once()

	second := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")
	assert.False(t, second.Success)
	assert.Equal(t, models.ScanErrorAlreadyUsed, second.Error)
	mockStore.AssertNumberOfCalls(t, "CheckInTicket", 1)
}

func TestVerifyTicketLostRace(t *testing.T) {
	// The conditional update affected no rows because a concurrent scan
	// got there first; the loser reports the winner's check-in time.
	ticket := activeTicket()

	winner := activeTicket()
	winner.Status = models.TicketStatusCheckedIn
	winner.Updated = time.Date(2026, 8, 1, 10, 0, 5, 0, time.UTC)

	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(ticket, nil).Once()
	mockStore.On("CheckInTicket", mock.Anything, "t1").Return(false, nil).Once()
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(winner, nil).Once()

	service := NewScannerService(mockStore, nil, nil)
	resp := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")

	assert.False(t, resp.Success)
	assert.Equal(t, models.ScanErrorAlreadyUsed, resp.Error)
	if assert.NotNil(t, resp.Details) {
		assert.Equal(t, "2026-08-01T10:00:05Z", resp.Details.CheckInTime)
	}
}

func TestVerifyTicketLookupFailure(t *testing.T) {
	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").
		Return(nil, errors.New("connection reset"))

	service := NewScannerService(mockStore, nil, nil)
	resp := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")

	assert.False(t, resp.Success)
	assert.Equal(t, models.ScanErrorNotFound, resp.Error)
	if assert.NotNil(t, resp.Details) {
		assert.Equal(t, "connection reset", resp.Details.Cause)
	}
}

func TestVerifyTicketCheckInFailure(t *testing.T) {
	ticket := activeTicket()

	mockStore := &MockStore{}
	mockStore.On("FindTicketByCode", mock.Anything, "ABC123").Return(ticket, nil)
	mockStore.On("CheckInTicket", mock.Anything, "t1").Return(false, errors.New("database locked"))

	service := NewScannerService(mockStore, nil, nil)
	resp := service.VerifyTicket(context.Background(), "ABC123", "e1", "org1")

	assert.False(t, resp.Success)
	assert.Equal(t, models.ScanErrorNotFound, resp.Error)
	if assert.NotNil(t, resp.Details) {
		assert.Equal(t, "database locked", resp.Details.Cause)
	}
}
