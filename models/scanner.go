package models

import "strings"

// ScanError identifies why a scan was rejected. Every value is a normal,
// reported outcome; scans never surface errors to the caller.
type ScanError string

const (
	ScanErrorNotFound    ScanError = "NOT_FOUND"
	ScanErrorWrongEvent  ScanError = "WRONG_EVENT"
	ScanErrorAlreadyUsed ScanError = "ALREADY_USED"
	ScanErrorRevoked     ScanError = "REVOKED"
)

// ScanResponse is the wire result of a verify call.
type ScanResponse struct {
	Success bool         `json:"success"`
	Ticket  *ScanTicket  `json:"ticket,omitempty"`
	Error   ScanError    `json:"error,omitempty"`
	Details *ScanDetails `json:"details,omitempty"`
}

// ScanTicket is the resolved ticket summary returned on a successful scan.
type ScanTicket struct {
	Name string `json:"name"`
	Type string `json:"type"`
	ID   string `json:"id"`
}

type ScanDetails struct {
	CheckInTime string `json:"checkInTime,omitempty"`
	Cause       string `json:"cause,omitempty"`
}

func ScanSuccess(ticket ScanTicket) ScanResponse {
	return ScanResponse{Success: true, Ticket: &ticket}
}

func ScanFailure(kind ScanError) ScanResponse {
	return ScanResponse{Success: false, Error: kind}
}

func ScanAlreadyUsed(checkInTime string) ScanResponse {
	return ScanResponse{
		Success: false,
		Error:   ScanErrorAlreadyUsed,
		Details: &ScanDetails{CheckInTime: checkInTime},
	}
}

type EventSummary struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Date  string     `json:"date"`
	Stats EventStats `json:"stats"`
}

type EventStats struct {
	CheckedIn int `json:"checkedIn"`
	Total     int `json:"total"`
}

// EventCheckInStats is the per-event stats payload, including the time of
// the most recent check-in (empty when none happened yet).
type EventCheckInStats struct {
	CheckedIn   int    `json:"checkedIn"`
	Total       int    `json:"total"`
	LastCheckIn string `json:"lastCheckIn"`
}

type TicketLogItem struct {
	ID           string `json:"id"`
	TicketCode   string `json:"ticketCode"`
	Status       string `json:"status"`
	AttendeeName string `json:"attendeeName"`
	TicketType   string `json:"ticketType"`
	Timestamp    string `json:"timestamp"`
	PurchaseDate string `json:"purchaseDate,omitempty"`
	OrderID      string `json:"orderId"`
	BuyerName    string `json:"buyerName,omitempty"`
	BuyerEmail   string `json:"buyerEmail,omitempty"`
}

// DisplayName resolves the name shown for a checked-in ticket:
// attendee name if set, else the buyer's name, else "Unknown Customer".
func DisplayName(attendeeName, buyerName string) string {
	if strings.TrimSpace(attendeeName) != "" {
		return attendeeName
	}
	if strings.TrimSpace(buyerName) != "" {
		return buyerName
	}
	return "Unknown Customer"
}
