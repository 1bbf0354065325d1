package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket status values. These are stored verbatim and existing data depends
// on them, so they must never be renamed.
const (
	TicketStatusActive    = "active"
	TicketStatusCheckedIn = "checked_in"
	TicketStatusRevoked   = "revoked"
)

// Order payment status values.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Email      string `json:"email" db:"email"`
	Role       string `json:"role" db:"role"`
	IsVerified bool   `json:"isVerified" db:"isVerified"`
}

type Event struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	StartDate   *time.Time `json:"startDate" db:"startDate"`
	OrganizerID string     `json:"organizerId" db:"organizerId"`
}

type TicketType struct {
	ID            string           `json:"id" db:"id"`
	EventID       string           `json:"event" db:"event"`
	Name          string           `json:"name" db:"name"`
	Price         decimal.Decimal  `json:"price" db:"price"`
	Currency      string           `json:"currency" db:"currency"`
	QuantityTotal int              `json:"quantityTotal" db:"quantityTotal"`
	QuantitySold  int              `json:"quantitySold" db:"quantitySold"`
	Description   string           `json:"description" db:"description"`
	AccessRules   AccessRules      `json:"accessRules"`
	DesignConfig  DesignConfig     `json:"designConfig"`
	Transfer      TransferSettings `json:"transferSettings"`
}

type AccessRules struct {
	Gates          string `json:"gates"`
	EntryStartTime string `json:"entryStartTime,omitempty"`
	EntryEndTime   string `json:"entryEndTime,omitempty"`
	AgeRestricted  bool   `json:"ageRestricted"`
	IDRequired     bool   `json:"idRequired"`
}

type DesignConfig struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	QRStyle         string `json:"qrStyle"` // square, rounded, dots
	ShowLogo        bool   `json:"showLogo"`
}

type TransferSettings struct {
	AllowTransfer   bool            `json:"allowTransfer"`
	RequireApproval bool            `json:"requireApproval"`
	ChargeFee       bool            `json:"chargeFee"`
	FeeAmount       decimal.Decimal `json:"feeAmount"`
}

type Order struct {
	ID              string          `json:"id" db:"id"`
	UserID          string          `json:"user" db:"user"`
	EventID         string          `json:"event" db:"event"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"totalAmount"`
	Currency        string          `json:"currency" db:"currency"`
	Status          string          `json:"status" db:"status"` // pending, paid, failed
	PaymentIntentID string          `json:"paymentIntentId" db:"paymentIntentId"`
	Tickets         []OrderItem     `json:"tickets"`
}

// OrderItem is one (ticket type, quantity, price) line of an order.
type OrderItem struct {
	TicketTypeID string          `json:"ticketTypeId"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type Ticket struct {
	ID           string    `json:"id" db:"id"`
	OrderID      string    `json:"orderId" db:"orderId"`
	TicketTypeID string    `json:"ticketTypeId" db:"ticketTypeId"`
	TicketCode   string    `json:"ticketCode" db:"ticketCode"`
	Status       string    `json:"status" db:"status"` // active, checked_in, revoked
	AttendeeName string    `json:"attendeeName" db:"attendeeName"`
	Created      time.Time `json:"created" db:"created"`
	Updated      time.Time `json:"updated" db:"updated"`
}
