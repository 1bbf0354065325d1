package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"

	"ticket-scanner/config"
	"ticket-scanner/models"
	"ticket-scanner/utils"
)

// SeedHandler creates a small demo data set (one organizer, one event, two
// ticket types, one paid order and a handful of tickets) so the scanner can
// be exercised without a storefront. Development environments only.
type SeedHandler struct {
	config *config.Config
}

func NewSeedHandler(cfg *config.Config) *SeedHandler {
	return &SeedHandler{config: cfg}
}

func (h *SeedHandler) SeedDemoData(e *core.RequestEvent) error {
	if h.config.Environment != "development" {
		return apis.NewApiError(http.StatusForbidden, "Seeding is only available in development", nil)
	}

	app := e.App

	user, err := h.seedUser(app)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to seed demo user", err)
	}

	event, err := h.seedEvent(app, user)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to seed demo event", err)
	}

	standard, vip, err := h.seedTicketTypes(app, event)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to seed ticket types", err)
	}

	order, err := h.seedOrder(app, user, event, standard, vip)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to seed demo order", err)
	}

	codes, err := h.seedTickets(app, order, standard, vip)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to seed demo tickets", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"eventId":     event.Id,
		"orderId":     order.Id,
		"ticketCodes": codes,
	})
}

func (h *SeedHandler) seedUser(app core.App) (*core.Record, error) {
	collection, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return nil, err
	}

	suffix, err := utils.GenerateCode(6)
	if err != nil {
		return nil, err
	}
	email := fmt.Sprintf("demo-%s@example.com", suffix)

	record := core.NewRecord(collection)
	record.Set("email", email)
	record.Set("name", "Demo Organizer")
	record.Set("role", models.RoleAdmin)
	record.Set("isVerified", true)
	record.SetRandomPassword()

	if err := app.Save(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (h *SeedHandler) seedEvent(app core.App, organizer *core.Record) (*core.Record, error) {
	collection, err := app.FindCollectionByNameOrId("events")
	if err != nil {
		return nil, err
	}

	record := core.NewRecord(collection)
	record.Set("title", "Demo Launch Party")
	record.Set("startDate", types.NowDateTime())
	record.Set("organizerId", organizer.Id)

	if err := app.Save(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (h *SeedHandler) seedTicketTypes(app core.App, event *core.Record) (standard, vip *core.Record, err error) {
	collection, err := app.FindCollectionByNameOrId("ticket_types")
	if err != nil {
		return nil, nil, err
	}

	standard = core.NewRecord(collection)
	standard.Set("event", event.Id)
	standard.Set("name", "General Admission")
	standard.Set("price", decimal.NewFromInt(150).InexactFloat64())
	standard.Set("currency", "SZL")
	standard.Set("quantityTotal", 100)
	standard.Set("quantitySold", 3)
	if err := app.Save(standard); err != nil {
		return nil, nil, err
	}

	vip = core.NewRecord(collection)
	vip.Set("event", event.Id)
	vip.Set("name", "VIP")
	vip.Set("price", decimal.NewFromInt(450).InexactFloat64())
	vip.Set("currency", "SZL")
	vip.Set("quantityTotal", 20)
	vip.Set("quantitySold", 1)
	if err := app.Save(vip); err != nil {
		return nil, nil, err
	}

	return standard, vip, nil
}

func (h *SeedHandler) seedOrder(app core.App, user, event, standard, vip *core.Record) (*core.Record, error) {
	collection, err := app.FindCollectionByNameOrId("orders")
	if err != nil {
		return nil, err
	}

	standardPrice := decimal.NewFromInt(150)
	vipPrice := decimal.NewFromInt(450)
	total := standardPrice.Mul(decimal.NewFromInt(3)).Add(vipPrice)

	items := []models.OrderItem{
		{TicketTypeID: standard.Id, Quantity: 3, Price: standardPrice},
		{TicketTypeID: vip.Id, Quantity: 1, Price: vipPrice},
	}

	intent, err := utils.GenerateCode(8)
	if err != nil {
		return nil, err
	}

	record := core.NewRecord(collection)
	record.Set("user", user.Id)
	record.Set("event", event.Id)
	record.Set("totalAmount", total.InexactFloat64())
	record.Set("currency", "SZL")
	record.Set("status", models.OrderStatusPaid)
	record.Set("paymentIntentId", "demo-"+intent)
	record.Set("tickets", items)

	if err := app.Save(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (h *SeedHandler) seedTickets(app core.App, order, standard, vip *core.Record) ([]string, error) {
	collection, err := app.FindCollectionByNameOrId("tickets")
	if err != nil {
		return nil, err
	}

	attendees := []struct {
		typeID string
		name   string
	}{
		{standard.Id, "Ada Lovelace"},
		{standard.Id, "Grace Hopper"},
		{standard.Id, ""}, // unnamed, exercises the Unknown Guest fallback
		{vip.Id, "Katherine Johnson"},
	}

	codes := make([]string, 0, len(attendees))
	for _, a := range attendees {
		code, err := utils.GenerateCode(10)
		if err != nil {
			return nil, err
		}

		record := core.NewRecord(collection)
		record.Set("orderId", order.Id)
		record.Set("ticketTypeId", a.typeID)
		record.Set("ticketCode", code)
		record.Set("status", models.TicketStatusActive)
		record.Set("attendeeName", a.name)

		if err := app.Save(record); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	return codes, nil
}
