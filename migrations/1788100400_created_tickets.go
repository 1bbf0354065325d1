package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		orders, err := app.FindCollectionByNameOrId("orders")
		if err != nil {
			return err
		}
		ticketTypes, err := app.FindCollectionByNameOrId("ticket_types")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "orderId",
				CollectionId: orders.Id,
				MaxSelect:    1,
				Required:     true,
			},
			&core.RelationField{
				Name:         "ticketTypeId",
				CollectionId: ticketTypes.Id,
				MaxSelect:    1,
				Required:     true,
			},
			&core.TextField{
				Name:     "ticketCode",
				Required: true,
			},
			&core.SelectField{
				Name:      "status",
				Values:    []string{"active", "checked_in", "revoked"},
				MaxSelect: 1,
				Required:  true,
			},
			&core.TextField{
				Name: "attendeeName",
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			// doubles as the check-in timestamp once status flips
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		collection.AddIndex("idx_tickets_ticket_code", true, "ticketCode", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
