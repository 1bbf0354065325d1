package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("orders")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "user",
				CollectionId: users.Id,
				MaxSelect:    1,
				Required:     true,
			},
			&core.RelationField{
				Name:         "event",
				CollectionId: events.Id,
				MaxSelect:    1,
				Required:     true,
			},
			&core.NumberField{
				Name: "totalAmount",
				Min:  types.Pointer(0.0),
			},
			&core.TextField{
				Name: "currency",
			},
			&core.SelectField{
				Name:      "status",
				Values:    []string{"pending", "paid", "failed"},
				MaxSelect: 1,
				Required:  true,
			},
			&core.TextField{
				Name: "paymentIntentId",
			},
			// order line items: [{ticketTypeId, quantity, price}]
			&core.JSONField{
				Name: "tickets",
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("orders")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
