package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("ticket_types")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "event",
				CollectionId: events.Id,
				MaxSelect:    1,
				Required:     true,
			},
			&core.TextField{
				Name:     "name",
				Required: true,
			},
			&core.NumberField{
				Name: "price",
				Min:  types.Pointer(0.0),
			},
			&core.TextField{
				Name: "currency",
			},
			&core.NumberField{
				Name: "quantityTotal",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				Name: "quantitySold",
				Min:  types.Pointer(0.0),
			},
			&core.TextField{
				Name: "description",
			},
			&core.TextField{
				Name: "ticketDesignUrl",
			},
			&core.DateField{
				Name: "saleStart",
			},
			&core.DateField{
				Name: "saleEnd",
			},
			&core.NumberField{
				Name: "limitPerUser",
				Min:  types.Pointer(0.0),
			},
			&core.JSONField{
				Name: "perks",
			},
			&core.JSONField{
				Name: "accessRules",
			},
			&core.JSONField{
				Name: "designConfig",
			},
			&core.JSONField{
				Name: "transferSettings",
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
		collection, err := app.FindCollectionByNameOrId("ticket_types")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
