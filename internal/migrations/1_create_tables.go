package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ziggogoepg/exporter/internal/models"
)

func init() {
	// Migration 1: create tables
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		modelsList := []interface{}{
			(*models.Channel)(nil),
			(*models.Programme)(nil),
			(*models.ProgrammeDetail)(nil),
		}

		for _, model := range modelsList {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		modelsList := []interface{}{
			(*models.ProgrammeDetail)(nil),
			(*models.Programme)(nil),
			(*models.Channel)(nil),
		}

		for _, model := range modelsList {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	})
}
