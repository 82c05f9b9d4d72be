package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	// Migration 2: indexes for the staleness sweeps and the backfill scan
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_channels_generation ON channels(generation)",
			"CREATE INDEX IF NOT EXISTS idx_programmes_generation ON programmes(generation)",
			"CREATE INDEX IF NOT EXISTS idx_programmes_channel ON programmes(channel_id)",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"DROP INDEX IF EXISTS idx_channels_generation",
			"DROP INDEX IF EXISTS idx_programmes_generation",
			"DROP INDEX IF EXISTS idx_programmes_channel",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	})
}
