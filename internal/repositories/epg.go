// Package repositories holds the cache table operations. Upserts are
// idempotent within a generation so a restarted run can safely re-derive and
// re-apply its phase. Programme details are insert-only: an id already present
// is never refreshed, trading freshness for low upstream load.
package repositories

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ziggogoepg/exporter/internal/models"
)

// UpsertChannels inserts or replaces channels keyed by id.
func UpsertChannels(ctx context.Context, db bun.IDB, channels []*models.Channel) error {
	if len(channels) == 0 {
		return nil
	}

	_, err := db.NewInsert().
		Model(&channels).
		On("CONFLICT (id) DO UPDATE").
		Set("generation = EXCLUDED.generation").
		Set("name = EXCLUDED.name").
		Set("logo = EXCLUDED.logo").
		Exec(ctx)

	return err
}

// PurgeStaleChannels deletes channels not stamped with the given generation.
// Must run only after all channel upserts for the run have landed.
func PurgeStaleChannels(ctx context.Context, db bun.IDB, generation int64) error {
	_, err := db.NewDelete().
		Model((*models.Channel)(nil)).
		Where("generation != ?", generation).
		Exec(ctx)

	return err
}

// UpsertProgrammes inserts or replaces programmes keyed by id.
func UpsertProgrammes(ctx context.Context, db bun.IDB, programmes []*models.Programme) error {
	if len(programmes) == 0 {
		return nil
	}

	_, err := db.NewInsert().
		Model(&programmes).
		On("CONFLICT (id) DO UPDATE").
		Set("channel_id = EXCLUDED.channel_id").
		Set("generation = EXCLUDED.generation").
		Set("title = EXCLUDED.title").
		Set("start_time = EXCLUDED.start_time").
		Set("end_time = EXCLUDED.end_time").
		Exec(ctx)

	return err
}

// PurgeStaleProgrammes deletes programmes not stamped with the given
// generation. Must run only after the segment crawl has finished.
func PurgeStaleProgrammes(ctx context.Context, db bun.IDB, generation int64) error {
	_, err := db.NewDelete().
		Model((*models.Programme)(nil)).
		Where("generation != ?", generation).
		Exec(ctx)

	return err
}

// PurgeOrphanDetails deletes detail rows whose programme no longer exists.
// Runs before the backfill so the missing-id scan never works against rows
// that are about to disappear.
func PurgeOrphanDetails(ctx context.Context, db bun.IDB) error {
	_, err := db.NewDelete().
		Model((*models.ProgrammeDetail)(nil)).
		Where("id NOT IN (SELECT id FROM programmes)").
		Exec(ctx)

	return err
}

// MissingDetailIDs returns programme ids that have no detail row yet, ordered
// by id so an interrupted backfill resumes at a stable point.
func MissingDetailIDs(ctx context.Context, db bun.IDB) ([]string, error) {
	var ids []string
	err := db.NewSelect().
		Model((*models.Programme)(nil)).
		Column("p.id").
		Join("LEFT JOIN programme_details AS pd ON pd.id = p.id").
		Where("pd.id IS NULL").
		Order("p.id").
		Scan(ctx, &ids)

	return ids, err
}

// InsertDetails inserts detail rows, silently keeping any row already present.
func InsertDetails(ctx context.Context, db bun.IDB, details []*models.ProgrammeDetail) error {
	if len(details) == 0 {
		return nil
	}

	_, err := db.NewInsert().
		Model(&details).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)

	return err
}

// ListChannels returns all channels ordered by id.
func ListChannels(ctx context.Context, db bun.IDB) ([]*models.Channel, error) {
	var channels []*models.Channel
	err := db.NewSelect().
		Model(&channels).
		Order("c.id").
		Scan(ctx)

	return channels, err
}

// ListProgrammes returns all programmes with their detail rows, ordered by
// channel and start time.
func ListProgrammes(ctx context.Context, db bun.IDB) ([]*models.Programme, error) {
	var programmes []*models.Programme
	err := db.NewSelect().
		Model(&programmes).
		Relation("Detail").
		Order("p.channel_id", "p.start_time").
		Scan(ctx)

	return programmes, err
}
