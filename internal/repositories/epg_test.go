package repositories

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/uptrace/bun"

	"github.com/ziggogoepg/exporter/internal/database"
	"github.com/ziggogoepg/exporter/internal/migrations"
	"github.com/ziggogoepg/exporter/internal/models"
)

func testDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "cache.sqlite3"), false)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUpsertChannelsReplacesByID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := []*models.Channel{{ID: "c1", Generation: 1, Name: "Old Name"}}
	if err := UpsertChannels(ctx, db, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := []*models.Channel{{ID: "c1", Generation: 2, Name: "New Name", Logo: "https://img.test/c1.png"}}
	if err := UpsertChannels(ctx, db, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	channels, err := ListChannels(ctx, db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("expected one row, got %d", len(channels))
	}
	got := channels[0]
	if got.Generation != 2 || got.Name != "New Name" || got.Logo != "https://img.test/c1.png" {
		t.Fatalf("upsert did not replace columns: %+v", got)
	}
}

func TestPurgeStaleChannels(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	channels := []*models.Channel{
		{ID: "keep", Generation: 2, Name: "Keep"},
		{ID: "drop", Generation: 1, Name: "Drop"},
	}
	if err := UpsertChannels(ctx, db, channels); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := PurgeStaleChannels(ctx, db, 2); err != nil {
		t.Fatalf("purge: %v", err)
	}

	left, err := ListChannels(ctx, db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 1 || left[0].ID != "keep" {
		t.Fatalf("expected only the stamped row to survive, got %+v", left)
	}
}

func TestPurgeOrphanDetailsKeepsLiveRows(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	programmes := []*models.Programme{{
		ID: "e1", ChannelID: "c1", Generation: 1, Title: "Show",
		StartTime: "20231114000000 +0000", EndTime: "20231114010000 +0000",
	}}
	if err := UpsertProgrammes(ctx, db, programmes); err != nil {
		t.Fatalf("upsert programmes: %v", err)
	}
	details := []*models.ProgrammeDetail{
		{ID: "e1", Details: models.DetailPayload{Title: "Show"}},
		{ID: "gone", Details: models.DetailPayload{Title: "Orphan"}},
	}
	if err := InsertDetails(ctx, db, details); err != nil {
		t.Fatalf("insert details: %v", err)
	}

	if err := PurgeOrphanDetails(ctx, db); err != nil {
		t.Fatalf("purge: %v", err)
	}

	ids, err := MissingDetailIDs(ctx, db)
	if err != nil {
		t.Fatalf("missing ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("live detail must survive the purge, missing: %v", ids)
	}

	rows, err := ListProgrammes(ctx, db)
	if err != nil {
		t.Fatalf("list programmes: %v", err)
	}
	if len(rows) != 1 || rows[0].Detail == nil || rows[0].Detail.Details.Title != "Show" {
		t.Fatalf("expected e1 with its detail, got %+v", rows)
	}
}

func TestMissingDetailIDsOrderedAndComplete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	programmes := []*models.Programme{
		{ID: "b", ChannelID: "c1", Generation: 1, Title: "B", StartTime: "20231114000000 +0000", EndTime: "20231114010000 +0000"},
		{ID: "a", ChannelID: "c1", Generation: 1, Title: "A", StartTime: "20231114010000 +0000", EndTime: "20231114020000 +0000"},
		{ID: "c", ChannelID: "c1", Generation: 1, Title: "C", StartTime: "20231114020000 +0000", EndTime: "20231114030000 +0000"},
	}
	if err := UpsertProgrammes(ctx, db, programmes); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := InsertDetails(ctx, db, []*models.ProgrammeDetail{
		{ID: "a", Details: models.DetailPayload{Title: "A"}},
	}); err != nil {
		t.Fatalf("insert details: %v", err)
	}

	ids, err := MissingDetailIDs(ctx, db)
	if err != nil {
		t.Fatalf("missing ids: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"b", "c"}) {
		t.Fatalf("expected ordered missing ids [b c], got %v", ids)
	}
}

func TestInsertDetailsNeverOverwrites(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := InsertDetails(ctx, db, []*models.ProgrammeDetail{
		{ID: "e1", Details: models.DetailPayload{Title: "Original"}},
	}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := InsertDetails(ctx, db, []*models.ProgrammeDetail{
		{ID: "e1", Details: models.DetailPayload{Title: "Replacement"}},
	}); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	var row models.ProgrammeDetail
	if err := db.NewSelect().Model(&row).Where("pd.id = ?", "e1").Scan(ctx); err != nil {
		t.Fatalf("select: %v", err)
	}
	if row.Details.Title != "Original" {
		t.Fatalf("existing detail must be kept, got %q", row.Details.Title)
	}
}
