package xmltv

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/ziggogoepg/exporter/internal/database"
	"github.com/ziggogoepg/exporter/internal/dvb"
	"github.com/ziggogoepg/exporter/internal/migrations"
	"github.com/ziggogoepg/exporter/internal/models"
	"github.com/ziggogoepg/exporter/internal/repositories"
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

func TestGenerate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := repositories.UpsertChannels(ctx, db, []*models.Channel{
		{ID: "NL_000001", Generation: 1, Name: "NPO 1", Logo: "https://img.test/npo1.png"},
	})
	if err != nil {
		t.Fatalf("seed channels: %v", err)
	}

	err = repositories.UpsertProgrammes(ctx, db, []*models.Programme{{
		ID: "e1", ChannelID: "NL_000001", Generation: 1, Title: "Avondfilm",
		StartTime: "20231114200000 +0100", EndTime: "20231114213000 +0100",
	}})
	if err != nil {
		t.Fatalf("seed programmes: %v", err)
	}

	season, episode := 2, 5
	err = repositories.InsertDetails(ctx, db, []*models.ProgrammeDetail{{
		ID: "e1",
		Details: models.DetailPayload{
			Title:      "Avondfilm",
			SubTitle:   "Deel 1",
			Desc:       "Een spannende film.",
			Credits:    &models.Credits{Directors: []string{"D. Regisseur"}, Actors: []string{"A. Acteur"}},
			Date:       "2021",
			Categories: []string{"drama"},
			Country:    "NL",
			Episode:    &models.Episode{Season: &season, Episode: &episode},
			Rating:     "12",
		},
	}})
	if err != nil {
		t.Fatalf("seed details: %v", err)
	}

	data, err := NewWriter(db, dvb.NewTranslator(zap.NewNop()), zap.NewNop()).Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`<channel id="NL.000001">`,
		`<display-name lang="nl">NPO 1</display-name>`,
		`<icon src="https://img.test/npo1.png"/>`,
		`start="20231114200000 +0100"`,
		`channel="NL.000001"`,
		`<title lang="nl">Avondfilm</title>`,
		`<sub-title lang="nl">Deel 1</sub-title>`,
		`<director>D. Regisseur</director>`,
		`<actor>A. Acteur</actor>`,
		`<category lang="en">movie/drama</category>`,
		`<category lang="nl">drama</category>`,
		`<episode-num system="xmltv_ns">1.4.</episode-num>`,
		`<rating system="Kijkwijzer">`,
		`<value>12</value>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %s\noutput:\n%s", want, out)
		}
	}
}

func TestGenerateWithoutDetails(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := repositories.UpsertProgrammes(ctx, db, []*models.Programme{{
		ID: "e1", ChannelID: "NL_000001", Generation: 1, Title: "Journaal",
		StartTime: "20231114200000 +0100", EndTime: "20231114203000 +0100",
	}})
	if err != nil {
		t.Fatalf("seed programmes: %v", err)
	}

	data, err := NewWriter(db, dvb.NewTranslator(zap.NewNop()), zap.NewNop()).Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `<title lang="nl">Journaal</title>`) {
		t.Fatalf("expected bare programme to render:\n%s", data)
	}
}

func TestEpisodeNum(t *testing.T) {
	intp := func(v int) *int { return &v }

	cases := []struct {
		episode *models.Episode
		want    string
		ok      bool
	}{
		{&models.Episode{Season: intp(2), Episode: intp(5)}, "1.4.", true},
		{&models.Episode{Episode: intp(3)}, ".2.", true},
		{&models.Episode{Season: intp(1)}, "0..", true},
		{&models.Episode{Season: intp(100000), Episode: intp(5)}, "", false},
		{&models.Episode{Episode: intp(10000000)}, "", false},
		{&models.Episode{}, "", false},
	}

	for _, tc := range cases {
		got, ok := episodeNum(tc.episode)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("episodeNum(%+v) = %q,%v want %q,%v", tc.episode, got, ok, tc.want, tc.ok)
		}
	}
}
