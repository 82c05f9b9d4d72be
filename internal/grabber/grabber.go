// Package grabber drives one ingestion run: channel sync, segment crawl and
// detail backfill, committed phase by phase into the cache. A run owns the
// cache exclusively; two concurrent runs against the same database are not
// supported and must be prevented by the deployment.
package grabber

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/ziggogoepg/exporter/internal/models"
	"github.com/ziggogoepg/exporter/internal/repositories"
	"github.com/ziggogoepg/exporter/internal/sources/ziggogo"
)

const (
	// segmentCodeLayout derives a segment code from its UTC start time.
	segmentCodeLayout = "20060102150405"

	// fallbackSegmentInterval advances the crawl cursor when a segment does
	// not report a usable duration.
	fallbackSegmentInterval = 6 * time.Hour

	// detailBatchSize bounds memory and commit frequency during backfill.
	detailBatchSize = 100
)

// ChannelSource supplies the desired channel names for a run.
type ChannelSource interface {
	ChannelList(ctx context.Context) ([]string, error)
}

// Grabber performs the ingestion run.
type Grabber struct {
	db       *bun.DB
	client   *ziggogo.Client
	source   ChannelSource
	log      *zap.Logger
	loc      *time.Location
	scanDays int

	phase      Phase
	generation int64

	now func() time.Time
}

// New creates a grabber for the given cache, guide client and channel source.
func New(db *bun.DB, client *ziggogo.Client, source ChannelSource, loc *time.Location, scanDays int, log *zap.Logger) *Grabber {
	return &Grabber{
		db:       db,
		client:   client,
		source:   source,
		log:      log,
		loc:      loc,
		scanDays: scanDays,
		phase:    PhaseStart,
		now:      time.Now,
	}
}

// Generation returns the stamp of the current or last run.
func (g *Grabber) Generation() int64 {
	return g.generation
}

// Run executes the full ingestion: channel sync, segment crawl, detail
// backfill. Fatal errors unwind to this boundary; per-record faults are
// absorbed and logged where they occur. Committed phases of a failed run stay
// valid and are reused by the next run.
func (g *Grabber) Run(ctx context.Context) error {
	g.phase = PhaseStart
	g.generation = g.now().Unix()

	if err := g.advance(PhaseSyncChannels); err != nil {
		return err
	}
	channelIDs, err := g.syncChannels(ctx)
	if err != nil {
		_ = g.advance(PhaseFailed)
		return fmt.Errorf("sync channels: %w", err)
	}

	if err := g.advance(PhaseCrawlSegments); err != nil {
		return err
	}
	if err := g.crawlSegments(ctx, channelIDs); err != nil {
		_ = g.advance(PhaseFailed)
		return fmt.Errorf("crawl segments: %w", err)
	}

	if err := g.advance(PhaseBackfillDetails); err != nil {
		return err
	}
	if err := g.backfillDetails(ctx); err != nil {
		_ = g.advance(PhaseFailed)
		return fmt.Errorf("backfill details: %w", err)
	}

	return g.advance(PhaseDone)
}

// syncChannels fetches the upstream catalog, keeps the desired channels and
// sweeps the rest. Returns the retained channel ids used to filter segments.
func (g *Grabber) syncChannels(ctx context.Context) (map[string]struct{}, error) {
	desired, err := g.source.ChannelList(ctx)
	if err != nil {
		return nil, fmt.Errorf("get desired channels: %w", err)
	}
	matcher := NewChannelMatcher(desired)

	g.log.Info("getting known channels from guide")
	catalog, err := g.client.ChannelList(ctx)
	if err != nil {
		return nil, err
	}

	var keep []*models.Channel
	for _, row := range ziggogo.MapChannels(catalog, g.generation) {
		if matcher.IsKnown(row.Name) {
			keep = append(keep, row)
		}
	}

	err = g.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := repositories.UpsertChannels(ctx, tx, keep); err != nil {
			return err
		}
		return repositories.PurgeStaleChannels(ctx, tx, g.generation)
	})
	if err != nil {
		return nil, err
	}

	g.log.Info("channel sync complete", zap.Int("channels", len(keep)))

	ids := make(map[string]struct{}, len(keep))
	for _, row := range keep {
		ids[row.ID] = struct{}{}
	}
	return ids, nil
}

// crawlSegments walks the guide forward from the start of the current UTC day
// until either a not-found segment ends the data or the day budget runs out.
// Each segment commits on its own, then stale programmes are swept once.
func (g *Grabber) crawlSegments(ctx context.Context, channelIDs map[string]struct{}) error {
	start := time.Unix(g.generation, 0).UTC()
	cursor := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end := cursor.AddDate(0, 0, g.scanDays)

	g.log.Info("getting guide overview data", zap.Int("scan_days", g.scanDays))

crawl:
	for cursor.Before(end) {
		code := cursor.Format(segmentCodeLayout)

		segment, err := g.client.SegmentByCode(ctx, code)
		switch {
		case errors.Is(err, ziggogo.ErrNotFound):
			g.log.Info("no more guide data, stopping scan", zap.String("segment", code))
			break crawl
		case errors.Is(err, ziggogo.ErrBadPayload):
			g.log.Warn("unusable segment, skipping", zap.String("segment", code), zap.Error(err))
			cursor = cursor.Add(fallbackSegmentInterval)
			continue
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.log.Warn("segment fetch failed, stopping scan", zap.String("segment", code), zap.Error(err))
			break crawl
		}

		if segment.Duration > 0 {
			cursor = cursor.Add(time.Duration(segment.Duration) * time.Second)
		} else {
			g.log.Warn("segment duration is not properly encoded, using 6 hour interval", zap.String("segment", code))
			cursor = cursor.Add(fallbackSegmentInterval)
		}

		if segment.Entries == nil {
			g.log.Warn("segment is missing entries, skipping", zap.String("segment", code))
			continue
		}

		var rows []*models.Programme
		for _, entry := range segment.Entries {
			if len(entry.Events) == 0 {
				continue
			}
			if _, ok := channelIDs[entry.ChannelID]; !ok {
				continue
			}
			rows = append(rows, ziggogo.MapEvents(entry, g.generation, g.loc)...)
		}

		if len(rows) == 0 {
			continue
		}

		// Per-segment commit: a crash loses at most this segment.
		err = g.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return repositories.UpsertProgrammes(ctx, tx, rows)
		})
		if err != nil {
			return fmt.Errorf("store segment %s: %w", code, err)
		}
		g.log.Info("segment stored", zap.String("segment", code), zap.Int("programmes", len(rows)))
	}

	g.log.Info("cleaning up programme table")
	return g.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return repositories.PurgeStaleProgrammes(ctx, tx, g.generation)
	})
}

// backfillDetails fetches detail payloads for programmes that have none yet.
// Every failure on an individual id is a skip; rows land in batches.
func (g *Grabber) backfillDetails(ctx context.Context) error {
	g.log.Info("cleaning up programme details table")
	err := g.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return repositories.PurgeOrphanDetails(ctx, tx)
	})
	if err != nil {
		return err
	}

	missing, err := repositories.MissingDetailIDs(ctx, g.db)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		g.log.Info("no update of programme details needed")
		return nil
	}

	g.log.Info("getting missing programme details", zap.Int("total", len(missing)))

	batch := make([]*models.ProgrammeDetail, 0, detailBatchSize)
	for counter, id := range missing {
		detail, err := g.client.DetailByID(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.log.Warn("programme detail could not be read, skipping", zap.String("programme", id), zap.Error(err))
			continue
		}

		row, ok := ziggogo.MapDetail(id, detail)
		if !ok {
			g.log.Warn("programme detail is missing title data, skipping", zap.String("programme", id))
			continue
		}
		batch = append(batch, row)

		if len(batch) >= detailBatchSize {
			if err := g.storeDetails(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
			g.log.Info("programme details fetched", zap.Int("fetched", counter+1), zap.Int("total", len(missing)))
		}
	}

	if len(batch) > 0 {
		if err := g.storeDetails(ctx, batch); err != nil {
			return err
		}
		g.log.Info("programme details fetched", zap.Int("fetched", len(missing)), zap.Int("total", len(missing)))
	}

	return nil
}

func (g *Grabber) storeDetails(ctx context.Context, batch []*models.ProgrammeDetail) error {
	rows := make([]*models.ProgrammeDetail, len(batch))
	copy(rows, batch)
	return g.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return repositories.InsertDetails(ctx, tx, rows)
	})
}
