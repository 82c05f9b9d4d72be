// Package xmltv renders the cache into an XMLTV document.
package xmltv

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/ziggogoepg/exporter/internal/dvb"
	"github.com/ziggogoepg/exporter/internal/models"
	"github.com/ziggogoepg/exporter/internal/repositories"
)

// Season/episode values at or above these (after the one-based to zero-based
// shift) are internal guide placeholders that must never be displayed.
const (
	fakeSeasonFloor  = 99999
	fakeEpisodeFloor = 9999999
)

// Writer generates XMLTV data from the cache.
type Writer struct {
	db         *bun.DB
	translator *dvb.Translator
	log        *zap.Logger
	lang       string
}

// NewWriter creates a writer over the given cache. The language is hardcoded
// to "nl" as it is the only language the guide provides.
func NewWriter(db *bun.DB, translator *dvb.Translator, log *zap.Logger) *Writer {
	return &Writer{db: db, translator: translator, log: log, lang: "nl"}
}

// Generate renders the whole cache as one XMLTV document.
func (w *Writer) Generate(ctx context.Context) ([]byte, error) {
	w.log.Info("generating XMLTV data")

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	tv := doc.CreateElement("tv")
	tv.CreateAttr("source-info-url", "https://www.ziggogo.tv")
	tv.CreateAttr("source-info-name", "ZiggoGo")
	tv.CreateAttr("generator-info-name", "ZiggoGo EPG")

	if err := w.addChannels(ctx, tv); err != nil {
		return nil, err
	}
	if err := w.addProgrammes(ctx, tv); err != nil {
		return nil, err
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (w *Writer) addChannels(ctx context.Context, tv *etree.Element) error {
	channels, err := repositories.ListChannels(ctx, w.db)
	if err != nil {
		return fmt.Errorf("list channels: %w", err)
	}

	for _, row := range channels {
		channel := tv.CreateElement("channel")
		channel.CreateAttr("id", xmltvChannelID(row.ID))

		name := channel.CreateElement("display-name")
		name.CreateAttr("lang", w.lang)
		name.SetText(row.Name)

		if row.Logo != "" {
			channel.CreateElement("icon").CreateAttr("src", row.Logo)
		}
	}
	return nil
}

func (w *Writer) addProgrammes(ctx context.Context, tv *etree.Element) error {
	programmes, err := repositories.ListProgrammes(ctx, w.db)
	if err != nil {
		return fmt.Errorf("list programmes: %w", err)
	}

	for _, row := range programmes {
		programme := tv.CreateElement("programme")
		programme.CreateAttr("start", row.StartTime)
		programme.CreateAttr("stop", row.EndTime)
		programme.CreateAttr("channel", xmltvChannelID(row.ChannelID))

		title := programme.CreateElement("title")
		title.CreateAttr("lang", w.lang)
		title.SetText(row.Title)

		if row.Detail != nil {
			w.addDetails(programme, &row.Detail.Details)
		}
	}
	return nil
}

func (w *Writer) addDetails(programme *etree.Element, details *models.DetailPayload) {
	if details.SubTitle != "" {
		sub := programme.CreateElement("sub-title")
		sub.CreateAttr("lang", w.lang)
		sub.SetText(details.SubTitle)
	}

	if details.Desc != "" {
		desc := programme.CreateElement("desc")
		desc.CreateAttr("lang", w.lang)
		desc.SetText(details.Desc)
	}

	if details.Credits != nil {
		credits := programme.CreateElement("credits")
		for _, director := range details.Credits.Directors {
			credits.CreateElement("director").SetText(director)
		}
		for _, actor := range details.Credits.Actors {
			credits.CreateElement("actor").SetText(actor)
		}
		for _, producer := range details.Credits.Producers {
			credits.CreateElement("producer").SetText(producer)
		}
	}

	if details.Date != "" {
		programme.CreateElement("date").SetText(details.Date)
	}

	if len(details.Categories) > 0 {
		// DVB-compatible category first so TV software can categorize, then
		// the raw guide categories.
		if translated, ok := w.translator.Classify(details.Categories); ok {
			category := programme.CreateElement("category")
			category.CreateAttr("lang", "en")
			category.SetText(translated)
		}
		for _, raw := range details.Categories {
			category := programme.CreateElement("category")
			category.CreateAttr("lang", w.lang)
			category.SetText(raw)
		}
	}

	if details.Country != "" {
		programme.CreateElement("country").SetText(details.Country)
	}

	if details.Episode != nil {
		if num, ok := episodeNum(details.Episode); ok {
			episode := programme.CreateElement("episode-num")
			episode.CreateAttr("system", "xmltv_ns")
			episode.SetText(num)
		}
	}

	if details.Rating != "" {
		rating := programme.CreateElement("rating")
		rating.CreateAttr("system", "Kijkwijzer")
		rating.CreateElement("value").SetText(details.Rating)
	}
}

// episodeNum renders the xmltv_ns numbering, shifting the guide's one-based
// values to zero-based. Placeholder values suppress the element entirely.
func episodeNum(ep *models.Episode) (string, bool) {
	season, episode := "", ""

	if ep.Season != nil {
		s := *ep.Season - 1
		if s >= fakeSeasonFloor {
			return "", false
		}
		season = strconv.Itoa(s)
	}
	if ep.Episode != nil {
		e := *ep.Episode - 1
		if e >= fakeEpisodeFloor {
			return "", false
		}
		episode = strconv.Itoa(e)
	}

	if season == "" && episode == "" {
		return "", false
	}
	return fmt.Sprintf("%s.%s.", season, episode), true
}

// xmltvChannelID converts a guide channel id to its XMLTV form.
func xmltvChannelID(id string) string {
	return strings.ReplaceAll(id, "_", ".")
}
