package ziggogo

import (
	"strconv"
	"time"

	"github.com/ziggogoepg/exporter/internal/models"
)

// MapChannels converts catalog entries to channel rows stamped with the run
// generation. Entries missing required fields are dropped.
func MapChannels(channels []Channel, generation int64) []*models.Channel {
	rows := make([]*models.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.ID == "" || ch.Name == "" {
			continue
		}
		rows = append(rows, &models.Channel{
			ID:         ch.ID,
			Generation: generation,
			Name:       ch.Name,
			Logo:       ch.Logo.Focused,
		})
	}
	return rows
}

// MapEvents converts the events of one segment entry to programme rows.
// Events missing required fields are skipped individually; they can never be
// formatted into a usable entity.
func MapEvents(entry SegmentEntry, generation int64, loc *time.Location) []*models.Programme {
	rows := make([]*models.Programme, 0, len(entry.Events))
	for _, event := range entry.Events {
		if event.ID == "" || event.Title == "" || event.StartTime == 0 || event.EndTime == 0 {
			continue
		}
		rows = append(rows, &models.Programme{
			ID:         event.ID,
			ChannelID:  entry.ChannelID,
			Generation: generation,
			Title:      event.Title,
			StartTime:  models.FormatXMLTVTime(event.StartTime, loc),
			EndTime:    models.FormatXMLTVTime(event.EndTime, loc),
		})
	}
	return rows
}

// MapDetail converts a detail payload to its cache row. Returns false when the
// mandatory title is missing, which makes the id a skip.
func MapDetail(id string, d *Detail) (*models.ProgrammeDetail, bool) {
	if d == nil || d.Title == "" {
		return nil, false
	}

	payload := models.DetailPayload{
		Title:    d.Title,
		SubTitle: d.EpisodeName,
		Date:     d.ProductionDate,
		Country:  d.CountryOfOrigin,
	}

	if d.LongDescription != "" {
		payload.Desc = d.LongDescription
	} else if d.ShortDescription != "" {
		payload.Desc = d.ShortDescription
	}

	if len(d.Actors) > 0 || len(d.Directors) > 0 || len(d.Producers) > 0 {
		payload.Credits = &models.Credits{
			Directors: d.Directors,
			Actors:    d.Actors,
			Producers: d.Producers,
		}
	}

	if len(d.Genres) > 0 {
		payload.Categories = d.Genres
	}

	if d.SeasonNumber != nil || d.EpisodeNumber != nil {
		payload.Episode = &models.Episode{
			Season:  d.SeasonNumber,
			Episode: d.EpisodeNumber,
		}
	}

	if d.MinimumAge != nil {
		payload.Rating = strconv.Itoa(*d.MinimumAge)
	}

	return &models.ProgrammeDetail{ID: id, Details: payload}, true
}
