package models

import (
	"errors"

	"github.com/uptrace/bun"
)

// Programme is a single guide event extracted from a segment. Times are stored
// pre-formatted in the XMLTV timestamp layout, in the source time zone, so the
// cache can be rendered without reparsing.
type Programme struct {
	bun.BaseModel `bun:"table:programmes,alias:p"`

	ID         string `bun:"id,pk" json:"id"`
	ChannelID  string `bun:"channel_id,notnull" json:"channel_id"`
	Generation int64  `bun:"generation,notnull" json:"generation"`
	Title      string `bun:"title,notnull" json:"title"`
	StartTime  string `bun:"start_time,notnull" json:"start_time"`
	EndTime    string `bun:"end_time,notnull" json:"end_time"`

	Detail *ProgrammeDetail `bun:"rel:has-one,join:id=id" json:"detail,omitempty"`
}

// Validate checks that required programme fields are present.
func (p *Programme) Validate() error {
	if p.ID == "" {
		return errors.New("programme id is required")
	}
	if p.ChannelID == "" {
		return errors.New("channel id is required")
	}
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.StartTime == "" || p.EndTime == "" {
		return errors.New("start and end time are required")
	}
	if p.Generation <= 0 {
		return errors.New("generation must be positive")
	}
	return nil
}
