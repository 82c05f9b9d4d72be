package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/uptrace/bun"
)

// ProgrammeDetail carries the open-ended per-programme payload, stored as a
// JSON column. A detail row exists only while its programme row exists and is
// never refreshed once written; the backfill treats an existing id as done.
type ProgrammeDetail struct {
	bun.BaseModel `bun:"table:programme_details,alias:pd"`

	ID      string        `bun:"id,pk" json:"id"`
	Details DetailPayload `bun:"details,notnull" json:"details"`
}

// DetailPayload mirrors the structure the XMLTV renderer consumes. Optional
// fields absent upstream are simply omitted from the stored JSON.
type DetailPayload struct {
	Title      string   `json:"title"`
	SubTitle   string   `json:"sub-title,omitempty"`
	Desc       string   `json:"desc,omitempty"`
	Credits    *Credits `json:"credits,omitempty"`
	Date       string   `json:"date,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Country    string   `json:"country,omitempty"`
	Episode    *Episode `json:"episode,omitempty"`
	Rating     string   `json:"rating,omitempty"`
}

// Credits holds the ordered cast and crew sequences.
type Credits struct {
	Directors []string `json:"directors,omitempty"`
	Actors    []string `json:"actors,omitempty"`
	Producers []string `json:"producers,omitempty"`
}

// Episode holds optional season/episode numbering.
type Episode struct {
	Season  *int `json:"season,omitempty"`
	Episode *int `json:"episode,omitempty"`
}

func (d DetailPayload) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *DetailPayload) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = DetailPayload{}
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return errors.New("failed to scan DetailPayload")
	}
}

// Validate checks that required detail fields are present.
func (pd *ProgrammeDetail) Validate() error {
	if pd.ID == "" {
		return errors.New("detail id is required")
	}
	if pd.Details.Title == "" {
		return errors.New("detail title is required")
	}
	return nil
}
