package models

import (
	"errors"

	"github.com/uptrace/bun"
)

// Channel is one guide channel retained by an ingestion run. Generation holds
// the unix timestamp of the run that last confirmed the channel; rows stamped
// with an older generation are stale and swept at the end of the channel sync.
type Channel struct {
	bun.BaseModel `bun:"table:channels,alias:c"`

	ID         string `bun:"id,pk" json:"id"`
	Generation int64  `bun:"generation,notnull" json:"generation"`
	Name       string `bun:"name,notnull" json:"name"`
	Logo       string `bun:"logo,nullzero" json:"logo,omitempty"`
}

// Validate checks that required channel fields are present.
func (c *Channel) Validate() error {
	if c.ID == "" {
		return errors.New("channel id is required")
	}
	if c.Name == "" {
		return errors.New("channel name is required")
	}
	if c.Generation <= 0 {
		return errors.New("generation must be positive")
	}
	return nil
}
