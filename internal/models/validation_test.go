package models

import (
	"testing"
	"time"
)

func TestChannelValidate(t *testing.T) {
	ch := &Channel{ID: "NL_000001", Generation: 1700000000, Name: "NPO 1"}
	if err := ch.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := &Channel{Generation: 1700000000, Name: "NPO 1"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}

	stale := &Channel{ID: "NL_000001", Name: "NPO 1"}
	if err := stale.Validate(); err == nil {
		t.Fatalf("expected error for missing generation")
	}
}

func TestProgrammeValidate(t *testing.T) {
	p := &Programme{
		ID:         "crid:~~2F~~2Fbds.tv~~2F1",
		ChannelID:  "NL_000001",
		Generation: 1700000000,
		Title:      "Journaal",
		StartTime:  "20231114200000 +0100",
		EndTime:    "20231114203000 +0100",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Title = ""
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for missing title")
	}
}

func TestDetailPayloadScanValue(t *testing.T) {
	season, episode := 2, 5
	payload := DetailPayload{
		Title:      "Show",
		SubTitle:   "Pilot",
		Categories: []string{"drama", "thriller"},
		Episode:    &Episode{Season: &season, Episode: &episode},
	}

	value, err := payload.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded DetailPayload
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Title != "Show" || decoded.SubTitle != "Pilot" {
		t.Fatalf("payload did not round-trip: %+v", decoded)
	}
	if decoded.Episode == nil || *decoded.Episode.Season != 2 {
		t.Fatalf("episode did not round-trip: %+v", decoded.Episode)
	}
	if decoded.Credits != nil {
		t.Fatalf("expected absent credits to stay absent")
	}
}

func TestXMLTVTimeRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	formatted := FormatXMLTVTime(1700000000, loc)
	parsed, err := ParseXMLTVTime(formatted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Unix() != 1700000000 {
		t.Fatalf("expected 1700000000, got %d", parsed.Unix())
	}
}
