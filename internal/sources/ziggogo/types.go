package ziggogo

// Channel is one entry of the guide channel catalog. Only the consumed fields
// are decoded.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo struct {
		Focused string `json:"focused"`
	} `json:"logo"`
}

// Segment is one page of the time-ordered guide, keyed by a timestamp-derived
// code and self-describing its own span. Both fields may be absent.
type Segment struct {
	Duration int            `json:"duration"`
	Entries  []SegmentEntry `json:"entries"`
}

// SegmentEntry groups the events of one channel within a segment.
type SegmentEntry struct {
	ChannelID string  `json:"channelId"`
	Events    []Event `json:"events"`
}

// Event is a single programme occurrence. Times are unix seconds.
type Event struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// Detail is the per-programme detail payload. Everything besides the title is
// optional.
type Detail struct {
	Title            string   `json:"title"`
	EpisodeName      string   `json:"episodeName"`
	LongDescription  string   `json:"longDescription"`
	ShortDescription string   `json:"shortDescription"`
	Actors           []string `json:"actors"`
	Directors        []string `json:"directors"`
	Producers        []string `json:"producers"`
	ProductionDate   string   `json:"productionDate"`
	Genres           []string `json:"genres"`
	CountryOfOrigin  string   `json:"countryOfOrigin"`
	SeasonNumber     *int     `json:"seasonNumber"`
	EpisodeNumber    *int     `json:"episodeNumber"`
	MinimumAge       *int     `json:"minimumAge"`
}
