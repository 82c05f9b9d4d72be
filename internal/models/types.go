package models

import "time"

// XMLTVTimeLayout is the timestamp layout used for programme start and end
// times, both in the cache and in the rendered document.
const XMLTVTimeLayout = "20060102150405 -0700"

// FormatXMLTVTime renders a unix timestamp in the XMLTV layout for the given
// time zone.
func FormatXMLTVTime(unix int64, loc *time.Location) string {
	return time.Unix(unix, 0).In(loc).Format(XMLTVTimeLayout)
}

// ParseXMLTVTime parses a timestamp previously written by FormatXMLTVTime.
func ParseXMLTVTime(s string) (time.Time, error) {
	return time.Parse(XMLTVTimeLayout, s)
}
