package utils

import (
	"fmt"
	"time"
)

// buddhistEraOffset converts a Gregorian year to the Thai solar calendar.
const buddhistEraOffset = 543

var (
	configuredLocation *time.Location
	configuredFormat   = "2006-01-02 15:04:05"
)

func InitTimezone(loc *time.Location, format string) {
	configuredLocation = loc
	configuredFormat = format
}

func Location() *time.Location {
	if configuredLocation == nil {
		return time.Local
	}
	return configuredLocation
}

func FormatTime(t time.Time) string {
	return t.In(Location()).Format(configuredFormat)
}

// FolderName names a backup folder as DD/MM/YYYY HH:MM:SS with a Buddhist-era year.
func FolderName(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = Location()
	}
	t = t.In(loc)
	return fmt.Sprintf("%02d/%02d/%d %02d:%02d:%02d",
		t.Day(), int(t.Month()), t.Year()+buddhistEraOffset,
		t.Hour(), t.Minute(), t.Second())
}
