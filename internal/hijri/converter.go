package hijri

import "time"

// DefaultLocation is the display timezone used when none is configured.
const DefaultLocation = "Asia/Jakarta"

// Converter converts instants to display dates in a fixed timezone
type Converter interface {
	Today() HijriDate
	Convert(t time.Time) HijriDate
	Gregorian(t time.Time) string
	Location() *time.Location
}

type converter struct {
	loc *time.Location
	now func() time.Time
}

// NewConverter creates a Converter for loc. A nil loc falls back to UTC.
func NewConverter(loc *time.Location) Converter {
	if loc == nil {
		loc = time.UTC
	}
	return &converter{loc: loc, now: time.Now}
}

// LoadLocation resolves a timezone name, falling back to UTC when it is unknown.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultLocation
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today returns the Hijri date of the current day in the converter's timezone
func (c *converter) Today() HijriDate {
	return c.Convert(c.now())
}

// Convert returns the Hijri date of t's calendar day in the converter's timezone
func (c *converter) Convert(t time.Time) HijriDate {
	return ToHijri(t.In(c.loc))
}

// Gregorian returns the long Indonesian label of t in the converter's timezone
func (c *converter) Gregorian(t time.Time) string {
	return FormatGregorian(t.In(c.loc))
}

func (c *converter) Location() *time.Location {
	return c.loc
}
