package hijri

import (
	"errors"
	"fmt"
	"time"
)

const (
	islamicEpoch  = 1948440 // JDN of 1 Muharram 1 AH
	daysPerCycle  = 10631   // days in a 30-year Hijri cycle
	yearsPerCycle = 30
)

// Months holds the Latin Hijri month names, indexed 0-11.
var Months = [12]string{
	"Muharram",
	"Safar",
	"Rabi' al-Awwal",
	"Rabi' al-Thani",
	"Jumada al-Awwal",
	"Jumada al-Thani",
	"Rajab",
	"Sha'ban",
	"Ramadan",
	"Shawwal",
	"Dhu al-Qi'dah",
	"Dhu al-Hijjah",
}

var errInvalidDate = errors.New("invalid gregorian date")

// HijriDate is an approximate Umm al-Qura calendar date
type HijriDate struct {
	Day       int    `json:"day"`   // 1-30
	Month     int    `json:"month"` // 0-11, index into Months
	Year      int    `json:"year"`
	Formatted string `json:"formatted"` // e.g. "14 Ramadan 1446 H"
}

// MonthName returns the Latin name of the date's month
func (h HijriDate) MonthName() string {
	if h.Month < 0 || h.Month >= len(Months) {
		return Months[0]
	}
	return Months[h.Month]
}

// ToHijri converts the calendar date of t to its Hijri equivalent.
// The result may differ by a day from official announcements near month boundaries.
func ToHijri(t time.Time) HijriDate {
	return FromGregorian(t.Year(), int(t.Month()), t.Day())
}

// FromGregorian converts a proleptic Gregorian year/month/day to a Hijri date.
// Out-of-range input yields 1 Muharram of an estimated year instead of an error.
func FromGregorian(year, month, day int) HijriDate {
	h, err := convert(year, month, day)
	if err != nil {
		return fallback(year)
	}
	return h
}

func convert(year, month, day int) (HijriDate, error) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return HijriDate{}, fmt.Errorf("%w: %04d-%02d-%02d", errInvalidDate, year, month, day)
	}

	days := julianDay(year, month, day) - islamicEpoch
	if days < 0 {
		return HijriDate{}, fmt.Errorf("%w: %04d-%02d-%02d precedes the hijri epoch", errInvalidDate, year, month, day)
	}

	cycle := days / daysPerCycle
	rem := days % daysPerCycle

	yearInCycle := 0
	for yearInCycle < yearsPerCycle-1 && rem >= yearLength(yearInCycle) {
		rem -= yearLength(yearInCycle)
		yearInCycle++
	}
	hYear := cycle*yearsPerCycle + yearInCycle + 1

	hMonth := 0
	for hMonth < len(Months)-1 {
		length := monthLength(hYear, hMonth)
		if rem < length {
			break
		}
		rem -= length
		hMonth++
	}

	hDay := rem + 1
	if hDay > 30 {
		// correction table and arithmetic year length disagree
		hDay = 30
	}

	return newDate(hDay, hMonth, hYear), nil
}

// julianDay returns the Julian Day Number of a proleptic Gregorian date.
// January and February are counted as months 10 and 11 of the previous year.
func julianDay(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func yearLength(yearInCycle int) int {
	if (11*yearInCycle+14)%30 < 11 {
		return 355
	}
	return 354
}

func fallback(gregorianYear int) HijriDate {
	year := (gregorianYear - 622) * 33 / 32
	if year < 1 {
		year = 1
	}
	return newDate(1, 0, year)
}

func newDate(day, month, year int) HijriDate {
	return HijriDate{
		Day:       day,
		Month:     month,
		Year:      year,
		Formatted: fmt.Sprintf("%d %s %d H", day, Months[month], year),
	}
}
