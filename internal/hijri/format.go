package hijri

import (
	"strings"
	"time"

	"github.com/go-playground/locales/id"
	"golang.org/x/text/unicode/norm"
)

var indonesian = id.New()

// FormatGregorian returns the long Indonesian form of t, e.g. "Senin, 01 Januari 2024".
func FormatGregorian(t time.Time) string {
	return indonesian.FmtDateFull(t)
}

// arabicMonths maps Arabic month spellings to Months. Longer spellings come first
// so that a prefix variant never shadows the full name.
var arabicMonths = strings.NewReplacer(
	"جمادى الأولى", Months[4],
	"جمادى الآخرة", Months[5],
	"جمادى الثانية", Months[5],
	"جمادى الأول", Months[4],
	"جمادى الآخر", Months[5],
	"ربيع الأول", Months[2],
	"ربيع الآخر", Months[3],
	"ربيع الثاني", Months[3],
	"ذو القعدة", Months[10],
	"ذو الحجة", Months[11],
	"محرم", Months[0],
	"صفر", Months[1],
	"رجب", Months[6],
	"شعبان", Months[7],
	"رمضان", Months[8],
	"شوال", Months[9],
	"هـ", "H",
)

// NormalizeHijriLabel rewrites an Arabic Hijri label such as "١٤ رمضان ١٤٤٦ هـ"
// into the Latin form used by HijriDate.Formatted ("14 Ramadan 1446 H").
// Latin input is returned unchanged.
func NormalizeHijriLabel(label string) string {
	s := norm.NFC.String(label)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '\u0660' && r <= '\u0669':
			return '0' + (r - '\u0660')
		case r >= '\u06f0' && r <= '\u06f9':
			return '0' + (r - '\u06f0')
		case r == '\u200e', r == '\u200f', r == '\u061c':
			return -1
		}
		return r
	}, s)
	s = arabicMonths.Replace(s)

	// bare heh used as era marker
	if strings.HasSuffix(s, " ه") {
		s = strings.TrimSuffix(s, "ه") + "H"
	}
	return s
}
