package hijri

// uqFirstYear is the first Hijri year covered by uqMonthData.
const uqFirstYear = 1444

// uqMonthData holds observed Umm al-Qura month lengths, one entry per Hijri year
// starting at uqFirstYear. Bit i is set when month i has 30 days.
var uqMonthData = [...]uint16{
	0x0a96, // 1444
	0x092e, // 1445
	0x0276, // 1446
}

// monthLength returns the number of days in month (0-11) of the Hijri year.
// Years outside the table alternate 30/29 starting with a 30-day Muharram.
func monthLength(year, month int) int {
	if idx := year - uqFirstYear; idx >= 0 && idx < len(uqMonthData) {
		if uqMonthData[idx]&(1<<uint(month)) != 0 {
			return 30
		}
		return 29
	}
	if month%2 == 0 {
		return 30
	}
	return 29
}
