// Package calendar converts between Gregorian and Jalali (Persian) civil
// dates. The conversion is closed-form day-count arithmetic anchored at
// Gregorian 1600-01-01; no lookup beyond the per-month day tables is needed.
package calendar

import (
	"fmt"
	"time"
)

var (
	gregorianMonthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	jalaliMonthDays    = [12]int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 29}
)

// JalaliDate is a civil date in the Jalali calendar.
type JalaliDate struct {
	Year  int
	Month int // 1..12 (Farvardin = 1)
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d JalaliDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsGregorianLeap reports whether a Gregorian year is a leap year.
func IsGregorianLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// IsJalaliLeap reports whether a Jalali year is a leap year, using the
// 33-year arithmetic cycle.
func IsJalaliLeap(year int) bool {
	// Esfand has 30 days when converting 1 Farvardin of year+1 lands 366
	// days after 1 Farvardin of year.
	return daysToJalaliYear(year+1)-daysToJalaliYear(year) == 366
}

// daysToJalaliYear counts days from the epoch base (Jalali 979-01-01, which
// is Gregorian 1600-03-20 in this day count) to 1 Farvardin of the given year.
func daysToJalaliYear(year int) int {
	ep := year - 979
	return 365*ep + (ep/33)*8 + (ep%33+3)/4
}

// ToJalali converts a Gregorian civil date to Jalali.
func ToJalali(gy, gm, gd int) JalaliDate {
	gy2 := gy - 1600
	gm2 := gm - 1
	gd2 := gd - 1

	dayNo := 365*gy2 + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400
	for i := 0; i < gm2; i++ {
		dayNo += gregorianMonthDays[i]
	}
	if gm2 > 1 && IsGregorianLeap(gy) {
		dayNo++
	}
	dayNo += gd2

	// 1600-01-01 is 79 days before Jalali 979-01-01
	jDayNo := dayNo - 79

	jNp := jDayNo / 12053 // cycle of 33 Jalali years
	jDayNo %= 12053

	jy := 979 + 33*jNp + 4*(jDayNo/1461)
	jDayNo %= 1461

	if jDayNo >= 366 {
		jy += (jDayNo - 1) / 365
		jDayNo = (jDayNo - 1) % 365
	}

	var i int
	for i = 0; i < 11 && jDayNo >= jalaliMonthDays[i]; i++ {
		jDayNo -= jalaliMonthDays[i]
	}
	return JalaliDate{Year: jy, Month: i + 1, Day: jDayNo + 1}
}

// ToGregorian converts a Jalali civil date back to Gregorian.
func ToGregorian(jy, jm, jd int) (int, int, int) {
	jDayNo := daysToJalaliYear(jy)
	for i := 0; i < jm-1; i++ {
		jDayNo += jalaliMonthDays[i]
	}
	jDayNo += jd - 1

	gDayNo := jDayNo + 79

	gy := 1600 + 400*(gDayNo/146097) // 146097 days per 400 Gregorian years
	gDayNo %= 146097

	leap := true
	if gDayNo >= 36525 { // not the leap-starting century
		gDayNo--
		gy += 100 * (gDayNo / 36524)
		gDayNo %= 36524
		if gDayNo >= 365 {
			gDayNo++
		} else {
			leap = false
		}
	}

	gy += 4 * (gDayNo / 1461)
	gDayNo %= 1461

	if gDayNo >= 366 {
		leap = false
		gDayNo--
		gy += gDayNo / 365
		gDayNo %= 365
	}

	var i int
	for i = 0; gDayNo >= gregorianMonthDays[i]+boolToInt(i == 1 && leap); i++ {
		gDayNo -= gregorianMonthDays[i] + boolToInt(i == 1 && leap)
	}
	return gy, i + 1, gDayNo + 1
}

// FromTime converts the civil date of t (in its location) to Jalali.
func FromTime(t time.Time) JalaliDate {
	y, m, d := t.Date()
	return ToJalali(y, int(m), d)
}

// Format renders t's civil date in the requested calendar, YYYY-MM-DD.
func Format(t time.Time, calendar string) string {
	if calendar == "jalali" {
		return FromTime(t).String()
	}
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
