package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToJalaliKnownDates(t *testing.T) {
	cases := []struct {
		gy, gm, gd int
		want       JalaliDate
	}{
		{1970, 1, 1, JalaliDate{1348, 10, 11}},
		{2000, 1, 1, JalaliDate{1378, 10, 11}},
		{2024, 3, 20, JalaliDate{1403, 1, 1}},  // Nowruz
		{2025, 3, 21, JalaliDate{1404, 1, 1}},  // Nowruz after a leap Jalali year
		{2024, 3, 19, JalaliDate{1402, 12, 29}},
		{2021, 3, 20, JalaliDate{1399, 12, 30}}, // leap Esfand
	}
	for _, c := range cases {
		got := ToJalali(c.gy, c.gm, c.gd)
		assert.Equal(t, c.want, got, "gregorian %04d-%02d-%02d", c.gy, c.gm, c.gd)
	}
}

func TestToGregorianKnownDates(t *testing.T) {
	cases := []struct {
		j          JalaliDate
		gy, gm, gd int
	}{
		{JalaliDate{1348, 10, 11}, 1970, 1, 1},
		{JalaliDate{1403, 1, 1}, 2024, 3, 20},
		{JalaliDate{1399, 12, 30}, 2021, 3, 20},
	}
	for _, c := range cases {
		gy, gm, gd := ToGregorian(c.j.Year, c.j.Month, c.j.Day)
		assert.Equal(t, []int{c.gy, c.gm, c.gd}, []int{gy, gm, gd}, "jalali %s", c.j)
	}
}

func TestRoundTripOverRange(t *testing.T) {
	// Walk day by day across several decades including century boundaries.
	start := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2110, 1, 1, 0, 0, 0, 0, time.UTC)

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		gy, gm, gd := d.Date()
		j := ToJalali(gy, int(gm), gd)
		ry, rm, rd := ToGregorian(j.Year, j.Month, j.Day)
		if ry != gy || rm != int(gm) || rd != gd {
			t.Fatalf("round trip failed for %04d-%02d-%02d: got %04d-%02d-%02d via %s",
				gy, gm, gd, ry, rm, rd, j)
		}
	}
}

func TestJalaliMonthLengths(t *testing.T) {
	// Consecutive Farvardin firsts must be 365 or 366 days apart and agree
	// with the leap predicate.
	for y := 1300; y < 1500; y++ {
		diff := daysToJalaliYear(y+1) - daysToJalaliYear(y)
		if diff != 365 && diff != 366 {
			t.Fatalf("year %d has %d days", y, diff)
		}
		assert.Equal(t, diff == 366, IsJalaliLeap(y), "year %d", y)
	}
}

func TestFormat(t *testing.T) {
	d := time.Date(2024, 3, 20, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-03-20", Format(d, "gregorian"))
	assert.Equal(t, "1403-01-01", Format(d, "jalali"))
}
