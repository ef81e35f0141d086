package service

import (
	"math"
	"strconv"
	"time"

	"github.com/ggowrisankar/weight-tracker/models"
)

// CalendarDay is one cell of the month grid. Day is 0 for the padding cells
// before the 1st and after the last day.
type CalendarDay struct {
	Day     int
	Today   bool
	Weight  float64
	HasData bool
}

// CalendarWeek is one Monday..Sunday row.
type CalendarWeek struct {
	Days [7]CalendarDay
	// Average is the mean of the populated days rounded to one decimal.
	// HasAverage is false when the week has no entries.
	Average    float64
	HasAverage bool
}

// Calendar is the rendered month grid with its averages.
type Calendar struct {
	Ref   models.MonthRef
	Weeks []CalendarWeek

	MonthlyAverage    float64
	HasMonthlyAverage bool
	// MonthEnded is true once now is past the last day of the month. The
	// monthly average is only displayed for ended months.
	MonthEnded bool
}

// DaysIn returns the number of days of the month.
func DaysIn(ref models.MonthRef) int {
	return time.Date(ref.Year, time.Month(ref.Month)+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// BuildCalendar lays out ref as Monday-first weeks and computes the weekly and
// monthly averages of weights.
func BuildCalendar(ref models.MonthRef, weights models.MonthMap, now time.Time) Calendar {
	first := time.Date(ref.Year, time.Month(ref.Month), 1, 0, 0, 0, 0, time.Local)
	offset := (int(first.Weekday()) + 6) % 7
	days := DaysIn(ref)

	cells := make([]CalendarDay, 0, 42)
	for range offset {
		cells = append(cells, CalendarDay{})
	}
	for d := 1; d <= days; d++ {
		w, ok := weights[strconv.Itoa(d)]
		cells = append(cells, CalendarDay{
			Day:     d,
			Today:   isToday(ref, d, now),
			Weight:  w,
			HasData: ok,
		})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, CalendarDay{})
	}

	cal := Calendar{Ref: ref, MonthEnded: MonthEnded(ref, now)}

	var monthSum float64
	var monthN int
	for i := 0; i < len(cells); i += 7 {
		var week CalendarWeek
		copy(week.Days[:], cells[i:i+7])

		var sum float64
		var n int
		for _, c := range week.Days {
			if c.Day == 0 || !c.HasData {
				continue
			}
			sum += c.Weight
			n++
		}
		if n > 0 {
			week.Average = round1(sum / float64(n))
			week.HasAverage = true
		}
		monthSum += sum
		monthN += n

		cal.Weeks = append(cal.Weeks, week)
	}

	if monthN > 0 {
		cal.MonthlyAverage = round1(monthSum / float64(monthN))
		cal.HasMonthlyAverage = true
	}

	return cal
}

// MonthEnded reports whether now falls after the last day of ref.
func MonthEnded(ref models.MonthRef, now time.Time) bool {
	next := ref.Next()
	start := time.Date(next.Year, time.Month(next.Month), 1, 0, 0, 0, 0, now.Location())
	return !now.Before(start)
}

// Editable reports whether day of ref may be edited. Only today is editable
// unless free edit mode is on.
func Editable(ref models.MonthRef, day int, now time.Time, freeEdit bool) bool {
	if day < 1 || day > DaysIn(ref) {
		return false
	}
	return freeEdit || isToday(ref, day, now)
}

func isToday(ref models.MonthRef, day int, now time.Time) bool {
	return now.Year() == ref.Year && int(now.Month()) == ref.Month && now.Day() == day
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
