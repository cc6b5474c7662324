package utils

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/fr"
)

// create once at init
var frCalendar = cal.NewBusinessCalendar()

func init() {
	frCalendar.AddHoliday(fr.Holidays...)
}

// Day is one column of the weekly attendance grid.
type Day struct {
	Date        string `json:"date"`
	Weekday     string `json:"weekday"`
	IsWeekend   bool   `json:"is_weekend"`
	IsHoliday   bool   `json:"is_holiday"`
	HolidayName string `json:"holiday_name,omitempty"`
	IsWorkday   bool   `json:"is_workday"`
}

// Week runs Monday to Sunday.
type Week struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Offset int    `json:"offset"`
	Days   []Day  `json:"days"`
}

// French weekday names, indexed by time.Weekday.
var weekdayNames = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

const dateLayout = "2006-01-02"

// StartOfWeek returns the Monday (00:00, same location) of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	back := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -back)
}

// WeekOf returns the week containing date, shifted by offset weeks.
func WeekOf(date time.Time, offset int) Week {
	monday := StartOfWeek(date).AddDate(0, 0, 7*offset)

	days := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		actual, _, h := frCalendar.IsHoliday(d)
		day := Day{
			Date:      d.Format(dateLayout),
			Weekday:   weekdayNames[d.Weekday()],
			IsWeekend: d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
			IsHoliday: actual,
			IsWorkday: frCalendar.IsWorkday(d),
		}
		if actual && h != nil {
			day.HolidayName = h.Name
		}
		days = append(days, day)
	}

	return Week{
		Start:  days[0].Date,
		End:    days[len(days)-1].Date,
		Offset: offset,
		Days:   days,
	}
}

// IsFrenchHoliday reports whether t is a French public holiday.
func IsFrenchHoliday(t time.Time) bool {
	ok, _, _ := frCalendar.IsHoliday(t)
	return ok
}
