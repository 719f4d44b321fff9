package ambient

import (
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

const (
	StatusWeekday = "Weekday"
	StatusWeekend = "Weekend"
	StatusHoliday = "Holiday"
)

// DayInfo describes today and tomorrow for the calendar part of the context.
type DayInfo struct {
	TodayStatus    string `json:"today_status"`
	TomorrowStatus string `json:"tomorrow_status"`
	Weekday        string `json:"weekday"`
}

func DefaultDayInfo(now time.Time) DayInfo {
	return DayInfo{TodayStatus: StatusWeekday, TomorrowStatus: StatusWeekday, Weekday: now.Weekday().String()}
}

// HolidayCalendar reports public holidays.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// NewHolidayCalendar returns the calendar for a country code. Countries without
// rules get an empty calendar, so only weekends are detected.
func NewHolidayCalendar(countryCode string) HolidayCalendar {
	switch strings.ToUpper(countryCode) {
	case "US":
		return NewUSHolidays()
	default:
		return noHolidays{}
	}
}

type noHolidays struct{}

func (noHolidays) IsHoliday(time.Time) bool { return false }

// USHolidays reports federal holidays and their observed weekdays.
type USHolidays struct {
	rules *cal.Calendar
}

func NewUSHolidays() *USHolidays {
	c := &cal.Calendar{}
	c.AddHoliday(us.Holidays...)
	return &USHolidays{rules: c}
}

func (h *USHolidays) IsHoliday(date time.Time) bool {
	if actual, observed, _ := h.rules.IsHoliday(date); actual || observed {
		return true
	}
	// a Saturday New Year is observed on Dec 31 of the previous year
	y, m, d := date.Date()
	if m == time.December && d == 31 {
		_, obs := us.NewYear.Calc(y + 1)
		oy, om, od := obs.Date()
		return oy == y && om == m && od == d
	}
	return false
}

// DayStatus classifies a date; holidays take precedence over weekends.
func DayStatus(hc HolidayCalendar, date time.Time) string {
	if hc != nil && hc.IsHoliday(date) {
		return StatusHoliday
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return StatusWeekend
	}
	return StatusWeekday
}

// Days computes today/tomorrow status for now.
func Days(hc HolidayCalendar, now time.Time) DayInfo {
	return DayInfo{
		TodayStatus:    DayStatus(hc, now),
		TomorrowStatus: DayStatus(hc, now.AddDate(0, 0, 1)),
		Weekday:        now.Weekday().String(),
	}
}

// NormalizeStatus maps client input onto a known status, defaulting to Weekday.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekend":
		return StatusWeekend
	case "holiday":
		return StatusHoliday
	default:
		return StatusWeekday
	}
}
