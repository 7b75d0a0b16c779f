package marketCalendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/us"
)

type Mode int

const (
	ModeIntraday Mode = iota
	ModeEndOfDay
)

func (m Mode) String() string {
	if m == ModeEndOfDay {
		return "eod"
	}
	return "intraday"
}

const (
	StatusRun           = "run"
	StatusNonTradingDay = "skipped - non-trading day"
	StatusOutsideWindow = "skipped - outside window"
)

type Decision struct {
	Run    bool
	Status string
}

// familyDay is the Ontario holiday on the third Monday of February.
var familyDay = &cal.Holiday{
	Name:      "Family Day",
	Type:      cal.ObservancePublic,
	StartYear: 2008,
	Month:     time.February,
	Weekday:   time.Monday,
	Offset:    3,
	Func:      cal.CalcWeekdayOffset,
}

// tsxHolidays are the days the Toronto exchange closes. ca.Holidays is the
// union over all provinces and would skip Easter Monday, Sept 30 and Nov 11.
var tsxHolidays = []*cal.Holiday{
	ca.NewYear,
	familyDay,
	ca.GoodFriday,
	ca.VictoriaDay,
	ca.CanadaDay,
	ca.CivicDay,
	ca.LabourDay,
	ca.ThanksgivingDay,
	ca.ChristmasDay,
	ca.BoxingDay,
}

// nyseHolidays leaves out Veterans Day and Columbus Day, the NYSE trades on both.
var nyseHolidays = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// Calendar decides whether scheduled market jobs should run. Exchange holidays
// of both markets count, whether on their actual or observed date.
type Calendar struct {
	loc        *time.Location
	startHour  int
	endHour    int
	holidays   *cal.BusinessCalendar
	extraDates map[string]struct{}
}

// New builds the calendar from config and panics on invalid settings.
func New(cfg *config.Config) *Calendar {
	loc, err := time.LoadLocation(cfg.Market.Timezone)
	if err != nil {
		panic(fmt.Errorf("load market timezone %q: %w", cfg.Market.Timezone, err))
	}

	c, err := NewCalendar(loc, cfg.Market.WindowStartHour, cfg.Market.WindowEndHour, cfg.Market.ExtraHolidays)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCalendar accepts extra holidays as YYYY-MM-DD dates.
func NewCalendar(loc *time.Location, startHour, endHour int, extraHolidays []string) (*Calendar, error) {
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return nil, fmt.Errorf("invalid market window %d-%d", startHour, endHour)
	}

	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(tsxHolidays...)
	bc.AddHoliday(nyseHolidays...)

	extra := make(map[string]struct{}, len(extraHolidays))
	for _, raw := range extraHolidays {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, fmt.Errorf("parse extra holiday %q: %w", raw, err)
		}
		extra[d.Format(time.DateOnly)] = struct{}{}
	}

	return &Calendar{
		loc:        loc,
		startHour:  startHour,
		endHour:    endHour,
		holidays:   bc,
		extraDates: extra,
	}, nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// LocalDate is the calendar day of t in the market timezone, at midnight UTC.
func (c *Calendar) LocalDate(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsTradingDay reports whether the market-local day of t is a weekday and not a holiday.
func (c *Calendar) IsTradingDay(t time.Time) bool {
	local := t.In(c.loc)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	if _, ok := c.extraDates[local.Format(time.DateOnly)]; ok {
		return false
	}

	// cal сравнивает даты в локации переданного времени
	day := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, c.loc)
	actual, observed, _ := c.holidays.IsHoliday(day)
	return !actual && !observed
}

func (c *Calendar) ShouldRun(now time.Time, mode Mode, force bool) Decision {
	if force {
		return Decision{Run: true, Status: StatusRun}
	}

	if !c.IsTradingDay(now) {
		return Decision{Status: StatusNonTradingDay}
	}

	if mode == ModeIntraday {
		hour := now.In(c.loc).Hour()
		if hour < c.startHour || hour >= c.endHour {
			return Decision{Status: StatusOutsideWindow}
		}
	}

	return Decision{Run: true, Status: StatusRun}
}
