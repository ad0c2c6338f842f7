package excel

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// Accepted textual expiry forms. Suppliers are not consistent about this
// column, so day/month/year with any of the common separators is tolerated
// alongside ISO, year-first and a bare month/year form.
var (
	reISODate       = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	reYearFirst     = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	reDayMonthYear  = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	reMonthYearOnly = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{4,5})$`)
)

// ParseExpiry interprets a raw expiry cell. A blank or unparseable value
// yields nil (no expiry) rather than a sentinel date.
func ParseExpiry(raw string) *model.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if m := reISODate.FindStringSubmatch(raw); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := reYearFirst.FindStringSubmatch(raw); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := reDayMonthYear.FindStringSubmatch(raw); m != nil {
		return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := reMonthYearOnly.FindStringSubmatch(raw); m != nil {
		// Month/year only; the day defaults to 1. A 5-digit year is a known
		// data-entry slip ("02027" means 2027).
		year := atoi(strings.TrimLeft(m[2], "0"))
		return makeDate(year, atoi(m[1]), 1)
	}

	// Unformatted date cells come through as raw Excel serial numbers.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			d := model.DateOf(t)
			return &d
		}
	}

	return nil
}

// makeDate validates the parts by round-tripping through time.Date, so
// impossible dates like 31/02/2025 come back as absent.
func makeDate(year, month, day int) *model.Date {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil
	}
	d := model.NewDate(year, time.Month(month), day)
	return &d
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
