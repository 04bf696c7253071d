package builtin

import (
	"regexp"
	"strings"
	"time"

	"ordersql/internal/transformer"
	"ordersql/pkg/records"
)

// Layouts tried by ParseDate, in order. ISO-style inputs are unambiguous and
// always win; numeric day/month inputs try the preferred order first and fall
// back to the other one, so "12/25/2024" still parses under day-first.
var (
	isoLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"2006.01.02",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05.999999999",
		"20060102",
	}
	dayFirstLayouts = []string{
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"2/1/06",
		"2-1-06",
		"2.1.06",
		"2/1/2006 15:04",
		"2/1/2006 15:04:05",
		"2-1-2006 15:04",
		"2-1-2006 15:04:05",
	}
	monthFirstLayouts = []string{
		"1/2/2006",
		"1-2-2006",
		"1.2.2006",
		"1/2/06",
		"1-2-06",
		"1.2.06",
		"1/2/2006 15:04",
		"1/2/2006 15:04:05",
		"1-2-2006 15:04",
		"1-2-2006 15:04:05",
	}
	textLayouts = []string{
		"2 January 2006",
		"2 Jan 2006",
		"2 January, 2006",
		"2-Jan-2006",
		"2-Jan-06",
		"2 Jan 06",
		"January 2, 2006",
		"Jan 2, 2006",
		"January 2 2006",
		"Jan 2 2006",
		"Monday, January 2, 2006",
		"Mon, 2 Jan 2006",
		"Monday 2 January 2006",
		"Mon 2 Jan 2006",
	}
)

var ordinal = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)

// now anchors the two-digit year window.
var now = time.Now

// ParseDate normalizes Column to Layout. Values that parse under none of the
// known layouts, including impossible dates like 31/02/2024, become null;
// ParseDate never fails a run.
type ParseDate struct {
	Column   string
	DayFirst bool
	Layout   string
}

func (ParseDate) Name() string { return "parse_date" }

func (p ParseDate) col() column {
	return column{rule: p.Name(), name: p.Column, convert: p.convert}
}

func (p ParseDate) convert(v any) (any, error) {
	layout := p.Layout
	if layout == "" {
		layout = "2006-01-02"
	}
	switch x := v.(type) {
	case time.Time:
		return x.Format(layout), nil
	case string:
		if t, ok := ParseTime(x, p.DayFirst); ok {
			return t.Format(layout), nil
		}
	}
	return nil, nil
}

func (p ParseDate) Header(cols []string) ([]string, error) { return p.col().header(cols) }

func (p ParseDate) Apply(t records.Table, rep *transformer.Report) (records.Table, error) {
	return p.col().apply(t, rep)
}

func (p ParseDate) ApplyRecord(row int, _ []string, rec records.Record, rep *transformer.Report) (records.Record, error) {
	return p.col().applyRecord(row, rec, rep)
}

// ParseTime parses s as a calendar date in any of the supported layouts.
// dayFirst picks the preferred reading of ambiguous numeric dates.
func ParseTime(s string, dayFirst bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	first, second := dayFirstLayouts, monthFirstLayouts
	if !dayFirst {
		first, second = second, first
	}
	for _, set := range [][]string{isoLayouts, first, second} {
		if t, ok := tryLayouts(s, set); ok {
			return t, true
		}
	}
	return tryLayouts(ordinal.ReplaceAllString(s, "$1"), textLayouts)
}

func tryLayouts(s string, layouts []string) (time.Time, bool) {
	for _, l := range layouts {
		t, err := time.Parse(l, s)
		if err != nil {
			continue
		}
		if strings.Contains(l, "2006") || !strings.Contains(l, "06") {
			return t, true
		}
		if t, ok := shortYear(t); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// shortYear moves a date parsed from a two-digit year into the 100-year
// window centred on the current year: "69" is 2069 in 2026, not 1969. The
// date is rejected if it does not exist in the chosen year (29 February).
func shortYear(t time.Time) (time.Time, bool) {
	cur := now().Year()
	y := cur/100*100 + t.Year()%100
	switch {
	case y >= cur+50:
		y -= 100
	case y < cur-50:
		y += 100
	}
	out := time.Date(y, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	return out, out.Day() == t.Day()
}
