package builtin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersql/internal/config"
	"ordersql/internal/transformer"
)

func TestParseDate_DayFirst(t *testing.T) {
	p := ParseDate{Column: "date_of_sale", DayFirst: true, Layout: "2006-01-02"}
	cases := []struct {
		in   any
		want any
	}{
		{"03/04/2024", "2024-04-03"},
		{"3/4/2024", "2024-04-03"},
		{"15-03-2024", "2024-03-15"},
		{"15.03.2024", "2024-03-15"},
		{"2024-03-04", "2024-03-04"},
		{"2024/03/04", "2024-03-04"},
		{"2024-03-04 10:30:00", "2024-03-04"},
		{"12/25/2024", "2024-12-25"},
		{"March 5, 2024", "2024-03-05"},
		{"5 Mar 2024", "2024-03-05"},
		{"1st April 2024", "2024-04-01"},
		{"03/04/24", "2024-04-03"},
		{"31/02/2024", nil},
		{"not a date", nil},
		{"", nil},
		{nil, nil},
	}
	for _, c := range cases {
		got, err := p.convert(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "input %v", c.in)
	}
}

func TestParseDate_MonthFirst(t *testing.T) {
	p := ParseDate{Column: "d", DayFirst: false, Layout: "2006-01-02"}
	got, err := p.convert("03/04/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", got)

	got, err = p.convert("25/12/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-25", got)
}

func TestParseDate_NeverFails(t *testing.T) {
	p := ParseDate{Column: "d", DayFirst: true, Layout: "2006-01-02"}
	rep := transformer.NewReport(config.PolicyStrict)
	out, err := p.Apply(oneColumn("d", "31/02/2024", "garbage", "01/01/2024"), rep)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil, "2024-01-01"}, out.Column("d"))
	assert.Empty(t, rep.Errors)
	assert.Equal(t, 3, rep.Changed["parse_date"])
}

func TestParseDate_CustomLayout(t *testing.T) {
	p := ParseDate{Column: "d", DayFirst: true, Layout: "02.01.2006"}
	got, err := p.convert("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "04.03.2024", got)
}

func TestParseDate_TwoDigitYearWindow(t *testing.T) {
	defer func(f func() time.Time) { now = f }(now)
	now = func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }

	p := ParseDate{Column: "d", DayFirst: true, Layout: "2006-01-02"}
	cases := map[string]any{
		"03/04/69":   "2069-04-03",
		"03/04/75":   "2075-04-03",
		"03/04/76":   "1976-04-03",
		"03/04/00":   "2000-04-03",
		"5 Mar 99":   "1999-03-05",
		"29/02/24":   "2024-02-29",
		"29/02/25":   nil,
		"03/04/1969": "1969-04-03",
	}
	for in, want := range cases {
		got, err := p.convert(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %s", in)
	}

	now = func() time.Time { return time.Date(2090, 1, 1, 0, 0, 0, 0, time.UTC) }
	// 00 lands on 2100, which has no 29 February.
	got, err := p.convert("29/02/00")
	require.NoError(t, err)
	assert.Nil(t, got)
}
