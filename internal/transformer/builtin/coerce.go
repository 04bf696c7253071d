package builtin

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"ordersql/internal/transformer"
	"ordersql/pkg/records"
)

// ParseInt coerces Column to int64. The cell is rendered as text (null reads
// as "nan"), every occurrence of Strip is removed, surrounding whitespace is
// trimmed and the remainder must be a base-10 integer. A single underscore
// between two digits is accepted as a digit separator.
type ParseInt struct {
	Column string
	Strip  string
}

func (ParseInt) Name() string { return "parse_int" }

func (p ParseInt) col() column {
	return column{rule: p.Name(), name: p.Column, convert: p.convert}
}

func (p ParseInt) convert(v any) (any, error) {
	if i, ok := v.(int64); ok {
		return i, nil
	}
	s := records.Text(v)
	if p.Strip != "" {
		s = strings.ReplaceAll(s, p.Strip, "")
	}
	n, err := strconv.ParseInt(digitSep(strings.TrimSpace(s)), 10, 64)
	if err != nil {
		return nil, numErr(err)
	}
	return n, nil
}

func (p ParseInt) Header(cols []string) ([]string, error) { return p.col().header(cols) }

func (p ParseInt) Apply(t records.Table, rep *transformer.Report) (records.Table, error) {
	return p.col().apply(t, rep)
}

func (p ParseInt) ApplyRecord(row int, _ []string, rec records.Record, rep *transformer.Report) (records.Record, error) {
	return p.col().applyRecord(row, rec, rep)
}

// ParseFloat coerces Column to float64 and rounds it to Places decimals. The
// cell is rendered as text (null reads as "nan" and yields NaN), every
// occurrence of Strip is removed and surrounding whitespace is trimmed.
// Underscores between digits are accepted as in ParseInt. Values beyond the
// float64 range become signed infinities.
//
// Rounding scales by 10^Places and rounds half to even on the scaled binary
// value, so exact halves go to the even neighbour (0.125 -> 0.12) while
// decimal literals that sit just below a half in binary round down
// (19.995 -> 19.99).
type ParseFloat struct {
	Column string
	Strip  string
	Places int
}

func (ParseFloat) Name() string { return "parse_float" }

func (p ParseFloat) col() column {
	return column{rule: p.Name(), name: p.Column, convert: p.convert}
}

func (p ParseFloat) convert(v any) (any, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int64:
		f = float64(x)
	default:
		s := records.Text(v)
		if p.Strip != "" {
			s = strings.ReplaceAll(s, p.Strip, "")
		}
		var err error
		f, err = strconv.ParseFloat(digitSep(strings.TrimSpace(s)), 64)
		if err != nil && !(errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0)) {
			return nil, numErr(err)
		}
	}
	return Round(f, p.Places), nil
}

func (p ParseFloat) Header(cols []string) ([]string, error) { return p.col().header(cols) }

func (p ParseFloat) Apply(t records.Table, rep *transformer.Report) (records.Table, error) {
	return p.col().apply(t, rep)
}

func (p ParseFloat) ApplyRecord(row int, _ []string, rec records.Record, rep *transformer.Report) (records.Record, error) {
	return p.col().applyRecord(row, rec, rep)
}

// Round rounds f to places decimals, half to even on the scaled value.
// NaN and infinities are returned unchanged.
func Round(f float64, places int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow10(places)
	return math.RoundToEven(f*scale) / scale
}

// digitSep removes every underscore that sits directly between two ASCII
// digits. Any other underscore is left in place and fails the parse.
func digitSep(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' && i > 0 && i+1 < len(s) && isDigit(s[i-1]) && isDigit(s[i+1]) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// numErr strips the strconv wrapper so messages read "invalid syntax" rather
// than repeating the function name and input.
func numErr(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
