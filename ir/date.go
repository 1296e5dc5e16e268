package ir

import (
	"strconv"
	"strings"
)

// Date is the game calendar date pattern Y.M.D with an optional trailing
// hour component, as in 1444.11.11 or 1936.1.1.12. Components are kept as
// written; no calendar validation happens here.
type Date struct {
	Year    int
	Month   int
	Day     int
	Hour    int
	HasHour bool
}

// ParseDate parses a dotted date. It accepts exactly three or four groups
// of digits and reports failure otherwise.
func ParseDate(s string) (Date, bool) {
	var d Date
	parts := strings.Split(s, ".")
	if len(parts) != 3 && len(parts) != 4 {
		return d, false
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return d, false
		}
		vals[i] = v
	}
	d.Year, d.Month, d.Day = vals[0], vals[1], vals[2]
	if len(parts) == 4 {
		d.Hour = vals[3]
		d.HasHour = true
	}
	return d, true
}

func (d Date) String() string {
	b := make([]byte, 0, 16)
	b = strconv.AppendInt(b, int64(d.Year), 10)
	b = append(b, '.')
	b = strconv.AppendInt(b, int64(d.Month), 10)
	b = append(b, '.')
	b = strconv.AppendInt(b, int64(d.Day), 10)
	if d.HasHour {
		b = append(b, '.')
		b = strconv.AppendInt(b, int64(d.Hour), 10)
	}
	return string(b)
}

// Compare orders dates chronologically; a date without an hour sorts as
// hour zero.
func (d Date) Compare(o Date) int {
	if c := d.Year - o.Year; c != 0 {
		return sign(c)
	}
	if c := d.Month - o.Month; c != 0 {
		return sign(c)
	}
	if c := d.Day - o.Day; c != 0 {
		return sign(c)
	}
	return sign(d.Hour - o.Hour)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
