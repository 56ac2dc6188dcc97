package date

import (
	"fmt"
	"strings"
)

// Period is a standard lookback window used to request price series.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periods lists the names of each Period, canonical name first. The short
// spellings are the ones used by market data sites.
var periods = [...][]string{
	Daily:     {"daily", "day", "1d"},
	Weekly:    {"weekly", "week", "5d", "1wk"},
	Monthly:   {"monthly", "month", "1mo"},
	Quarterly: {"quarterly", "quarter", "3mo"},
	Yearly:    {"yearly", "year", "1y"},
}

func (p Period) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periods[p][0]
}

// ParsePeriod parses any name of a period, case insensitive.
func ParsePeriod(s string) (Period, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, names := range periods {
		for _, n := range names {
			if n == name {
				return Period(p), nil
			}
		}
	}
	return Daily, fmt.Errorf("unknown period %q", s)
}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool { return p >= 0 && int(p) < len(periods) }

// Lookback returns the days covered by p, ending on end.
func (p Period) Lookback(end Date) (Range, error) {
	switch p {
	case Daily:
		return Range{From: end.Add(-1), To: end}, nil
	case Weekly:
		return Range{From: end.Add(-7), To: end}, nil
	case Monthly:
		return Range{From: end.AddMonths(-1), To: end}, nil
	case Quarterly:
		return Range{From: end.AddMonths(-3), To: end}, nil
	case Yearly:
		return Range{From: end.AddMonths(-12), To: end}, nil
	}
	return Range{}, fmt.Errorf("unknown period %d", int(p))
}
