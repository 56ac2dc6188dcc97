package date

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		in   string
		want Period
	}{
		{"day", Daily},
		{"1d", Daily},
		{"5d", Weekly},
		{"Week", Weekly},
		{"1mo", Monthly},
		{"monthly", Monthly},
		{"3mo", Quarterly},
		{"1y", Yearly},
		{" year ", Yearly},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePeriod(tc.in)
			if err != nil {
				t.Fatalf("ParsePeriod(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParsePeriod(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Error("ParsePeriod(\"fortnight\") expected an error")
	}
}

func TestLookback(t *testing.T) {
	end := New(2025, time.September, 10)
	testCases := []struct {
		period Period
		want   Range
	}{
		{Daily, Range{From: New(2025, time.September, 9), To: end}},
		{Weekly, Range{From: New(2025, time.September, 3), To: end}},
		{Monthly, Range{From: New(2025, time.August, 10), To: end}},
		{Quarterly, Range{From: New(2025, time.June, 10), To: end}},
		{Yearly, Range{From: New(2024, time.September, 10), To: end}},
	}
	for _, tc := range testCases {
		t.Run(tc.period.String(), func(t *testing.T) {
			got, err := tc.period.Lookback(end)
			if err != nil {
				t.Fatalf("Lookback(%v) returned an unexpected error: %v", end, err)
			}
			if got != tc.want {
				t.Errorf("Lookback(%v) = %v, want %v", end, got, tc.want)
			}
			if !got.Contains(end) || !got.Contains(got.From) {
				t.Errorf("Lookback(%v) = %v must contain its boundaries", end, got)
			}
		})
	}
}

func TestLookback_Unknown(t *testing.T) {
	for _, p := range []Period{-1, Yearly + 1, 42} {
		if p.Valid() {
			t.Errorf("%v.Valid() = true, want false", p)
		}
		if r, err := p.Lookback(New(2025, time.September, 10)); err == nil {
			t.Errorf("%v.Lookback() = %v, want an error", p, r)
		}
	}
}

func TestPeriodString(t *testing.T) {
	for p := Daily; p <= Yearly; p++ {
		if got, err := ParsePeriod(p.String()); err != nil || got != p {
			t.Errorf("ParsePeriod(%q) = %v, %v", p.String(), got, err)
		}
	}
	if got := Period(42).String(); got != "Period(42)" {
		t.Errorf("Period(42).String() = %q", got)
	}
}
