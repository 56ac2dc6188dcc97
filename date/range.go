package date

import "fmt"

// Range is a span of days, both ends included.
type Range struct{ From, To Date }

// Contains reports whether day is within r.
func (r Range) Contains(day Date) bool { return !day.Before(r.From) && !day.After(r.To) }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
