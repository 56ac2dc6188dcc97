package date

import (
	"iter"
	"slices"
)

// History is a chronological series of values with at most one value per day.
// Its zero value is an empty series.
type History[T any] struct {
	points []point[T]
}

type point[T any] struct {
	day   Date
	value T
}

func (p point[T]) compare(day Date) int {
	switch {
	case p.day.Before(day):
		return -1
	case p.day.After(day):
		return 1
	}
	return 0
}

// Len returns the number of days in the series.
func (h *History[T]) Len() int { return len(h.points) }

// Append sets the value on day, replacing any previous value for that day.
// Days can be appended in any order.
func (h *History[T]) Append(day Date, value T) *History[T] {
	i, found := slices.BinarySearchFunc(h.points, day, point[T].compare)
	if found {
		h.points[i].value = value
		return h
	}
	h.points = slices.Insert(h.points, i, point[T]{day, value})
	return h
}

// Get returns the value on day.
func (h *History[T]) Get(day Date) (value T, ok bool) {
	if i, found := slices.BinarySearchFunc(h.points, day, point[T].compare); found {
		return h.points[i].value, true
	}
	return value, false
}

// Latest returns the last day and its value, or zero values if empty.
func (h *History[T]) Latest() (day Date, value T) {
	if len(h.points) == 0 {
		return day, value
	}
	last := h.points[len(h.points)-1]
	return last.day, last.value
}

// Values iterates over the series, oldest first.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for _, p := range h.points {
			if !yield(p.day, p.value) {
				return
			}
		}
	}
}
