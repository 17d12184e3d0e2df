package aggregate

import (
	"math"
	"sort"
	"time"
)

// Entry is the minimal view of a pain entry the aggregator needs.
// EntryDate is the user-selected observation date; time-of-day is ignored.
type Entry struct {
	EntryDate time.Time
	Level     int
}

// Point is one charted day: a short display label and the day's average level.
type Point struct {
	Label   string  `json:"label"`
	Average float64 `json:"average"`
	Date    string  `json:"date"`
}

// dayKey truncates a timestamp to its UTC calendar day.
func dayKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// round1 rounds to one decimal place, half away from zero.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Daily filters entries to the inclusive [from, to] window, buckets them by
// UTC calendar day, and returns one Point per day with the arithmetic mean of
// that day's levels rounded to one decimal (half away from zero), sorted
// ascending by day. An inverted window (from after to) yields an empty slice.
func Daily(entries []Entry, from, to time.Time) []Point {
	fromDay := dayKey(from)
	toDay := dayKey(to)

	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[time.Time]*bucket)

	for _, e := range entries {
		d := dayKey(e.EntryDate)
		if d.Before(fromDay) || d.After(toDay) {
			continue
		}
		b, ok := buckets[d]
		if !ok {
			b = &bucket{}
			buckets[d] = b
		}
		b.sum += e.Level
		b.count++
	}

	days := make([]time.Time, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := make([]Point, 0, len(days))
	for _, d := range days {
		b := buckets[d]
		points = append(points, Point{
			Label:   d.Format("Jan 2"),
			Average: round1(float64(b.sum) / float64(b.count)),
			Date:    d.Format("2006-01-02"),
		})
	}
	return points
}
