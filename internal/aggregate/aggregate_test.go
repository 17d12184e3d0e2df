package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDailyAveragesPerDay(t *testing.T) {
	entries := []Entry{
		{EntryDate: day("2024-01-01"), Level: 4},
		{EntryDate: day("2024-01-01"), Level: 6},
		{EntryDate: day("2024-01-02"), Level: 8},
	}

	points := Daily(entries, day("2024-01-01"), day("2024-01-02"))

	require.Len(t, points, 2)
	assert.Equal(t, "Jan 1", points[0].Label)
	assert.Equal(t, 5.0, points[0].Average)
	assert.Equal(t, "Jan 2", points[1].Label)
	assert.Equal(t, 8.0, points[1].Average)
}

func TestDailyWindowIsInclusive(t *testing.T) {
	entries := []Entry{
		{EntryDate: day("2024-01-01"), Level: 2}, // on the from bound
		{EntryDate: day("2024-01-05"), Level: 3},
		{EntryDate: day("2024-01-10"), Level: 9}, // on the to bound
		{EntryDate: day("2023-12-31"), Level: 10},
		{EntryDate: day("2024-01-11"), Level: 10},
	}

	points := Daily(entries, day("2024-01-01"), day("2024-01-10"))

	require.Len(t, points, 3)
	for _, p := range points {
		d := day(p.Date)
		assert.False(t, d.Before(day("2024-01-01")), "point %s before window", p.Date)
		assert.False(t, d.After(day("2024-01-10")), "point %s after window", p.Date)
	}
}

func TestDailyRoundsToOneDecimal(t *testing.T) {
	entries := []Entry{
		{EntryDate: day("2024-03-04"), Level: 1},
		{EntryDate: day("2024-03-04"), Level: 2},
		{EntryDate: day("2024-03-04"), Level: 2},
	}

	points := Daily(entries, day("2024-03-01"), day("2024-03-31"))

	// 5/3 = 1.666... -> 1.7
	require.Len(t, points, 1)
	assert.Equal(t, 1.7, points[0].Average)
}

func TestDailyRoundsHalfAwayFromZero(t *testing.T) {
	entries := []Entry{
		{EntryDate: day("2024-03-04"), Level: 1},
		{EntryDate: day("2024-03-04"), Level: 2},
		{EntryDate: day("2024-03-04"), Level: 2},
		{EntryDate: day("2024-03-04"), Level: 4},
	}

	points := Daily(entries, day("2024-03-01"), day("2024-03-31"))

	// 9/4 = 2.25 -> 2.3
	require.Len(t, points, 1)
	assert.Equal(t, 2.3, points[0].Average)
}

func TestDailySingleEntryIsExact(t *testing.T) {
	entries := []Entry{{EntryDate: day("2024-06-15"), Level: 7}}

	points := Daily(entries, day("2024-06-01"), day("2024-06-30"))

	require.Len(t, points, 1)
	assert.Equal(t, 7.0, points[0].Average)
	assert.Equal(t, "Jun 15", points[0].Label)
}

func TestDailySortedAscending(t *testing.T) {
	entries := []Entry{
		{EntryDate: day("2024-01-09"), Level: 3},
		{EntryDate: day("2024-01-02"), Level: 5},
		{EntryDate: day("2024-01-05"), Level: 1},
		{EntryDate: day("2024-01-02"), Level: 7},
	}

	points := Daily(entries, day("2024-01-01"), day("2024-01-31"))

	require.Len(t, points, 3)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i-1].Date < points[i].Date, "points out of order at %d", i)
	}
}

func TestDailyEmptyInput(t *testing.T) {
	points := Daily(nil, day("2024-01-01"), day("2024-12-31"))
	assert.Empty(t, points)
}

func TestDailyWindowOutsideEntries(t *testing.T) {
	entries := []Entry{
		{EntryDate: day("2024-05-01"), Level: 4},
		{EntryDate: day("2024-05-02"), Level: 6},
	}

	assert.Empty(t, Daily(entries, day("2024-06-01"), day("2024-06-30")))
	assert.Empty(t, Daily(entries, day("2024-04-01"), day("2024-04-30")))
}

func TestDailyInvertedWindow(t *testing.T) {
	entries := []Entry{{EntryDate: day("2024-01-15"), Level: 5}}

	points := Daily(entries, day("2024-02-01"), day("2024-01-01"))

	assert.Empty(t, points)
}

func TestDailyIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	entries := []Entry{
		{EntryDate: morning, Level: 4},
		{EntryDate: evening, Level: 6},
	}

	points := Daily(entries, day("2024-01-01"), day("2024-01-01"))

	require.Len(t, points, 1)
	assert.Equal(t, 5.0, points[0].Average)
}

func TestDailyIsDeterministic(t *testing.T) {
	entries := []Entry{
		{EntryDate: day("2024-01-01"), Level: 4},
		{EntryDate: day("2024-01-03"), Level: 6},
		{EntryDate: day("2024-01-01"), Level: 9},
		{EntryDate: day("2024-01-02"), Level: 0},
	}

	first := Daily(entries, day("2024-01-01"), day("2024-01-31"))
	second := Daily(entries, day("2024-01-01"), day("2024-01-31"))

	assert.Equal(t, first, second)
}
