package weather

import (
	"math"
	"sort"
	"time"
)

// GroupForecastByDay partitions forecast entries by local calendar date.
// Groups appear in first-seen order; entries within a group are sorted
// ascending by timestamp. The view is derived on demand, never stored.
func GroupForecastByDay(forecast Forecast) []DayForecast {
	index := make(map[string]int)
	var days []DayForecast

	for _, entry := range forecast {
		local := entry.At.Local()
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
		key := date.Format("2006-01-02")

		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, DayForecast{Date: date})
		}
		days[i].Entries = append(days[i].Entries, entry)
	}

	for i := range days {
		entries := days[i].Entries
		sort.Slice(entries, func(a, b int) bool {
			return entries[a].At.Before(entries[b].At)
		})
	}

	return days
}

// AverageTemperature computes the arithmetic mean temperature over entries,
// rounded to the nearest integer. Returns 0 for an empty set.
func AverageTemperature(entries []ForecastEntry) int {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += e.Temperature
	}
	return int(math.Round(sum / float64(len(entries))))
}
