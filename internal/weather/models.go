package weather

import (
	"time"
)

// Unit is the measurement system requested from the provider.
type Unit string

const (
	UnitMetric   Unit = "metric"
	UnitImperial Unit = "imperial"
)

// Valid reports whether u is one of the two supported units.
func (u Unit) Valid() bool {
	return u == UnitMetric || u == UnitImperial
}

// Theme is the UI color scheme preference. It is carried in app state and
// persisted; rendering is up to the front end.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is one of the two supported themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Location is a geocoded place. ID is the provider-assigned identifier and
// is the identity key for favorites membership.
type Location struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Condition is a single weather condition descriptor. The first condition of
// a snapshot is treated as primary.
type Condition struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather is the normalized current-conditions snapshot. Every fetch
// produces a fresh value that fully replaces the previous one.
type CurrentWeather struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Country    string      `json:"country"`
	Lat        float64     `json:"lat"`
	Lon        float64     `json:"lon"`
	Conditions []Condition `json:"conditions"`

	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    int     `json:"humidityPercent"`
	Pressure    int     `json:"pressureHpa"`

	WindSpeed float64 `json:"windSpeed"`
	WindDeg   int     `json:"windDeg"`

	ObservedAt time.Time `json:"observedAt"`
}

// Primary returns the primary condition, or a zero Condition if the snapshot
// carries none.
func (w CurrentWeather) Primary() Condition {
	if len(w.Conditions) == 0 {
		return Condition{}
	}
	return w.Conditions[0]
}

// Location returns the snapshot's embedded location.
func (w CurrentWeather) Location() Location {
	return Location{
		ID:      w.ID,
		Name:    w.Name,
		Country: w.Country,
		Lat:     w.Lat,
		Lon:     w.Lon,
	}
}

// ForecastEntry is one timestamped forecast point.
type ForecastEntry struct {
	At          time.Time `json:"at"`
	Temperature float64   `json:"temperature"`
	Condition   Condition `json:"condition"`
}

// Forecast is a time-ordered sequence of forecast entries.
type Forecast []ForecastEntry

// DayForecast is a derived, per-calendar-day view over a Forecast. It is
// recomputed on demand and never stored.
type DayForecast struct {
	Date    time.Time       `json:"date"`
	Entries []ForecastEntry `json:"entries"`
}

// AppState is the UI-visible application state. Snapshot copies of it are
// handed to readers; mutation happens only through Service operations.
type AppState struct {
	CurrentWeather  *CurrentWeather `json:"currentWeather"`
	Forecast        Forecast        `json:"forecast"`
	CurrentLocation *Location       `json:"currentLocation"`
	Favorites       []Location      `json:"favorites"`
	IsLoading       bool            `json:"isLoading"`
	Error           string          `json:"error,omitempty"`
	Unit            Unit            `json:"unit"`
	Theme           Theme           `json:"theme"`
}
