package weather

import (
	"context"
)

// Client abstracts the weather/geocoding provider. All calls are single
// attempts: a failure surfaces immediately, nothing is retried.
type Client interface {
	CurrentWeather(ctx context.Context, lat, lon float64, unit Unit) (CurrentWeather, error)
	Forecast(ctx context.Context, lat, lon float64, unit Unit) (Forecast, error)
	CurrentWeatherByCity(ctx context.Context, city string, unit Unit) (CurrentWeather, error)
	ForecastByCity(ctx context.Context, city string, unit Unit) (Forecast, error)

	// SearchLocations returns up to five geocoding matches for query.
	SearchLocations(ctx context.Context, query string) ([]Location, error)
}

// Settings is the contract for durable user settings. Four named slots:
// favorites, current location, unit and theme. They are read once at startup
// and written on every mutation of the corresponding state field.
type Settings interface {
	SaveFavorites(favorites []Location) error
	LoadFavorites() ([]Location, error)

	SaveCurrentLocation(loc Location) error
	LoadCurrentLocation() (Location, error)

	SaveUnit(unit Unit) error
	LoadUnit() (Unit, error)

	SaveTheme(theme Theme) error
	LoadTheme() (Theme, error)

	Close() error
}
