package weather

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Service owns the UI-visible application state and serializes every
// mutation behind its mutex. Fetch operations run their two provider calls
// concurrently and apply the composite result atomically.
//
// Each fetch carries a monotonic token. A completion whose token is no longer
// the latest issued is discarded wholly, so state always reflects the most
// recently requested fetch rather than the last one to settle.
type Service struct {
	mu       sync.Mutex
	client   Client
	settings Settings
	state    AppState
	fetchSeq uint64
}

// NewService creates a Service with default state and, when settings is
// non-nil, restores favorites, current location, unit and theme from it.
// Missing slots keep their defaults.
func NewService(client Client, settings Settings) *Service {
	s := &Service{
		client:   client,
		settings: settings,
		state:    defaultState(),
	}
	s.restore()
	return s
}

func defaultState() AppState {
	return AppState{
		Unit:  UnitMetric,
		Theme: ThemeLight,
	}
}

func (s *Service) restore() {
	if s.settings == nil {
		return
	}

	if favorites, err := s.settings.LoadFavorites(); err == nil {
		s.state.Favorites = favorites
	} else if !errors.Is(err, ErrNotPersisted) {
		log.Printf("settings: failed to load favorites: %v", err)
	}

	if loc, err := s.settings.LoadCurrentLocation(); err == nil {
		s.state.CurrentLocation = &loc
	} else if !errors.Is(err, ErrNotPersisted) {
		log.Printf("settings: failed to load current location: %v", err)
	}

	if unit, err := s.settings.LoadUnit(); err == nil && unit.Valid() {
		s.state.Unit = unit
	} else if err != nil && !errors.Is(err, ErrNotPersisted) {
		log.Printf("settings: failed to load unit: %v", err)
	}

	if theme, err := s.settings.LoadTheme(); err == nil && theme.Valid() {
		s.state.Theme = theme
	} else if err != nil && !errors.Is(err, ErrNotPersisted) {
		log.Printf("settings: failed to load theme: %v", err)
	}
}

// Snapshot returns a copy of the current application state. Slices are
// copied so readers never observe a later mutation.
func (s *Service) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

func (s *Service) copyStateLocked() AppState {
	state := s.state
	if s.state.CurrentWeather != nil {
		w := *s.state.CurrentWeather
		w.Conditions = append([]Condition(nil), s.state.CurrentWeather.Conditions...)
		state.CurrentWeather = &w
	}
	if s.state.CurrentLocation != nil {
		loc := *s.state.CurrentLocation
		state.CurrentLocation = &loc
	}
	state.Forecast = append(Forecast(nil), s.state.Forecast...)
	state.Favorites = append([]Location(nil), s.state.Favorites...)
	return state
}

// FetchWeather fetches current conditions and the forecast for the given
// coordinates concurrently and applies both atomically. On any failure the
// previous weather and forecast stay in place and only the error message is
// recorded. The method never returns a failure; errors live in state.
func (s *Service) FetchWeather(ctx context.Context, lat, lon float64) {
	token, unit := s.beginFetch()

	var (
		current  CurrentWeather
		forecast Forecast
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.client.CurrentWeather(gctx, lat, lon, unit)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = s.client.Forecast(gctx, lat, lon, unit)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("fetch weather (%.4f, %.4f): %v", lat, lon, err)
		s.failFetch(token, "failed to fetch weather")
		return
	}

	s.completeFetch(token, current, forecast, nil)
}

// FetchWeatherByCity is FetchWeather keyed by city name. On success the
// current location is derived from the returned snapshot and persisted.
func (s *Service) FetchWeatherByCity(ctx context.Context, city string) {
	token, unit := s.beginFetch()

	var (
		current  CurrentWeather
		forecast Forecast
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.client.CurrentWeatherByCity(gctx, city, unit)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = s.client.ForecastByCity(gctx, city, unit)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("fetch weather for %q: %v", city, err)
		s.failFetch(token, "failed to fetch weather")
		return
	}

	loc := current.Location()
	s.completeFetch(token, current, forecast, &loc)
}

// beginFetch issues a new fetch token, sets isLoading and clears any stale
// error. The current unit is captured under the same lock so the two
// provider calls agree on it.
func (s *Service) beginFetch() (uint64, Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	s.state.IsLoading = true
	s.state.Error = ""
	return s.fetchSeq, s.state.Unit
}

func (s *Service) completeFetch(token uint64, current CurrentWeather, forecast Forecast, loc *Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.fetchSeq {
		// A newer fetch owns the state now; this completion is stale.
		return
	}
	s.state.CurrentWeather = &current
	s.state.Forecast = forecast
	s.state.IsLoading = false
	if loc != nil {
		s.state.CurrentLocation = loc
		s.persistCurrentLocation(*loc)
	}
}

func (s *Service) failFetch(token uint64, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.fetchSeq {
		return
	}
	s.state.Error = message
	s.state.IsLoading = false
}

// SearchLocations delegates to the provider. On failure it records an error
// message and returns an empty slice; it never touches the loading flag.
func (s *Service) SearchLocations(ctx context.Context, query string) []Location {
	locations, err := s.client.SearchLocations(ctx, query)
	if err != nil {
		log.Printf("search locations %q: %v", query, err)
		s.mu.Lock()
		s.state.Error = "failed to search locations"
		s.mu.Unlock()
		return []Location{}
	}
	return locations
}

// SetUnit replaces the unit preference. Invalid values are ignored.
func (s *Service) SetUnit(unit Unit) {
	if !unit.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Unit = unit
	if s.settings != nil {
		if err := s.settings.SaveUnit(unit); err != nil {
			log.Printf("settings: failed to save unit: %v", err)
		}
	}
}

// SetTheme replaces the theme preference. Invalid values are ignored.
func (s *Service) SetTheme(theme Theme) {
	if !theme.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = theme
	if s.settings != nil {
		if err := s.settings.SaveTheme(theme); err != nil {
			log.Printf("settings: failed to save theme: %v", err)
		}
	}
}

// AddToFavorites inserts loc unless a favorite with the same id exists.
func (s *Service) AddToFavorites(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isFavoriteLocked(loc.ID) {
		return
	}
	s.state.Favorites = append(s.state.Favorites, loc)
	s.persistFavoritesLocked()
}

// RemoveFromFavorites removes the favorite with the given id; absent ids are
// a no-op.
func (s *Service) RemoveFromFavorites(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.state.Favorites[:0]
	removed := false
	for _, fav := range s.state.Favorites {
		if fav.ID == id {
			removed = true
			continue
		}
		kept = append(kept, fav)
	}
	if !removed {
		return
	}
	s.state.Favorites = kept
	s.persistFavoritesLocked()
}

// ToggleFavorite adds loc to the favorites if absent and removes it if
// present. Applying it twice restores the original membership.
func (s *Service) ToggleFavorite(loc Location) {
	s.mu.Lock()
	isFav := s.isFavoriteLocked(loc.ID)
	s.mu.Unlock()

	if isFav {
		s.RemoveFromFavorites(loc.ID)
	} else {
		s.AddToFavorites(loc)
	}
}

// Reset restores all fields to session defaults. Persisted slots are left
// untouched; reset is an in-session operation.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = defaultState()
}

func (s *Service) isFavoriteLocked(id int64) bool {
	for _, fav := range s.state.Favorites {
		if fav.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) persistFavoritesLocked() {
	if s.settings == nil {
		return
	}
	favorites := append([]Location(nil), s.state.Favorites...)
	if err := s.settings.SaveFavorites(favorites); err != nil {
		log.Printf("settings: failed to save favorites: %v", err)
	}
}

func (s *Service) persistCurrentLocation(loc Location) {
	if s.settings == nil {
		return
	}
	if err := s.settings.SaveCurrentLocation(loc); err != nil {
		log.Printf("settings: failed to save current location: %v", err)
	}
}
