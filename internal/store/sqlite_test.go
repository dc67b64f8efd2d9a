package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/skycast-app/skycast/internal/weather"
)

func newTestSettings(t *testing.T) *SQLiteSettings {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.db")
	s, err := NewSQLiteSettings(path)
	if err != nil {
		t.Fatalf("NewSQLiteSettings failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUnwrittenSlotsReturnNotPersisted(t *testing.T) {
	s := newTestSettings(t)

	if _, err := s.LoadFavorites(); !errors.Is(err, weather.ErrNotPersisted) {
		t.Errorf("LoadFavorites: want ErrNotPersisted, got %v", err)
	}
	if _, err := s.LoadCurrentLocation(); !errors.Is(err, weather.ErrNotPersisted) {
		t.Errorf("LoadCurrentLocation: want ErrNotPersisted, got %v", err)
	}
	if _, err := s.LoadUnit(); !errors.Is(err, weather.ErrNotPersisted) {
		t.Errorf("LoadUnit: want ErrNotPersisted, got %v", err)
	}
	if _, err := s.LoadTheme(); !errors.Is(err, weather.ErrNotPersisted) {
		t.Errorf("LoadTheme: want ErrNotPersisted, got %v", err)
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	s := newTestSettings(t)

	favorites := []weather.Location{
		{ID: 703448, Name: "Kyiv", Country: "UA", Lat: 50.45, Lon: 30.52},
		{ID: 702550, Name: "Lviv", Country: "UA", Lat: 49.84, Lon: 24.03},
	}
	if err := s.SaveFavorites(favorites); err != nil {
		t.Fatalf("SaveFavorites failed: %v", err)
	}

	got, err := s.LoadFavorites()
	if err != nil {
		t.Fatalf("LoadFavorites failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != 703448 || got[1].Name != "Lviv" {
		t.Errorf("favorites mismatch: %+v", got)
	}

	// Saving again replaces the whole slot.
	if err := s.SaveFavorites(favorites[:1]); err != nil {
		t.Fatalf("SaveFavorites (replace) failed: %v", err)
	}
	got, err = s.LoadFavorites()
	if err != nil {
		t.Fatalf("LoadFavorites (replace) failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("slot not replaced, have %d favorites", len(got))
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := newTestSettings(t)

	if err := s.SaveUnit(weather.UnitImperial); err != nil {
		t.Fatalf("SaveUnit failed: %v", err)
	}
	if err := s.SaveTheme(weather.ThemeDark); err != nil {
		t.Fatalf("SaveTheme failed: %v", err)
	}

	unit, err := s.LoadUnit()
	if err != nil || unit != weather.UnitImperial {
		t.Errorf("LoadUnit = %v, %v", unit, err)
	}
	theme, err := s.LoadTheme()
	if err != nil || theme != weather.ThemeDark {
		t.Errorf("LoadTheme = %v, %v", theme, err)
	}
}

func TestCurrentLocationRoundTrip(t *testing.T) {
	s := newTestSettings(t)

	loc := weather.Location{ID: 703448, Name: "Kyiv", Country: "UA", Lat: 50.45, Lon: 30.52}
	if err := s.SaveCurrentLocation(loc); err != nil {
		t.Fatalf("SaveCurrentLocation failed: %v", err)
	}

	got, err := s.LoadCurrentLocation()
	if err != nil {
		t.Fatalf("LoadCurrentLocation failed: %v", err)
	}
	if got != loc {
		t.Errorf("location mismatch: got %+v, want %+v", got, loc)
	}
}
