package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/skycast-app/skycast/internal/weather"
)

// Slot keys for the four persisted settings.
const (
	keyFavorites       = "weather_favorites"
	keyCurrentLocation = "weather_current_location"
	keyUnit            = "weather_unit"
	keyTheme           = "weather_theme"
)

// SQLiteSettings persists user settings in a single key/value table. It
// implements weather.Settings. Writes replace the whole slot; reads of a
// never-written slot return weather.ErrNotPersisted.
type SQLiteSettings struct {
	db *sql.DB
}

// NewSQLiteSettings opens (and if needed creates) the settings database at
// path.
func NewSQLiteSettings(path string) (*SQLiteSettings, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init settings schema: %w", err)
	}

	return &SQLiteSettings{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteSettings) Close() error {
	return s.db.Close()
}

// SaveFavorites stores the favorites list as a JSON array.
func (s *SQLiteSettings) SaveFavorites(favorites []weather.Location) error {
	data, err := json.Marshal(favorites)
	if err != nil {
		return err
	}
	return s.put(keyFavorites, string(data))
}

// LoadFavorites returns the persisted favorites list.
func (s *SQLiteSettings) LoadFavorites() ([]weather.Location, error) {
	value, err := s.get(keyFavorites)
	if err != nil {
		return nil, err
	}
	var favorites []weather.Location
	if err := json.Unmarshal([]byte(value), &favorites); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return favorites, nil
}

// SaveCurrentLocation stores the current location as JSON.
func (s *SQLiteSettings) SaveCurrentLocation(loc weather.Location) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.put(keyCurrentLocation, string(data))
}

// LoadCurrentLocation returns the persisted current location.
func (s *SQLiteSettings) LoadCurrentLocation() (weather.Location, error) {
	value, err := s.get(keyCurrentLocation)
	if err != nil {
		return weather.Location{}, err
	}
	var loc weather.Location
	if err := json.Unmarshal([]byte(value), &loc); err != nil {
		return weather.Location{}, fmt.Errorf("decode current location: %w", err)
	}
	return loc, nil
}

// SaveUnit stores the unit preference.
func (s *SQLiteSettings) SaveUnit(unit weather.Unit) error {
	return s.put(keyUnit, string(unit))
}

// LoadUnit returns the persisted unit preference.
func (s *SQLiteSettings) LoadUnit() (weather.Unit, error) {
	value, err := s.get(keyUnit)
	if err != nil {
		return "", err
	}
	return weather.Unit(value), nil
}

// SaveTheme stores the theme preference.
func (s *SQLiteSettings) SaveTheme(theme weather.Theme) error {
	return s.put(keyTheme, string(theme))
}

// LoadTheme returns the persisted theme preference.
func (s *SQLiteSettings) LoadTheme() (weather.Theme, error) {
	value, err := s.get(keyTheme)
	if err != nil {
		return "", err
	}
	return weather.Theme(value), nil
}

func (s *SQLiteSettings) put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *SQLiteSettings) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", weather.ErrNotPersisted
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
