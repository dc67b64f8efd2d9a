package weather

import (
	"fmt"
	"math"
	"time"
)

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// FormatTemperature renders a temperature rounded to the nearest integer with
// the unit-appropriate suffix.
func FormatTemperature(temp float64, unit Unit) string {
	symbol := "°C"
	if unit == UnitImperial {
		symbol = "°F"
	}
	return fmt.Sprintf("%d%s", int(math.Round(temp)), symbol)
}

// FormatWindSpeed renders a wind speed with its unit. The provider reports
// m/s for metric and mph for imperial.
func FormatWindSpeed(speed float64, unit Unit) string {
	unitText := "m/s"
	if unit == UnitImperial {
		unitText = "mph"
	}
	return fmt.Sprintf("%d %s", int(math.Round(speed)), unitText)
}

// FormatHumidity renders a relative humidity percentage.
func FormatHumidity(humidity int) string {
	return fmt.Sprintf("%d%%", humidity)
}

// FormatPressure renders an atmospheric pressure in hectopascals.
func FormatPressure(pressure int) string {
	return fmt.Sprintf("%d hPa", pressure)
}

// FormatVisibility renders a visibility given in meters as kilometers with
// one decimal.
func FormatVisibility(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}

// WindDirection maps a degree bearing to the nearest of the eight compass
// points. Bearings are normalized into [0, 360) first, so 360 wraps to N.
// Each point owns the 45-degree sector starting at its bearing: 0-44 is N,
// 45-89 is NE, and so on.
func WindDirection(degrees float64) string {
	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}
	return compassPoints[int(deg/45)%8]
}

// FormatTime renders an epoch timestamp as a local 12-hour clock time.
func FormatTime(ts int64) string {
	return time.Unix(ts, 0).Local().Format("03:04 PM")
}

// FormatDate renders an epoch timestamp as a short local date.
func FormatDate(ts int64) string {
	return time.Unix(ts, 0).Local().Format("Mon, Jan 2")
}

// IconURL resolves a provider icon token against the icon host.
func IconURL(iconBase, iconCode string) string {
	return fmt.Sprintf("%s/%s@2x.png", iconBase, iconCode)
}

// CelsiusToFahrenheit converts a Celsius temperature to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts a Fahrenheit temperature to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// DisplayName renders a location as "Name, CC".
func DisplayName(loc Location) string {
	return fmt.Sprintf("%s, %s", loc.Name, loc.Country)
}

// IsFavorite reports whether loc is a member of favorites, matching by id.
func IsFavorite(loc Location, favorites []Location) bool {
	for _, fav := range favorites {
		if fav.ID == loc.ID {
			return true
		}
	}
	return false
}
