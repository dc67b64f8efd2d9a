package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skycast-app/skycast/internal/weather"
)

// OpenWeatherClient implements weather.Client against the OpenWeatherMap
// current-weather, forecast and geocoding endpoints.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string // data host, e.g. https://api.openweathermap.org/data/2.5
	geoBaseURL string // geocoding host, e.g. https://api.openweathermap.org/geo/1.0
	client     *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewOpenWeatherClient creates a client using the shared HTTP client, whose
// timeout bounds every request.
func NewOpenWeatherClient(client *http.Client, apiKey, baseURL, geoBaseURL string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		geoBaseURL: geoBaseURL,
		client:     client,
		circuit:    cb,
	}
}

// currentPayload mirrors the fields of the /weather response this client
// guarantees to read. Anything missing from the required set is rejected as
// weather.ErrMalformedResponse rather than mapped into a partial snapshot.
type currentPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []conditionPayload `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
}

type conditionPayload struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []conditionPayload `json:"weather"`
	} `json:"list"`
}

type geocodePayload struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentWeather fetches current conditions by coordinates.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, lat, lon float64, unit weather.Unit) (weather.CurrentWeather, error) {
	values := c.commonParams(unit)
	setCoords(values, lat, lon)
	return c.fetchCurrent(ctx, values)
}

// CurrentWeatherByCity fetches current conditions by city name. Ambiguous
// names resolve to the provider's first match.
func (c *OpenWeatherClient) CurrentWeatherByCity(ctx context.Context, city string, unit weather.Unit) (weather.CurrentWeather, error) {
	values := c.commonParams(unit)
	values.Set("q", city)
	return c.fetchCurrent(ctx, values)
}

// Forecast fetches the forecast by coordinates.
func (c *OpenWeatherClient) Forecast(ctx context.Context, lat, lon float64, unit weather.Unit) (weather.Forecast, error) {
	values := c.commonParams(unit)
	setCoords(values, lat, lon)
	return c.fetchForecast(ctx, values)
}

// ForecastByCity fetches the forecast by city name.
func (c *OpenWeatherClient) ForecastByCity(ctx context.Context, city string, unit weather.Unit) (weather.Forecast, error) {
	values := c.commonParams(unit)
	values.Set("q", city)
	return c.fetchForecast(ctx, values)
}

// SearchLocations queries the geocoding endpoint, returning at most five
// matches. Results lacking a provider id get a stable synthesized id derived
// from name, country and coordinates, so repeated searches for the same place
// agree on identity.
func (c *OpenWeatherClient) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", "5")
	values.Set("appid", c.apiKey)

	resp, err := c.get(ctx, c.geoBaseURL+"/direct", values)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []geocodePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	locations := make([]weather.Location, 0, len(payload))
	for _, item := range payload {
		if item.Name == "" {
			return nil, fmt.Errorf("%w: geocoding result missing name", weather.ErrMalformedResponse)
		}
		id := item.ID
		if id == 0 {
			id = syntheticLocationID(item.Name, item.Country, item.Lat, item.Lon)
		}
		locations = append(locations, weather.Location{
			ID:      id,
			Name:    item.Name,
			Country: item.Country,
			Lat:     item.Lat,
			Lon:     item.Lon,
		})
	}
	return locations, nil
}

func (c *OpenWeatherClient) fetchCurrent(ctx context.Context, values url.Values) (weather.CurrentWeather, error) {
	resp, err := c.get(ctx, c.baseURL+"/weather", values)
	if err != nil {
		return weather.CurrentWeather{}, err
	}
	defer resp.Body.Close()

	var payload currentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentWeather{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	if payload.Name == "" {
		return weather.CurrentWeather{}, fmt.Errorf("%w: missing location name", weather.ErrMalformedResponse)
	}
	if len(payload.Weather) == 0 {
		return weather.CurrentWeather{}, fmt.Errorf("%w: empty weather conditions", weather.ErrMalformedResponse)
	}

	conditions := make([]weather.Condition, 0, len(payload.Weather))
	for _, w := range payload.Weather {
		conditions = append(conditions, weather.Condition{
			Code:        w.ID,
			Description: w.Description,
			Icon:        w.Icon,
		})
	}

	return weather.CurrentWeather{
		ID:          payload.ID,
		Name:        payload.Name,
		Country:     payload.Sys.Country,
		Lat:         payload.Coord.Lat,
		Lon:         payload.Coord.Lon,
		Conditions:  conditions,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		WindDeg:     payload.Wind.Deg,
		ObservedAt:  time.Unix(payload.Dt, 0).UTC(),
	}, nil
}

func (c *OpenWeatherClient) fetchForecast(ctx context.Context, values url.Values) (weather.Forecast, error) {
	resp, err := c.get(ctx, c.baseURL+"/forecast", values)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	if len(payload.List) == 0 {
		return nil, fmt.Errorf("%w: empty forecast list", weather.ErrMalformedResponse)
	}

	forecast := make(weather.Forecast, 0, len(payload.List))
	for _, item := range payload.List {
		if len(item.Weather) == 0 {
			return nil, fmt.Errorf("%w: forecast entry missing conditions", weather.ErrMalformedResponse)
		}
		forecast = append(forecast, weather.ForecastEntry{
			At:          time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			Condition: weather.Condition{
				Code:        item.Weather[0].ID,
				Description: item.Weather[0].Description,
				Icon:        item.Weather[0].Icon,
			},
		})
	}
	return forecast, nil
}

func (c *OpenWeatherClient) get(ctx context.Context, endpoint string, values url.Values) (*http.Response, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
	return doRequest(ctx, c.client, c.circuit, buildRequest)
}

func (c *OpenWeatherClient) commonParams(unit weather.Unit) url.Values {
	values := url.Values{}
	values.Set("appid", c.apiKey)
	values.Set("units", string(unit))
	return values
}

func setCoords(values url.Values, lat, lon float64) {
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
}

func syntheticLocationID(name, country string, lat, lon float64) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%.4f|%.4f", name, country, lat, lon)
	// shifted so the id stays positive
	return int64(h.Sum64() >> 1)
}
