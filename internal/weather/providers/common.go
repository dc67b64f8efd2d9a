package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/skycast-app/skycast/internal/weather"
)

var errNoHTTPClient = errors.New("http client not configured")

// providerError is the JSON body OpenWeatherMap attaches to error responses.
// cod arrives as int or string depending on the endpoint.
type providerError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

// doRequest executes a single HTTP attempt through the circuit breaker.
// There is no retry: a failed attempt surfaces immediately as
// weather.ErrUpstream, and an open circuit short-circuits the same way
// without touching the network.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("%w: %v", weather.ErrUpstream, execErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()
			var apiErr providerError
			if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
				return nil, fmt.Errorf("%w: HTTP %d: %s", weather.ErrUpstream, resp.StatusCode, apiErr.Message)
			}
			return nil, fmt.Errorf("%w: HTTP %d", weather.ErrUpstream, resp.StatusCode)
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open: %v", weather.ErrUpstream, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
