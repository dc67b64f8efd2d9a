package httpapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skycast-app/skycast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. The handlers
// are a thin presentation boundary: every state change goes through the
// service, and responses return the resulting state snapshot so clients can
// re-render from it.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(service.Snapshot())
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		coords, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		service.FetchWeather(c.Context(), coords.Lat, coords.Lon)
		return c.JSON(service.Snapshot())
	})

	v1.Get("/weather/city", func(c *fiber.Ctx) error {
		city := c.Query("q")
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		service.FetchWeatherByCity(c.Context(), city)
		return c.JSON(service.Snapshot())
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		return c.JSON(fiber.Map{
			"locations": service.SearchLocations(c.Context(), query),
		})
	})

	v1.Put("/preferences/unit", func(c *fiber.Ctx) error {
		var req struct {
			Unit weather.Unit `json:"unit" validate:"required,oneof=metric imperial"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		service.SetUnit(req.Unit)
		return c.JSON(service.Snapshot())
	})

	v1.Put("/preferences/theme", func(c *fiber.Ctx) error {
		var req struct {
			Theme weather.Theme `json:"theme" validate:"required,oneof=light dark"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		service.SetTheme(req.Theme)
		return c.JSON(service.Snapshot())
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"favorites": service.Snapshot().Favorites,
		})
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		loc, err := parseLocationBody(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		service.AddToFavorites(loc)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"favorites": service.Snapshot().Favorites,
		})
	})

	v1.Post("/favorites/toggle", func(c *fiber.Ctx) error {
		loc, err := parseLocationBody(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		service.ToggleFavorite(loc)
		return c.JSON(fiber.Map{
			"favorites": service.Snapshot().Favorites,
		})
	})

	v1.Delete("/favorites/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "favorite id must be an integer")
		}

		service.RemoveFromFavorites(id)
		return c.JSON(fiber.Map{
			"favorites": service.Snapshot().Favorites,
		})
	})

	v1.Post("/reset", func(c *fiber.Ctx) error {
		service.Reset()
		return c.JSON(service.Snapshot())
	})
}

// coordsQuery holds a validated coordinate pair.
type coordsQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseCoordsQuery(c *fiber.Ctx) (coordsQuery, error) {
	var q coordsQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, fiber.NewError(fiber.StatusBadRequest, "lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "lon must be a number")
	}

	q.Lat = lat
	q.Lon = lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func parseLocationBody(c *fiber.Ctx) (weather.Location, error) {
	var loc weather.Location
	if err := c.BodyParser(&loc); err != nil {
		return loc, err
	}
	if loc.ID == 0 || loc.Name == "" {
		return loc, fiber.NewError(fiber.StatusBadRequest, "location id and name are required")
	}
	return loc, nil
}
