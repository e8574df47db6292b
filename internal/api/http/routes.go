package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// defaultThreshold is applied when an insight query does not carry its
// own threshold.
func RegisterRoutes(app *fiber.App, service *airquality.Service, defaultThreshold float64) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"cities": service.Cities(),
		})
	})

	v1.Get("/stations", func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}
		return c.JSON(fiber.Map{
			"city":     city,
			"stations": service.Stations(city),
		})
	})

	v1.Get("/coverage", func(c *fiber.Ctx) error {
		city := c.Query("city")
		station := c.Query("station")

		from, to, ok := service.Coverage(city, station)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no readings for requested selection")
		}
		return c.JSON(fiber.Map{
			"city":    city,
			"station": station,
			"from":    from,
			"to":      to,
		})
	})

	v1.Get("/insight", func(c *fiber.Ctx) error {
		var req insightQuery
		if err := req.bind(c, defaultThreshold); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.Query(req.toParams())
		if err != nil {
			if errors.Is(err, airquality.ErrNoData) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute insight")
		}

		return c.JSON(fiber.Map{
			"queryId": uuid.NewString(),
			"report":  report,
		})
	})
}

// insightQuery holds the query parameters of one insight request.
type insightQuery struct {
	City        string
	Station     string
	From        time.Time
	To          time.Time              `validate:"omitempty,gtefield=From"`
	Pollutants  []airquality.Pollutant `validate:"required,min=1"`
	Granularity airquality.Granularity `validate:"required"`
	Threshold   float64                `validate:"gt=0"`
}

func (q *insightQuery) bind(c *fiber.Ctx, defaultThreshold float64) error {
	q.City = c.Query("city")
	q.Station = c.Query("station")

	pollutantsStr := c.Query("pollutants")
	if pollutantsStr == "" {
		return errors.New("pollutants query parameter is required")
	}
	for _, raw := range strings.Split(pollutantsStr, ",") {
		p, err := airquality.ParsePollutant(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		q.Pollutants = append(q.Pollutants, p)
	}

	granularity, err := airquality.ParseGranularity(c.Query("granularity", string(airquality.Daily)))
	if err != nil {
		return err
	}
	q.Granularity = granularity

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := parseDate(fromStr)
		if err != nil {
			return err
		}
		q.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := parseDate(toStr)
		if err != nil {
			return err
		}
		q.To = to
	}

	q.Threshold = defaultThreshold
	if threshStr := c.Query("threshold"); threshStr != "" {
		thresh, err := strconv.ParseFloat(threshStr, 64)
		if err != nil {
			return errors.New("invalid threshold; must be a number")
		}
		q.Threshold = thresh
	}

	return nil
}

func (q insightQuery) toParams() airquality.QueryParams {
	return airquality.QueryParams{
		City:        q.City,
		Station:     q.Station,
		Start:       q.From,
		End:         q.To,
		Pollutants:  q.Pollutants,
		Granularity: q.Granularity,
		Threshold:   q.Threshold,
	}
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, errors.New("invalid date format; use YYYY-MM-DD or RFC3339")
}
