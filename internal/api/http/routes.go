package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/district-weather/internal/districts"
	"github.com/i474232898/district-weather/internal/store"
	"github.com/i474232898/district-weather/internal/weather"
)

var validate = validator.New()

// SnapshotReader is the read side of the snapshot store.
type SnapshotReader interface {
	Read(path string) (weather.Snapshot, error)
	LoadLocal(districtID int, path string) ([]*weather.Info, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, snapshots SnapshotReader, path string) {
	v1 := app.Group("/api/v1")

	v1.Get("/districts", func(c *fiber.Ctx) error {
		ids := districts.RegionIDs()
		out := make([]districtView, 0, len(ids))
		for _, id := range ids {
			pid, _ := districts.ProviderID(districts.GroupRegion, id)
			d, _ := districts.ByProviderID(pid)
			out = append(out, districtView{
				ID:       id,
				District: d,
				Adjacent: districts.Adjacent(id),
			})
		}
		return c.JSON(out)
	})

	v1.Get("/weather/local", func(c *fiber.Ctx) error {
		q, err := parseLocalQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		data, err := snapshots.LoadLocal(q.District, path)
		if err != nil {
			return loadErrorResponse(err)
		}

		return c.JSON(fiber.Map{
			"district": q.District,
			"data":     data,
		})
	})

	v1.Get("/weather/snapshot", func(c *fiber.Ctx) error {
		snap, err := snapshots.Read(path)
		if err != nil {
			return loadErrorResponse(err)
		}
		return c.JSON(snap)
	})
}

type districtView struct {
	ID int `json:"id"`
	districts.District
	Adjacent []int `json:"adjacent"`
}

// localQuery holds query parameters for the local weather endpoint.
type localQuery struct {
	District int `validate:"gte=0"`
}

func parseLocalQuery(c *fiber.Ctx) (localQuery, error) {
	var q localQuery

	if raw := c.Query("district"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("district must be an integer")
		}
		q.District = id
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func loadErrorResponse(err error) error {
	switch {
	case errors.Is(err, store.ErrUnknownDistrictID):
		return fiber.NewError(fiber.StatusNotFound, "no such district")
	case errors.Is(err, store.ErrSourceNotDefined),
		errors.Is(err, store.ErrSourceNotReadable),
		errors.Is(err, store.ErrMissingDataSection):
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather snapshot is not available yet")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load weather snapshot")
	}
}
