package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/oceanobs/sst-data-aggregation/internal/datadir"
	"github.com/oceanobs/sst-data-aggregation/internal/sst"
	"github.com/oceanobs/sst-data-aggregation/internal/sst/sources"
	"github.com/oceanobs/sst-data-aggregation/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *sst.Service, dir *datadir.Dir) {
	v1 := app.Group("/api/v1")

	v1.Get("/sst/:dataset", func(c *fiber.Ctx) error {
		req, err := bindFetchQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ds, err := sst.ParseDataset(c.Params("dataset"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		table, err := service.Fetch(c.Context(), ds, req.granularity, req.Begin, req.End)
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(table)
	})

	v1.Get("/sst/:dataset/latest", func(c *fiber.Ctx) error {
		ds, err := sst.ParseDataset(c.Params("dataset"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		table, err := service.GetLatest(ds)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no stored table for requested dataset")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read stored table")
		}

		return c.JSON(table)
	})

	v1.Get("/sst/:dataset/history", func(c *fiber.Ctx) error {
		ds, err := sst.ParseDataset(c.Params("dataset"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		tables, err := service.History(ds)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no stored tables for requested dataset")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read stored tables")
		}

		return c.JSON(fiber.Map{
			"dataset": ds,
			"tables":  tables,
		})
	})

	v1.Post("/sst/:dataset/export", func(c *fiber.Ctx) error {
		ds, err := sst.ParseDataset(c.Params("dataset"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		table, err := service.GetLatest(ds)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no stored table for requested dataset")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read stored table")
		}

		path, err := dir.WriteTableCSV(table, string(ds)+".csv")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(fiber.Map{
			"dataset": ds,
			"path":    path,
		})
	})
}

// fetchQuery holds query parameters for the on-demand fetch endpoint.
// Begin/End are ISO calendar dates; the buoy feed requires both.
// Granularity is checked by ParseGranularity, which is case-insensitive.
type fetchQuery struct {
	Granularity string
	Begin       string `validate:"omitempty,datetime=2006-01-02"`
	End         string `validate:"omitempty,datetime=2006-01-02"`

	granularity sst.Granularity
}

func bindFetchQuery(c *fiber.Ctx) (fetchQuery, error) {
	q := fetchQuery{
		Granularity: c.Query("granularity"),
		Begin:       c.Query("begin"),
		End:         c.Query("end"),
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	gran, err := sst.ParseGranularity(q.Granularity)
	if err != nil {
		return q, err
	}
	q.granularity = gran

	return q, nil
}

// mapServiceError translates domain errors to HTTP statuses.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, sst.ErrUnknownDataset):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, sst.ErrInvalidDateFormat):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, sources.ErrUpstreamStatus):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch dataset: "+err.Error())
	}
}
