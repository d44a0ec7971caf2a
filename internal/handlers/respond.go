package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"trendora/internal/apperrors"
	"trendora/internal/query"
)

// statusFor maps an error to an HTTP status by its domain classification.
// Anything unclassified is a storage/transport failure.
func statusFor(err error) int {
	switch {
	case apperrors.IsNotFound(err):
		return fiber.StatusNotFound
	case apperrors.IsValidation(err):
		return fiber.StatusBadRequest
	case apperrors.IsConsistency(err):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// withGuards prepends guard middleware to a route's handler chain.
func withGuards(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, handler)
}

func fail(c *fiber.Ctx, err error, message string) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// parseQueryOptions reads the generic query specification from the request
// query string: page, limit, sortField, sortOrder, searchField, searchTerm,
// relations (comma-separated) and filters (JSON object).
func parseQueryOptions(c *fiber.Ctx) (query.Options, error) {
	opts := query.Options{
		Page:        c.QueryInt("page"),
		Limit:       c.QueryInt("limit"),
		SortField:   c.Query("sortField"),
		SortOrder:   c.Query("sortOrder"),
		SearchField: c.Query("searchField"),
		SearchTerm:  c.Query("searchTerm"),
	}
	if relations := c.Query("relations"); relations != "" {
		opts.Relations = strings.Split(relations, ",")
	}
	if filters := c.Query("filters"); filters != "" {
		if err := json.Unmarshal([]byte(filters), &opts.Filters); err != nil {
			return opts, apperrors.NewValidation("malformed filters parameter: %v", err)
		}
	}
	return opts, nil
}
