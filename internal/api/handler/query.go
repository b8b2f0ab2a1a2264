package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// queryInt parses a numeric query parameter, falling back to def when it is
// absent or not a positive integer.
func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

// queryBool parses an optional boolean query parameter. Unparseable values
// are treated as absent.
func queryBool(c echo.Context, name string) *bool {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
