package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// The client consumes {success, data} envelopes; list endpoints add a
// count field.

func respondOK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondCreated(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondList(c echo.Context, data interface{}, count int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
		"count":   count,
	})
}
