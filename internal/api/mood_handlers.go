package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifesync/internal/api/auth"
	"github.com/lifesync/internal/insights"
	"github.com/lifesync/internal/mood"
)

type MoodHandler struct {
	store    mood.Store
	insights *insights.Service
}

func (h *MoodHandler) List(c echo.Context) error {
	filter := mood.Filter{Mood: mood.Mood(c.QueryParam("mood"))}
	if v := c.QueryParam("since"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "since must be YYYY-MM-DD")
		}
		filter.Since = t
	}
	if v := c.QueryParam("until"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "until must be YYYY-MM-DD")
		}
		filter.Until = t
	}

	items, err := h.store.List(c.Request().Context(), auth.UserID(c), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondList(c, items, len(items))
}

func (h *MoodHandler) Create(c echo.Context) error {
	var entry mood.Entry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if entry.Mood == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "mood is required")
	}
	if entry.Energy < 1 || entry.Energy > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "energy must be between 1 and 5")
	}
	entry.UserID = auth.UserID(c)

	if err := h.store.Create(c.Request().Context(), &entry); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondCreated(c, &entry)
}

func (h *MoodHandler) Get(c echo.Context) error {
	entry, err := h.store.GetByID(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, mood.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "mood entry not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, entry)
}

func (h *MoodHandler) Delete(c echo.Context) error {
	err := h.store.Delete(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, mood.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "mood entry not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, map[string]string{"id": c.Param("id"), "status": "deleted"})
}

func (h *MoodHandler) Insights(c echo.Context) error {
	days := 7
	if v := c.QueryParam("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
		days = parsed
	}

	result, err := h.insights.AnalyzeMood(c.Request().Context(), auth.UserID(c), days)
	if err != nil {
		if errors.Is(err, insights.ErrNoEntries) {
			return echo.NewHTTPError(http.StatusNotFound, "no mood entries to analyze")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, result)
}
