package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifesync/internal/api/auth"
	"github.com/lifesync/internal/calendar"
)

type CalendarHandler struct {
	store calendar.Store
}

func (h *CalendarHandler) List(c echo.Context) error {
	filter := calendar.Filter{
		Type: calendar.EventType(c.QueryParam("type")),
		Date: c.QueryParam("date"),
	}
	items, err := h.store.List(c.Request().Context(), auth.UserID(c), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondList(c, items, len(items))
}

func (h *CalendarHandler) Create(c echo.Context) error {
	var ev calendar.Event
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if ev.Title == "" || ev.Date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and date are required")
	}
	ev.UserID = auth.UserID(c)

	if err := h.store.Create(c.Request().Context(), &ev); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondCreated(c, &ev)
}

func (h *CalendarHandler) Get(c echo.Context) error {
	ev, err := h.store.GetByID(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, ev)
}

func (h *CalendarHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	existing, err := h.store.GetByID(ctx, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Type        *string `json:"type"`
		Date        *string `json:"date"`
		StartTime   *string `json:"startTime"`
		EndTime     *string `json:"endTime"`
		IsAllDay    *bool   `json:"isAllDay"`
		Location    *string `json:"location"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if body.Title != nil {
		existing.Title = *body.Title
	}
	if body.Description != nil {
		existing.Description = *body.Description
	}
	if body.Type != nil {
		existing.Type = calendar.EventType(*body.Type)
	}
	if body.Date != nil {
		existing.Date = *body.Date
	}
	if body.StartTime != nil {
		existing.StartTime = *body.StartTime
	}
	if body.EndTime != nil {
		existing.EndTime = *body.EndTime
	}
	if body.IsAllDay != nil {
		existing.IsAllDay = *body.IsAllDay
	}
	if body.Location != nil {
		existing.Location = *body.Location
	}

	if err := h.store.Update(ctx, existing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, existing)
}

func (h *CalendarHandler) Delete(c echo.Context) error {
	err := h.store.Delete(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, map[string]string{"id": c.Param("id"), "status": "deleted"})
}
