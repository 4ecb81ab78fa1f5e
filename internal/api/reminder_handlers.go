package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifesync/internal/api/auth"
	"github.com/lifesync/internal/reminders"
)

type ReminderHandler struct {
	queue *reminders.Queue
}

func (h *ReminderHandler) Schedule(c echo.Context) error {
	if h.queue == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "reminders require a configured database")
	}

	var body struct {
		SourceType   string    `json:"sourceType"`
		SourceID     string    `json:"sourceId"`
		Title        string    `json:"title"`
		ScheduledFor time.Time `json:"scheduledFor"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if body.Title == "" || body.ScheduledFor.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "title and scheduledFor are required")
	}

	reminder := &reminders.Reminder{
		UserID:       auth.UserID(c),
		SourceType:   reminders.SourceType(body.SourceType),
		SourceID:     body.SourceID,
		Title:        body.Title,
		ScheduledFor: body.ScheduledFor,
	}
	if err := h.queue.Schedule(c.Request().Context(), reminder); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondCreated(c, reminder)
}

func (h *ReminderHandler) List(c echo.Context) error {
	if h.queue == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "reminders require a configured database")
	}

	items, err := h.queue.ListPending(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondList(c, items, len(items))
}
