package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifesync/internal/api/auth"
	"github.com/lifesync/internal/tasks"
)

type TaskHandler struct {
	store tasks.Store
}

func (h *TaskHandler) List(c echo.Context) error {
	filter := tasks.Filter{
		Status:   tasks.Status(c.QueryParam("status")),
		Priority: tasks.Priority(c.QueryParam("priority")),
	}
	if v := c.QueryParam("aiSuggested"); v != "" {
		suggested := v == "true"
		filter.AISuggested = &suggested
	}

	items, err := h.store.List(c.Request().Context(), auth.UserID(c), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondList(c, items, len(items))
}

func (h *TaskHandler) Create(c echo.Context) error {
	var t tasks.Task
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if t.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	t.UserID = auth.UserID(c)

	if err := h.store.Create(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondCreated(c, &t)
}

func (h *TaskHandler) Get(c echo.Context) error {
	t, err := h.store.GetByID(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, t)
}

func (h *TaskHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	existing, err := h.store.GetByID(ctx, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var body struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Priority    *string    `json:"priority"`
		Status      *string    `json:"status"`
		DueDate     *time.Time `json:"dueDate"`
		Tags        *[]string  `json:"tags"`
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
	if body.Priority != nil {
		existing.Priority = tasks.Priority(*body.Priority)
	}
	if body.DueDate != nil {
		existing.DueDate = body.DueDate
	}
	if body.Tags != nil {
		existing.Tags = *body.Tags
	}
	if body.Status != nil {
		status := tasks.Status(*body.Status)
		// Completing a task stamps CompletedAt; leaving the completed
		// state clears it.
		if status == tasks.StatusCompleted && existing.Status != tasks.StatusCompleted {
			now := time.Now()
			existing.CompletedAt = &now
		} else if status != tasks.StatusCompleted {
			existing.CompletedAt = nil
		}
		existing.Status = status
	}

	if err := h.store.Update(ctx, existing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, existing)
}

func (h *TaskHandler) Delete(c echo.Context) error {
	err := h.store.Delete(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, map[string]string{"id": c.Param("id"), "status": "deleted"})
}
