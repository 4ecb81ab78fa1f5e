package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifesync/internal/api/auth"
	"github.com/lifesync/internal/goals"
)

type GoalHandler struct {
	store goals.Store
}

func (h *GoalHandler) List(c echo.Context) error {
	filter := goals.Filter{
		Status:   goals.Status(c.QueryParam("status")),
		Category: goals.Category(c.QueryParam("category")),
	}
	items, err := h.store.List(c.Request().Context(), auth.UserID(c), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondList(c, items, len(items))
}

func (h *GoalHandler) Create(c echo.Context) error {
	var g goals.Goal
	if err := c.Bind(&g); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if g.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	g.UserID = auth.UserID(c)
	g.ClampProgress(time.Now())

	if err := h.store.Create(c.Request().Context(), &g); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondCreated(c, &g)
}

func (h *GoalHandler) Get(c echo.Context) error {
	g, err := h.store.GetByID(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, goals.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "goal not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, g)
}

func (h *GoalHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	existing, err := h.store.GetByID(ctx, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, goals.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "goal not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var body struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Category    *string    `json:"category"`
		Priority    *string    `json:"priority"`
		Status      *string    `json:"status"`
		Progress    *int       `json:"progress"`
		TargetDate  *time.Time `json:"targetDate"`
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
	if body.Category != nil {
		existing.Category = goals.Category(*body.Category)
	}
	if body.Priority != nil {
		existing.Priority = *body.Priority
	}
	if body.Status != nil {
		existing.Status = goals.Status(*body.Status)
	}
	if body.TargetDate != nil {
		existing.TargetDate = body.TargetDate
	}
	if body.Progress != nil {
		existing.Progress = *body.Progress
	}
	existing.ClampProgress(time.Now())

	if err := h.store.Update(ctx, existing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, existing)
}

func (h *GoalHandler) Delete(c echo.Context) error {
	err := h.store.Delete(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, goals.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "goal not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, map[string]string{"id": c.Param("id"), "status": "deleted"})
}
