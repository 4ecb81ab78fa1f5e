package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifesync/internal/agent"
	"github.com/lifesync/internal/api/auth"
)

// AgentHandler serves the conversational endpoints.
type AgentHandler struct {
	service     *agent.Service
	defaultUser string
}

// actingUser resolves the user a request operates on. A verified token
// binds the request to its own identity; only anonymous demo requests
// may name a user via the path parameter.
func (h *AgentHandler) actingUser(c echo.Context) string {
	if auth.Authenticated(c) {
		return auth.UserID(c)
	}
	if id := c.Param("userId"); id != "" {
		return id
	}
	if id := auth.UserID(c); id != "" {
		return id
	}
	return h.defaultUser
}

func (h *AgentHandler) Respond(c echo.Context) error {
	var body struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	userID := h.actingUser(c)
	if !auth.Authenticated(c) && body.UserID != "" {
		userID = body.UserID
	}

	resp, err := h.service.Respond(c.Request().Context(), userID, body.Message)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyMessage) {
			return echo.NewHTTPError(http.StatusBadRequest, "message is required")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, resp)
}

func (h *AgentHandler) Execute(c echo.Context) error {
	var body struct {
		UserID  string                  `json:"userId"`
		Action  *agent.CandidateAction  `json:"action"`
		Actions []agent.CandidateAction `json:"actions"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	actions := body.Actions
	if body.Action != nil {
		actions = append([]agent.CandidateAction{*body.Action}, actions...)
	}
	if len(actions) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "action is required")
	}

	userID := h.actingUser(c)
	if !auth.Authenticated(c) && body.UserID != "" {
		userID = body.UserID
	}

	results := h.service.Executor().ExecuteBatch(c.Request().Context(), userID, actions)
	for _, r := range results {
		if r.Err != "" {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to execute action")
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Action executed successfully",
	})
}

func (h *AgentHandler) History(c echo.Context) error {
	userID := h.actingUser(c)
	turns, err := h.service.Memory().History(c.Request().Context(), userID, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondList(c, turns, len(turns))
}

func (h *AgentHandler) ClearHistory(c echo.Context) error {
	userID := h.actingUser(c)
	if err := h.service.Memory().Clear(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondOK(c, map[string]string{"userId": userID, "status": "cleared"})
}
