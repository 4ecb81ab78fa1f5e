package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/lifesync/internal/agent"
	"github.com/lifesync/internal/api/auth"
	"github.com/lifesync/internal/calendar"
	"github.com/lifesync/internal/goals"
	"github.com/lifesync/internal/insights"
	"github.com/lifesync/internal/mood"
	"github.com/lifesync/internal/reminders"
	"github.com/lifesync/internal/tasks"
	"github.com/lifesync/internal/users"
)

// Options are the server's transport-level settings.
type Options struct {
	Port                 int
	CORSOrigin           string
	DefaultUser          string
	RespondRatePerMinute int
}

// Dependencies are the collaborators the handlers serve. Reminders may
// be nil when no database is configured.
type Dependencies struct {
	Agent     *agent.Service
	Insights  *insights.Service
	Tasks     tasks.Store
	Events    calendar.Store
	Goals     goals.Store
	Moods     mood.Store
	Users     users.Store
	Tokens    *auth.TokenService
	Reminders *reminders.Queue
}

// Server is the HTTP front of the assistant.
type Server struct {
	echo *echo.Echo
	opts Options
	deps Dependencies
}

func NewServer(opts Options, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{opts.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	server := &Server{echo: e, opts: opts, deps: deps}
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	authHandler := auth.NewHandler(s.deps.Users, s.deps.Tokens)
	s.echo.POST("/api/auth/register", authHandler.Register)
	s.echo.POST("/api/auth/login", authHandler.Login)

	api := s.echo.Group("/api", auth.OptionalAuth(s.deps.Tokens, s.opts.DefaultUser))

	// The respond endpoint fronts the language model, so it gets its
	// own rate limit.
	agentHandler := &AgentHandler{service: s.deps.Agent, defaultUser: s.opts.DefaultUser}
	api.POST("/agent/respond", agentHandler.Respond, s.respondRateLimiter())
	api.POST("/agent/execute", agentHandler.Execute)
	api.GET("/agent/history", agentHandler.History)
	api.GET("/agent/history/:userId", agentHandler.History)
	api.DELETE("/agent/history", agentHandler.ClearHistory)
	api.DELETE("/agent/history/:userId", agentHandler.ClearHistory)

	taskHandler := &TaskHandler{store: s.deps.Tasks}
	api.GET("/tasks", taskHandler.List)
	api.POST("/tasks", taskHandler.Create)
	api.GET("/tasks/:id", taskHandler.Get)
	api.PUT("/tasks/:id", taskHandler.Update)
	api.DELETE("/tasks/:id", taskHandler.Delete)

	eventHandler := &CalendarHandler{store: s.deps.Events}
	api.GET("/calendar", eventHandler.List)
	api.POST("/calendar", eventHandler.Create)
	api.GET("/calendar/:id", eventHandler.Get)
	api.PUT("/calendar/:id", eventHandler.Update)
	api.DELETE("/calendar/:id", eventHandler.Delete)

	goalHandler := &GoalHandler{store: s.deps.Goals}
	api.GET("/goals", goalHandler.List)
	api.POST("/goals", goalHandler.Create)
	api.GET("/goals/:id", goalHandler.Get)
	api.PUT("/goals/:id", goalHandler.Update)
	api.DELETE("/goals/:id", goalHandler.Delete)

	moodHandler := &MoodHandler{store: s.deps.Moods, insights: s.deps.Insights}
	api.GET("/mood", moodHandler.List)
	api.POST("/mood", moodHandler.Create)
	api.GET("/mood/insights", moodHandler.Insights)
	api.GET("/mood/:id", moodHandler.Get)
	api.DELETE("/mood/:id", moodHandler.Delete)

	reminderHandler := &ReminderHandler{queue: s.deps.Reminders}
	api.GET("/reminders", reminderHandler.List)
	api.POST("/reminders", reminderHandler.Schedule)
}

func (s *Server) respondRateLimiter() echo.MiddlewareFunc {
	perMinute := s.opts.RespondRatePerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(float64(perMinute) / 60.0),
			Burst: perMinute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return auth.UserID(c), nil
		},
	})
}

// Start runs the server until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.opts.Port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
