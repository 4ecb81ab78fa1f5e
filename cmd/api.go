package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/lifesync/internal/agent"
	"github.com/lifesync/internal/api"
	"github.com/lifesync/internal/api/auth"
	"github.com/lifesync/internal/calendar"
	"github.com/lifesync/internal/config"
	"github.com/lifesync/internal/conversation"
	"github.com/lifesync/internal/database"
	"github.com/lifesync/internal/goals"
	"github.com/lifesync/internal/insights"
	"github.com/lifesync/internal/llm"
	"github.com/lifesync/internal/logging"
	"github.com/lifesync/internal/mood"
	"github.com/lifesync/internal/reminders"
	"github.com/lifesync/internal/tasks"
	"github.com/lifesync/internal/users"
)

// APICommand returns the CLI command for starting the API server
func APICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Start the LifeSync API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Human-readable console log output",
				Value: true,
			},
		},
		Action: runAPI,
	}
}

func runAPI(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}

	logging.Setup(c.String("log-level"), c.Bool("pretty"))

	ctx := context.Background()

	model, err := buildModel(ctx, cfg)
	if err != nil {
		return err
	}

	deps, queue, err := buildDependencies(ctx, cfg, model)
	if err != nil {
		return err
	}
	if queue != nil {
		if err := queue.Start(ctx); err != nil {
			return fmt.Errorf("failed to start reminder queue: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := queue.Stop(stopCtx); err != nil {
				log.Warn().Err(err).Msg("reminder queue did not stop cleanly")
			}
		}()
	}

	opts := api.Options{
		Port:                 cfg.Server.Port,
		CORSOrigin:           cfg.Server.CORSOrigin,
		DefaultUser:          cfg.Agent.DefaultUser,
		RespondRatePerMinute: cfg.Agent.RespondRatePerMinute,
	}

	log.Info().Int("port", opts.Port).Msg("starting LifeSync API server")
	return api.NewServer(opts, deps).Start()
}

// buildModel assembles the generation client: the configured provider
// as primary, the other one as fallback when its key is present.
func buildModel(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	newProvider := func(name string) (llm.Client, error) {
		providerCfg := llm.Config{
			APIKey:    cfg.AIString(name, "api_key"),
			Model:     cfg.AIString(name, "model"),
			MaxTokens: cfg.AIInt(name, "max_tokens"),
		}
		switch name {
		case "gemini":
			return llm.NewGemini(ctx, providerCfg)
		case "groq":
			return llm.NewGroq(providerCfg)
		}
		return nil, fmt.Errorf("unknown AI provider %q", name)
	}

	primary, err := newProvider(cfg.General.DefaultAI)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.General.DefaultAI, err)
	}

	var fallback llm.Client
	for name := range cfg.AI {
		if name == cfg.General.DefaultAI || cfg.AIString(name, "api_key") == "" {
			continue
		}
		fb, err := newProvider(name)
		if err != nil {
			log.Warn().Err(err).Str("provider", name).Msg("skipping fallback AI provider")
			continue
		}
		fallback = fb
		log.Info().Str("provider", name).Msg("configured fallback AI provider")
		break
	}

	timeout := time.Duration(cfg.Agent.GenerationTimeoutSeconds) * time.Second
	return llm.NewResilientClientWithDefaults(primary, fallback, timeout), nil
}

// buildDependencies wires stores against Postgres when a database URL is
// configured and falls back to in-memory stores otherwise.
func buildDependencies(ctx context.Context, cfg *config.Config, model llm.Client) (api.Dependencies, *reminders.Queue, error) {
	deps := api.Dependencies{
		Tokens: auth.NewTokenService(cfg.Auth.JWTSecret),
	}

	var (
		taskStore  tasks.Store
		eventStore calendar.Store
		goalStore  goals.Store
		moodStore  mood.Store
		turnStore  conversation.Store
		queue      *reminders.Queue
	)

	db, err := database.NewDB(cfg.Database.URL)
	if err != nil {
		log.Warn().Err(err).Msg("no database configured, using in-memory stores")
		taskStore = tasks.NewInMemoryStore()
		eventStore = calendar.NewInMemoryStore()
		goalStore = goals.NewInMemoryStore()
		moodStore = mood.NewInMemoryStore()
		turnStore = conversation.NewInMemoryStore()
		deps.Users = users.NewInMemoryStore()
	} else {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return deps, nil, err
		}
		taskStore = tasks.NewPostgresStore(db)
		eventStore = calendar.NewPostgresStore(db)
		goalStore = goals.NewPostgresStore(db)
		moodStore = mood.NewPostgresStore(db)
		turnStore = conversation.NewPostgresStore(db)
		deps.Users = users.NewPostgresStore(db)

		dbURL, _ := database.ResolveURL(cfg.Database.URL)
		queue, err = reminders.NewQueue(ctx, dbURL, nil)
		if err != nil {
			log.Warn().Err(err).Msg("reminder queue unavailable")
			queue = nil
		}
	}

	executor := agent.NewExecutor(taskStore, eventStore, goalStore, moodStore)
	memory := agent.NewMemory(turnStore)
	deps.Agent = agent.NewService(model, memory, agent.NewSequencer(executor), executor, cfg.Agent.HistoryLimit)
	deps.Insights = insights.NewService(model, moodStore)
	deps.Tasks = taskStore
	deps.Events = eventStore
	deps.Goals = goalStore
	deps.Moods = moodStore
	deps.Reminders = queue

	return deps, queue, nil
}
