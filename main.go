// Command wager-leaderboard is the Discord bot that posts the monthly wager leaderboard.
// It:
//   - Loads configuration and initializes structured logging.
//   - Optionally connects to Postgres and migrates the publish audit log.
//   - Connects to the Discord gateway, publishes the leaderboard once ready and
//     again on the configured schedule, and answers the refresh command.
//   - Exposes a minimal HTTP server with /healthz, /readyz, /status, /metrics
//     and an authenticated /admin/publish.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/onnwee/wager-leaderboard/config"
	"github.com/onnwee/wager-leaderboard/db"
	"github.com/onnwee/wager-leaderboard/discord"
	"github.com/onnwee/wager-leaderboard/hypeapi"
	"github.com/onnwee/wager-leaderboard/leaderboard"
	"github.com/onnwee/wager-leaderboard/scheduler"
	"github.com/onnwee/wager-leaderboard/server"
	"github.com/onnwee/wager-leaderboard/telemetry"
)

const publishJob = "leaderboard"

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()), slog.String("format", map[bool]string{true: "json", false: "text"}[format == "json"]))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config invalid", slog.Any("err", err))
		os.Exit(1)
	}

	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdownTracing, err := telemetry.InitTracing("wager-leaderboard", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional audit log
	var runs *db.RunStore
	if cfg.AuditEnabled() {
		database, err := db.Connect(cfg.DBDsn)
		if err != nil {
			slog.Error("failed to open db", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("failed to close database", slog.Any("err", err))
			}
		}()

		// Versioned migrations first, embedded SQL as fallback.
		slog.Info("running database migrations", slog.String("component", "db_migrate"))
		if err := db.RunMigrations(database); err != nil {
			slog.Warn("versioned migrations failed, attempting fallback to embedded SQL",
				slog.Any("err", err),
				slog.String("component", "db_migrate"))
			mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			err = db.Migrate(mctx, database)
			cancel()
			if err != nil {
				slog.Error("failed to migrate db (both versioned and embedded SQL failed)", slog.Any("err", err))
				os.Exit(1)
			}
		}
		runs = &db.RunStore{DB: database}
	} else {
		slog.Info("publish audit log disabled (DB_DSN not set)")
	}

	bot, err := discord.New(cfg.DiscordToken)
	if err != nil {
		slog.Error("discord session init failed", slog.Any("err", err))
		os.Exit(1)
	}

	pub := &leaderboard.Publisher{
		Stats:        &hypeapi.Client{APIKey: cfg.StatsAPIKey, BaseURL: cfg.StatsURL},
		Chat:         bot,
		ChannelID:    cfg.ChannelID,
		Limit:        cfg.LeaderboardSize,
		FetchTimeout: cfg.StatsTimeout,
	}
	if runs != nil {
		pub.Recorder = runs
	}

	sched := scheduler.New()
	if err := sched.Add(scheduler.Job{
		Name:       publishJob,
		Spec:       cfg.Schedule,
		RunOnStart: true,
		Run: func(jctx context.Context) {
			pub.Publish(leaderboard.WithTrigger(jctx, "schedule"))
		},
	}); err != nil {
		slog.Error("invalid leaderboard schedule", slog.Any("err", err))
		os.Exit(1)
	}

	bot.HandleCommands(&discord.CommandHandler{Command: cfg.Command, Publisher: pub, BaseContext: ctx})

	// The first publish needs the gateway session, so scheduling starts on Ready.
	schedDone := make(chan struct{})
	var schedStarted atomic.Bool
	bot.OnReady(func() {
		schedStarted.Store(true)
		go func() {
			defer close(schedDone)
			if err := sched.Run(ctx); err != nil {
				slog.Error("scheduler stopped with error", slog.Any("err", err))
			}
		}()
	})

	if err := bot.Open(); err != nil {
		slog.Error("discord connect failed", slog.Any("err", err))
		os.Exit(1)
	}

	if cfg.HTTPEnabled() {
		deps := server.Deps{
			Publisher: pub,
			Ready:     bot.Ready,
			ChannelID: cfg.ChannelID,
			Schedule:  cfg.Schedule,
			NextRun:   func() (time.Time, bool) { return sched.Next(publishJob) },
		}
		if runs != nil {
			deps.Runs = runs
		}
		go func() {
			if err := server.Start(ctx, deps, cfg.HTTPAddr); err != nil {
				slog.Error("http server exited with error", slog.Any("err", err))
			}
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")

	// Let in-flight publishes finish before the session closes.
	if schedStarted.Load() {
		select {
		case <-schedDone:
		case <-time.After(scheduler.DefaultShutdownTimeout + time.Second):
		}
	}
	if err := bot.Close(); err != nil {
		slog.Warn("discord close failed", slog.Any("err", err))
	}
}
