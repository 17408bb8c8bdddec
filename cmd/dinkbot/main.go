// cmd/dinkbot/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"dinkbot/internal/command"
	"dinkbot/internal/config"
	"dinkbot/internal/discord"
	"dinkbot/internal/logger"
	"dinkbot/internal/middleware"
	"dinkbot/internal/music/player"
	"dinkbot/internal/music/source_resolver"
	"dinkbot/internal/music/sources/radio"
	"dinkbot/internal/music/sources/youtube"
	"dinkbot/internal/status"
	"dinkbot/internal/storage"
	"dinkbot/pkg/cmd"
	"dinkbot/pkg/ratelimit"
)

func main() {
	envFile := pflag.StringP("env", "e", ".env", "path to the env file")
	logFile := pflag.StringP("log", "l", "", "write logs to this file as well (overrides LOG_FILE)")
	pflag.Parse()

	if err := run(*envFile, *logFile); err != nil {
		log.Fatal().Err(err).Msg("dinkbot stopped")
	}
	log.Info().Msg("dinkbot exited cleanly")
}

func run(envFile, logFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	closeLog, err := logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info().Str("prefix", cfg.CommandPrefix).Msg("starting dinkbot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ytClient, err := youtube.NewHTTPClient(cfg.YouTubeProxy)
	if err != nil {
		return err
	}
	limit := rate.Limit(cfg.SearchRate)
	limiter := ratelimit.NewAdaptiveLimiter(limit, limit/10, limit*2, limit/10, 0.5)
	yt := youtube.New(ytClient, limiter)
	resolver := source_resolver.New(yt, yt, radio.New(&http.Client{Timeout: 15 * time.Second}))

	bot, err := discord.New(cfg.Token)
	if err != nil {
		return err
	}

	ctrl := player.New(resolver, bot.NewVoice(),
		player.WithQueueLimit(cfg.QueueLimit),
		player.WithRecorder(store),
	)

	reg := cmd.NewRegistry(cfg.CommandPrefix)
	deps := command.Deps{
		Gateway:          bot,
		Player:           ctrl,
		Announcer:        bot,
		AnnounceFile:     cfg.AnnounceFile,
		AnnounceDuration: cfg.AnnounceDuration,
	}
	if err := command.Register(reg, deps, middleware.WithCommandLogger(store), middleware.WithRecover()); err != nil {
		ctrl.Close()
		return err
	}

	if cfg.StatusAddr != "" {
		srv := status.New(ctrl, store)
		go func() {
			if err := srv.Run(ctx, cfg.StatusAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Str("component", "status").Err(err).Msg("status server failed")
			}
		}()
	}

	if err := bot.Start(ctx, reg); err != nil {
		ctrl.Close()
		return err
	}

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, cleaning up")

	bot.Drain()
	ctrl.Close()
	return bot.Close()
}
