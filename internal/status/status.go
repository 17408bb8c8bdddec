// Package status serves a read-only JSON view of the bot's playback state.
package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"dinkbot/internal/music/player"
	"dinkbot/internal/storage"
)

type Player interface {
	Guilds() []string
	Snapshot(ctx context.Context, guildID string) (player.Snapshot, error)
}

type History interface {
	FetchCommandHistory(guildID string) ([]storage.CommandHistoryRecord, error)
	FetchTrackHistory(guildID string) ([]storage.TrackHistoryRecord, error)
}

type Server struct {
	router  *gin.Engine
	player  Player
	history History
	started time.Time
}

// New builds the router. history may be nil.
func New(p Player, h History) *Server {
	s := &Server{
		router:  gin.New(),
		player:  p,
		history: h,
		started: time.Now(),
	}
	s.router.Use(gin.Recovery(), requestLogger())
	s.router.GET("/status", s.status)
	s.router.GET("/guilds/:id", s.guild)
	s.router.GET("/guilds/:id/history", s.guildHistory)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "status").Str("addr", addr).Msg("status server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) status(c *gin.Context) {
	ctx := c.Request.Context()
	guilds := s.player.Guilds()
	playing := 0
	for _, id := range guilds {
		snap, err := s.player.Snapshot(ctx, id)
		if err == nil && snap.State != player.Idle {
			playing++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"guilds":  len(guilds),
		"playing": playing,
	})
}

func (s *Server) guild(c *gin.Context) {
	snap, err := s.player.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) guildHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}
	id := c.Param("id")
	tracks, err := s.history.FetchTrackHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	commands, err := s.history.FetchCommandHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks, "commands": commands})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("component", "status").
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("code", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
