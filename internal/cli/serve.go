package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/announcer/internal/api"
	"github.com/gyaneshwarpardhi/announcer/internal/assets"
	"github.com/gyaneshwarpardhi/announcer/internal/audio"
	"github.com/gyaneshwarpardhi/announcer/internal/config"
	"github.com/gyaneshwarpardhi/announcer/internal/engine"
	"github.com/gyaneshwarpardhi/announcer/internal/notify"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr  string
	Mute  bool
	Token string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Listen for game state and announce events",
		Long: `Start the HTTP endpoint the game posts its state to.

Point the game at it with a gamestate_integration_*.cfg file whose uri is
http://<addr>/. Settings are reloaded when the settings file changes.

Example:
  announcer serve --addr 127.0.0.1:3000
  announcer serve --mute --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:3000", "HTTP listen address")
	cmd.Flags().BoolVar(&opts.Mute, "mute", false, "log notifications instead of playing them")
	cmd.Flags().StringVar(&opts.Token, "token", "", "require this auth token in game state posts")

	return cmd
}

func runServe(opts *ServeOptions) error {
	logger := slog.Default()

	store, err := config.NewStore(opts.Settings, logger)
	if err != nil {
		return err
	}
	cfg := store.Settings()
	if err := config.Validate(cfg); err != nil {
		slog.Warn("settings have problems, affected rules will not fire", "err", err)
	}
	slog.Info("settings loaded", "path", store.Path())

	// ── Audio pipeline ────────────────────────────────────────────────────────
	dispatcher := audio.NewDispatcher(opener(opts.Mute, logger), logger)
	defer dispatcher.Close()
	router := notify.NewRouter(dispatcher, assets.Sounds, logger)

	// ── Engine ────────────────────────────────────────────────────────────────
	eng := engine.New(cfg, router, logger)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	store.OnChange(func(newCfg *config.Settings) {
		if err := config.Validate(newCfg); err != nil {
			slog.Warn("reloaded settings have problems", "err", err)
		}
		eng.Replace(newCfg)
		slog.Info("settings reloaded", "path", store.Path())
	})
	stopWatch, err := store.Watch()
	if err != nil {
		slog.Warn("settings watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      api.New(eng, store, opts.Token),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		return err
	}
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	slog.Info("goodbye")
	return nil
}

// opener picks the output device. The speaker is opened inside the audio
// worker, never here.
func opener(mute bool, logger *slog.Logger) audio.Opener {
	if mute {
		return func() (audio.Device, error) { return audio.NewSilent(logger), nil }
	}
	return audio.OpenSpeaker
}
