// Package notify turns fired rules into audio commands. Delivery is best
// effort: an action that cannot be resolved is logged and dropped.
package notify

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gyaneshwarpardhi/announcer/internal/audio"
	"github.com/gyaneshwarpardhi/announcer/internal/config"
	"github.com/gyaneshwarpardhi/announcer/internal/metrics"
)

// Submitter accepts audio commands without blocking.
type Submitter interface {
	Submit(cmd audio.Command) bool
}

// Router resolves actions against the bundled sounds and the filesystem.
type Router struct {
	out    Submitter
	sounds fs.FS
	log    *slog.Logger
}

func NewRouter(out Submitter, sounds fs.FS, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{out: out, sounds: sounds, log: logger}
}

// Route builds the command for a and submits it. It never fails.
func (r *Router) Route(a config.NotifyAction) {
	cmd, ok := r.command(a)
	if !ok {
		return
	}
	if !r.out.Submit(cmd) {
		metrics.NotificationsDropped.WithLabelValues("audio_unavailable").Inc()
	}
}

// SetVolume forwards a volume change. 1.0 = 100%.
func (r *Router) SetVolume(level float32) {
	r.out.Submit(audio.SetVolume(level))
}

func (r *Router) command(a config.NotifyAction) (audio.Command, bool) {
	switch a.Type {
	case config.ActionBeep:
		return audio.Beep(a.Freq, time.Duration(a.DurationMs)*time.Millisecond), true
	case config.ActionSound:
		name, data, err := r.lookup(a.Sound)
		if err != nil {
			r.drop("unknown_sound", a, err)
			return audio.Command{}, false
		}
		return audio.PlayBytes(name, data), true
	case config.ActionPlayFile:
		f, err := os.Open(a.Path)
		if err != nil {
			r.drop("unreadable_file", a, err)
			return audio.Command{}, false
		}
		return audio.PlayFile(a.Path, f), true
	}
	r.drop("invalid_action", a, nil)
	return audio.Command{}, false
}

// lookup reads a bundled sound. Names saved by older versions refer to
// .mp3 files; they resolve to the bundled sound with the same stem.
func (r *Router) lookup(name string) (string, []byte, error) {
	data, err := fs.ReadFile(r.sounds, name)
	if err == nil {
		return name, data, nil
	}
	stem := strings.TrimSuffix(name, path.Ext(name))
	matches, globErr := fs.Glob(r.sounds, stem+".*")
	if globErr != nil || len(matches) == 0 {
		return "", nil, err
	}
	data, err = fs.ReadFile(r.sounds, matches[0])
	if err != nil {
		return "", nil, err
	}
	return matches[0], data, nil
}

func (r *Router) drop(reason string, a config.NotifyAction, err error) {
	metrics.NotificationsDropped.WithLabelValues(reason).Inc()
	r.log.Debug("notification dropped", "reason", reason, "action", a.String(), "err", err)
}
