package audio

import (
	"io"
	"log/slog"
	"time"
)

// Silent is a Device that only logs. It backs --mute and hosts without an
// output device.
type Silent struct {
	log *slog.Logger
}

func NewSilent(logger *slog.Logger) *Silent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Silent{log: logger}
}

func (s *Silent) Tone(freq uint32, d time.Duration) error {
	s.log.Info("beep", "freq", freq, "duration", d)
	return nil
}

func (s *Silent) Play(name string, rc io.ReadCloser) error {
	s.log.Info("play", "name", name)
	return rc.Close()
}

func (s *Silent) SetVolume(level float32) {
	s.log.Info("volume", "level", level)
}

func (s *Silent) Close() error { return nil }
