package audio

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gyaneshwarpardhi/announcer/internal/metrics"
)

// Device renders audio. It is used only from the dispatcher's worker goroutine.
type Device interface {
	// Tone appends a sine tone to the play queue.
	Tone(freq uint32, d time.Duration) error
	// Play decodes rc and appends it to the play queue. The device owns rc
	// and closes it when playback ends or decoding fails.
	Play(name string, rc io.ReadCloser) error
	// SetVolume applies to everything rendered from now on. 1.0 = 100%.
	SetVolume(level float32)
	Close() error
}

var (
	_ Device = (*Speaker)(nil)
	_ Device = (*Silent)(nil)
)

// Opener creates the device inside the worker goroutine.
type Opener func() (Device, error)

// Dispatcher serialises audio commands onto a single worker that owns the
// device for the life of the process.
type Dispatcher struct {
	queue *commandQueue
	log   *slog.Logger
	done  chan struct{}
}

// NewDispatcher starts the worker. If open fails the worker exits, audio is
// disabled for the process and later submissions are discarded.
func NewDispatcher(open Opener, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		queue: newCommandQueue(),
		log:   logger,
		done:  make(chan struct{}),
	}
	go d.run(open)
	return d
}

// Submit enqueues cmd without blocking. It reports false when the worker is
// gone, in which case the command's resources are released.
func (d *Dispatcher) Submit(cmd Command) bool {
	if !d.queue.Enqueue(cmd) {
		cmd.release()
		metrics.AudioCommands.WithLabelValues(cmd.Kind.String(), "discarded").Inc()
		return false
	}
	metrics.AudioQueueDepth.Set(float64(d.queue.Len()))
	return true
}

// Close stops the worker. Pending commands are discarded, not played.
func (d *Dispatcher) Close() {
	for _, cmd := range d.queue.Close() {
		cmd.release()
	}
}

// Done is closed once the worker has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) run(open Opener) {
	defer close(d.done)

	dev, err := open()
	if err != nil {
		d.log.Error("audio device unavailable, notifications disabled", "err", err)
		d.Close()
		return
	}
	defer dev.Close()
	d.log.Debug("audio worker started")

	for {
		cmd, ok := d.queue.Dequeue()
		if !ok {
			d.log.Debug("audio worker stopped")
			return
		}
		metrics.AudioQueueDepth.Set(float64(d.queue.Len()))
		d.apply(dev, cmd)
	}
}

func (d *Dispatcher) apply(dev Device, cmd Command) {
	status := "ok"
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("audio command panicked", "kind", cmd.Kind, "panic", r)
			status = "error"
		}
		metrics.AudioCommands.WithLabelValues(cmd.Kind.String(), status).Inc()
	}()

	var err error
	switch cmd.Kind {
	case KindBeep:
		err = dev.Tone(cmd.Freq, cmd.Duration)
	case KindPlayBytes:
		err = dev.Play(cmd.Name, io.NopCloser(bytes.NewReader(cmd.Data)))
	case KindPlayFile:
		err = dev.Play(cmd.Name, cmd.File)
	case KindSetVolume:
		dev.SetVolume(cmd.Volume)
	default:
		cmd.release()
		err = fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
	if err != nil {
		status = "error"
		d.log.Debug("audio command failed", "kind", cmd.Kind, "name", cmd.Name, "err", err)
	}
}
