package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDevice logs every call it receives, in order.
type recordingDevice struct {
	mu     sync.Mutex
	calls  []string
	closed bool
	seen   chan struct{}
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{seen: make(chan struct{}, 1024)}
}

func (d *recordingDevice) record(s string) {
	d.mu.Lock()
	d.calls = append(d.calls, s)
	d.mu.Unlock()
	d.seen <- struct{}{}
}

func (d *recordingDevice) Tone(freq uint32, dur time.Duration) error {
	d.record(fmt.Sprintf("tone %d %v", freq, dur))
	return nil
}

func (d *recordingDevice) Play(name string, rc io.ReadCloser) error {
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return err
	}
	d.record(fmt.Sprintf("play %s %s", name, data))
	return nil
}

func (d *recordingDevice) SetVolume(level float32) {
	d.record(fmt.Sprintf("volume %g", level))
}

func (d *recordingDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

func (d *recordingDevice) wait(t *testing.T, n int) []string {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-d.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d device calls", i, n)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openWith(dev Device) Opener {
	return func() (Device, error) { return dev, nil }
}

// closeTracker is a ReadCloser that records Close.
type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestDispatcher_PreservesSubmissionOrder(t *testing.T) {
	dev := newRecordingDevice()
	d := NewDispatcher(openWith(dev), quietLogger())
	defer d.Close()

	require.True(t, d.Submit(Beep(440, 100*time.Millisecond)))
	require.True(t, d.Submit(PlayBytes("rune.wav", []byte("abc"))))
	require.True(t, d.Submit(SetVolume(0.5)))

	assert.Equal(t, []string{
		"tone 440 100ms",
		"play rune.wav abc",
		"volume 0.5",
	}, dev.wait(t, 3))
}

func TestDispatcher_OrderUnderJitter(t *testing.T) {
	dev := newRecordingDevice()
	d := NewDispatcher(openWith(dev), quietLogger())
	defer d.Close()

	want := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		time.Sleep(time.Duration(rand.Intn(200)) * time.Microsecond)
		d.Submit(Beep(uint32(100+i), time.Millisecond))
		want = append(want, fmt.Sprintf("tone %d 1ms", 100+i))
	}
	assert.Equal(t, want, dev.wait(t, 50))
}

func TestDispatcher_ConcurrentProducers(t *testing.T) {
	dev := newRecordingDevice()
	d := NewDispatcher(openWith(dev), quietLogger())
	defer d.Close()

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				d.Submit(SetVolume(1))
			}
		}()
	}
	wg.Wait()
	assert.Len(t, dev.wait(t, 200), 200)
}

func TestDispatcher_PlayFileHandsOverHandle(t *testing.T) {
	dev := newRecordingDevice()
	d := NewDispatcher(openWith(dev), quietLogger())
	defer d.Close()

	f := &closeTracker{Reader: strings.NewReader("xyz")}
	d.Submit(PlayFile("custom.mp3", f))
	assert.Equal(t, []string{"play custom.mp3 xyz"}, dev.wait(t, 1))
	assert.True(t, f.closed)
}

func TestDispatcher_SubmitAfterCloseDoesNotBlock(t *testing.T) {
	dev := newRecordingDevice()
	d := NewDispatcher(openWith(dev), quietLogger())
	d.Close()

	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit")
	}

	f := &closeTracker{Reader: strings.NewReader("x")}
	returned := make(chan bool, 1)
	go func() { returned <- d.Submit(PlayFile("late.wav", f)) }()

	select {
	case ok := <-returned:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("submit blocked on a dead dispatcher")
	}
	assert.True(t, f.closed, "discarded command must release its file")
	dev.mu.Lock()
	assert.True(t, dev.closed)
	dev.mu.Unlock()
}

func TestDispatcher_DeviceOpenFailure(t *testing.T) {
	d := NewDispatcher(func() (Device, error) {
		return nil, errors.New("no output device")
	}, quietLogger())

	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after open failure")
	}
	assert.NotPanics(t, func() {
		assert.False(t, d.Submit(Beep(400, time.Millisecond)))
		d.Close()
	})
}

func TestDispatcher_DeviceErrorKeepsWorkerAlive(t *testing.T) {
	dev := &failingDevice{recordingDevice: newRecordingDevice()}
	d := NewDispatcher(openWith(dev), quietLogger())
	defer d.Close()

	d.Submit(PlayBytes("broken.mp3", []byte("not audio")))
	d.Submit(SetVolume(0.25))
	assert.Equal(t, []string{"volume 0.25"}, dev.wait(t, 1))
}

// failingDevice fails every Play and panics on tones.
type failingDevice struct {
	*recordingDevice
}

func (d *failingDevice) Play(name string, rc io.ReadCloser) error {
	rc.Close()
	return errors.New("decode failed")
}

func (d *failingDevice) Tone(uint32, time.Duration) error {
	panic("tone generator exploded")
}

func TestDispatcher_PanicKeepsWorkerAlive(t *testing.T) {
	dev := &failingDevice{recordingDevice: newRecordingDevice()}
	d := NewDispatcher(openWith(dev), quietLogger())
	defer d.Close()

	d.Submit(Beep(400, time.Millisecond))
	d.Submit(SetVolume(0.75))
	assert.Equal(t, []string{"volume 0.75"}, dev.wait(t, 1))
}
