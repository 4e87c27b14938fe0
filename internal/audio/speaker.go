package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	speakerRate     = beep.SampleRate(44100)
	speakerBuffer   = 100 * time.Millisecond
	resampleQuality = 4
	toneAmplitude   = 0.4
)

// Speaker plays through the default system output. Sounds are appended to a
// play queue and rendered one after another; volume scales the whole queue.
type Speaker struct {
	rate   beep.SampleRate
	queue  *playQueue
	volume *effects.Volume
}

// OpenSpeaker initialises the system output. It is an Opener.
func OpenSpeaker() (Device, error) {
	if err := speaker.Init(speakerRate, speakerRate.N(speakerBuffer)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	q := &playQueue{}
	vol := &effects.Volume{Streamer: q, Base: 2}
	speaker.Play(vol)
	return &Speaker{rate: speakerRate, queue: q, volume: vol}, nil
}

func (s *Speaker) Tone(freq uint32, d time.Duration) error {
	if freq == 0 || d <= 0 {
		return fmt.Errorf("tone %dHz for %v: invalid", freq, d)
	}
	s.append(beep.Take(s.rate.N(d), sine(s.rate, float64(freq))))
	return nil
}

func (s *Speaker) Play(name string, rc io.ReadCloser) error {
	stream, format, err := decode(name, rc)
	if err != nil {
		_ = rc.Close()
		return fmt.Errorf("decode %s: %w", name, err)
	}
	var src beep.Streamer = stream
	if format.SampleRate != s.rate {
		src = beep.Resample(resampleQuality, format.SampleRate, s.rate, stream)
	}
	s.append(beep.Seq(src, beep.Callback(func() { _ = stream.Close() })))
	return nil
}

// SetVolume maps a linear level onto the exponential volume effect.
func (s *Speaker) SetVolume(level float32) {
	speaker.Lock()
	defer speaker.Unlock()
	if level <= 0 {
		s.volume.Silent = true
		return
	}
	s.volume.Silent = false
	s.volume.Volume = math.Log2(float64(level))
}

func (s *Speaker) Close() error {
	speaker.Close()
	return nil
}

func (s *Speaker) append(st beep.Streamer) {
	speaker.Lock()
	s.queue.add(st)
	speaker.Unlock()
}

func decode(name string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3", "":
		return mp3.Decode(rc)
	case ".ogg", ".oga":
		return vorbis.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	}
	return nil, beep.Format{}, errors.New("unsupported format")
}

func sine(rate beep.SampleRate, freq float64) beep.Streamer {
	step := 2 * math.Pi * freq / float64(rate)
	var pos float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := toneAmplitude * math.Sin(pos)
			samples[i][0], samples[i][1] = v, v
			pos += step
		}
		return len(samples), true
	})
}

// playQueue renders streamers back to back and emits silence when empty, so
// the speaker keeps it forever. Guarded by speaker.Lock.
type playQueue struct {
	streamers []beep.Streamer
}

func (q *playQueue) add(s beep.Streamer) {
	q.streamers = append(q.streamers, s)
}

func (q *playQueue) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		if len(q.streamers) == 0 {
			for i := filled; i < len(samples); i++ {
				samples[i] = [2]float64{}
			}
			break
		}
		n, ok := q.streamers[0].Stream(samples[filled:])
		if !ok {
			q.streamers[0] = nil
			q.streamers = q.streamers[1:]
		}
		filled += n
	}
	return len(samples), true
}

func (q *playQueue) Err() error { return nil }
