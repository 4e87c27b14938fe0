// Package audio owns the output device. A single worker goroutine holds the
// device and applies commands received over an unbounded queue, so producers
// never wait on playback.
package audio

import (
	"io"
	"time"
)

// Kind discriminates Command variants.
type Kind int

const (
	KindBeep Kind = iota + 1
	KindPlayBytes
	KindPlayFile
	KindSetVolume
)

func (k Kind) String() string {
	switch k {
	case KindBeep:
		return "beep"
	case KindPlayBytes:
		return "play_bytes"
	case KindPlayFile:
		return "play_file"
	case KindSetVolume:
		return "set_volume"
	}
	return "unknown"
}

// Command is a request for the audio worker. Exactly one variant is active,
// selected by Kind. Submitting a command hands its buffer or file to the
// worker; the sender must not touch them afterwards.
type Command struct {
	Kind Kind

	// KindBeep
	Freq     uint32
	Duration time.Duration

	// KindPlayBytes, KindPlayFile. Name selects the decoder by extension.
	Name string
	Data []byte
	File io.ReadCloser

	// KindSetVolume: 1.0 = 100%
	Volume float32
}

func Beep(freq uint32, d time.Duration) Command {
	return Command{Kind: KindBeep, Freq: freq, Duration: d}
}

func PlayBytes(name string, data []byte) Command {
	return Command{Kind: KindPlayBytes, Name: name, Data: data}
}

func PlayFile(name string, f io.ReadCloser) Command {
	return Command{Kind: KindPlayFile, Name: name, File: f}
}

func SetVolume(level float32) Command {
	return Command{Kind: KindSetVolume, Volume: level}
}

// release frees resources held by a command that will never be applied.
func (c Command) release() {
	if c.File != nil {
		_ = c.File.Close()
	}
}
