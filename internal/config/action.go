package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ActionType discriminates NotifyAction variants.
type ActionType string

const (
	ActionBeep     ActionType = "beep"
	ActionSound    ActionType = "sound"
	ActionPlayFile ActionType = "playfile"
)

// NotifyAction says what to play when a rule fires. Exactly one variant is
// active, selected by Type; fields of other variants are zero.
type NotifyAction struct {
	Type ActionType

	// beep
	Freq       uint32
	DurationMs uint16

	// sound: name of a bundled asset
	Sound string

	// playfile: path on the local filesystem
	Path string
}

func Beep(freq uint32, durationMs uint16) NotifyAction {
	return NotifyAction{Type: ActionBeep, Freq: freq, DurationMs: durationMs}
}

func Sound(name string) NotifyAction {
	return NotifyAction{Type: ActionSound, Sound: name}
}

func PlayFile(path string) NotifyAction {
	return NotifyAction{Type: ActionPlayFile, Path: path}
}

// DefaultAction is used when an action is missing entirely.
func DefaultAction() NotifyAction {
	return Beep(400, 100)
}

// wire is the flat tagged form shared by the JSON and YAML codecs.
type wire struct {
	Type       ActionType `json:"type" yaml:"type"`
	Freq       uint32     `json:"freq,omitempty" yaml:"freq,omitempty"`
	DurationMs uint16     `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Sound      string     `json:"sound,omitempty" yaml:"sound,omitempty"`
	Path       string     `json:"path,omitempty" yaml:"path,omitempty"`
}

func (a NotifyAction) toWire() wire {
	switch a.Type {
	case ActionBeep:
		return wire{Type: a.Type, Freq: a.Freq, DurationMs: a.DurationMs}
	case ActionSound:
		return wire{Type: a.Type, Sound: a.Sound}
	case ActionPlayFile:
		return wire{Type: a.Type, Path: a.Path}
	}
	return wire{Type: a.Type}
}

func fromWire(w wire) (NotifyAction, error) {
	switch w.Type {
	case ActionBeep:
		return Beep(w.Freq, w.DurationMs), nil
	case ActionSound:
		return Sound(w.Sound), nil
	case ActionPlayFile:
		return PlayFile(w.Path), nil
	case "":
		return NotifyAction{}, fmt.Errorf("notify action: type is required")
	}
	return NotifyAction{}, fmt.Errorf("notify action: unknown type %q", w.Type)
}

func (a NotifyAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.toWire())
}

func (a *NotifyAction) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("notify action: %w", err)
	}
	v, err := fromWire(w)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a NotifyAction) MarshalYAML() (interface{}, error) {
	return a.toWire(), nil
}

func (a *NotifyAction) UnmarshalYAML(node *yaml.Node) error {
	var w wire
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("notify action: %w", err)
	}
	v, err := fromWire(w)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// String renders the action for logs.
func (a NotifyAction) String() string {
	switch a.Type {
	case ActionBeep:
		return fmt.Sprintf("beep(%dHz, %dms)", a.Freq, a.DurationMs)
	case ActionSound:
		return "sound(" + a.Sound + ")"
	case ActionPlayFile:
		return "playfile(" + a.Path + ")"
	}
	return "none"
}
