package config

// Settings is the top-level settings document. It is treated as immutable
// once published; replacements swap the whole value.
type Settings struct {
	Global          GlobalConfig `json:"global" yaml:"global"`
	BountyRune      SpawnConfig  `json:"bounty_rune" yaml:"bounty_rune"`
	PowerRune       SpawnConfig  `json:"power_rune" yaml:"power_rune"`
	TombOfKnowledge SpawnConfig  `json:"tomb_of_knowledge" yaml:"tomb_of_knowledge"`
	ObserverWards   NotifyConfig `json:"observer_wards" yaml:"observer_wards"`
	NeutralItems    SpawnConfig  `json:"neutral_items" yaml:"neutral_items"`
	BuybackReady    NotifyConfig `json:"buyback_ready" yaml:"buyback_ready"`
}

// GlobalConfig holds settings that apply to every rule.
type GlobalConfig struct {
	Volume     float32 `json:"volume" yaml:"volume"` // 1.0 = 100%
	SuspendAll bool    `json:"suspend_all" yaml:"suspend_all"`
}

// SpawnConfig is a periodic rule: notify BeforeSec seconds ahead of every
// spawn at FirstSec, FirstSec+IntervalSec, ...
type SpawnConfig struct {
	Notify NotifyInfo `json:"notify" yaml:"notify"`
	Spawn  SpawnInfo  `json:"spawn" yaml:"spawn"`
}

// NotifyConfig is a level rule derived from current field values.
type NotifyConfig struct {
	Notify NotifyInfo `json:"notify" yaml:"notify"`
}

type SpawnInfo struct {
	// Clock time of the first spawn.
	FirstSec uint16 `json:"first_sec" yaml:"first_sec"`
	// Seconds between spawns. Zero disables the rule.
	IntervalSec uint16 `json:"interval_sec" yaml:"interval_sec"`
}

type NotifyInfo struct {
	Enabled   bool         `json:"enabled" yaml:"enabled"`
	BeforeSec uint16       `json:"before_sec" yaml:"before_sec"`
	Action    NotifyAction `json:"action" yaml:"action"`
}

// SpawnRule pairs a periodic rule with its name.
type SpawnRule struct {
	Name   string
	Config SpawnConfig
}

// SpawnRules lists the periodic rules in evaluation order.
func (s *Settings) SpawnRules() []SpawnRule {
	return []SpawnRule{
		{Name: "bounty_rune", Config: s.BountyRune},
		{Name: "power_rune", Config: s.PowerRune},
		{Name: "tomb_of_knowledge", Config: s.TombOfKnowledge},
		{Name: "neutral_items", Config: s.NeutralItems},
	}
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}

// Default returns the settings used when no settings file exists.
// Every rule starts disabled.
func Default() *Settings {
	return &Settings{
		Global: GlobalConfig{Volume: 1.0},
		BountyRune: SpawnConfig{
			Notify: NotifyInfo{BeforeSec: 15, Action: Sound("bounty_rune.wav")},
			Spawn:  SpawnInfo{FirstSec: 0, IntervalSec: 300},
		},
		PowerRune: SpawnConfig{
			Notify: NotifyInfo{BeforeSec: 10, Action: Sound("power_rune.wav")},
			Spawn:  SpawnInfo{FirstSec: 240, IntervalSec: 120},
		},
		TombOfKnowledge: SpawnConfig{
			Notify: NotifyInfo{BeforeSec: 5, Action: Sound("tomb_of_knowledge.wav")},
			Spawn:  SpawnInfo{FirstSec: 600, IntervalSec: 600},
		},
		ObserverWards: NotifyConfig{
			Notify: NotifyInfo{Action: Sound("observer_ward.wav")},
		},
		NeutralItems: SpawnConfig{
			Notify: NotifyInfo{Action: Sound("neutral_items.wav")},
			Spawn:  SpawnInfo{FirstSec: 420, IntervalSec: 600},
		},
		BuybackReady: NotifyConfig{
			Notify: NotifyInfo{Action: Sound("buyback_ready.wav")},
		},
	}
}
