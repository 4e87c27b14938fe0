// Package schedule decides when rules fire. Periodic rules are pure clock
// arithmetic; level rules use a Latch to turn a condition into an edge.
package schedule

import "github.com/gyaneshwarpardhi/announcer/internal/config"

// Due reports whether the periodic rule fires at clock.
//
// A rule fires BeforeSec seconds ahead of every spawn, i.e. at
// first-before+k*interval for k >= 0. The phase is anchored at the first
// spawn, so spawns that are not a multiple of the interval stay correct.
// Disabled rules and rules with a zero interval never fire.
//
// Due is pure: callers evaluate each distinct clock value once.
func Due(rule config.SpawnConfig, clock int) bool {
	if !rule.Notify.Enabled || rule.Spawn.IntervalSec == 0 {
		return false
	}
	first := int(rule.Spawn.FirstSec)
	before := int(rule.Notify.BeforeSec)
	interval := int(rule.Spawn.IntervalSec)

	firstNotify := first - before
	if clock < firstNotify {
		return false
	}
	if clock == firstNotify {
		return true
	}
	return mod(clock-first, interval) == mod(interval-before, interval)
}

// Next returns the first clock value >= clock at which the rule fires.
func Next(rule config.SpawnConfig, clock int) (int, bool) {
	if !rule.Notify.Enabled || rule.Spawn.IntervalSec == 0 {
		return 0, false
	}
	interval := int(rule.Spawn.IntervalSec)
	firstNotify := int(rule.Spawn.FirstSec) - int(rule.Notify.BeforeSec)
	if clock <= firstNotify {
		return firstNotify, true
	}
	k := (clock - firstNotify + interval - 1) / interval
	return firstNotify + k*interval, true
}

// mod is the Euclidean remainder: always in [0, n).
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
