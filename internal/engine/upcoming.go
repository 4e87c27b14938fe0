package engine

import (
	"sort"

	"github.com/gyaneshwarpardhi/announcer/internal/schedule"
)

// Upcoming is the next notification of a periodic rule.
type Upcoming struct {
	Rule      string `json:"rule"`
	ClockTime int    `json:"clock_time"`
	InSec     int    `json:"in_sec"`
	Action    string `json:"action"`
}

// Upcoming lists the next notification of every enabled periodic rule at or
// after clock, soonest first.
func (e *Engine) Upcoming(clock int) []Upcoming {
	cfg := e.settings.Load()
	out := make([]Upcoming, 0, 4)
	for _, r := range cfg.SpawnRules() {
		at, ok := schedule.Next(r.Config, clock)
		if !ok {
			continue
		}
		out = append(out, Upcoming{
			Rule:      r.Name,
			ClockTime: at,
			InSec:     at - clock,
			Action:    r.Config.Notify.Action.String(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClockTime < out[j].ClockTime })
	return out
}
