package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/announcer/internal/config"
	"github.com/gyaneshwarpardhi/announcer/internal/gamestate"
	"github.com/gyaneshwarpardhi/announcer/internal/metrics"
	"github.com/gyaneshwarpardhi/announcer/internal/schedule"
)

// Router delivers actions to the audio pipeline without blocking.
type Router interface {
	Route(a config.NotifyAction)
	SetVolume(level float32)
}

// Rule names used in logs and metrics.
const (
	RuleBuybackReady  = "buyback_ready"
	RuleObserverWards = "observer_wards"
)

// Engine evaluates snapshots against the current settings and routes the
// actions of rules that fire.
type Engine struct {
	settings atomic.Pointer[config.Settings]
	router   Router
	log      *slog.Logger

	// mu guards the tick state below. It is never held while routing.
	mu        sync.Mutex
	matchID   string
	lastClock int
	hasClock  bool
	buyback   schedule.Latch
	wards     schedule.Latch
}

type firing struct {
	rule   string
	action config.NotifyAction
}

// New creates an Engine and applies the volume from s.
func New(s *config.Settings, router Router, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{router: router, log: logger}
	e.Replace(s)
	return e
}

// Replace atomically swaps the settings and applies their volume.
// Evaluations in flight finish with the settings they started with.
func (e *Engine) Replace(s *config.Settings) {
	e.settings.Store(s)
	e.router.SetVolume(s.Global.Volume)
}

// Settings returns the current settings. Callers must not mutate it.
func (e *Engine) Settings() *config.Settings {
	return e.settings.Load()
}

// Trigger plays an action directly, bypassing every rule.
func (e *Engine) Trigger(a config.NotifyAction) {
	e.router.Route(a)
}

// SetVolume changes the output volume. 1.0 = 100%.
func (e *Engine) SetVolume(level float32) {
	e.router.SetVolume(level)
}

// EvaluateAndDispatch runs every rule against s and hands the actions of the
// rules that fire to the router. It never blocks on playback and never fails.
func (e *Engine) EvaluateAndDispatch(s *gamestate.Snapshot) {
	start := time.Now()
	metrics.SnapshotsReceived.Inc()

	cfg := e.settings.Load()
	if cfg.Global.SuspendAll {
		metrics.SnapshotsSkipped.WithLabelValues("suspended").Inc()
		return
	}
	if s.Map == nil {
		metrics.SnapshotsSkipped.WithLabelValues("no_map").Inc()
		return
	}

	changes := gamestate.Changes(s)
	if changes.GameState {
		prev, _ := s.Previous(gamestate.PathGameState)
		e.log.Info("game state changed", "from", prev, "to", s.Map.GameState, "clock_time", s.Map.ClockTime)
	}

	for _, f := range e.evaluate(cfg, s, changes) {
		metrics.RulesFired.WithLabelValues(f.rule).Inc()
		e.log.Info("rule fired",
			"rule", f.rule,
			"clock_time", s.Map.ClockTime,
			"action", f.action.String(),
			"snapshot_id", s.ID,
		)
		e.router.Route(f.action)
	}

	metrics.EvaluationDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)
}

func (e *Engine) evaluate(cfg *config.Settings, s *gamestate.Snapshot, changes gamestate.ChangeSet) []firing {
	m := s.Map

	e.mu.Lock()
	defer e.mu.Unlock()

	if id := s.MatchID(); id != e.matchID {
		e.resetLocked(id)
	}

	var fired []firing

	// Spawn rules run once per distinct clock value; paused or duplicate
	// reports repeat the last one.
	if s.InState(gamestate.StatePreGame, gamestate.StateInProgress) && changes.ClockTime &&
		!(e.hasClock && e.lastClock == m.ClockTime) {
		e.lastClock, e.hasClock = m.ClockTime, true
		for _, r := range cfg.SpawnRules() {
			if schedule.Due(r.Config, m.ClockTime) {
				fired = append(fired, firing{rule: r.Name, action: r.Config.Notify.Action})
			}
		}
	}

	if !s.InState(gamestate.StateInProgress) {
		return fired
	}

	bb := cfg.BuybackReady.Notify
	switch {
	case !bb.Enabled:
		e.buyback.Reset()
	case changes.Buyback():
		if e.buyback.Update(buybackReady(s)) {
			fired = append(fired, firing{rule: RuleBuybackReady, action: bb.Action})
		}
	}

	ow := cfg.ObserverWards.Notify
	switch {
	case !ow.Enabled:
		e.wards.Reset()
	case changes.WardPurchaseCooldown && m.WardPurchaseCooldown != nil:
		if e.wards.Update(*m.WardPurchaseCooldown <= int(ow.BeforeSec)) {
			fired = append(fired, firing{rule: RuleObserverWards, action: ow.Action})
		}
	}

	return fired
}

func (e *Engine) resetLocked(matchID string) {
	if matchID != "" {
		e.log.Info("new match", "match_id", matchID)
	}
	e.matchID = matchID
	e.hasClock = false
	e.lastClock = 0
	e.buyback.Reset()
	e.wards.Reset()
}

// buybackReady reports whether reliable gold exceeds the buyback cost and
// buyback is off cooldown. A missing cooldown counts as ready.
func buybackReady(s *gamestate.Snapshot) bool {
	gold, cost := s.Player.GoldReliable, s.Hero.BuybackCost
	if gold == nil || cost == nil {
		return false
	}
	cooldown := 0
	if s.Hero.BuybackCooldown != nil {
		cooldown = *s.Hero.BuybackCooldown
	}
	return *gold-*cost > 0 && cooldown == 0
}
