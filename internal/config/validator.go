package config

import (
	"fmt"
	"strings"
)

// Validate reports settings that cannot behave as the user intends:
//   - enabled spawn rules with a zero interval (they never fire)
//   - actions missing the fields their type needs
//   - a negative volume
//
// Nothing here stops the settings from being used; the engine treats invalid
// rules as disabled. Callers surface the error as a warning.
func Validate(cfg *Settings) error {
	var errs []string

	if cfg.Global.Volume < 0 {
		errs = append(errs, fmt.Sprintf("global.volume must not be negative, got %g", cfg.Global.Volume))
	}
	for _, r := range cfg.SpawnRules() {
		if r.Config.Notify.Enabled && r.Config.Spawn.IntervalSec == 0 {
			errs = append(errs, fmt.Sprintf("%s: spawn.interval_sec must be positive when enabled", r.Name))
		}
		validateAction(r.Name, r.Config.Notify.Action, &errs)
	}
	validateAction("observer_wards", cfg.ObserverWards.Notify.Action, &errs)
	validateAction("buyback_ready", cfg.BuybackReady.Notify.Action, &errs)

	if len(errs) > 0 {
		return fmt.Errorf("settings validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateAction(rule string, a NotifyAction, errs *[]string) {
	switch a.Type {
	case ActionBeep:
		if a.Freq == 0 {
			*errs = append(*errs, fmt.Sprintf("%s: beep freq is required", rule))
		}
		if a.DurationMs == 0 {
			*errs = append(*errs, fmt.Sprintf("%s: beep duration_ms is required", rule))
		}
	case ActionSound:
		if a.Sound == "" {
			*errs = append(*errs, fmt.Sprintf("%s: sound name is required", rule))
		}
	case ActionPlayFile:
		if a.Path == "" {
			*errs = append(*errs, fmt.Sprintf("%s: playfile path is required", rule))
		}
	default:
		*errs = append(*errs, fmt.Sprintf("%s: action type is required", rule))
	}
}
