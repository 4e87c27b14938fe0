package gamestate

import "strings"

// Paths into the previously mirror for fields that gate rules.
const (
	PathClockTime            = "/map/clock_time"
	PathGameState            = "/map/game_state"
	PathWardPurchaseCooldown = "/map/ward_purchase_cooldown"
	PathGoldReliable         = "/player/gold_reliable"
	PathBuybackCost          = "/hero/buyback_cost"
	PathBuybackCooldown      = "/hero/buyback_cooldown"
)

// ChangeSet flags the rule-relevant fields that changed since the previous
// report. A field without a prior value never counts as changed.
type ChangeSet struct {
	ClockTime            bool
	GameState            bool
	WardPurchaseCooldown bool
	GoldReliable         bool
	BuybackCost          bool
	BuybackCooldown      bool
}

// Buyback reports whether any input of the buyback condition changed.
func (c ChangeSet) Buyback() bool {
	return c.GoldReliable || c.BuybackCost || c.BuybackCooldown
}

// Changes derives the ChangeSet from the snapshot's previously mirror.
func Changes(s *Snapshot) ChangeSet {
	if s == nil || len(s.Previously) == 0 {
		return ChangeSet{}
	}
	return ChangeSet{
		ClockTime:            s.Changed(PathClockTime),
		GameState:            s.Changed(PathGameState),
		WardPurchaseCooldown: s.Changed(PathWardPurchaseCooldown),
		GoldReliable:         s.Changed(PathGoldReliable),
		BuybackCost:          s.Changed(PathBuybackCost),
		BuybackCooldown:      s.Changed(PathBuybackCooldown),
	}
}

// Changed reports whether path has a prior value in the previously mirror.
func (s *Snapshot) Changed(path string) bool {
	_, ok := s.Previous(path)
	return ok
}

// Previous returns the prior value stored at a slash-separated path
// such as "/map/game_state".
func (s *Snapshot) Previous(path string) (any, bool) {
	if s == nil || s.Previously == nil {
		return nil, false
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return resolveMap(s.Previously, parts)
}

func resolveMap(m map[string]any, path []string) (any, bool) {
	if len(path) == 0 || path[0] == "" {
		return nil, false
	}
	val, ok := m[path[0]]
	if !ok {
		return nil, false
	}
	if len(path) == 1 {
		return val, true
	}
	sub, ok := val.(map[string]any)
	if !ok {
		return nil, false
	}
	return resolveMap(sub, path[1:])
}
