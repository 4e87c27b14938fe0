package gamestate

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Game states reported in map.game_state.
const (
	StateInit          = "DOTA_GAMERULES_STATE_INIT"
	StateHeroSelection = "DOTA_GAMERULES_STATE_HERO_SELECTION"
	StateStrategyTime  = "DOTA_GAMERULES_STATE_STRATEGY_TIME"
	StatePreGame       = "DOTA_GAMERULES_STATE_PRE_GAME"
	StateInProgress    = "DOTA_GAMERULES_STATE_GAME_IN_PROGRESS"
	StatePostGame      = "DOTA_GAMERULES_STATE_POST_GAME"
	StateDisconnect    = "DOTA_GAMERULES_STATE_DISCONNECT"
)

// Snapshot is one game state report pushed by the GSI client.
// Resource fields are pointers so that "not reported" differs from zero.
type Snapshot struct {
	ID         string         `json:"-"`
	ReceivedAt time.Time      `json:"-"`
	Provider   *Provider      `json:"provider,omitempty"`
	Map        *Map           `json:"map,omitempty"`
	Player     Player         `json:"player"`
	Hero       Hero           `json:"hero"`
	Auth       Auth           `json:"auth"`
	Previously map[string]any `json:"previously,omitempty"` // prior values of fields that changed
}

type Provider struct {
	Name      string `json:"name"`
	AppID     int    `json:"appid"`
	Version   int    `json:"version"`
	Timestamp uint32 `json:"timestamp"`
}

type Map struct {
	Name                 string `json:"name"`
	MatchID              string `json:"matchid"`
	GameTime             int    `json:"game_time"`
	ClockTime            int    `json:"clock_time"`
	Daytime              bool   `json:"daytime"`
	NightstalkerNight    bool   `json:"nightstalker_night"`
	GameState            string `json:"game_state"`
	Paused               bool   `json:"paused"`
	WinTeam              string `json:"win_team"`
	CustomGameName       string `json:"customgamename"`
	WardPurchaseCooldown *int   `json:"ward_purchase_cooldown,omitempty"`
}

type Player struct {
	SteamID        string `json:"steamid,omitempty"`
	Name           string `json:"name,omitempty"`
	Gold           *int   `json:"gold,omitempty"`
	GoldReliable   *int   `json:"gold_reliable,omitempty"`
	GoldUnreliable *int   `json:"gold_unreliable,omitempty"`
}

type Hero struct {
	Name            string `json:"name,omitempty"`
	Level           *int   `json:"level,omitempty"`
	Alive           *bool  `json:"alive,omitempty"`
	RespawnSeconds  *int   `json:"respawn_seconds,omitempty"`
	BuybackCost     *int   `json:"buyback_cost,omitempty"`
	BuybackCooldown *int   `json:"buyback_cooldown,omitempty"`
}

// Auth carries the token configured in the integration cfg file.
type Auth struct {
	Token string `json:"token,omitempty"`
}

// Decode parses a GSI request body and stamps it with an ID and receive time.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	s.ID = uuid.NewString()
	s.ReceivedAt = time.Now()
	return &s, nil
}

// InState reports whether the snapshot carries map data in one of states.
func (s *Snapshot) InState(states ...string) bool {
	if s.Map == nil {
		return false
	}
	for _, st := range states {
		if s.Map.GameState == st {
			return true
		}
	}
	return false
}

// MatchID returns map.matchid, or "" when no map is reported.
func (s *Snapshot) MatchID() string {
	if s.Map == nil {
		return ""
	}
	return s.Map.MatchID
}
