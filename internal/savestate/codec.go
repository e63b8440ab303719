// Package savestate encodes a game for storage and decodes saves from any
// earlier layout, migrating missing fields as it goes.
package savestate

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/irmakh/gemini-rpg/internal/engine/progression"
	"github.com/irmakh/gemini-rpg/internal/engine/stats"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
)

// Version is written into every save
const Version = 2

// snapshot is the persisted subset of a game
type snapshot struct {
	Phase       entities.GamePhase    `json:"gamePhase"`
	Player      *entities.Player      `json:"player"`
	World       *entities.World       `json:"world"`
	Log         []string              `json:"log"`
	CombatState *entities.CombatState `json:"combatState"`
	Settings    entities.GameSettings `json:"settings"`
}

// Encode serializes the persisted part of a game
func Encode(gs entities.GameState) ([]byte, error) {
	if gs.Player == nil || gs.World == nil {
		return nil, errors.FailedPrecondition("there is no game to save")
	}

	data, err := json.Marshal(snapshot{
		Phase:       gs.Phase,
		Player:      gs.Player,
		World:       gs.World,
		Log:         gs.Log,
		CombatState: gs.CombatState,
		Settings:    gs.Settings,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode save")
	}

	data, err = sjson.SetBytes(data, "version", Version)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stamp save version")
	}
	return data, nil
}

// Decode reads a save of any version. A save missing its player or world,
// or not JSON at all, is a DataLoss error.
func Decode(data []byte) (entities.GameState, error) {
	var gs entities.GameState

	if !gjson.ValidBytes(data) {
		return gs, errors.DataLoss("save is not valid JSON")
	}
	if !gjson.GetBytes(data, "player").IsObject() || !gjson.GetBytes(data, "world").IsObject() {
		return gs, errors.DataLoss("save has no player or world")
	}
	manaMissing := !gjson.GetBytes(data, "player.mana").Exists()

	var err error
	for _, m := range migrations {
		if data, err = m.apply(data); err != nil {
			return gs, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to migrate save").
				WithMeta("migration", m.name)
		}
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return gs, errors.WrapWithCode(err, errors.CodeDataLoss, "save is corrupted")
	}
	if err := validate(&snap); err != nil {
		return gs, err
	}

	gs = entities.NewGameState()
	gs.Phase = entities.PhasePlaying
	gs.Player = snap.Player
	gs.World = snap.World
	gs.Log = snap.Log
	gs.CombatState = snap.CombatState
	gs.Settings = snap.Settings
	if len(gs.Log) > entities.MaxLogEntries {
		gs.Log = append([]string(nil), gs.Log[len(gs.Log)-entities.MaxLogEntries:]...)
	}

	normalize(gs.Player, manaMissing)
	if gs.Player.HP == 0 {
		gs.CombatState = nil
		gs.Modal = &entities.Modal{Kind: entities.ModalDeath}
	}
	return gs, nil
}

func validate(snap *snapshot) error {
	w := snap.World
	if len(w.Map) == 0 {
		return errors.DataLoss("save has an empty map")
	}
	width := len(w.Map[0])
	for _, row := range w.Map {
		if len(row) != width || width == 0 {
			return errors.DataLoss("save has a malformed map")
		}
	}
	if !w.InBounds(snap.Player.Position.X, snap.Player.Position.Y) {
		return errors.DataLoss("player is off the map")
	}
	if snap.Player.Level < 1 {
		return errors.DataLoss("player level is invalid")
	}
	return nil
}

// normalize re-derives caps and clamps resources. Old saves without mana
// start with a full pool.
func normalize(p *entities.Player, manaMissing bool) {
	caps := stats.CapsFor(p)
	p.MaxHP = caps.MaxHP
	p.MaxMana = caps.MaxMana
	if manaMissing {
		p.Mana = caps.MaxMana
	}
	p.HP = stats.Clamp(p.HP, 0, p.MaxHP)
	p.Mana = stats.Clamp(p.Mana, 0, p.MaxMana)
	if p.Gold < 0 {
		p.Gold = 0
	}
	if p.PendingLevelUps < 0 {
		p.PendingLevelUps = 0
	}
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = progression.Threshold(p.Level)
	}
}
