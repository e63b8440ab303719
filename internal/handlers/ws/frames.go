package ws

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/irmakh/gemini-rpg/internal/engine"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/repositories/savegame"
)

// Frame types sent to the browser
const (
	FrameState = "state"
	FrameSaves = "saves"
	FrameSave  = "save_file"
	FrameError = "error"
)

// Save commands handled outside the engine
const (
	commandSave       = "save"
	commandLoad       = "load"
	commandImport     = "import"
	commandExport     = "export"
	commandListSaves  = "list_saves"
	commandDeleteSave = "delete_save"
)

// Frame is every server message. Type decides which fields are set.
type Frame struct {
	Type      string              `json:"type"`
	SessionID string              `json:"sessionId,omitempty"`
	State     *entities.GameState `json:"state,omitempty"`
	Saves     []*savegame.Record  `json:"saves,omitempty"`
	Data      json.RawMessage     `json:"data,omitempty"`
	Code      string              `json:"code,omitempty"`
	Message   string              `json:"message,omitempty"`
}

func stateFrame(sessionID string, state entities.GameState) Frame {
	return Frame{Type: FrameState, SessionID: sessionID, State: &state}
}

func errorFrame(err error) Frame {
	return Frame{
		Type:    FrameError,
		Code:    errors.GetCode(err).String(),
		Message: errors.GetMessage(err),
	}
}

type decoder func(payload []byte) (engine.Event, error)

func decode[T engine.Event](payload []byte) (engine.Event, error) {
	var ev T
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed command")
	}
	return ev, nil
}

// commands maps a frame type onto the player command it carries. Effect
// results and save loading never come from the browser.
var commands = map[string]decoder{
	"new_game":          decode[engine.NewGame],
	"create_character":  decode[engine.CreateCharacter],
	"confirm_character": decode[engine.ConfirmCharacter],
	"continue_game":     decode[engine.ContinueGame],
	"retry_dungeon":     decode[engine.RetryDungeon],
	"move":              decode[engine.Move],
	"combat_action":     decode[engine.CombatAction],
	"equip":             decode[engine.Equip],
	"unequip":           decode[engine.Unequip],
	"use_potion":        decode[engine.UsePotion],
	"buy":               decode[engine.Buy],
	"sell":              decode[engine.Sell],
	"choose_ability":    decode[engine.ChooseAbility],
	"close_modal":       decode[engine.CloseModal],
	"toggle_pause":      decode[engine.TogglePause],
	"open_inventory":    decode[engine.OpenInventory],
	"return_to_menu":    decode[engine.ReturnToMenu],
	"update_settings":   decode[engine.UpdateSettings],
}

// DecodeCommand turns a browser frame into an engine event
func DecodeCommand(payload []byte) (engine.Event, error) {
	if !gjson.ValidBytes(payload) {
		return nil, errors.InvalidArgument("frame is not valid JSON")
	}
	kind := gjson.GetBytes(payload, "type").String()
	if kind == "" {
		return nil, errors.InvalidArgument("frame type is required")
	}
	dec, ok := commands[kind]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown command %s", kind)
	}
	return dec(payload)
}
