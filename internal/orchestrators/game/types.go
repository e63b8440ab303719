package game

import (
	"github.com/irmakh/gemini-rpg/internal/engine"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/repositories/savegame"
)

// StateFunc receives every intermediate state while an event and its
// effects are being processed
type StateFunc func(state entities.GameState)

// StartInput defines the request for opening a session
type StartInput struct {
	// Owner namespaces save slots. Defaults to the session id.
	Owner string
}

// StartOutput defines the response for opening a session
type StartOutput struct {
	SessionID string
	State     entities.GameState
}

// HandleInput defines the request for applying a player event
type HandleInput struct {
	SessionID string
	Event     engine.Event
	OnState   StateFunc
}

// HandleOutput holds the state once every effect has settled
type HandleOutput struct {
	State entities.GameState
}

// GetInput defines the request for reading a session
type GetInput struct {
	SessionID string
}

// GetOutput defines the response for reading a session
type GetOutput struct {
	State entities.GameState
}

// SaveInput defines the request for saving to a slot
type SaveInput struct {
	SessionID string
	Slot      string
}

// SaveOutput defines the response for saving to a slot
type SaveOutput struct {
	Record *savegame.Record
	State  entities.GameState
}

// LoadInput defines the request for loading a slot
type LoadInput struct {
	SessionID string
	Slot      string
}

// LoadOutput is the session state after a load. A corrupt save leaves
// the game as it was with a log line saying so.
type LoadOutput struct {
	State  entities.GameState
	Loaded bool
}

// ImportInput defines the request for loading a save file directly
type ImportInput struct {
	SessionID string
	Data      []byte
}

// ImportOutput mirrors LoadOutput
type ImportOutput struct {
	State  entities.GameState
	Loaded bool
}

// ExportInput defines the request for encoding the current game
type ExportInput struct {
	SessionID string
}

// ExportOutput holds the save file
type ExportOutput struct {
	Data []byte
}

// ListSavesInput defines the request for listing a session owner's slots
type ListSavesInput struct {
	SessionID string
}

// ListSavesOutput lists slots without their data
type ListSavesOutput struct {
	Records []*savegame.Record
}

// DeleteSaveInput defines the request for deleting a slot
type DeleteSaveInput struct {
	SessionID string
	Slot      string
}

// DeleteSaveOutput is empty
type DeleteSaveOutput struct{}

// EndInput defines the request for closing a session
type EndInput struct {
	SessionID string
}

// EndOutput is empty
type EndOutput struct{}

// EvictIdleInput is empty
type EvictIdleInput struct{}

// EvictIdleOutput lists the sessions that were dropped
type EvictIdleOutput struct {
	SessionIDs []string
}
