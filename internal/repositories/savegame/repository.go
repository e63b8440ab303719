// Package savegame provides the interface for save slot persistence
package savegame

//go:generate mockgen -destination=mock/mock_repository.go -package=savegamemock github.com/irmakh/gemini-rpg/internal/repositories/savegame Repository

import (
	"context"
	"time"

	"github.com/irmakh/gemini-rpg/internal/errors"
)

const maxNameLength = 64

// Summary describes a save without decoding it
type Summary struct {
	PlayerName   string `json:"playerName"`
	Class        string `json:"characterClass"`
	Level        int    `json:"level"`
	DungeonLevel int    `json:"dungeonLevel"`
}

// Record is one stored save. Data holds the encoded save file as
// produced by the save-state codec.
type Record struct {
	Owner   string    `json:"owner"`
	Slot    string    `json:"slot"`
	SavedAt time.Time `json:"savedAt"`
	Summary Summary   `json:"summary"`
	Data    []byte    `json:"data,omitempty"`
}

// Repository defines the interface for save slot persistence
type Repository interface {
	// Put writes a save into a slot, replacing what was there
	// Returns errors.InvalidArgument for bad owner or slot names
	// Returns errors.Internal for storage failures
	Put(ctx context.Context, input *PutInput) (*PutOutput, error)

	// Get reads one slot
	// Returns errors.InvalidArgument for bad owner or slot names
	// Returns errors.NotFound if the slot is empty
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns an owner's slots without their data, newest first
	// Returns errors.InvalidArgument for a bad owner
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Delete empties a slot
	// Returns errors.NotFound if the slot is already empty
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// PutInput defines the input for writing a slot
type PutInput struct {
	Owner   string
	Slot    string
	Data    []byte
	Summary Summary
}

// PutOutput defines the output for writing a slot
type PutOutput struct {
	Record *Record
}

// GetInput defines the input for reading a slot
type GetInput struct {
	Owner string
	Slot  string
}

// GetOutput defines the output for reading a slot
type GetOutput struct {
	Record *Record
}

// ListInput defines the input for listing slots
type ListInput struct {
	Owner string
}

// ListOutput defines the output for listing slots
type ListOutput struct {
	Records []*Record
}

// DeleteInput defines the input for deleting a slot
type DeleteInput struct {
	Owner string
	Slot  string
}

// DeleteOutput defines the output for deleting a slot
type DeleteOutput struct{}

func validateSlot(owner, slot string) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateKey("owner", owner, maxNameLength, vb)
	errors.ValidateKey("slot", slot, maxNameLength, vb)
	return vb.Build()
}

func validateOwner(owner string) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateKey("owner", owner, maxNameLength, vb)
	return vb.Build()
}
