package savegame

import (
	"context"
	"sync"

	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/clock"
)

var _ Repository = (*InMemoryRepository)(nil)

// InMemoryRepository implements Repository using in-memory storage. It
// backs the server when no Redis endpoint is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	clock clock.Clock
	store map[string]map[string]*Record
}

// NewInMemory creates a new in-memory repository
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock: c,
		store: make(map[string]map[string]*Record),
	}
}

func copyRecord(r *Record, withData bool) *Record {
	c := *r
	c.Data = nil
	if withData {
		c.Data = append([]byte(nil), r.Data...)
	}
	return &c
}

// Put writes a slot
func (r *InMemoryRepository) Put(_ context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateSlot(input.Owner, input.Slot); err != nil {
		return nil, err
	}
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument("save data cannot be empty")
	}

	record := &Record{
		Owner:   input.Owner,
		Slot:    input.Slot,
		SavedAt: r.clock.Now().UTC(),
		Summary: input.Summary,
		Data:    append([]byte(nil), input.Data...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slots, ok := r.store[input.Owner]
	if !ok {
		slots = make(map[string]*Record)
		r.store[input.Owner] = slots
	}
	slots[input.Slot] = record

	return &PutOutput{Record: copyRecord(record, true)}, nil
}

// Get reads a slot
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateSlot(input.Owner, input.Slot); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.store[input.Owner][input.Slot]
	if !ok {
		return nil, errors.NotFoundf("save slot %s not found", input.Slot)
	}
	return &GetOutput{Record: copyRecord(record, true)}, nil
}

// List returns an owner's slots, newest first
func (r *InMemoryRepository) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateOwner(input.Owner); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*Record, 0, len(r.store[input.Owner]))
	for _, record := range r.store[input.Owner] {
		records = append(records, copyRecord(record, false))
	}
	sortRecords(records)
	return &ListOutput{Records: records}, nil
}

// Delete empties a slot
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateSlot(input.Owner, input.Slot); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[input.Owner][input.Slot]; !ok {
		return nil, errors.NotFoundf("save slot %s not found", input.Slot)
	}
	delete(r.store[input.Owner], input.Slot)
	return &DeleteOutput{}, nil
}
