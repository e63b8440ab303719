package testutils

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/irmakh/gemini-rpg/internal/errors"
)

var _ dice.Roller = (*StubRoller)(nil)

// StubRoller replays a fixed sequence of values, wrapping around at the
// end. Each value is folded into the requested die size so a sequence
// written for one die never rolls out of range on another.
type StubRoller struct {
	values []int
	next   int
	Err    error
}

// NewStubRoller returns a roller that cycles through values. With no
// values every roll is 1.
func NewStubRoller(values ...int) *StubRoller {
	if len(values) == 0 {
		values = []int{1}
	}
	return &StubRoller{values: values}
}

// Roll returns the next value folded into [1,size]
func (r *StubRoller) Roll(size int) (int, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	if size <= 0 {
		return 0, errors.InvalidArgument("die size must be positive")
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return (max(v, 1)-1)%size + 1, nil
}

// RollN rolls count dice of the given size
func (r *StubRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Rolls reports how many dice were rolled
func (r *StubRoller) Rolls() int {
	return r.next
}
