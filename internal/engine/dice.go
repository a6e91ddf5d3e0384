package engine

import (
	"fmt"
	"math/rand"

	"tabletop-backend/internal/model"
)

// DiceRoll animates a dice object toward a final value. Interim shuffle
// values are shown on each animation tick; only the final value is
// committed to the shared state, so guests never see a half-rolled die
// in a snapshot.
type DiceRoll struct {
	ObjectID string
	Sides    int
	Final    int
	frames   []int
}

// NewDiceRoll starts a roll for a dice object. The rng is injected so
// the host's roll is the single source of randomness.
func NewDiceRoll(rng *rand.Rand, st *State, actor Actor, id string, frames int) (*DiceRoll, error) {
	obj, ok := st.Get(id)
	if !ok || obj.Kind != model.KindDice {
		return nil, fmt.Errorf("dice %s not found", id)
	}
	if !st.CanManipulate(actor, obj) {
		return nil, fmt.Errorf("dice %s is locked for actor %s", id, actor.ID)
	}
	sides := obj.Sides
	if sides <= 0 {
		sides = 6
	}
	roll := &DiceRoll{
		ObjectID: id,
		Sides:    sides,
		Final:    rng.Intn(sides) + 1,
	}
	if frames > 0 {
		roll.frames = make([]int, frames)
		for i := range roll.frames {
			roll.frames[i] = rng.Intn(sides) + 1
		}
	}
	return roll, nil
}

// Tick returns the next display value. done is true once the animation
// is exhausted and the final value should be committed.
func (r *DiceRoll) Tick() (value int, done bool) {
	if len(r.frames) == 0 {
		return r.Final, true
	}
	value = r.frames[0]
	r.frames = r.frames[1:]
	return value, false
}

// Commit writes the final value into the working state.
func (r *DiceRoll) Commit(st *State) {
	if obj, ok := st.Get(r.ObjectID); ok {
		obj.Value = r.Final
	}
}
