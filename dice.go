package ludo

import (
	"fmt"
	"math/rand"
	"sync"
)

// Dice is a single die face. The zero value is a one; there is no way to
// hold a value outside 1-6.
type Dice struct {
	face uint8 // value - 1
}

// NewDice returns the die showing n, or an error when n is not 1-6.
func NewDice(n int) (Dice, error) {
	if n < 1 || n > 6 {
		return Dice{}, fmt.Errorf("dice value must be 1-6, got %d", n)
	}
	return Dice{face: uint8(n - 1)}, nil
}

// MustDice is NewDice for constants known to be in range.
func MustDice(n int) Dice {
	d, err := NewDice(n)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Dice) Value() int {
	return int(d.face) + 1
}

func (d Dice) IsSix() bool {
	return d.face == 5
}

func (d Dice) String() string {
	return fmt.Sprintf("%d", d.Value())
}

// DiceSource produces dice rolls.
type DiceSource interface {
	Roll() Dice
}

// Roller draws fair rolls from a seeded generator.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

func (r *Roller) Roll() Dice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Dice{face: uint8(r.rng.Intn(6))}
}

// Intn exposes the generator for other uniform draws (symbols, seating).
func (r *Roller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Perm returns a random permutation of [0, n).
func (r *Roller) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Perm(n)
}

// FixedDice replays a scripted sequence of rolls, cycling when exhausted.
type FixedDice struct {
	rolls []Dice
	next  int
}

func NewFixedDice(values ...int) *FixedDice {
	f := &FixedDice{}
	for _, v := range values {
		f.rolls = append(f.rolls, MustDice(v))
	}
	return f
}

func (f *FixedDice) Roll() Dice {
	if len(f.rolls) == 0 {
		return Dice{}
	}
	d := f.rolls[f.next%len(f.rolls)]
	f.next++
	return d
}
