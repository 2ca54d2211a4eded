package monopoly

import "math/rand/v2"

type Dice [2]int

func (d Dice) Total() int     { return d[0] + d[1] }
func (d Dice) IsDouble() bool { return d[0] == d[1] }

type Roller interface {
	Roll() Dice
}

// RollerFunc adapts a function to Roller.
type RollerFunc func() Dice

func (f RollerFunc) Roll() Dice { return f() }

// RandomRoller rolls two fair six-sided dice.
var RandomRoller Roller = RollerFunc(func() Dice {
	return Dice{rand.IntN(6) + 1, rand.IntN(6) + 1}
})
