// Package battle computes the outcome of one attacker/defender pair. It is
// pure: Resolve never touches live state, it only reports the deltas the
// caller must apply.
package battle

import (
	"math"

	"github.com/crownworks/kingdoms-server/model"
)

// Per-unit power weights.
const (
	powerInfantry = 10
	powerArchers  = 15
	powerCavalry  = 25
)

// homeGroundBonus is the defender's fixed power multiplier.
const homeGroundBonus = 1.2

// lootShare is the fraction of each defender resource transferred on an
// attacker win.
const lootShare = 0.2

// Attrition multipliers applied to the attacker's army after the battle.
const (
	winAttrition  = 0.9
	lossAttrition = 0.7
)

// Options tunes resolution behavior.
type Options struct {
	// ClampLoot prevents loot from driving a defender resource below zero
	// (and from going negative itself when the defender balance already is).
	// Off by default: the historical rule loots a flat 20% regardless.
	ClampLoot bool
}

// Outcome is the full result of one resolution. Army and resource fields are
// the post-battle values for both sides; nothing has been applied anywhere.
type Outcome struct {
	Winner            string
	AttackerPower     float64
	DefenderPower     float64 // includes the home-ground bonus
	Loot              map[string]int
	AttackerArmy      map[string]int
	AttackerResources map[string]int
	DefenderArmy      map[string]int
	DefenderResources map[string]int
}

// Power is the scalar combat strength of an army.
func Power(army map[string]int) int {
	return powerInfantry*army[model.UnitInfantry] +
		powerArchers*army[model.UnitArchers] +
		powerCavalry*army[model.UnitCavalry]
}

// Resolve computes the outcome of attacker vs defender. The attacker wins only
// when its power strictly exceeds the defender's boosted power; ties favor the
// defender. The comparison is done in exact integer arithmetic
// (10·att > 12·def) so the 1.2 bonus can never be blurred by rounding.
func Resolve(attacker, defender *model.Kingdom, opts Options) Outcome {
	attPower := Power(attacker.Army)
	defPower := Power(defender.Army)

	out := Outcome{
		AttackerPower:     float64(attPower),
		DefenderPower:     float64(defPower) * homeGroundBonus,
		AttackerArmy:      copyCounts(attacker.Army),
		AttackerResources: copyCounts(attacker.Resources),
		DefenderArmy:      copyCounts(defender.Army),
		DefenderResources: copyCounts(defender.Resources),
	}

	if 10*attPower > 12*defPower {
		out.Winner = model.WinnerAttacker
		out.Loot = make(map[string]int, len(model.Resources))
		for _, res := range model.Resources {
			amount := scale(defender.Resources[res], lootShare)
			if opts.ClampLoot && amount < 0 {
				amount = 0
			}
			out.Loot[res] = amount
			out.AttackerResources[res] += amount
			out.DefenderResources[res] -= amount
		}
		for _, unit := range model.Units {
			out.AttackerArmy[unit] = scale(attacker.Army[unit], winAttrition)
		}
	} else {
		out.Winner = model.WinnerDefender
		for _, unit := range model.Units {
			out.AttackerArmy[unit] = scale(attacker.Army[unit], lossAttrition)
		}
	}
	return out
}

// scale multiplies a count by a factor and floors the result.
func scale(n int, factor float64) int {
	return int(math.Floor(float64(n) * factor))
}

func copyCounts(m map[string]int) map[string]int {
	cp := make(map[string]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
