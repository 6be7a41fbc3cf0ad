package parse

import (
	"sort"

	"esologs_check/ability"
)

type FoodResult struct {
	HasFood   bool             `json:"hasFood"`
	Type      ability.FoodType `json:"type"`
	Label     string           `json:"label"`
	AbilityID int              `json:"abilityGameID,omitempty"`
	Name      string           `json:"name,omitempty"`
	All       []int            `json:"all,omitempty"`
}

// Food picks the highest priority consumable among the buffs landing on the actor. Food
// eaten before the pull shows up only as its removebuff, so both event types count.
// Equal priority goes to the lower ability id.
func Food(scope Scope, events []CombatEvent) FoodResult {
	seen := make(map[int]struct{})
	for i := range events {
		e := &events[i]
		if (e.Type != EventApplyBuff && e.Type != EventRemoveBuff) || !scope.onSource(e) {
			continue
		}
		if ability.FoodTypeOf(e.AbilityID) == ability.FoodNone {
			continue
		}
		seen[e.AbilityID] = struct{}{}
	}

	r := FoodResult{
		Type:  ability.FoodNone,
		Label: ability.FoodNone.Label(),
	}
	if len(seen) == 0 {
		return r
	}

	r.All = make([]int, 0, len(seen))
	for id := range seen {
		r.All = append(r.All, id)
	}
	sort.Ints(r.All)

	best := -1
	for _, id := range r.All {
		t := ability.FoodTypeOf(id)
		if best < 0 || t.Priority() < ability.FoodTypeOf(best).Priority() {
			best = id
		}
	}

	t := ability.FoodTypeOf(best)
	r.HasFood = true
	r.Type = t
	r.Label = t.Label()
	r.AbilityID = best
	r.Name = ability.Name(best)
	return r
}
