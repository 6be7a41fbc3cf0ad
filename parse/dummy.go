package parse

import "esologs_check/ability"

type DummyBuff struct {
	AbilityID int    `json:"abilityGameID"`
	Name      string `json:"name"`
	Present   bool   `json:"present"`
}

type DummyResult struct {
	Buffs   []DummyBuff `json:"buffs"`
	Present int         `json:"present"`
	Missing int         `json:"missing"`
}

// TrialDummy checks which of the buffs a trial dummy grants were applied to the actor.
func TrialDummy(scope Scope, events []CombatEvent) DummyResult {
	applied := make(map[int]bool)
	for i := range events {
		e := &events[i]
		if e.Type == EventApplyBuff && scope.onSource(e) {
			applied[e.AbilityID] = true
		}
	}

	ids := ability.TrialDummyBuffs()
	r := DummyResult{
		Buffs: make([]DummyBuff, 0, len(ids)),
	}
	for _, id := range ids {
		b := DummyBuff{
			AbilityID: id,
			Name:      ability.Name(id),
			Present:   applied[id],
		}
		if b.Present {
			r.Present++
		} else {
			r.Missing++
		}
		r.Buffs = append(r.Buffs, b)
	}
	return r
}
