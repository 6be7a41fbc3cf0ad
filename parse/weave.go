package parse

import (
	"esologs_check/ability"
)

const DefaultWeaveGap int64 = 1000

type WeaveResult struct {
	Accuracy      Rate  `json:"accuracy"`
	GapMs         int64 `json:"gapMs"`
	LightAttacks  int   `json:"lightAttacks"`
	HeavyAttacks  int   `json:"heavyAttacks"`
	Skills        int   `json:"skills"`
	Weaves        int   `json:"weaves"`
	Opportunities int   `json:"opportunities"`
	Missed        int   `json:"missed"`
	AverageDelay  Rate  `json:"averageDelayMs"`
}

// Weave measures how often a light attack is followed by a skill cast within gapMs,
// before the next light attack. Weapon swaps and synergies do not break a weave.
// A heavy attack, another light attack, or a skill cast after the gap resolves the
// pending light attack as missed. A trailing light attack with nothing after it has
// no opportunity and is excluded.
//
// Light attacks are taken from damage events. Streams without light attack damage
// fall back to light attack casts.
func Weave(scope Scope, events []CombatEvent, gapMs int64) WeaveResult {
	if gapMs <= 0 {
		gapMs = DefaultWeaveGap
	}

	laType := EventDamage
	if !hasLightAttack(scope, events, EventDamage) {
		laType = EventCast
	}

	r := WeaveResult{GapMs: gapMs}

	var (
		pending    = -1
		delaySum   int64
		lastSource = -1
	)
	resolve := func(ts int64, weave bool) {
		r.Opportunities++
		if weave {
			r.Weaves++
			delaySum += ts - events[pending].Timestamp
		} else {
			r.Missed++
		}
		pending = -1
	}

	for i := range events {
		e := &events[i]
		if !scope.bySource(e) {
			continue
		}
		lastSource = i

		switch {
		case e.Type == laType && ability.IsLightAttack(e.AbilityID):
			r.LightAttacks++
			if pending >= 0 {
				resolve(e.Timestamp, false)
			}
			pending = i

		case e.Type != EventCast:

		case ability.IsLightAttack(e.AbilityID):
			// light attack casts shadow their own damage event

		case ability.IsWeaponSwap(e.AbilityID), ability.IsSynergy(e.AbilityID):

		case ability.IsHeavyAttack(e.AbilityID):
			r.HeavyAttacks++
			if pending >= 0 {
				resolve(e.Timestamp, false)
			}

		default:
			r.Skills++
			if pending >= 0 {
				resolve(e.Timestamp, e.Timestamp-events[pending].Timestamp <= gapMs)
			}
		}
	}

	if pending >= 0 && lastSource > pending {
		resolve(events[lastSource].Timestamp, false)
	}

	if r.Opportunities > 0 {
		acc := float64(r.Weaves) / float64(r.Opportunities) * 100
		if acc > 100 {
			acc = 100
		} else if acc < 0 {
			acc = 0
		}
		r.Accuracy = DefinedRate(acc)
	}
	r.AverageDelay = Ratio(float64(delaySum), float64(r.Weaves))

	return r
}

func hasLightAttack(scope Scope, events []CombatEvent, t EventType) bool {
	for i := range events {
		e := &events[i]
		if e.Type == t && scope.bySource(e) && ability.IsLightAttack(e.AbilityID) {
			return true
		}
	}
	return false
}
