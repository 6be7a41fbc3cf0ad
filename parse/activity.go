package parse

import (
	"sort"

	"esologs_check/ability"
)

const (
	globalCooldownMs   int64 = 1000
	channelGapMs       int64 = 600
	maxChannelDuration int64 = 5000
)

type ActiveTimeResult struct {
	Percent   Rate  `json:"percent"`
	Casts     int   `json:"casts"`
	ActiveMs  int64 `json:"activeMs"`
	ChannelMs int64 `json:"channelMs"`
}

// ActiveTime estimates how much of the fight the actor spent casting. Every skill cast
// occupies one global cooldown. Channeled casts add the time their damage ticks run past
// the global cooldown; ticks are linked to the cast through the cast track id and the
// chain stops at the first gap wider than 600ms.
func ActiveTime(scope Scope, events []CombatEvent) ActiveTimeResult {
	var (
		r        ActiveTimeResult
		castAt   = make(map[int]int64)
		trackIDs []int
		ticks    = make(map[int][]int64)
	)

	for i := range events {
		e := &events[i]
		if !scope.bySource(e) {
			continue
		}

		switch e.Type {
		case EventCast:
			if ability.IsLightAttack(e.AbilityID) || ability.IsWeaponSwap(e.AbilityID) {
				continue
			}
			r.Casts++
			if e.CastTrackID != 0 {
				if _, ok := castAt[e.CastTrackID]; !ok {
					castAt[e.CastTrackID] = e.Timestamp
					trackIDs = append(trackIDs, e.CastTrackID)
				}
			}

		case EventDamage:
			if e.CastTrackID != 0 {
				ticks[e.CastTrackID] = append(ticks[e.CastTrackID], e.Timestamp)
			}
		}
	}

	for _, id := range trackIDs {
		list := ticks[id]
		if len(list) == 0 {
			continue
		}
		sort.Slice(list, func(i, k int) bool { return list[i] < list[k] })

		cast := castAt[id]
		last := cast
		for _, ts := range list {
			if ts < cast {
				continue
			}
			if ts-cast > maxChannelDuration || (last != cast && ts-last > channelGapMs) {
				break
			}
			last = ts
		}

		d := last - cast
		if d > maxChannelDuration {
			d = maxChannelDuration
		}
		if d > globalCooldownMs {
			r.ChannelMs += d - globalCooldownMs
		}
	}

	r.ActiveMs = int64(r.Casts)*globalCooldownMs + r.ChannelMs

	d := scope.duration()
	active := r.ActiveMs
	if active > d {
		active = d
	}
	r.Percent = Ratio(float64(active)*100, float64(d))
	return r
}
