package parse

import (
	"sort"

	"esologs_check/ability"

	"github.com/pkg/errors"
)

// BuffWindow is a contiguous interval during which a buff was active on the actor.
// Unresolved windows come from a removebuff with no matching applybuff; they mark the
// buff as seen but contribute no uptime.
type BuffWindow struct {
	AbilityID  int   `json:"abilityGameID"`
	Start      int64 `json:"start"`
	End        int64 `json:"end"`
	Unresolved bool  `json:"unresolved,omitempty"`
}

type BuffUptime struct {
	AbilityID      int    `json:"abilityGameID"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
	Present        bool   `json:"present"`
	ActiveMs       int64  `json:"activeMs"`
	Uptime         Rate   `json:"uptime"`
	Windows        int    `json:"windows"`
}

type BuffResult struct {
	Buffs      []BuffUptime `json:"buffs"`
	Unresolved int          `json:"unresolved"`
}

// BuffWindows pairs applybuff/removebuff events landing on the scoped actor, per ability.
// A repeated applybuff while the buff is already open is a refresh and is ignored. An
// applybuff still open at the end runs through the fight end. A removebuff for an
// ability not seen before was applied before the pull and opens at the fight start.
// Windows are clipped to the fight. Any other orphaned removebuff yields an unresolved
// window and an error wrapping ErrMalformedEventPairing; the windows are still returned.
func BuffWindows(scope Scope, events []CombatEvent) (map[int][]BuffWindow, error) {
	var (
		start, end int64
		open       = make(map[int]int64)
		seen       = make(map[int]struct{})
		windows    = make(map[int][]BuffWindow)

		orphans     int
		firstOrphan *CombatEvent
	)
	if scope.Fight != nil {
		start, end = scope.Fight.StartTime, scope.Fight.EndTime
	}

	for i := range events {
		e := &events[i]
		if !scope.onSource(e) {
			continue
		}

		switch e.Type {
		case EventApplyBuff:
			seen[e.AbilityID] = struct{}{}
			if _, ok := open[e.AbilityID]; ok {
				continue
			}
			open[e.AbilityID] = e.Timestamp

		case EventRemoveBuff:
			s, ok := open[e.AbilityID]
			if _, applied := seen[e.AbilityID]; !ok && !applied {
				s, ok = start, true
			}
			seen[e.AbilityID] = struct{}{}
			if !ok {
				orphans++
				if firstOrphan == nil {
					firstOrphan = e
				}
				windows[e.AbilityID] = append(windows[e.AbilityID], BuffWindow{
					AbilityID:  e.AbilityID,
					Start:      e.Timestamp,
					End:        e.Timestamp,
					Unresolved: true,
				})
				continue
			}
			delete(open, e.AbilityID)
			windows[e.AbilityID] = append(windows[e.AbilityID], BuffWindow{
				AbilityID: e.AbilityID,
				Start:     s,
				End:       e.Timestamp,
			})
		}
	}

	for id, s := range open {
		windows[id] = append(windows[id], BuffWindow{
			AbilityID: id,
			Start:     s,
			End:       end,
		})
	}

	if scope.Fight != nil {
		for id, list := range windows {
			for k := range list {
				if list[k].Start < start {
					list[k].Start = start
				}
				if list[k].End > end {
					list[k].End = end
				}
				if list[k].End < list[k].Start {
					list[k].End = list[k].Start
				}
			}
			sort.SliceStable(list, func(i, k int) bool { return list[i].Start < list[k].Start })
			windows[id] = list
		}
	}

	if orphans > 0 {
		return windows, errors.Wrapf(
			ErrMalformedEventPairing,
			"%d removebuff event(s) without applybuff, first: ability %d at %d",
			orphans, firstOrphan.AbilityID, firstOrphan.Timestamp,
		)
	}
	return windows, nil
}

// BuffPresence reports every reference-table buff seen on the actor with its uptime
// as a percentage of the fight. Unrecognized abilities are skipped. On malformed pairing
// the partial result is returned together with the error.
func BuffPresence(scope Scope, events []CombatEvent) (BuffResult, error) {
	windows, err := BuffWindows(scope, events)

	ids := make([]int, 0, len(windows))
	for id := range windows {
		if ability.IsTrackedBuff(id) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	d := scope.duration()

	r := BuffResult{
		Buffs: make([]BuffUptime, 0, len(ids)),
	}
	for _, id := range ids {
		a, _ := ability.Lookup(id)
		b := BuffUptime{
			AbilityID:      id,
			Name:           a.Name,
			Classification: a.Classification(),
			Present:        true,
		}
		for _, w := range windows[id] {
			if w.Unresolved {
				r.Unresolved++
				continue
			}
			b.ActiveMs += w.End - w.Start
			b.Windows++
		}
		if b.ActiveMs > d {
			b.ActiveMs = d
		}
		b.Uptime = Ratio(float64(b.ActiveMs)*100, float64(d))
		r.Buffs = append(r.Buffs, b)
	}

	return r, err
}
