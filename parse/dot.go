package parse

import (
	"sort"

	"esologs_check/ability"
)

const dotGapMs int64 = 3000

type DotUptime struct {
	AbilityID int    `json:"abilityGameID"`
	Name      string `json:"name"`
	Ticks     int    `json:"ticks"`
	ActiveMs  int64  `json:"activeMs"`
	Uptime    Rate   `json:"uptime"`
}

type DotResult struct {
	Abilities   []DotUptime `json:"abilities"`
	Overall     Rate        `json:"overall"`
	DotDamage   int64       `json:"dotDamage"`
	DirectDmg   int64       `json:"directDamage"`
	DotDmgShare Rate        `json:"dotDamageShare"`
}

// DotUptimes merges periodic damage ticks into windows. A tick more than 3s after the
// previous one opens a new window, and every window is extended by that 3s as grace.
// Totals are clamped to the fight duration. Abilities are ordered by tick count.
func DotUptimes(scope Scope, events []CombatEvent) DotResult {
	var (
		r     DotResult
		order []int
		ticks = make(map[int][]int64)
		all   []int64
	)

	for i := range events {
		e := &events[i]
		if e.Type != EventDamage || !scope.bySource(e) {
			continue
		}
		if !e.Tick {
			r.DirectDmg += e.Amount
			continue
		}
		r.DotDamage += e.Amount
		if _, ok := ticks[e.AbilityID]; !ok {
			order = append(order, e.AbilityID)
		}
		ticks[e.AbilityID] = append(ticks[e.AbilityID], e.Timestamp)
		all = append(all, e.Timestamp)
	}

	d := scope.duration()
	for _, id := range order {
		active := tickCoverage(ticks[id], d)
		r.Abilities = append(r.Abilities, DotUptime{
			AbilityID: id,
			Name:      ability.Name(id),
			Ticks:     len(ticks[id]),
			ActiveMs:  active,
			Uptime:    Ratio(float64(active)*100, float64(d)),
		})
	}
	sort.SliceStable(
		r.Abilities,
		func(i, k int) bool {
			return r.Abilities[i].Ticks > r.Abilities[k].Ticks
		},
	)

	if len(all) > 0 {
		r.Overall = Ratio(float64(tickCoverage(all, d))*100, float64(d))
	} else {
		r.Overall = Ratio(0, float64(d))
	}
	r.DotDmgShare = Ratio(float64(r.DotDamage)*100, float64(r.DotDamage+r.DirectDmg))

	return r
}

func tickCoverage(ts []int64, limit int64) int64 {
	if len(ts) == 0 {
		return 0
	}

	var active int64
	start, last := ts[0], ts[0]
	for _, t := range ts[1:] {
		if t-last > dotGapMs {
			active += last - start + dotGapMs
			start = t
		}
		last = t
	}
	active += last - start + dotGapMs

	if active > limit {
		active = limit
	}
	return active
}
