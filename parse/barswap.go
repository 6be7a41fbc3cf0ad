package parse

import "esologs_check/ability"

const barCampingMs int64 = 15000

type BarSwapResult struct {
	Swaps           int   `json:"swaps"`
	SwapsPerMinute  Rate  `json:"swapsPerMinute"`
	AverageInterval Rate  `json:"averageIntervalMs"`
	LongestOnBar    int64 `json:"longestOnBarMs"`
	Camping         int   `json:"campingInstances"`
}

// BarSwaps measures weapon swap cadence. Any stretch of more than 15s on one bar,
// including fight start to the first swap and the last swap to the fight end, counts
// as bar camping.
func BarSwaps(scope Scope, events []CombatEvent) BarSwapResult {
	var swaps []int64
	for i := range events {
		e := &events[i]
		if e.Type == EventCast && scope.bySource(e) && ability.IsWeaponSwap(e.AbilityID) {
			swaps = append(swaps, e.Timestamp)
		}
	}

	d := scope.duration()
	r := BarSwapResult{
		Swaps:          len(swaps),
		SwapsPerMinute: Ratio(float64(len(swaps)), float64(d)/60000),
	}

	var start, end int64
	if scope.Fight != nil {
		start, end = scope.Fight.StartTime, scope.Fight.EndTime
	}

	stretch := func(v int64) {
		if v > r.LongestOnBar {
			r.LongestOnBar = v
		}
		if v > barCampingMs {
			r.Camping++
		}
	}

	if len(swaps) == 0 {
		stretch(d)
		return r
	}

	stretch(swaps[0] - start)
	var sum int64
	for i := 1; i < len(swaps); i++ {
		v := swaps[i] - swaps[i-1]
		sum += v
		stretch(v)
	}
	stretch(end - swaps[len(swaps)-1])

	r.AverageInterval = Ratio(float64(sum), float64(len(swaps)-1))
	return r
}
