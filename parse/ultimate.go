package parse

import "esologs_check/ability"

type UltimateCast struct {
	AbilityID int    `json:"abilityGameID"`
	Name      string `json:"name"`
	At        int64  `json:"atMs"`
}

type UltimateResult struct {
	Casts           []UltimateCast `json:"casts"`
	AverageInterval Rate           `json:"averageIntervalMs"`
}

func Ultimates(scope Scope, events []CombatEvent) UltimateResult {
	var (
		r    UltimateResult
		prev int64 = -1
		sum  int64
	)
	for i := range events {
		e := &events[i]
		if e.Type != EventCast || !scope.bySource(e) || !ability.IsUltimate(e.AbilityID) {
			continue
		}
		if prev >= 0 {
			sum += e.Timestamp - prev
		}
		prev = e.Timestamp

		r.Casts = append(r.Casts, UltimateCast{
			AbilityID: e.AbilityID,
			Name:      ability.Name(e.AbilityID),
			At:        scope.relative(e.Timestamp),
		})
	}

	if len(r.Casts) > 1 {
		r.AverageInterval = Ratio(float64(sum), float64(len(r.Casts)-1))
	}
	return r
}
