package parse

type DamageResult struct {
	Total int64 `json:"total"`
	Hits  int   `json:"hits"`
	DPS   Rate  `json:"dps"`
}

// DamagePerSecond sums damage amounts by the scoped actor. No damage events gives 0,
// a zero length fight gives an undefined rate.
func DamagePerSecond(scope Scope, events []CombatEvent) DamageResult {
	var r DamageResult
	for i := range events {
		e := &events[i]
		if e.Type == EventDamage && scope.bySource(e) {
			r.Total += e.Amount
			r.Hits++
		}
	}

	r.DPS = Ratio(float64(r.Total), float64(scope.duration())/1000)
	return r
}
