package parse

// CastsPerMinute counts cast events by the scoped actor over the fight duration.
// begincast events are not casts. A zero length fight yields an undefined rate.
func CastsPerMinute(scope Scope, events []CombatEvent) Rate {
	d := scope.duration()
	if d <= 0 {
		return Undefined()
	}

	casts := 0
	for i := range events {
		e := &events[i]
		if e.Type == EventCast && scope.bySource(e) {
			casts++
		}
	}

	return Ratio(float64(casts), float64(d)/60000)
}
