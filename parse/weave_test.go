package parse

import "testing"

func alternating(pairs int, delay int64) []CombatEvent {
	events := make([]CombatEvent, 0, pairs*2)
	for i := 0; i < pairs; i++ {
		ts := int64(i * 2000)
		events = append(events, damage(ts, lightAttack, 1000), cast(ts+delay, skillA))
	}
	return events
}

func TestWeavePerfectAlternation(t *testing.T) {
	got := Weave(testScope(0, 60000), alternating(20, 300), DefaultWeaveGap)

	if !got.Accuracy.Defined {
		t.Fatal("accuracy should be defined")
	}
	if got.Accuracy.Value < 95 || got.Accuracy.Value > 100 {
		t.Fatalf("accuracy = %v, want within [95, 100]", got.Accuracy.Value)
	}
	if got.Weaves != 20 || got.Opportunities != 20 || got.LightAttacks != 20 {
		t.Fatalf("got %+v", got)
	}
	if got.AverageDelay.Value != 300 {
		t.Fatalf("AverageDelay = %+v", got.AverageDelay)
	}
}

func TestWeave(t *testing.T) {
	tests := []struct {
		name          string
		events        []CombatEvent
		weaves        int
		opportunities int
		accuracy      Rate
	}{
		{
			name:          "trailing light attack has no opportunity",
			events:        append(alternating(4, 200), damage(9000, lightAttack, 1)),
			weaves:        4,
			opportunities: 4,
			accuracy:      DefinedRate(100),
		},
		{
			name:          "trailing light attack followed by other events is missed",
			events:        append(alternating(4, 200), damage(9000, lightAttack, 1), tick(9500, skillC, 5)),
			weaves:        4,
			opportunities: 5,
			accuracy:      DefinedRate(80),
		},
		{
			name: "skill outside the gap is missed",
			events: []CombatEvent{
				damage(0, lightAttack, 1), cast(1500, skillA),
				damage(2000, lightAttack, 1), cast(2400, skillB),
			},
			weaves:        1,
			opportunities: 2,
			accuracy:      DefinedRate(50),
		},
		{
			name: "double light attack misses the first",
			events: []CombatEvent{
				damage(0, lightAttack, 1), damage(900, lightAttack, 1), cast(1200, skillA),
			},
			weaves:        1,
			opportunities: 2,
			accuracy:      DefinedRate(50),
		},
		{
			name: "heavy attack breaks the weave",
			events: []CombatEvent{
				damage(0, lightAttack, 1), cast(300, heavyAttack), cast(600, skillA),
			},
			weaves:        0,
			opportunities: 1,
			accuracy:      DefinedRate(0),
		},
		{
			name: "weapon swap and synergy are transparent",
			events: []CombatEvent{
				damage(0, lightAttack, 1), cast(200, swap), cast(300, synergy), cast(700, skillA),
			},
			weaves:        1,
			opportunities: 1,
			accuracy:      DefinedRate(100),
		},
		{
			name: "light attack casts when no light attack damage",
			events: []CombatEvent{
				cast(0, lightAttack), cast(500, skillA), cast(2000, lightAttack), cast(2100, skillB),
			},
			weaves:        2,
			opportunities: 2,
			accuracy:      DefinedRate(100),
		},
		{
			name: "other actors are ignored",
			events: []CombatEvent{
				damage(0, lightAttack, 1),
				{Timestamp: 100, Type: EventCast, AbilityID: skillA, SourceID: other},
				cast(1800, skillA),
			},
			weaves:        0,
			opportunities: 1,
			accuracy:      DefinedRate(0),
		},
		{
			name:     "no light attacks",
			events:   []CombatEvent{cast(0, skillA), cast(1000, skillB)},
			accuracy: Undefined(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Weave(testScope(0, 60000), tt.events, 1000)
			if got.Weaves != tt.weaves || got.Opportunities != tt.opportunities {
				t.Fatalf("weaves %d/%d, want %d/%d", got.Weaves, got.Opportunities, tt.weaves, tt.opportunities)
			}
			if got.Accuracy != tt.accuracy {
				t.Fatalf("accuracy = %+v, want %+v", got.Accuracy, tt.accuracy)
			}
		})
	}
}

func TestWeaveDefaultGap(t *testing.T) {
	got := Weave(testScope(0, 10000), alternating(3, 900), 0)
	if got.GapMs != DefaultWeaveGap || got.Weaves != 3 {
		t.Fatalf("got %+v", got)
	}
}
