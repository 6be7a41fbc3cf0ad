package parse

import (
	"testing"
)

func TestCastsPerMinute(t *testing.T) {
	events := make([]CombatEvent, 0, 60)
	for i := 0; i < 52; i++ {
		events = append(events, cast(int64(i*1000), skillA))
	}
	events = append(events,
		CombatEvent{Timestamp: 100, Type: EventBeginCast, AbilityID: skillA, SourceID: player},
		CombatEvent{Timestamp: 200, Type: EventCast, AbilityID: skillA, SourceID: other},
	)

	got := CastsPerMinute(testScope(0, 60000), events)
	if !got.Defined || got.Value != 52.0 {
		t.Fatalf("CPM = %+v, want 52.0", got)
	}
	if got.String() != "52.0" {
		t.Fatalf("String() = %q", got.String())
	}
}

func TestCastsPerMinuteRounding(t *testing.T) {
	tests := []struct {
		casts    int
		duration int64
		want     float64
	}{
		{casts: 1, duration: 40000, want: 1.5},
		{casts: 7, duration: 90000, want: 4.7},
		{casts: 0, duration: 60000, want: 0},
	}
	for _, tt := range tests {
		var events []CombatEvent
		for i := 0; i < tt.casts; i++ {
			events = append(events, cast(int64(i), skillB))
		}
		got := CastsPerMinute(testScope(0, tt.duration), events)
		if !got.Defined || got.Value != tt.want {
			t.Errorf("%d casts over %dms = %+v, want %v", tt.casts, tt.duration, got, tt.want)
		}
	}
}

func TestCastsPerMinuteZeroDuration(t *testing.T) {
	got := CastsPerMinute(testScope(5000, 5000), []CombatEvent{cast(5000, skillA)})
	if got.Defined {
		t.Fatalf("zero length fight should be undefined, got %+v", got)
	}
	if got.Err() != ErrUndefinedRate {
		t.Fatalf("Err() = %v", got.Err())
	}
}

func TestDamagePerSecond(t *testing.T) {
	var events []CombatEvent
	for i := 0; i < 60; i++ {
		events = append(events, damage(int64(i*1000), skillA, 10000))
	}
	events = append(events, CombatEvent{Timestamp: 10, Type: EventDamage, SourceID: other, Amount: 1 << 20})

	got := DamagePerSecond(testScope(0, 60000), events)
	if got.Total != 600000 {
		t.Fatalf("Total = %d", got.Total)
	}
	if !got.DPS.Defined || got.DPS.Value != 10000 {
		t.Fatalf("DPS = %+v, want 10000", got.DPS)
	}
}

func TestDamagePerSecondNoDamage(t *testing.T) {
	got := DamagePerSecond(testScope(0, 60000), []CombatEvent{cast(10, skillA)})
	if !got.DPS.Defined || got.DPS.Value != 0 {
		t.Fatalf("DPS = %+v, want defined 0", got.DPS)
	}
}

func TestDamagePerSecondZeroDuration(t *testing.T) {
	got := DamagePerSecond(testScope(1000, 1000), []CombatEvent{damage(1000, skillA, 500)})
	if got.DPS.Defined {
		t.Fatalf("DPS = %+v, want undefined", got.DPS)
	}
}

func TestActiveTime(t *testing.T) {
	var events []CombatEvent
	for i := 0; i < 10; i++ {
		events = append(events, cast(int64(i*2000), skillA))
	}
	events = append(events, cast(100, lightAttack), cast(200, swap))

	got := ActiveTime(testScope(0, 20000), events)
	if got.Casts != 10 {
		t.Fatalf("Casts = %d", got.Casts)
	}
	if !got.Percent.Defined || got.Percent.Value != 50 {
		t.Fatalf("Percent = %+v, want 50", got.Percent)
	}
}

func TestActiveTimeChannel(t *testing.T) {
	c := cast(0, skillC)
	c.CastTrackID = 9
	events := []CombatEvent{c}
	for _, ts := range []int64{500, 1000, 1500, 2000, 2500, 9000} {
		d := damage(ts, skillC, 100)
		d.CastTrackID = 9
		events = append(events, d)
	}

	got := ActiveTime(testScope(0, 10000), events)
	if got.ChannelMs != 1500 {
		t.Fatalf("ChannelMs = %d, want 1500", got.ChannelMs)
	}
	if got.Percent.Value != 25 {
		t.Fatalf("Percent = %+v, want 25", got.Percent)
	}
}

func TestBarSwaps(t *testing.T) {
	events := []CombatEvent{cast(5000, swap), cast(10000, swap), cast(30000, swap), cast(31000, skillA)}

	got := BarSwaps(testScope(0, 40000), events)
	if got.Swaps != 3 {
		t.Fatalf("Swaps = %d", got.Swaps)
	}
	if got.LongestOnBar != 20000 {
		t.Fatalf("LongestOnBar = %d", got.LongestOnBar)
	}
	if got.Camping != 1 {
		t.Fatalf("Camping = %d", got.Camping)
	}
	if got.AverageInterval.Value != 12500 {
		t.Fatalf("AverageInterval = %+v", got.AverageInterval)
	}
}

func TestBarSwapsCampingBoundary(t *testing.T) {
	events := []CombatEvent{cast(15000, swap), cast(30001, swap), cast(45001, swap)}

	got := BarSwaps(testScope(0, 60000), events)
	if got.Camping != 1 {
		t.Fatalf("Camping = %d, want 1 (only the 15001ms gap)", got.Camping)
	}
	if got.LongestOnBar != 15001 {
		t.Fatalf("LongestOnBar = %d", got.LongestOnBar)
	}
}

func TestBarSwapsNone(t *testing.T) {
	got := BarSwaps(testScope(0, 20000), nil)
	if got.Camping != 1 || got.LongestOnBar != 20000 {
		t.Fatalf("got %+v", got)
	}
	if got.AverageInterval.Defined {
		t.Fatal("no swaps should leave the interval undefined")
	}
}

func TestDotUptimes(t *testing.T) {
	events := []CombatEvent{
		tick(0, skillC, 100),
		tick(2000, skillC, 100),
		tick(4000, skillC, 100),
		tick(1000, skillB, 50),
		damage(500, skillA, 850),
	}

	got := DotUptimes(testScope(0, 20000), events)
	if len(got.Abilities) != 2 || got.Abilities[0].AbilityID != skillC {
		t.Fatalf("Abilities = %+v", got.Abilities)
	}
	if got.Abilities[0].ActiveMs != 7000 || got.Abilities[0].Uptime.Value != 35 {
		t.Fatalf("skillC = %+v", got.Abilities[0])
	}
	if got.DotDamage != 350 || got.DirectDmg != 850 {
		t.Fatalf("damage split = %d / %d", got.DotDamage, got.DirectDmg)
	}
	if got.DotDmgShare.Value != 29.2 {
		t.Fatalf("DotDmgShare = %+v", got.DotDmgShare)
	}
}

func TestUltimates(t *testing.T) {
	events := []CombatEvent{cast(11000, 40223), cast(15000, skillA), cast(41000, 122174)}

	got := Ultimates(testScope(1000, 60000), events)
	if len(got.Casts) != 2 {
		t.Fatalf("Casts = %+v", got.Casts)
	}
	if got.Casts[0].At != 10000 || got.Casts[1].Name != "Glacial Colossus" {
		t.Fatalf("Casts = %+v", got.Casts)
	}
	if got.AverageInterval.Value != 30000 {
		t.Fatalf("AverageInterval = %+v", got.AverageInterval)
	}
}
