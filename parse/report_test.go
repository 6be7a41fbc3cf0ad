package parse

import (
	"bytes"
	"context"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

func sampleEvents() []CombatEvent {
	events := alternating(20, 300)
	for i := 0; i < 60; i++ {
		events = append(events, damage(int64(i*1000), skillC, 10000))
	}
	events = append(events,
		apply(0, staminaFood),
		apply(0, majorSlayer),
		remove(30000, majorSlayer),
		cast(5000, swap),
		cast(25000, swap),
		cast(45000, 40223),
	)
	return NormalizeEvents(testFight(0, 60000), events)
}

func TestAssembleIdempotent(t *testing.T) {
	events := sampleEvents()

	var prev []byte
	for i := 0; i < 5; i++ {
		r := Assemble(*testFight(0, 60000), player, events, DefaultOptions())
		b, err := jsoniter.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		if prev != nil && !bytes.Equal(prev, b) {
			t.Fatalf("run %d produced different bytes:\n%s\n%s", i, prev, b)
		}
		prev = b
	}
}

func TestAssemblePartialFailure(t *testing.T) {
	// majorSlayer was already removed at 30000
	events := append(sampleEvents(), remove(59000, majorSlayer))
	events = NormalizeEvents(testFight(0, 60000), events)

	r := Assemble(*testFight(0, 60000), player, events, DefaultOptions())

	if !r.Failed(SectionBuffs) || len(r.Failures) != 1 {
		t.Fatalf("Failures = %+v", r.Failures)
	}
	if !r.Partial() {
		t.Fatal("report should be partial")
	}
	if b, ok := findBuff(r.Buffs, staminaFood); !ok || b.Uptime.Value != 100 {
		t.Fatalf("partial buff result missing: %+v", r.Buffs)
	}

	// 600000 skill damage plus 20 light attacks of 1000
	if r.Damage.Total != 620000 || r.Damage.DPS.Value != 10333.3 {
		t.Fatalf("Damage = %+v", r.Damage)
	}
	if !r.CPM.Defined || r.CPM.Value != 23 {
		t.Fatalf("CPM = %+v", r.CPM)
	}
	if r.Weave.Accuracy.Value != 100 {
		t.Fatalf("Weave = %+v", r.Weave)
	}
	if r.Rotation.TotalCasts != 23 {
		t.Fatalf("Rotation = %+v", r.Rotation)
	}
}

func TestAssembleDPS(t *testing.T) {
	var events []CombatEvent
	for i := 0; i < 60; i++ {
		events = append(events, damage(int64(i*1000), skillC, 10000))
	}
	r := Assemble(*testFight(0, 60000), player, events, DefaultOptions())
	if r.Damage.DPS.Value != 10000 {
		t.Fatalf("DPS = %+v", r.Damage.DPS)
	}
	if len(r.Failures) != 0 {
		t.Fatalf("Failures = %+v", r.Failures)
	}
}

func TestAssembleZeroDuration(t *testing.T) {
	fight := *testFight(1000, 1000)
	events := []CombatEvent{cast(1000, skillA), damage(1000, skillA, 50)}

	r := Assemble(fight, player, events, DefaultOptions())
	if r.CPM.Defined || r.Damage.DPS.Defined {
		t.Fatalf("CPM %+v DPS %+v should be undefined", r.CPM, r.Damage.DPS)
	}
	if len(r.Failures) != 0 {
		t.Fatalf("Failures = %+v", r.Failures)
	}

	b, err := jsoniter.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(`"cpm":null`)) {
		t.Fatalf("undefined CPM should marshal to null: %s", b)
	}
}

func TestAssemblePanicIsolated(t *testing.T) {
	list := append([]section{}, sections...)
	list = append(list, section{"boom", func(Scope, []CombatEvent, Options, *Report) error {
		panic("exploded")
	}})

	r := assemble(*testFight(0, 60000), player, sampleEvents(), DefaultOptions(), list)
	if !r.Failed("boom") {
		t.Fatalf("Failures = %+v", r.Failures)
	}
	if r.Damage.DPS.Value == 0 {
		t.Fatal("other sections should still run")
	}
}

type fakeCollector struct {
	col *Collection
	err error
}

func (f *fakeCollector) Collect(ctx context.Context, req Request) (*Collection, error) {
	return f.col, f.err
}

func TestAnalyzeCollectorFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	_, err := Analyze(context.Background(), &fakeCollector{err: cause}, Request{ReportCode: "abc"}, DefaultOptions())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v should keep its cause", err)
	}

	_, err = Analyze(context.Background(), &fakeCollector{err: context.Canceled}, Request{}, DefaultOptions())
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("err = %v", err)
	}

	_, err = Analyze(context.Background(), &fakeCollector{}, Request{}, DefaultOptions())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("nil collection: err = %v", err)
	}
}

func TestAnalyzeNormalizes(t *testing.T) {
	col := &Collection{
		Fight:      *testFight(1000, 61000),
		SourceID:   player,
		SourceName: "Tester",
		Events: []CombatEvent{
			cast(30000, skillB),
			cast(500, skillA),
			cast(2000, skillA),
			cast(70000, skillC),
		},
	}

	r, err := Analyze(context.Background(), &fakeCollector{col: col}, Request{ReportCode: "abc"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if r.Events != 2 || r.CPM.Value != 2 {
		t.Fatalf("events %d cpm %+v", r.Events, r.CPM)
	}
	if r.Rotation.Opener[0].AbilityID != skillA {
		t.Fatalf("events not ordered: %+v", r.Rotation.Opener)
	}
	if r.SourceName != "Tester" {
		t.Fatalf("SourceName = %q", r.SourceName)
	}
}

func TestAssembleFoodEatenBeforePull(t *testing.T) {
	events := append(alternating(20, 300), remove(50000, staminaFood))
	events = NormalizeEvents(testFight(0, 60000), events)

	r := Assemble(*testFight(0, 60000), player, events, DefaultOptions())
	if r.Partial() {
		t.Fatalf("Failures = %+v", r.Failures)
	}
	if !r.Food.HasFood || r.Food.AbilityID != staminaFood {
		t.Fatalf("Food = %+v", r.Food)
	}
	b, ok := findBuff(r.Buffs, staminaFood)
	if !ok || b.Uptime.Value != 83.3 {
		t.Fatalf("Buffs = %+v", r.Buffs)
	}
}

func TestAnalyzeAuras(t *testing.T) {
	col := &Collection{
		Fight:    *testFight(1000, 61000),
		SourceID: player,
		Events:   []CombatEvent{cast(2000, skillA), remove(31000, majorSlayer)},
		Auras:    []int{staminaFood, majorSlayer},
	}

	r, err := Analyze(context.Background(), &fakeCollector{col: col}, Request{ReportCode: "abc"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !r.Food.HasFood || r.Food.AbilityID != staminaFood {
		t.Fatalf("Food = %+v", r.Food)
	}
	food, _ := findBuff(r.Buffs, staminaFood)
	slayer, _ := findBuff(r.Buffs, majorSlayer)
	if food.Uptime.Value != 100 || slayer.Uptime.Value != 50 {
		t.Fatalf("Buffs = %+v", r.Buffs)
	}
	if r.Partial() {
		t.Fatalf("Failures = %+v", r.Failures)
	}
}

func TestAnalyzeInvalidFight(t *testing.T) {
	col := &Collection{Fight: *testFight(5000, 1000)}
	_, err := Analyze(context.Background(), &fakeCollector{col: col}, Request{}, DefaultOptions())
	if !errors.Is(err, ErrInvalidFight) || !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
