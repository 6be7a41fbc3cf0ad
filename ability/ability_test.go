package ability

import (
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestClassifiers(t *testing.T) {
	tests := []struct {
		id       int
		light    bool
		heavy    bool
		swap     bool
		synergy  bool
		ultimate bool
		rotation bool
	}{
		{id: 16688, light: true},
		{id: 16041, heavy: true},
		{id: SwapWeapons, swap: true},
		{id: 41965, synergy: true},
		{id: 40223, ultimate: true, rotation: true},
		{id: 61902, rotation: true},
		{id: 123456789, rotation: true},
	}

	for _, tt := range tests {
		if got := IsLightAttack(tt.id); got != tt.light {
			t.Errorf("IsLightAttack(%d) = %v", tt.id, got)
		}
		if got := IsHeavyAttack(tt.id); got != tt.heavy {
			t.Errorf("IsHeavyAttack(%d) = %v", tt.id, got)
		}
		if got := IsWeaponSwap(tt.id); got != tt.swap {
			t.Errorf("IsWeaponSwap(%d) = %v", tt.id, got)
		}
		if got := IsSynergy(tt.id); got != tt.synergy {
			t.Errorf("IsSynergy(%d) = %v", tt.id, got)
		}
		if got := IsUltimate(tt.id); got != tt.ultimate {
			t.Errorf("IsUltimate(%d) = %v", tt.id, got)
		}
		if got := IsRotationSkill(tt.id); got != tt.rotation {
			t.Errorf("IsRotationSkill(%d) = %v", tt.id, got)
		}
	}
}

func TestUltimateNameFallback(t *testing.T) {
	err := load(strings.NewReader("\xEF\xBB\xBF0,id,name,kind,category,dummy\n1,999001,Blighted Colossus,skill,,\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer delete(abilityMap, 999001)

	if !IsUltimate(999001) {
		t.Error("skill named after a colossus should count as an ultimate")
	}
	if Name(999001) != "Blighted Colossus" {
		t.Errorf("Name = %q", Name(999001))
	}
}

func TestLoadBadID(t *testing.T) {
	err := load(strings.NewReader("1,abc,Broken,skill,,\n"))
	if err == nil {
		t.Fatal("expected error for non-numeric id")
	}

	var numErr *strconv.NumError
	if !errors.As(err, &numErr) || !strings.Contains(err.Error(), `bad id "abc"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestName(t *testing.T) {
	if got := Name(28541); got != "Swap Weapons" {
		t.Errorf("Name(28541) = %q", got)
	}
	if got := Name(42); got != "Unknown (42)" {
		t.Errorf("Name(42) = %q", got)
	}
}

func TestFoodTypeOf(t *testing.T) {
	tests := []struct {
		id   int
		want FoodType
	}{
		{61218, FoodTriStat},
		{61255, FoodStamina},
		{89955, FoodStaminaMagickaRecovery},
		{84731, FoodEvent},
		{109966, FoodNone},
		{1, FoodNone},
	}
	for _, tt := range tests {
		if got := FoodTypeOf(tt.id); got != tt.want {
			t.Errorf("FoodTypeOf(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}

	if FoodTriStat.Priority() >= FoodStamina.Priority() {
		t.Error("tri-stat must outrank stamina food")
	}
	if FoodType("bogus").Priority() != len(foodPriority) {
		t.Error("unknown food type should rank last")
	}
	if FoodStamina.Label() != "Stamina Food" {
		t.Errorf("Label = %q", FoodStamina.Label())
	}
}

func TestTrialDummyBuffs(t *testing.T) {
	ids := TrialDummyBuffs()
	if len(ids) != 5 {
		t.Fatalf("got %d dummy buffs, want 5", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("dummy buffs not sorted: %v", ids)
		}
	}

	ids[0] = -1
	if TrialDummyBuffs()[0] == -1 {
		t.Error("TrialDummyBuffs must return a copy")
	}
}

func TestClassification(t *testing.T) {
	a, _ := Lookup(93109)
	if a.Classification() != "Major Buff" {
		t.Errorf("Classification = %q", a.Classification())
	}
	a, _ = Lookup(61255)
	if a.Classification() != "Stamina Food" {
		t.Errorf("Classification = %q", a.Classification())
	}
	if !IsTrackedBuff(61255) || !IsTrackedBuff(93109) || IsTrackedBuff(16688) {
		t.Error("IsTrackedBuff mismatch")
	}
}
