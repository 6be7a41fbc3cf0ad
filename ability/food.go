package ability

type FoodType string

const (
	FoodNone                   FoodType = "none"
	FoodTriStat                FoodType = "tri-stat"
	FoodStamina                FoodType = "stamina"
	FoodMagicka                FoodType = "magicka"
	FoodHealthStamina          FoodType = "health-stamina"
	FoodHealthMagicka          FoodType = "health-magicka"
	FoodMagickaStamina         FoodType = "magicka-stamina"
	FoodStaminaMagickaRecovery FoodType = "stamina-magicka-recovery"
	FoodHealthRegen            FoodType = "health-regen"
	FoodEvent                  FoodType = "event"
	FoodXPBoost                FoodType = "xp-boost"
	FoodOther                  FoodType = "other"
)

// highest priority first
var foodPriority = []FoodType{
	FoodTriStat,
	FoodStamina,
	FoodMagicka,
	FoodHealthStamina,
	FoodHealthMagicka,
	FoodMagickaStamina,
	FoodStaminaMagickaRecovery,
	FoodHealthRegen,
	FoodEvent,
	FoodXPBoost,
	FoodOther,
}

var foodLabel = map[FoodType]string{
	FoodNone:                   "No Food",
	FoodTriStat:                "Tri-Stat Food",
	FoodStamina:                "Stamina Food",
	FoodMagicka:                "Magicka Food",
	FoodHealthStamina:          "Health & Stamina Food",
	FoodHealthMagicka:          "Health & Magicka Food",
	FoodMagickaStamina:         "Magicka & Stamina Food",
	FoodStaminaMagickaRecovery: "Stamina & Magicka Recovery Drink",
	FoodHealthRegen:            "Health & Regen Food",
	FoodEvent:                  "Event Drink (Witches Brew)",
	FoodXPBoost:                "Experience Boost Food",
	FoodOther:                  "Other Food",
}

func (t FoodType) Label() string {
	if s, ok := foodLabel[t]; ok {
		return s
	}
	return foodLabel[FoodOther]
}

// Priority returns the rank of t, lower is preferred. Unknown types rank last.
func (t FoodType) Priority() int {
	for i, v := range foodPriority {
		if v == t {
			return i
		}
	}
	return len(foodPriority)
}

// FoodTypeOf returns the consumable category of id, or FoodNone.
func FoodTypeOf(id int) FoodType {
	a, ok := abilityMap[id]
	if !ok || a.Kind != KindFood {
		return FoodNone
	}
	if a.Category == "" {
		return FoodOther
	}
	return FoodType(a.Category)
}
