package ability

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
)

type Kind string

const (
	KindSkill       Kind = "skill"
	KindLightAttack Kind = "light"
	KindHeavyAttack Kind = "heavy"
	KindWeaponSwap  Kind = "swap"
	KindSynergy     Kind = "synergy"
	KindUltimate    Kind = "ultimate"
	KindFood        Kind = "food"
	KindBuff        Kind = "buff"
)

const SwapWeapons = 28541

type Ability struct {
	ID       int
	Name     string
	Kind     Kind
	Category string
	Dummy    bool
}

// Classification is the human readable label shown next to a recognized buff.
func (a Ability) Classification() string {
	switch a.Kind {
	case KindFood:
		return FoodType(a.Category).Label()
	case KindBuff:
		switch a.Category {
		case "major":
			return "Major Buff"
		case "minor":
			return "Minor Buff"
		}
		return "Buff"
	}
	return ""
}

//go:embed abilities.csv
var abilitiesCsv []byte

var (
	abilityMap  = make(map[int]Ability)
	dummyBuffs  []int
	ultimateKey = []string{"ultimate", "colossus", "atronach", "dawnbreaker", "warhorn", "aggressive horn"}
)

// Table returns the embedded ability table. Caches of assembled reports use it as a
// source so they are dropped when the table changes.
func Table() []byte {
	return abilitiesCsv
}

func init() {
	err := load(bytes.NewReader(abilitiesCsv))
	if err != nil {
		panic(err)
	}
}

func load(r io.Reader) error {
	sr, _ := utfbom.Skip(r)

	cr := csv.NewReader(sr)
	cr.FieldsPerRecord = -1
	for {
		d, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if len(d) < 4 || d[0] != "1" {
			continue
		}

		id, err := strconv.Atoi(d[1])
		if err != nil {
			return errors.Wrapf(err, "abilities.csv: bad id %q", d[1])
		}

		a := Ability{
			ID:   id,
			Name: d[2],
			Kind: Kind(d[3]),
		}
		if len(d) > 4 {
			a.Category = d[4]
		}
		if len(d) > 5 && d[5] == "1" {
			a.Dummy = true
			dummyBuffs = append(dummyBuffs, id)
		}
		abilityMap[id] = a
	}

	sort.Ints(dummyBuffs)
	return nil
}

func Lookup(id int) (Ability, bool) {
	a, ok := abilityMap[id]
	return a, ok
}

func Name(id int) string {
	if a, ok := abilityMap[id]; ok && a.Name != "" {
		return a.Name
	}
	return fmt.Sprintf("Unknown (%d)", id)
}

func kindOf(id int) Kind {
	if a, ok := abilityMap[id]; ok {
		return a.Kind
	}
	return KindSkill
}

func IsLightAttack(id int) bool { return kindOf(id) == KindLightAttack }
func IsHeavyAttack(id int) bool { return kindOf(id) == KindHeavyAttack }
func IsWeaponSwap(id int) bool  { return id == SwapWeapons }
func IsSynergy(id int) bool     { return kindOf(id) == KindSynergy }

// IsUltimate matches the known ultimate table first, then falls back to name keywords.
func IsUltimate(id int) bool {
	a, ok := abilityMap[id]
	if !ok {
		return false
	}
	if a.Kind == KindUltimate {
		return true
	}
	if a.Kind != KindSkill {
		return false
	}
	lower := strings.ToLower(a.Name)
	for _, k := range ultimateKey {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// IsRotationSkill reports whether a cast belongs to the skill rotation proper.
func IsRotationSkill(id int) bool {
	switch kindOf(id) {
	case KindLightAttack, KindHeavyAttack, KindWeaponSwap, KindSynergy:
		return false
	}
	return true
}

// IsTrackedBuff reports whether id is a consumable or raid buff from the reference table.
func IsTrackedBuff(id int) bool {
	switch kindOf(id) {
	case KindFood, KindBuff:
		return true
	}
	return false
}

// TrialDummyBuffs returns the buff ids a trial dummy grants, sorted.
func TrialDummyBuffs() []int {
	r := make([]int, len(dummyBuffs))
	copy(r, dummyBuffs)
	return r
}
