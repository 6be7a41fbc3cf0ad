package parse

import (
	"sort"

	"esologs_check/ability"
)

const (
	DefaultOpenerLength = 5

	spammableShare     = 0.3
	patternMinLength   = 2
	patternMaxLength   = 25
	patternMaxOffset   = 3
	patternMatchShare  = 0.6
	patternMinCoverage = 0.4
)

type AbilityCount struct {
	AbilityID int    `json:"abilityGameID"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	FirstCast int64  `json:"firstCastMs"`
}

type OpenerCast struct {
	AbilityID int    `json:"abilityGameID"`
	Name      string `json:"name"`
	At        int64  `json:"atMs"`
}

type RotationPattern struct {
	Sequence    []int `json:"sequence"`
	Repetitions int   `json:"repetitions"`
	Coverage    Rate  `json:"coverage"`
}

type RotationResult struct {
	TotalCasts int              `json:"totalCasts"`
	Abilities  []AbilityCount   `json:"abilities"`
	Opener     []OpenerCast     `json:"opener"`
	Spammables []int            `json:"spammables,omitempty"`
	Pattern    *RotationPattern `json:"pattern,omitempty"`
}

// Rotation builds the per-ability cast frequency table over every cast by the actor,
// ordered by count with ties kept in first cast order. The opener, spammables and
// repeating pattern are computed over skill casts only: light and heavy attacks,
// weapon swaps and synergies are left out.
func Rotation(scope Scope, events []CombatEvent, openerLength int) RotationResult {
	if openerLength <= 0 {
		openerLength = DefaultOpenerLength
	}

	var (
		r      RotationResult
		index  = make(map[int]int)
		skills = make([]int, 0, 64)
		opened = make(map[int]bool)
	)

	for i := range events {
		e := &events[i]
		if e.Type != EventCast || !scope.bySource(e) {
			continue
		}
		r.TotalCasts++

		k, ok := index[e.AbilityID]
		if !ok {
			k = len(r.Abilities)
			index[e.AbilityID] = k
			r.Abilities = append(r.Abilities, AbilityCount{
				AbilityID: e.AbilityID,
				Name:      ability.Name(e.AbilityID),
				FirstCast: scope.relative(e.Timestamp),
			})
		}
		r.Abilities[k].Count++

		if !ability.IsRotationSkill(e.AbilityID) {
			continue
		}
		skills = append(skills, e.AbilityID)

		if len(r.Opener) < openerLength && !opened[e.AbilityID] {
			opened[e.AbilityID] = true
			r.Opener = append(r.Opener, OpenerCast{
				AbilityID: e.AbilityID,
				Name:      ability.Name(e.AbilityID),
				At:        scope.relative(e.Timestamp),
			})
		}
	}

	sort.SliceStable(
		r.Abilities,
		func(i, k int) bool {
			return r.Abilities[i].Count > r.Abilities[k].Count
		},
	)

	r.Spammables = spammables(skills)
	r.Pattern = detectPattern(skills)
	if r.Pattern == nil && len(r.Spammables) > 0 {
		r.Pattern = detectPattern(without(skills, r.Spammables))
	}

	return r
}

func spammables(skills []int) []int {
	if len(skills) == 0 {
		return nil
	}

	count := make(map[int]int)
	for _, id := range skills {
		count[id]++
	}

	var r []int
	for id, c := range count {
		if float64(c)/float64(len(skills)) > spammableShare {
			r = append(r, id)
		}
	}
	sort.Ints(r)
	return r
}

func without(seq []int, drop []int) []int {
	r := make([]int, 0, len(seq))
	for _, id := range seq {
		skip := false
		for _, d := range drop {
			if id == d {
				skip = true
				break
			}
		}
		if !skip {
			r = append(r, id)
		}
	}
	return r
}

// detectPattern looks for the shortest sequence that repeats at least twice from one of
// the first few positions, each repetition matching at least 60% element-wise, with the
// matched elements covering at least 40% of all casts.
func detectPattern(seq []int) *RotationPattern {
	n := len(seq)
	if n < 4 {
		return nil
	}

	maxLength := n / 2
	if maxLength > patternMaxLength {
		maxLength = patternMaxLength
	}

	for length := patternMinLength; length <= maxLength; length++ {
		for offset := 0; offset < patternMaxOffset && offset < n-length; offset++ {
			pattern := seq[offset : offset+length]
			reps := 1
			matched := length
			pos := offset + length

			for pos+length <= n {
				m := 0
				for i := 0; i < length; i++ {
					if seq[pos+i] == pattern[i] {
						m++
					}
				}
				if float64(m)/float64(length) < patternMatchShare {
					break
				}
				reps++
				matched += m
				pos += length
			}

			coverage := float64(matched) / float64(n)
			if reps >= 2 && coverage >= patternMinCoverage {
				p := &RotationPattern{
					Sequence:    make([]int, length),
					Repetitions: reps,
					Coverage:    DefinedRate(coverage * 100),
				}
				copy(p.Sequence, pattern)
				return p
			}
		}
	}

	return nil
}
