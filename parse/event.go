package parse

import (
	"sort"

	"github.com/pkg/errors"
)

type EventType string

const (
	EventCast       EventType = "cast"
	EventBeginCast  EventType = "begincast"
	EventDamage     EventType = "damage"
	EventApplyBuff  EventType = "applybuff"
	EventRemoveBuff EventType = "removebuff"
)

// CombatEvent is one entry of the fight log. TargetID and CastTrackID are 0 when absent.
type CombatEvent struct {
	Timestamp   int64     `json:"timestamp"`
	Type        EventType `json:"type"`
	AbilityID   int       `json:"abilityGameID"`
	SourceID    int       `json:"sourceID"`
	TargetID    int       `json:"targetID,omitempty"`
	Amount      int64     `json:"amount,omitempty"`
	Tick        bool      `json:"tick,omitempty"`
	CastTrackID int       `json:"castTrackID,omitempty"`
}

type Fight struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	IsKill    bool   `json:"kill"`
}

// Duration in milliseconds, never negative.
func (f *Fight) Duration() int64 {
	if f.EndTime <= f.StartTime {
		return 0
	}
	return f.EndTime - f.StartTime
}

func (f *Fight) Contains(ts int64) bool {
	return ts >= f.StartTime && ts <= f.EndTime
}

// Validate rejects fights that end before they start. A zero length fight is accepted;
// its rates come out undefined.
func (f *Fight) Validate() error {
	if f.EndTime < f.StartTime {
		return errors.Wrapf(ErrInvalidFight, "fight %d ends at %d before it starts at %d", f.ID, f.EndTime, f.StartTime)
	}
	return nil
}

// Scope narrows an analysis to one fight and, when SourceID is non zero, one actor.
type Scope struct {
	Fight    *Fight
	SourceID int
}

func (s Scope) duration() int64 {
	if s.Fight == nil {
		return 0
	}
	return s.Fight.Duration()
}

func (s Scope) bySource(e *CombatEvent) bool {
	return s.SourceID == 0 || e.SourceID == s.SourceID
}

// onSource matches events landing on the analyzed actor. Self buffs may be logged without a target.
func (s Scope) onSource(e *CombatEvent) bool {
	if s.SourceID == 0 {
		return true
	}
	if e.TargetID == 0 {
		return e.SourceID == s.SourceID
	}
	return e.TargetID == s.SourceID
}

func (s Scope) relative(ts int64) int64 {
	if s.Fight == nil {
		return ts
	}
	return ts - s.Fight.StartTime
}

// NormalizeEvents drops events outside the fight window and orders the rest by timestamp.
// Events sharing a timestamp keep their original order.
func NormalizeEvents(fight *Fight, events []CombatEvent) []CombatEvent {
	r := make([]CombatEvent, 0, len(events))
	for _, e := range events {
		if fight.Contains(e.Timestamp) {
			r = append(r, e)
		}
	}

	sort.SliceStable(
		r,
		func(i, k int) bool {
			return r[i].Timestamp < r[k].Timestamp
		},
	)

	return r
}
