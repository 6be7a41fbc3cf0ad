package parse

import (
	"context"

	"github.com/pkg/errors"
)

// Request selects one actor in one fight of a hosted report. FightID 0 picks the last
// fight of the report, SourceID 0 the first friendly player of that fight.
type Request struct {
	ReportCode string `json:"reportCode"`
	FightID    int    `json:"fightID"`
	SourceID   int    `json:"sourceID"`
}

// Collection is what a Collector resolved for a Request. Auras are the buff ids already
// active on the source when the fight started.
type Collection struct {
	Fight      Fight
	SourceID   int
	SourceName string
	Events     []CombatEvent
	Auras      []int
}

// AuraEvents turns the auras active at the fight start into applybuff events on sourceID.
func AuraEvents(fight *Fight, sourceID int, auras []int) []CombatEvent {
	if len(auras) == 0 {
		return nil
	}

	events := make([]CombatEvent, 0, len(auras))
	for _, id := range auras {
		events = append(events, CombatEvent{
			Timestamp: fight.StartTime,
			Type:      EventApplyBuff,
			AbilityID: id,
			SourceID:  sourceID,
			TargetID:  sourceID,
		})
	}
	return events
}

// Collector fetches the events of one actor in one fight. It is the only blocking step
// of an analysis.
type Collector interface {
	Collect(ctx context.Context, req Request) (*Collection, error)
}

type collectError struct {
	err error
}

func (e *collectError) Error() string {
	return ErrDataUnavailable.Error() + ": " + e.err.Error()
}

func (e *collectError) Is(target error) bool { return target == ErrDataUnavailable }
func (e *collectError) Unwrap() error        { return e.err }

// Analyze collects the events for req and assembles the report. Only a collector failure
// aborts; the returned error then matches ErrDataUnavailable and whatever caused it.
func Analyze(ctx context.Context, c Collector, req Request, opts Options) (*Report, error) {
	col, err := c.Collect(ctx, req)
	if err == nil && col == nil {
		err = errors.Errorf("no data for report %q fight %d", req.ReportCode, req.FightID)
	}
	if err != nil {
		if errors.Is(err, ErrDataUnavailable) {
			return nil, err
		}
		return nil, &collectError{err: err}
	}

	if err := col.Fight.Validate(); err != nil {
		return nil, &collectError{err: err}
	}

	events := col.Events
	if auras := AuraEvents(&col.Fight, col.SourceID, col.Auras); auras != nil {
		events = append(auras, events...)
	}
	events = NormalizeEvents(&col.Fight, events)

	r := Assemble(col.Fight, col.SourceID, events, opts)
	r.SourceName = col.SourceName
	return r, nil
}
