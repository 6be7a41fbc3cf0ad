package parse

import (
	"context"
	"sort"
	"sync"

	"esologs_check/share/parallel"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	SectionCPM        = "cpm"
	SectionDamage     = "damage"
	SectionWeave      = "weave"
	SectionBuffs      = "buffs"
	SectionFood       = "food"
	SectionTrialDummy = "trialDummy"
	SectionRotation   = "rotation"
	SectionActiveTime = "activeTime"
	SectionBarSwaps   = "barSwaps"
	SectionUltimates  = "ultimates"
	SectionDots       = "dots"
)

type Options struct {
	WeaveGapMs   int64 `json:"weaveGapMs"`
	OpenerLength int   `json:"openerLength"`
	Workers      int   `json:"-"`
}

func DefaultOptions() Options {
	return Options{
		WeaveGapMs:   DefaultWeaveGap,
		OpenerLength: DefaultOpenerLength,
		Workers:      4,
	}
}

type SectionFailure struct {
	Section string `json:"section"`
	Error   string `json:"error"`
}

// Report is the assembled analysis of one actor in one fight. It holds no wall clock
// values, so the same input always marshals to the same bytes.
type Report struct {
	Fight      Fight   `json:"fight"`
	SourceID   int     `json:"sourceID"`
	SourceName string  `json:"sourceName,omitempty"`
	Events     int     `json:"events"`
	Options    Options `json:"options"`

	CPM        Rate             `json:"cpm"`
	Damage     DamageResult     `json:"damage"`
	Weave      WeaveResult      `json:"weave"`
	Buffs      BuffResult       `json:"buffs"`
	Food       FoodResult       `json:"food"`
	TrialDummy DummyResult      `json:"trialDummy"`
	Rotation   RotationResult   `json:"rotation"`
	ActiveTime ActiveTimeResult `json:"activeTime"`
	BarSwaps   BarSwapResult    `json:"barSwaps"`
	Ultimates  UltimateResult   `json:"ultimates"`
	Dots       DotResult        `json:"dots"`

	Failures []SectionFailure `json:"failures,omitempty"`
}

func (r *Report) Failed(section string) bool {
	for _, f := range r.Failures {
		if f.Section == section {
			return true
		}
	}
	return false
}

func (r *Report) Partial() bool {
	return len(r.Failures) > 0
}

type section struct {
	name string
	run  func(scope Scope, events []CombatEvent, opts Options, r *Report) error
}

var sections = []section{
	{SectionCPM, func(s Scope, ev []CombatEvent, _ Options, r *Report) error {
		r.CPM = CastsPerMinute(s, ev)
		return nil
	}},
	{SectionDamage, func(s Scope, ev []CombatEvent, _ Options, r *Report) error {
		r.Damage = DamagePerSecond(s, ev)
		return nil
	}},
	{SectionWeave, func(s Scope, ev []CombatEvent, o Options, r *Report) error {
		r.Weave = Weave(s, ev, o.WeaveGapMs)
		return nil
	}},
	{SectionBuffs, func(s Scope, ev []CombatEvent, _ Options, r *Report) (err error) {
		r.Buffs, err = BuffPresence(s, ev)
		return err
	}},
	{SectionFood, func(s Scope, ev []CombatEvent, _ Options, r *Report) error {
		r.Food = Food(s, ev)
		return nil
	}},
	{SectionTrialDummy, func(s Scope, ev []CombatEvent, _ Options, r *Report) error {
		r.TrialDummy = TrialDummy(s, ev)
		return nil
	}},
	{SectionRotation, func(s Scope, ev []CombatEvent, o Options, r *Report) error {
		r.Rotation = Rotation(s, ev, o.OpenerLength)
		return nil
	}},
	{SectionActiveTime, func(s Scope, ev []CombatEvent, _ Options, r *Report) error {
		r.ActiveTime = ActiveTime(s, ev)
		return nil
	}},
	{SectionBarSwaps, func(s Scope, ev []CombatEvent, _ Options, r *Report) error {
		r.BarSwaps = BarSwaps(s, ev)
		return nil
	}},
	{SectionUltimates, func(s Scope, ev []CombatEvent, _ Options, r *Report) error {
		r.Ultimates = Ultimates(s, ev)
		return nil
	}},
	{SectionDots, func(s Scope, ev []CombatEvent, _ Options, r *Report) error {
		r.Dots = DotUptimes(s, ev)
		return nil
	}},
}

// Assemble runs every aggregator over the events and collects the results. A failing or
// panicking aggregator is recorded in Failures and never aborts the other sections.
// events must already be normalized to the fight window.
func Assemble(fight Fight, sourceID int, events []CombatEvent, opts Options) *Report {
	return assemble(fight, sourceID, events, opts, sections)
}

func assemble(fight Fight, sourceID int, events []CombatEvent, opts Options, list []section) *Report {
	r := &Report{
		Fight:    fight,
		SourceID: sourceID,
		Events:   len(events),
		Options:  opts,
	}
	scope := Scope{
		Fight:    &r.Fight,
		SourceID: sourceID,
	}

	var failLock sync.Mutex
	fail := func(name string, err error) {
		zap.L().Warn("analysis section failed",
			zap.String("section", name),
			zap.Int("fight", fight.ID),
			zap.Int("source", sourceID),
			zap.Error(err),
		)

		failLock.Lock()
		r.Failures = append(r.Failures, SectionFailure{Section: name, Error: err.Error()})
		failLock.Unlock()
	}

	pp := parallel.New(opts.Workers)

	for _, sec := range list {
		sec := sec
		pp.Add(func(_ context.Context) error {
			defer func() {
				if v := recover(); v != nil {
					fail(sec.name, errors.Errorf("panic: %v", v))
				}
			}()

			if err := sec.run(scope, events, opts, r); err != nil {
				fail(sec.name, err)
			}
			return nil
		})
	}
	pp.Wait()

	sort.Slice(
		r.Failures,
		func(i, k int) bool {
			return r.Failures[i].Section < r.Failures[k].Section
		},
	)

	return r
}
