package esologs

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"esologs_check/parse"
	"esologs_check/share/parallel"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	dataTypeCasts         = "Casts"
	dataTypeBuffs         = "Buffs"
	dataTypeDamage        = "DamageDone"
	dataTypeCombatantInfo = "CombatantInfo"

	eventCombatantInfo parse.EventType = "combatantinfo"

	pageLimit        = 10000
	maxStreamRetries = 3
)

// eventStream is one dataType of one fight, read page by page.
type eventStream struct {
	DataType     string
	TargetFilter bool // Buffs are matched on the receiving actor

	StartTime int64

	done    bool
	retries int
	events  []parse.CombatEvent
	auras   []int
}

type eventsQuery struct {
	Code         string
	FightID      int
	SourceID     int
	StartTime    int64
	EndTime      int64
	DataType     string
	TargetFilter bool
	Limit        int
}

func (st *eventStream) pageKey(code string, fightID int, sourceID int) string {
	return fmt.Sprintf("%s_fid_%d_sid_%d___%s_st_%d", code, fightID, sourceID, st.DataType, st.StartTime)
}

func (st *eventStream) apply(page *eventPage, endTime int64) {
	next := page.NextPageTimestamp
	if next != nil && *next <= endTime && *next <= st.StartTime {
		// the api did not advance; dropped and retried until maxStreamRetries
		return
	}

	for _, event := range page.Data {
		switch event.Type {
		case parse.EventCast, parse.EventBeginCast, parse.EventDamage, parse.EventApplyBuff, parse.EventRemoveBuff:
			st.events = append(st.events, event.CombatEvent)
		case eventCombatantInfo:
			for _, aura := range event.Auras {
				st.auras = append(st.auras, aura.Ability)
			}
		}
	}

	if next == nil || *next > endTime {
		st.done = true
		return
	}
	st.StartTime = *next
	st.retries = 0
}

// fetchEvents reads the Casts, Buffs, DamageDone and CombatantInfo streams of sourceID in
// fight and returns the events and the auras active at the pull.
// Pages already cached are replayed first, the rest are fetched one round at a time.
func (c *Client) fetchEvents(ctx context.Context, code string, fight *parse.Fight, sourceID int, progress func(string)) ([]parse.CombatEvent, []int, error) {
	streams := []*eventStream{
		{DataType: dataTypeCasts, StartTime: fight.StartTime},
		{DataType: dataTypeBuffs, StartTime: fight.StartTime, TargetFilter: true},
		{DataType: dataTypeDamage, StartTime: fight.StartTime},
		{DataType: dataTypeCombatantInfo, StartTime: fight.StartTime},
	}

	var pages int32
	report := func() {
		if progress == nil {
			return
		}
		done := 0
		for _, st := range streams {
			if st.done {
				done++
			}
		}
		progress(fmt.Sprintf("Fetching events... %d / %d streams (%d pages)", done, len(streams), atomic.LoadInt32(&pages)))
	}

	////////////////////////////////////////////////////////////////////////////////////////////////////

	if c.csEvents != nil {
		for _, st := range streams {
			for !st.done {
				var page eventPage
				if !c.csEvents.Load(cacheKeyf(st.pageKey(code, fight.ID, sourceID)), &page) {
					break
				}
				prev := st.StartTime
				st.apply(&page, fight.EndTime)
				atomic.AddInt32(&pages, 1)
				if !st.done && st.StartTime == prev {
					break
				}
			}
		}
	}
	report()

	////////////////////////////////////////////////////////////////////////////////////////////////////

	work := func(st *eventStream) parallel.Task {
		return func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}

			tmplData := eventsQuery{
				Code:         code,
				FightID:      fight.ID,
				SourceID:     sourceID,
				StartTime:    st.StartTime,
				EndTime:      fight.EndTime,
				DataType:     st.DataType,
				TargetFilter: st.TargetFilter,
				Limit:        pageLimit,
			}

			var resp respReportEvents
			err := c.CallGraphQL(ctx, tmplReportEvents, tmplData, &resp)
			if err != nil {
				return err
			}
			if resp.ReportData.Report == nil || resp.ReportData.Report.Events == nil {
				return errors.Wrapf(ErrUnknownReport, "%s: no %s events", code, st.DataType)
			}

			page := resp.ReportData.Report.Events
			if c.csEvents != nil {
				c.csEvents.Save(cacheKeyf(st.pageKey(code, fight.ID, sourceID)), page)
			}
			st.apply(page, fight.EndTime)
			atomic.AddInt32(&pages, 1)

			return nil
		}
	}

	pp := parallel.New(c.workers)
	for {
		pp.Reset(ctx)

		qCount := 0
		for _, st := range streams {
			if st.done || st.retries >= maxStreamRetries {
				continue
			}
			st.retries++
			pp.Add(work(st))
			qCount++
		}
		if qCount == 0 {
			break
		}

		err := pp.Wait()
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			return nil, nil, err
		}
		report()
	}

	total := 0
	for _, st := range streams {
		if !st.done {
			return nil, nil, errors.Wrapf(ErrIncompleteEvents, "%s fight %d %s stuck at %d", code, fight.ID, st.DataType, st.StartTime)
		}
		total += len(st.events)
	}

	events := make([]parse.CombatEvent, 0, total)
	seen := make(map[int]struct{})
	var auras []int
	for _, st := range streams {
		events = append(events, st.events...)
		for _, id := range st.auras {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				auras = append(auras, id)
			}
		}
	}
	sort.Ints(auras)
	sort.SliceStable(
		events,
		func(i, k int) bool {
			return events[i].Timestamp < events[k].Timestamp
		},
	)

	zap.L().Debug("events fetched",
		zap.String("report", code),
		zap.Int("fight", fight.ID),
		zap.Int("source", sourceID),
		zap.Int("events", len(events)),
		zap.Int("auras", len(auras)),
		zap.Int32("pages", atomic.LoadInt32(&pages)),
	)

	return events, auras, nil
}
