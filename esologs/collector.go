package esologs

import (
	"context"
	"time"

	"esologs_check/parse"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Collect implements parse.Collector.
func (c *Client) Collect(ctx context.Context, req parse.Request) (*parse.Collection, error) {
	return c.CollectWithProgress(ctx, req, nil)
}

// CollectWithProgress is Collect reporting human readable stage messages to progress.
func (c *Client) CollectWithProgress(ctx context.Context, req parse.Request, progress func(string)) (*parse.Collection, error) {
	if req.ReportCode == "" || !reportCodePattern.MatchString(req.ReportCode) {
		return nil, errors.Wrapf(ErrInvalidReportURL, "report code %q", req.ReportCode)
	}
	if progress == nil {
		progress = func(string) {}
	}

	started := time.Now()

	progress("Loading report summary...")
	summary, err := c.reportSummary(ctx, req.ReportCode)
	if err != nil {
		return nil, err
	}

	fight, sourceID, err := summary.selectFight(req)
	if err != nil {
		return nil, err
	}

	events, auras, err := c.fetchEvents(ctx, req.ReportCode, &fight.Fight, sourceID, progress)
	if err != nil {
		return nil, err
	}

	zap.L().Info("collected",
		zap.String("report", req.ReportCode),
		zap.Int("fight", fight.ID),
		zap.Int("source", sourceID),
		zap.Int("events", len(events)),
		zap.Duration("took", time.Since(started)),
	)

	return &parse.Collection{
		Fight:      fight.Fight,
		SourceID:   sourceID,
		SourceName: summary.actorName(sourceID),
		Events:     events,
		Auras:      auras,
	}, nil
}
