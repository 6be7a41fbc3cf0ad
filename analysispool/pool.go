package analysispool

import (
	"bytes"
	"context"
	"sync"
	"time"

	"esologs_check/cache"
	"esologs_check/parse"
	"esologs_check/publish"
	"esologs_check/share"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Collector is a parse.Collector that can report stage messages while it works.
type Collector interface {
	parse.Collector
	CollectWithProgress(ctx context.Context, req parse.Request, progress func(string)) (*parse.Collection, error)
}

type progressCollector struct {
	c        Collector
	progress func(string)
}

func (pc progressCollector) Collect(ctx context.Context, req parse.Request) (*parse.Collection, error) {
	return pc.c.CollectWithProgress(ctx, req, pc.progress)
}

// WithProgress adapts c so parse.Analyze reports its stages to progress.
func WithProgress(c Collector, progress func(string)) parse.Collector {
	return progressCollector{c, progress}
}

// Pool serializes websocket analyses through one worker and serves cached results.
type Pool struct {
	collector Collector
	opts      parse.Options
	csResult  *cache.Storage
	publisher publish.Publisher

	queueLock sync.Mutex
	queue     []*queueData
	queueWake chan struct{}
}

// New builds a pool. csResult and publisher may be nil.
func New(collector Collector, opts parse.Options, csResult *cache.Storage, publisher publish.Publisher) *Pool {
	if publisher == nil {
		publisher = publish.Noop{}
	}
	return &Pool{
		collector: collector,
		opts:      opts,
		csResult:  csResult,
		publisher: publisher,
		queue:     make([]*queueData, 0, 16),
		queueWake: make(chan struct{}, 1),
	}
}

// Start runs the queue worker until ctx is done.
func (p *Pool) Start(ctx context.Context) {
	go p.queueWorker(ctx)
}

// Analyze returns the report JSON for rd, from the result cache when possible.
// Failures wrap parse.ErrDataUnavailable.
func (p *Pool) Analyze(ctx context.Context, rd *RequestData) ([]byte, error) {
	if data, ok := p.loadResult(rd); ok {
		return data, nil
	}
	return p.run(ctx, rd, nil)
}

func (p *Pool) loadResult(rd *RequestData) ([]byte, bool) {
	if p.csResult == nil {
		return nil, false
	}

	var buf bytes.Buffer
	if !p.csResult.LoadRaw(rd.Hash(p.opts), &buf) {
		return nil, false
	}
	analysesTotal.WithLabelValues(resultCached).Inc()
	return buf.Bytes(), true
}

func (p *Pool) run(ctx context.Context, rd *RequestData, progress func(string)) ([]byte, error) {
	if progress == nil {
		progress = func(string) {}
	}

	started := time.Now()
	r, err := parse.Analyze(ctx, WithProgress(p.collector, progress), rd.Request, p.opts)
	analysisDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		if share.IsContextClosedError(err) {
			analysesTotal.WithLabelValues(resultCanceled).Inc()
		} else {
			analysesTotal.WithLabelValues(resultUnavailable).Inc()
			zap.L().Warn("analysis failed",
				zap.String("report", rd.ReportCode),
				zap.Int("fight", rd.FightID),
				zap.Int("source", rd.SourceID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	for _, f := range r.Failures {
		sectionFailures.WithLabelValues(f.Section).Inc()
	}
	if r.Partial() {
		analysesTotal.WithLabelValues(resultPartial).Inc()
	} else {
		analysesTotal.WithLabelValues(resultOK).Inc()
	}

	data, err := jsoniter.Marshal(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if p.csResult != nil {
		p.csResult.SaveRaw(rd.Hash(p.opts), data)
	}

	err = p.publisher.Publish(ctx, rd.ReportCode, r)
	if err != nil {
		share.Capture(err, zap.String("report", rd.ReportCode))
	}

	return data, nil
}
