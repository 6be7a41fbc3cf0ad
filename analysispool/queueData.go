package analysispool

import (
	"bytes"
	"context"
	"sync"

	"esologs_check/share"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type queueResult struct {
	data []byte
	err  error
}

type queueData struct {
	reqData RequestData

	ws        *websocket.Conn
	ctx       context.Context
	ctxCancel func()

	chanResult chan queueResult

	msgLock sync.Mutex
}

var (
	eventRespBufferPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 16*1024))
		},
	}

	eventReady = []byte(`{"event":"ready"}`)
	eventStart = []byte(`{"event":"start"}`)
)

// enqueue adds q and tells it its position before the worker can pick it up.
func (p *Pool) enqueue(q *queueData) {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	p.queue = append(p.queue, q)
	queueLength.Set(float64(len(p.queue)))
	q.Reorder(len(p.queue))

	select {
	case p.queueWake <- struct{}{}:
	default:
	}
}

func (p *Pool) dequeue() *queueData {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	if len(p.queue) == 0 {
		return nil
	}

	q := p.queue[0]
	for i := 1; i < len(p.queue); i++ {
		go p.queue[i].Reorder(i)
		p.queue[i-1] = p.queue[i]
	}
	p.queue[len(p.queue)-1] = nil
	p.queue = p.queue[:len(p.queue)-1]
	queueLength.Set(float64(len(p.queue)))

	return q
}

func (p *Pool) queueWorker(ctx context.Context) {
	for {
		q := p.dequeue()
		if q == nil {
			select {
			case <-p.queueWake:
				continue
			case <-ctx.Done():
				return
			}
		}

		if q.ctx.Err() != nil {
			q.chanResult <- queueResult{err: q.ctx.Err()}
			continue
		}

		zap.L().Info("analysis start", zap.String("report", q.reqData.ReportCode), zap.Int("fight", q.reqData.FightID))
		q.Start()

		data, err := p.run(q.ctx, &q.reqData, q.Progress)
		q.chanResult <- queueResult{data: data, err: err}

		zap.L().Info("analysis end", zap.String("report", q.reqData.ReportCode), zap.Int("fight", q.reqData.FightID), zap.Bool("ok", err == nil))
	}
}

func (q *queueData) MessageJson(resp interface{}) error {
	buf := eventRespBufferPool.Get().(*bytes.Buffer)
	defer eventRespBufferPool.Put(buf)

	buf.Reset()

	err := jsoniter.NewEncoder(buf).Encode(resp)
	if err != nil {
		return errors.WithStack(err)
	}

	return q.MessageBytes(buf.Bytes())
}

func (q *queueData) MessageBytes(data []byte) error {
	q.msgLock.Lock()
	defer q.msgLock.Unlock()

	return q.ws.WriteMessage(websocket.TextMessage, data)
}

// fail reports a write error and gives up on the client.
func (q *queueData) fail(err error) {
	if q.ctx.Err() == nil && !errors.Is(err, websocket.ErrCloseSent) && !share.IsContextClosedError(err) {
		share.Capture(err)
	}
	q.ctxCancel()
}

func (q *queueData) Reorder(order int) {
	resp := struct {
		Event string `json:"event"`
		Data  int    `json:"data"`
	}{
		Event: "waiting",
		Data:  order,
	}

	if err := q.MessageJson(&resp); err != nil {
		q.fail(err)
	}
}

func (q *queueData) Start() {
	if err := q.MessageBytes(eventStart); err != nil {
		q.fail(err)
	}
}

func (q *queueData) Progress(s string) {
	resp := struct {
		Event string `json:"event"`
		Data  string `json:"data"`
	}{
		Event: "progress",
		Data:  s,
	}

	if err := q.MessageJson(&resp); err != nil {
		q.fail(err)
	}
}

func (q *queueData) Error(cause error) {
	resp := struct {
		Event string `json:"event"`
		Data  string `json:"data"`
	}{
		Event: "error",
		Data:  cause.Error(),
	}

	if err := q.MessageJson(&resp); err != nil {
		q.fail(err)
	}
}

func (q *queueData) Succ(report []byte) {
	resp := struct {
		Event string              `json:"event"`
		Data  jsoniter.RawMessage `json:"data"`
	}{
		Event: "complete",
		Data:  report,
	}

	if err := q.MessageJson(&resp); err != nil {
		q.fail(err)
	}
}
