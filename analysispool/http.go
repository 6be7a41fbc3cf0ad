package analysispool

import (
	"context"
	"io"
	"time"

	"esologs_check/share"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	pingInterval  = 5 * time.Second
	requestWait   = 30 * time.Second
	closingLinger = time.Second
)

var websockEmptyClosure = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")

// Do speaks the analysis protocol on ws: ready, then one request, then waiting/start/progress
// events and finally complete or error.
func (p *Pool) Do(ctx context.Context, ws *websocket.Conn) {
	ctx, ctxCancel := context.WithCancel(ctx)
	defer ctxCancel()

	q := &queueData{
		ws:         ws,
		ctx:        ctx,
		ctxCancel:  ctxCancel,
		chanResult: make(chan queueResult, 1),
	}

	err := q.MessageBytes(eventReady)
	if err != nil {
		q.fail(errors.WithStack(err))
		return
	}

	ws.SetReadDeadline(time.Now().Add(requestWait))
	err = ws.ReadJSON(&q.reqData)
	if err != nil {
		zap.L().Debug("no analysis request", zap.Error(err))
		return
	}
	ws.SetReadDeadline(time.Time{})

	go func() {
		defer ctxCancel()
		for {
			_, r, err := ws.NextReader()
			if err != nil {
				return
			}

			_, err = io.Copy(io.Discard, r)
			if err != nil && err != io.EOF {
				return
			}
		}
	}()

	////////////////////////////////////////////////////////////////////////////////////////////////////

	err = q.reqData.Normalize()
	if err != nil {
		q.Error(err)
	} else if data, ok := p.loadResult(&q.reqData); ok {
		q.Succ(data)
	} else {
		go func() {
			ticker := time.NewTicker(pingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					q.msgLock.Lock()
					err := ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(pingInterval))
					q.msgLock.Unlock()
					if err != nil {
						q.fail(errors.WithStack(err))
						return
					}

				case <-ctx.Done():
					return
				}
			}
		}()

		p.enqueue(q)

		select {
		case <-ctx.Done():
		case res := <-q.chanResult:
			if res.err != nil {
				if !share.IsContextClosedError(res.err) {
					q.Error(res.err)
				}
			} else {
				q.Succ(res.data)
			}
		}
	}

	if ctx.Err() != nil {
		return
	}

	time.Sleep(closingLinger)

	q.msgLock.Lock()
	err = ws.WriteMessage(websocket.CloseMessage, websockEmptyClosure)
	q.msgLock.Unlock()
	if err != nil && err != websocket.ErrCloseSent {
		zap.L().Debug("close message", zap.Error(err))
	}
}
