package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"xivsim/internal/sim"
)

var (
	websocketUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	websockEmptyClosure = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
)

type wsEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type wsProgress struct {
	Done      int           `json:"done"`
	Total     int           `json:"total"`
	Candidate sim.Candidate `json:"candidate"`
}

// wsConn serializes writes; gorilla connections allow one writer at a time.
type wsConn struct {
	lock sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) send(ev wsEvent) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	return errors.WithStack(w.conn.WriteJSON(&ev))
}

// routeSimulateWs reads one request, streams a progress event per finished
// candidate and ends with the report. Closing the socket cancels the run.
func (s *Server) routeSimulateWs(c *gin.Context) {
	ctx, ctxCancel := context.WithCancel(c.Request.Context())
	defer ctxCancel()
	c.Request = c.Request.WithContext(ctx)

	ws, err := websocketUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.Close()
	w := &wsConn{conn: ws}

	ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := ws.ReadMessage()
	if err != nil {
		s.log.Debug().Err(err).Msg("no request on websocket")
		return
	}
	ws.SetReadDeadline(time.Time{})

	p, err := s.prepare(msg)
	if err != nil {
		w.send(wsEvent{Event: "error", Data: err.Error()})
		return
	}

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				ctxCancel()
				return
			}
		}
	}()

	rep, err := s.run(c, p, func(done, total int, cand sim.Candidate) {
		if err := w.send(wsEvent{Event: "progress", Data: wsProgress{Done: done, Total: total, Candidate: cand}}); err != nil {
			ctxCancel()
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			s.log.Debug().Msg("websocket closed before the run finished")
			return
		}
		sentry.CaptureException(err)
		w.send(wsEvent{Event: "error", Data: err.Error()})
		return
	}
	if s.cache != nil {
		s.cache.Save(p.key, rep)
	}
	if err := w.send(wsEvent{Event: "report", Data: rep}); err != nil {
		s.log.Debug().Err(err).Msg("report not delivered")
		return
	}

	w.lock.Lock()
	err = ws.WriteMessage(websocket.CloseMessage, websockEmptyClosure)
	w.lock.Unlock()
	if err != nil {
		s.log.Debug().Err(err).Msg("close frame not delivered")
		return
	}
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
	}
}
