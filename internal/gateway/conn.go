package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"gochat/internal/metrics"
)

// conn is one live websocket session. It implements session.Conn. Outbound
// events go through a buffered queue drained by a single write pump so Send
// never blocks the dispatcher; a full queue marks the consumer as too slow
// and the connection is dropped.
type conn struct {
	id       string
	identity string
	ws       *websocket.Conn
	sendq    chan ServerEvent
	limiter  *rate.Limiter
	gw       *Gateway

	closeOnce sync.Once
	closed    chan struct{}
}

func (c *conn) ID() string       { return c.id }
func (c *conn) Identity() string { return c.identity }

// Send enqueues an event for delivery. Returns false when the event was
// dropped because the connection is closing or its queue is full.
func (c *conn) Send(event interface{}) bool {
	ev, ok := event.(ServerEvent)
	if !ok {
		return false
	}
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.sendq <- ev:
		metrics.FanoutDeliveries.Inc()
		return true
	default:
		metrics.FanoutDropped.Inc()
		logrus.WithFields(logrus.Fields{
			"connId":   c.id,
			"identity": c.identity,
		}).Warn("send queue full, dropping connection")
		c.close()
		return false
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.ws.Close()
	})
}

// writePump owns all writes to the websocket: queued events plus keepalive
// pings.
func (c *conn) writePump(pingInterval, writeDeadline time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case ev := <-c.sendq:
			c.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.ws.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// readPump processes client frames in arrival order: the per-connection
// ordering guarantee comes from this single loop.
func (c *conn) readPump(maxMessageSize int64, pongWait time.Duration) {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var f Frame
		if err := c.ws.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithFields(logrus.Fields{
					"connId":   c.id,
					"identity": c.identity,
				}).WithError(err).Debug("websocket read failed")
			}
			return
		}

		if !c.limiter.Allow() {
			metrics.RateLimitHits.Inc()
			c.Send(ServerEvent{Event: EvtAck, AckID: f.AckID, Data: Ack{
				OK:    false,
				Error: &AckError{Code: "rate_limited", Message: "too many requests"},
			}})
			continue
		}

		c.gw.dispatch(c, f)
	}
}
