package ws

import (
	"context"
	"encoding/json"
	"time"

	"rider/internal/rider-service/core/domain/model"

	websocketdto "rider/internal/rider-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	readLimit  = 4096
)

type Client struct {
	ctx    context.Context
	cancel context.CancelFunc
	conn   *websocket.Conn
	dis    *Dispatcher
	egress chan websocketdto.Event
	sid    string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, sid string) *Client {
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		ctx:    ctx,
		cancel: cancel,
		conn:   conn,
		dis:    dis,
		egress: make(chan websocketdto.Event, 16),
		sid:    sid,
	}
}

// ReadMessage reads fragments in order. Each fragment is sequenced here and
// fetched in its own goroutine, so a slow fetch never holds up the next
// keystroke.
func (c *Client) ReadMessage() {
	log := c.dis.log.Action("ws_read")
	defer func() {
		c.cancel()
		c.dis.RemoveClient(c)
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err.Error())
			}
			return
		}

		var req websocketdto.Event
		if err := json.Unmarshal(payload, &req); err != nil {
			c.sendError("malformed message")
			continue
		}

		switch req.Type {
		case websocketdto.EventFragment:
			c.handleFragment(req.Data)
		default:
			c.sendError("unknown message type " + req.Type)
		}
	}
}

func (c *Client) handleFragment(data json.RawMessage) {
	var frag websocketdto.Fragment
	if err := json.Unmarshal(data, &frag); err != nil {
		c.sendError("malformed fragment")
		return
	}

	res, err := c.dis.form.BeginLocationUpdate(c.ctx, c.sid, model.Field(frag.Field), frag.Fragment)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	go func() {
		res, err := c.dis.form.FinishLocationUpdate(c.ctx, c.sid, res, frag.Fragment)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if res.Stale {
			return
		}
		c.send(websocketdto.EventSuggestions, res)
	}()
}

func (c *Client) sendError(msg string) {
	c.send(websocketdto.EventError, websocketdto.ErrorMessage{Message: msg})
}

func (c *Client) send(eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.dis.log.Action("ws_send").Error("cannot marshal event", err)
		return
	}

	select {
	case c.egress <- websocketdto.Event{Type: eventType, Data: data}:
	case <-c.ctx.Done():
	}
}

// WriteMessage is the only writer of the connection.
func (c *Client) WriteMessage() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case event := <-c.egress:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.cancel()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}
