package ws

import (
	"context"
	"net/http"
	"sync"

	"rider/internal/mylogger"
	"rider/internal/rider-service/adapters/driver/myhttp/handle"
	"rider/internal/rider-service/core/ports"

	"github.com/gorilla/websocket"
)

// ================================================================================================== //
// websocketUpgrader is used to upgrade incomming HTTP requests into a persitent websocket connection //
// ================================================================================================== //
var websocketUpgrader = websocket.Upgrader{
	CheckOrigin:     checkOrigin,
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// checkOrigin accepts same-host pages and clients that send no Origin.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// ClientList is a map used to help manage a map of clients
type ClientList map[*Client]bool

type Dispatcher struct {
	appCtx  context.Context
	clients ClientList
	sync.RWMutex
	form ports.IFormService
	log  mylogger.Logger
}

func NewDispatcher(appCtx context.Context, log mylogger.Logger, form ports.IFormService) *Dispatcher {
	return &Dispatcher{
		appCtx:  appCtx,
		clients: make(ClientList),
		form:    form,
		log:     log,
	}
}

// WsHandler upgrades GET /ws/suggestions. The session comes from the
// session middleware.
func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("ws_suggestions")
		sid := handle.SessionID(r)
		if sid == "" {
			w.WriteHeader(http.StatusUnauthorized)
			log.Warn("upgrade without session")
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(d.appCtx, conn, d, sid)
		d.AddClient(client)

		go client.WriteMessage()
		go client.ReadMessage()
	}
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		delete(d.clients, client)
		client.conn.Close()
	}
}

func (d *Dispatcher) Count() int {
	d.RLock()
	defer d.RUnlock()

	return len(d.clients)
}

// CloseAll drops every connection, used on shutdown.
func (d *Dispatcher) CloseAll() {
	d.Lock()
	defer d.Unlock()

	for c := range d.clients {
		c.cancel()
		c.conn.Close()
		delete(d.clients, c)
	}
}
