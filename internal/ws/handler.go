package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// The map UI is served from another origin, as with the REST endpoints.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades the request and subscribes the connection to hub events.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("ws upgrade failed")
			return
		}

		c := newClient(conn, hub)
		select {
		case hub.register <- c:
		case <-hub.done:
			conn.Close()
			return
		}

		go c.writePump()
		go c.readPump()
	}
}
