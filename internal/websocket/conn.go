package websocket

import (
	ws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/shrimpsizemoose/trekker/logger"
)

// sendBuffer is how many unsent messages a watcher may fall behind before it is dropped.
const sendBuffer = 16

// LocalScorecardID is the c.Locals key the upgrade middleware stores the canonical
// (lowercase) scorecard id under. Broadcasts are keyed by uuid.UUID.String(), so a
// watcher must be registered under the same spelling or it never hears anything.
const LocalScorecardID = "scorecardID"

// Serve upgrades GET /ws/scorecards/:id and streams that scorecard's broadcasts to the
// connection until either side closes. Upgrade checks (auth, ownership) belong to the
// middleware in front of it, which also stores the canonical id under LocalScorecardID.
func Serve(hub *Hub) fiber.Handler {
	return ws.New(func(c *ws.Conn) {
		client := &Client{ScorecardID: watchedID(c), Send: make(chan []byte, sendBuffer)}
		hub.Register(client)
		defer hub.Unregister(client)

		// Watchers only listen; the read loop exists to notice the peer going away.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				if err := c.WriteMessage(ws.TextMessage, msg); err != nil {
					logger.Debug.Printf("Dropping watcher of scorecard %s: %v", client.ScorecardID, err)
					return
				}
			case <-closed:
				return
			}
		}
	})
}

// watchedID prefers the id the middleware canonicalized and falls back to the raw route
// parameter when Serve is mounted on its own.
func watchedID(c *ws.Conn) string {
	if id, ok := c.Locals(LocalScorecardID).(string); ok && id != "" {
		return id
	}
	return c.Params("id")
}

// IsUpgrade reports whether the request asks for a WebSocket upgrade.
func IsUpgrade(c *fiber.Ctx) bool {
	return ws.IsWebSocketUpgrade(c)
}
