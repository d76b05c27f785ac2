package api

import (
	"net/http"
	"net/url"
	"slices"

	"service-request-form/internal/logger"
	"service-request-form/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// submit blocks until the remote endpoint answered. The outcome is in the
// returned status and message, not in the HTTP code.
func submit(c *gin.Context) {
	f, err := pipelineFrom(c).Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func watchStatus(c *gin.Context) {
	id := c.Param("id")

	store := storeFrom(c)
	if _, err := store.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	allowed := configFrom(c).Cors.AllowOrigins
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(allowed) == 0 || origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			return u.Host == r.Host || slices.Contains(allowed, origin)
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warning("WebSocket upgrade failed", err)
		return
	}

	hub := hubFrom(c)
	hub.Register(id, conn)
	defer hub.Unregister(id, conn)

	// read after subscribing, so a transition in between is not missed;
	// the hub drops whichever of the two is older
	f, err := store.Get(c.Request.Context(), id)
	if err != nil {
		return
	}
	hub.Send(id, conn, socket.Event{Status: f.Status, Message: f.Message, Token: f.StatusToken})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
