package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"hoa-server/middleware"
	"hoa-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WSHandler serves the realtime maintenance channel.
type WSHandler struct {
	mgr     *ws.Manager
	tokens  middleware.TokenParser
	origins []string
}

// NewWSHandler accepts connections from the given origins. Requests
// without an Origin header (non-browser clients) are always accepted.
func NewWSHandler(mgr *ws.Manager, tokens middleware.TokenParser, origins ...string) *WSHandler {
	return &WSHandler{mgr: mgr, tokens: tokens, origins: origins}
}

func (h *WSHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(h.origins) == 0 {
			return true
		}
		for _, o := range h.origins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}}
}

// HandleMaintenanceWS upgrades to websocket and streams maintenance events.
// GET /maintenance?token=<access token>
func (h *WSHandler) HandleMaintenanceWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.BearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token is required"})
		return
	}
	claims, err := h.tokens.ParseAccess(token)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(uuid.NewString(), claims.UserID, string(claims.Role), conn)
	h.mgr.Register(client)
	log.Printf("client connected: %s (user %d)", client.ID, client.UserID)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.mgr.Unregister(client.ID)
		log.Printf("client disconnected: %s", client.ID)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go h.keepAlive(client, done)

	// Clients only listen; anything they send is read and discarded so
	// control frames keep flowing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error from %s: %v", client.ID, err)
			}
			return
		}
	}
}

func (h *WSHandler) keepAlive(client *ws.Client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := client.Ping(); err != nil {
				return
			}
		}
	}
}

// GetConnectedClients GET /api/admin/connections
func (h *WSHandler) GetConnectedClients(c *gin.Context) {
	ids := h.mgr.List()
	c.JSON(http.StatusOK, gin.H{"clients": ids, "count": len(ids)})
}
