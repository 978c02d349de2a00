package handlers

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// connection wraps a websocket connection; writes are serialized.
type connection struct {
	conn *websocket.Conn
	uid  string
	mu   sync.Mutex
}

func (c *connection) send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub tracks open sockets per user and fans events out to them.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*connection]bool // uid -> set of connections
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{rooms: make(map[string]map[*connection]bool), log: log}
}

func (h *Hub) register(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[conn.uid] == nil {
		h.rooms[conn.uid] = make(map[*connection]bool)
	}
	h.rooms[conn.uid][conn] = true
	h.log.Debug("ws register", zap.String("user_id", conn.uid), zap.Int("connections", len(h.rooms[conn.uid])))
}

func (h *Hub) unregister(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[conn.uid]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, conn.uid)
		}
	}
	h.log.Debug("ws unregister", zap.String("user_id", conn.uid))
}

// Connections returns the number of open sockets for uid.
func (h *Hub) Connections(uid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[uid])
}

// Publish sends event to every open socket of userID.
func (h *Hub) Publish(userID string, event models.Event) {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.rooms[userID]))
	for c := range h.rooms[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws marshal failed", zap.String("type", event.Type), zap.Error(err))
		return
	}
	for _, c := range conns {
		if err := c.send(msg); err != nil {
			h.log.Debug("ws write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// EventsUpgrade checks the upgrade request and authenticates it with
// ?token=<jwt>, a bearer header or the session cookie.
func (h *Handler) EventsUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		tokenString := c.Query("token")
		if tokenString == "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
		}
		if tokenString == "" {
			tokenString = c.Cookies(middleware.SessionCookie)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := h.jwt.Parse(c.UserContext(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		c.Locals("uid", claims.UID)
		return c.Next()
	}
}

// Events holds a socket open and delivers the user's change events.
func (h *Handler) Events(c *websocket.Conn) {
	uid, ok := c.Locals("uid").(string)
	if !ok || uid == "" {
		_ = c.Close()
		return
	}

	conn := &connection{conn: c, uid: uid}
	h.hub.register(conn)
	defer h.hub.unregister(conn)

	// Clients only send keepalives; reading detects the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
