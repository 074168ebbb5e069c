package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/SlawCzech/dev-me-up/internal/user"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// PresenceHandler keeps UserProfile.IsOnline in sync with open sockets.
// A redis counter tracks connections per user so a second tab does not
// mark the profile offline when the first one closes.
type PresenceHandler struct {
	svc *user.AccountService
	rdb *redis.Client
}

func NewPresenceHandler(svc *user.AccountService, rdb *redis.Client) *PresenceHandler {
	return &PresenceHandler{svc: svc, rdb: rdb}
}

func presenceKey(userID uint) string {
	return fmt.Sprintf("presence:%d", userID)
}

func (h *PresenceHandler) Handle(c echo.Context) error {
	tokenString := c.QueryParam("token")

	userID, err := user.ValidateJWT(tokenString)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return err
	}

	ctx := context.Background()
	if err := h.connect(ctx, userID); err != nil {
		log.Printf("Error marking user %d online: %v", userID, err)
		ws.Close()
		return nil
	}
	log.Printf("Presence connected: %d", userID)

	go h.listen(userID, ws)
	return nil
}

func (h *PresenceHandler) connect(ctx context.Context, userID uint) error {
	count, err := h.rdb.Incr(ctx, presenceKey(userID)).Result()
	if err != nil {
		return err
	}
	if err := h.svc.SetOnline(ctx, userID, true); err != nil {
		// Undo the increment, or the counter never drains back to zero
		// and the profile stays online after every real session closes.
		if count <= 1 {
			h.rdb.Del(ctx, presenceKey(userID))
		} else {
			h.rdb.Decr(ctx, presenceKey(userID))
		}
		return err
	}
	return nil
}

func (h *PresenceHandler) disconnect(ctx context.Context, userID uint) {
	remaining, err := h.rdb.Decr(ctx, presenceKey(userID)).Result()
	if err != nil {
		log.Printf("Error decrementing presence for user %d: %v", userID, err)
		return
	}
	if remaining > 0 {
		return
	}
	h.rdb.Del(ctx, presenceKey(userID))
	if err := h.svc.SetOnline(ctx, userID, false); err != nil {
		log.Printf("Error marking user %d offline: %v", userID, err)
	}
}

// listen drains the socket until the client goes away, then tears down
// presence state.
func (h *PresenceHandler) listen(userID uint, ws *websocket.Conn) {
	defer func() {
		ws.Close()
		h.disconnect(context.Background(), userID)
		log.Printf("Presence disconnected: %d", userID)
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
