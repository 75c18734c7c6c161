package routes

import (
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/websocket"
)

// WebSocketHandler upgrades authenticated clients onto the notification hub
type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader *gorillaws.Upgrader
}

func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, upgrader: websocket.NewUpgrader(allowedOrigins)}
}

// RegisterRoutes mounts /ws behind auth, which must read the token from the query
func (h *WebSocketHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("/ws", auth, h.serve)
}

func (h *WebSocketHandler) serve(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	websocket.ServeWebSocket(h.hub, h.upgrader, c.Writer, c.Request, actor.Email, actor.Role)
}
