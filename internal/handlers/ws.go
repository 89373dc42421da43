package handlers

import (
	"log"
	"net/http"

	"github.com/aasanchez0794/Angelito-Familiar/internal/services"
	"github.com/aasanchez0794/Angelito-Familiar/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub  *ws.Hub
	auth *services.AdminAuthService
}

func NewWSHandler(hub *ws.Hub, auth *services.AdminAuthService) *WSHandler {
	return &WSHandler{hub: hub, auth: auth}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleAdminSocket godoc
// @Summary      Live exchange progress feed
// @Description  Streams registration and reveal events to the admin dashboard; pass the admin JWT as ?token=
// @Tags         websocket
// @Param        token query string true "Admin JWT"
// @Router       /ws/admin [get]
func (h *WSHandler) HandleAdminSocket(c *gin.Context) {
	// Browsers cannot set headers on websocket requests, so the JWT
	// arrives as a query parameter instead of going through the middleware.
	if err := h.auth.ValidateToken(c.Query("token")); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.Add(conn)
	defer h.hub.Remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
