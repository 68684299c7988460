package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/centime-app/centime-api/utils"
)

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive so cloud proxies don't drop idle goal watchers.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	// Registered once: the goal id travels with each session's keys, so
	// concurrent upgrades to different goals cannot mistag each other.
	m.HandleConnect(func(s *melody.Session) {
		goalID, _ := s.Get("goal_id")
		utils.Infof("✅ Client connected to goal: %v", goalID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		goalID, _ := s.Get("goal_id")
		utils.Infof("🔌 Client disconnected from goal: %v", goalID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		utils.Errorf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and subscribes the session to a goal.
func (h *WSHandler) HandleWS(c *gin.Context) {
	goalID := c.Param("id")

	keys := map[string]interface{}{"goal_id": goalID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		utils.Errorf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals every client watching the goal.
func (h *WSHandler) BroadcastUpdate(goalID string, updateType string, userWhoUpdated string) {
	msg := []byte(`{"type": "` + updateType + `", "user": "` + userWhoUpdated + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("goal_id")
		return exists && id == goalID
	})

	if err != nil {
		utils.Warnf("⚠️ Error broadcasting to goal %s: %v", goalID, err)
	}
}
