package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Lounge/internal/app"
)

// Handlers serves the stateless REST endpoints around the room core.
type Handlers struct {
	Rooms *app.RoomStore
	AppID string
}

type healthResponse struct {
	Status        string `json:"status"`
	Rooms         int    `json:"rooms"`
	AgoraAppIDSet bool   `json:"agora_app_id_set"`
}

// Health reports process status and the live room count.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:        "healthy",
		Rooms:         h.Rooms.Count(),
		AgoraAppIDSet: h.AppID != "",
	})
}

// AgoraAppID hands the provider application id to the front-end.
func (h *Handlers) AgoraAppID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"appId": h.AppID})
}

type agoraConfigRequest struct {
	UserID string `json:"userId" binding:"omitempty,max=64"`
	RoomID string `json:"roomId" binding:"omitempty,max=64"`
}

type agoraConfigResponse struct {
	AppID   string  `json:"appId"`
	Channel string  `json:"channel"`
	UID     string  `json:"uid"`
	Token   *string `json:"token"`
	Success bool    `json:"success"`
	Mode    string  `json:"mode"`
}

// AgoraConfig returns a tokenless channel descriptor for app-id-only mode.
// Absent fields get defaults instead of failing the request.
func (h *Handlers) AgoraConfig(c *gin.Context) {
	var req agoraConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = agoraConfigRequest{}
	}

	if req.UserID == "" {
		req.UserID = fmt.Sprintf("user_%d", time.Now().Unix())
	}
	if req.RoomID == "" {
		req.RoomID = "default"
	}

	c.JSON(http.StatusOK, agoraConfigResponse{
		AppID:   h.AppID,
		Channel: req.RoomID,
		UID:     req.UserID,
		Token:   nil,
		Success: true,
		Mode:    "test",
	})
}
