package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-io-live/collab-service/internal/domain"
	"github.com/weiawesome/wes-io-live/collab-service/internal/manager"
	"github.com/weiawesome/wes-io-live/collab-service/internal/registry"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/log"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/response"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = manager.DefaultLogCapacity
)

// MessagesQuery is the query string of the room messages endpoint.
type MessagesQuery struct {
	Limit int `form:"limit"`
}

// HTTPHandler serves the read-only room endpoints.
type HTTPHandler struct {
	manager  *manager.Manager
	registry registry.Registry
}

// NewHTTPHandler creates a new HTTP handler. reg may be nil.
func NewHTTPHandler(mgr *manager.Manager, reg registry.Registry) *HTTPHandler {
	if reg == nil {
		reg = registry.NopRegistry{}
	}
	return &HTTPHandler{manager: mgr, registry: reg}
}

// RegisterRoutes registers all routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/collaboration")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.ListRooms)
			rooms.GET("/:id", h.GetRoom)
			rooms.GET("/:id/messages", h.GetMessages)
			rooms.GET("/:id/instance", h.GetRoomInstance)
		}
	}
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status": "ok",
		"rooms":  len(h.manager.ListRooms()),
	})
}

// ListRooms lists active rooms, oldest first.
func (h *HTTPHandler) ListRooms(c *gin.Context) {
	response.Success(c, gin.H{"rooms": h.manager.ListRooms()})
}

// GetRoom retrieves a room by ID.
func (h *HTTPHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("id")

	room, ok := h.manager.Room(roomID)
	if !ok {
		response.NotFound(c, domain.ErrCodeRoomNotFound, "Room not found")
		return
	}

	response.Success(c, gin.H{"room": room})
}

// GetRoomInstance reports the instance address a room is registered on,
// so clients can reach rooms hosted by another instance.
func (h *HTTPHandler) GetRoomInstance(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	addr, err := h.registry.Lookup(ctx, roomID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			response.NotFound(c, domain.ErrCodeRoomNotFound, "Room not registered")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to lookup room instance")
		response.InternalError(c, "failed to lookup room instance")
		return
	}

	_, local := h.manager.Room(roomID)
	response.Success(c, gin.H{
		"room_id":  roomID,
		"instance": addr,
		"local":    local,
	})
}

// GetMessages returns the most recent messages of a room.
func (h *HTTPHandler) GetMessages(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	var req MessagesQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind messages query")
		response.BadRequest(c, err.Error())
		return
	}

	if req.Limit < 1 {
		req.Limit = defaultMessageLimit
	}
	if req.Limit > maxMessageLimit {
		req.Limit = maxMessageLimit
	}

	messages, total, err := h.manager.Messages(roomID, req.Limit)
	if err != nil {
		if errors.Is(err, manager.ErrRoomNotFound) {
			response.NotFound(c, domain.ErrCodeRoomNotFound, "Room not found")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get messages")
		response.InternalError(c, "failed to get messages")
		return
	}

	response.Success(c, gin.H{
		"messages": messages,
		"total":    total,
	})
}
