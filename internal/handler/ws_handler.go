package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/weiawesome/wes-io-live/collab-service/internal/domain"
	"github.com/weiawesome/wes-io-live/collab-service/internal/hub"
	"github.com/weiawesome/wes-io-live/collab-service/internal/manager"
	"github.com/weiawesome/wes-io-live/collab-service/internal/service"
	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler accepts WebSocket connections and routes their events to the
// collaboration service. Its hub callbacks run on the hub event loop.
type WSHandler struct {
	hub      *hub.Hub
	service  service.CollabService
	validate *validator.Validate
}

// NewWSHandler creates a WebSocket handler and installs it on the hub.
func NewWSHandler(h *hub.Hub, svc service.CollabService) *WSHandler {
	handler := &WSHandler{
		hub:      h,
		service:  svc,
		validate: validator.New(),
	}
	h.SetHandler(handler)
	return handler
}

// RegisterRoutes registers the WebSocket endpoint.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the request and starts the client pumps.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	l := pkglog.Ctx(c.Request.Context())

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.hub.Config())
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}

func (h *WSHandler) OnConnect(c *hub.Client) {
	h.service.HandleConnect(h.context(c, domain.EventConnected), c.ID)
}

func (h *WSHandler) OnDisconnect(c *hub.Client) {
	ctx := h.context(c, "disconnect")
	if err := h.service.HandleDisconnect(ctx, c.ID); err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Msg("failed to handle disconnect")
	}
}

func (h *WSHandler) OnMessage(c *hub.Client, message []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(message, &env); err != nil || env.Type == "" {
		h.service.SendError(c.ID, domain.ErrCodeBadRequest, "Invalid message format")
		return
	}

	ctx := h.context(c, env.Type)
	if err := h.dispatch(ctx, c.ID, &env); err != nil {
		l := pkglog.Ctx(ctx)
		l.Debug().Err(err).Msg("event rejected")
	}
}

func (h *WSHandler) dispatch(ctx context.Context, connID string, env *domain.Envelope) error {
	switch env.Type {
	case domain.EventJoinUser:
		var req domain.JoinUserRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		return h.service.HandleJoinUser(ctx, connID, &req)

	case domain.EventCreateRoom:
		var req domain.CreateRoomRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		return h.service.HandleCreateRoom(ctx, connID, &req)

	case domain.EventJoinRoom:
		var req domain.JoinRoomRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		return h.service.HandleJoinRoom(ctx, connID, &req)

	case domain.EventLeaveRoom:
		return h.service.HandleLeaveRoom(ctx, connID)

	case domain.EventSendMessage:
		var req domain.SendMessageRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		return h.service.HandleSendMessage(ctx, connID, &req)

	case domain.EventWebRTCOffer:
		var req domain.OfferRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		return h.service.HandleOffer(ctx, connID, &req)

	case domain.EventWebRTCAnswer:
		var req domain.AnswerRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		return h.service.HandleAnswer(ctx, connID, &req)

	case domain.EventWebRTCICECandidate:
		var req domain.ICECandidateRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		return h.service.HandleICECandidate(ctx, connID, &req)

	case domain.EventToggleVideo, domain.EventToggleAudio:
		var req domain.ToggleMediaRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		kind := manager.MediaVideo
		if env.Type == domain.EventToggleAudio {
			kind = manager.MediaAudio
		}
		return h.service.HandleToggleMedia(ctx, connID, kind, *req.Enabled)

	case domain.EventStartScreenShare:
		return h.service.HandleScreenShare(ctx, connID, true)

	case domain.EventStopScreenShare:
		return h.service.HandleScreenShare(ctx, connID, false)

	case domain.EventGetRoomInfo:
		var req domain.GetRoomInfoRequest
		if err := h.decode(connID, env, &req); err != nil {
			return err
		}
		return h.service.HandleGetRoomInfo(ctx, connID, &req)

	case domain.EventPing:
		return h.service.HandlePing(ctx, connID)

	default:
		h.service.SendError(connID, domain.ErrCodeUnknownEvent, "Unknown event: "+env.Type)
		return nil
	}
}

// decode unmarshals and validates an event payload, reporting failures to
// the connection.
func (h *WSHandler) decode(connID string, env *domain.Envelope, v interface{}) error {
	data := env.Data
	if len(data) == 0 || string(data) == "null" {
		data = []byte("{}")
	}

	if err := json.Unmarshal(data, v); err != nil {
		h.service.SendError(connID, domain.ErrCodeBadRequest, "Invalid "+env.Type+" payload")
		return err
	}
	if err := h.validate.Struct(v); err != nil {
		h.service.SendError(connID, domain.ErrCodeBadRequest, "Invalid "+env.Type+" payload")
		return err
	}
	return nil
}

func (h *WSHandler) context(c *hub.Client, event string) context.Context {
	return pkglog.ConnContext(context.Background(), c.ID, event)
}
