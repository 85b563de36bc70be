package http

import (
	"context"
	"sync"
	"time"

	"dataprep/internal/pipeline/domain/model"
	"dataprep/internal/pipeline/usecase"
	"dataprep/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebSocketHandler manages WebSocket connections streaming job progress.
type WebSocketHandler struct {
	realtimeUC usecase.RealtimeUsecase
	auth       *AuthMiddleware
	bufferSize int
	log        logger.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler. bufferSize is the
// per-subscription event channel buffer.
func NewWebSocketHandler(rtuc usecase.RealtimeUsecase, auth *AuthMiddleware, bufferSize int, log logger.Logger) *WebSocketHandler {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &WebSocketHandler{
		realtimeUC: rtuc,
		auth:       auth,
		bufferSize: bufferSize,
		log:        log,
	}
}

// RegisterRoutes registers the WebSocket endpoint. Browsers cannot set
// headers on WebSocket requests, so Protect also accepts ?token=.
func (h *WebSocketHandler) RegisterRoutes(router fiber.Router) {
	wsGroup := router.Group("/ws")

	wsGroup.Use("/jobs", h.auth.Protect(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	wsGroup.Get("/jobs", websocket.New(h.handleWebSocketConnection))
}

// subscriptionRequest is a client frame subscribing to or leaving a job.
type subscriptionRequest struct {
	Action string `json:"action"`
	JobID  string `json:"job_id"`
}

// wsMessage is a server frame.
type wsMessage struct {
	Type  string      `json:"type"`
	JobID string      `json:"job_id,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *WebSocketHandler) handleWebSocketConnection(conn *websocket.Conn) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	subscriberID := uuid.NewString()

	h.log.Info("New WebSocket connection established",
		zap.String("subscriberID", subscriberID))

	events := make(chan model.JobEvent, h.bufferSize)
	var subscribedJobs sync.Map

	defer func() {
		h.log.Info("WebSocket connection closing",
			zap.String("subscriberID", subscriberID))

		subscribedJobs.Range(func(key, _ interface{}) bool {
			jobID := key.(string)
			if err := h.realtimeUC.Unsubscribe(ctx, subscriberID, jobID); err != nil {
				h.log.Error("Error unsubscribing from job",
					zap.String("subscriberID", subscriberID),
					zap.String("jobID", jobID),
					zap.Error(err))
			}
			return true
		})
	}()

	// Forward job events to the client.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(wsMessage{Type: event.Type, JobID: event.JobID, Data: event}); err != nil {
					h.log.Error("Error writing WebSocket message",
						zap.String("subscriberID", subscriberID),
						zap.Error(err))
					cancelCtx()
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg subscriptionRequest
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Error("WebSocket error",
						zap.String("subscriberID", subscriberID),
						zap.Error(err))
				}
				return
			}

			switch msg.Action {
			case "subscribe":
				if msg.JobID == "" {
					h.writeError(conn, "job_id is required")
					continue
				}
				if err := h.realtimeUC.Subscribe(ctx, subscriberID, msg.JobID, events); err != nil {
					h.writeError(conn, "subscription failed")
					continue
				}
				subscribedJobs.Store(msg.JobID, true)
				conn.WriteJSON(wsMessage{Type: "subscribed", JobID: msg.JobID})
			case "unsubscribe":
				if err := h.realtimeUC.Unsubscribe(ctx, subscriberID, msg.JobID); err != nil {
					h.writeError(conn, "unsubscribe failed")
					continue
				}
				subscribedJobs.Delete(msg.JobID)
				conn.WriteJSON(wsMessage{Type: "unsubscribed", JobID: msg.JobID})
			default:
				h.writeError(conn, "unknown action")
			}
		}
	}
}

func (h *WebSocketHandler) writeError(conn *websocket.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	conn.WriteJSON(wsMessage{Type: "error", Error: message})
}
