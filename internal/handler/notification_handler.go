package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"project-tracker-api/internal/notification"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// NotificationHandler lists, acknowledges and streams the caller's notifications
type NotificationHandler struct {
	notificationService service.NotificationService
	subscriber          notification.Subscriber
	upgrader            websocket.Upgrader
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler. subscriber may be nil,
// in which case live streaming is unavailable. Browser origins are checked by checkOrigin;
// a nil checkOrigin accepts every origin.
func NewNotificationHandler(notificationService service.NotificationService, subscriber notification.Subscriber, checkOrigin func(r *http.Request) bool, logger *zap.Logger) *NotificationHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{
		notificationService: notificationService,
		subscriber:          subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// ListNotifications godoc
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread query bool false "Only unread"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} response.SuccessResponse{data=dto.PaginatedNotificationsResponse} "Notifications"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.notificationService.ListNotifications(c.Request.Context(), actor.UserID, unreadOnly, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// MarkAsRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200 {object} response.SuccessResponse "Marked read"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Notification not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	notificationID, ok := parseID(c, "id", "notification")
	if !ok {
		return
	}

	result, err := h.notificationService.MarkAsRead(c.Request.Context(), actor.UserID, notificationID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// Stream godoc
// @Summary      Live notification stream
// @Description  Upgrades to a websocket. Browsers pass the token as ?access_token=.
// @Description  Every notification stored for the caller is pushed as a text frame.
// @Tags         notifications
// @Security     BearerAuth
// @Param        access_token query string false "JWT when the Authorization header cannot be set"
// @Success      101 "Switching protocols"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      503 {object} response.ErrorResponse "Live stream unavailable"
// @Router       /notifications/ws [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	if h.subscriber == nil {
		response.SendError(c, http.StatusServiceUnavailable, response.ErrCodeInternal, "Live notifications are not available")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	messages, err := h.subscriber.Subscribe(ctx, actor.UserID)
	if err != nil {
		h.logger.Error("Failed to subscribe to notifications", zap.Uint("user_id", actor.UserID), zap.Error(err))
		response.SendError(c, http.StatusServiceUnavailable, response.ErrCodeInternal, "Live notifications are not available")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("Notification stream opened", zap.Uint("user_id", actor.UserID))
	go h.readPump(conn, cancel)
	h.writePump(ctx, conn, messages)
	h.logger.Debug("Notification stream closed", zap.Uint("user_id", actor.UserID))
}

// readPump discards client frames and keeps the read deadline alive on pongs.
// It cancels the stream when the client goes away.
func (h *NotificationHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket error", zap.Error(err))
			}
			return
		}
	}
}

func (h *NotificationHandler) writePump(ctx context.Context, conn *websocket.Conn, messages <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message, ok := <-messages:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
