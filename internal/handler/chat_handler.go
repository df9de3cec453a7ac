package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"roomie-match-go/internal/service"
	"roomie-match-go/pkg/log"
)

// ChatHandler 处理消息子系统的 HTTP 与 WebSocket 接口。
type ChatHandler struct {
	chatService service.ChatService
	upgrader    websocket.Upgrader
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// SendMessage 处理 POST /api/chat/:chatId/messages。
func (h *ChatHandler) SendMessage(c *gin.Context) {
	chatID := c.Param("chatId")

	var in service.SendMessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "Chat ID, message text, sender ID, and receiver ID are required")
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), chatID, in)
	if err != nil {
		respondError(c, err, "Failed to send message")
		return
	}
	respondOK(c, msg, "Message sent successfully")
}

// GetMessages 处理 GET /api/chat/:chatId/messages?limit=。
func (h *ChatHandler) GetMessages(c *gin.Context) {
	chatID := c.Param("chatId")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, "Limit must be a number")
			return
		}
		limit = n
	}

	msgs, err := h.chatService.GetMessages(c.Request.Context(), chatID, limit)
	if err != nil {
		respondError(c, err, "Failed to get messages")
		return
	}
	respondOK(c, msgs, "")
}

// GetUserChats 处理 GET /api/chat/user/:userId。
func (h *ChatHandler) GetUserChats(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		respondBadRequest(c, "User ID is required")
		return
	}

	chats, err := h.chatService.GetUserChats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get user chats")
		return
	}
	respondOK(c, chats, "")
}

// MarkAsRead 处理 PUT /api/chat/:chatId/read/:userId。
func (h *ChatHandler) MarkAsRead(c *gin.Context) {
	chatID := c.Param("chatId")
	userID := c.Param("userId")
	if chatID == "" || userID == "" {
		respondBadRequest(c, "Chat ID and User ID are required")
		return
	}

	if err := h.chatService.MarkAsRead(c.Request.Context(), chatID, userID); err != nil {
		respondError(c, err, "Failed to mark messages as read")
		return
	}
	respondOK(c, nil, "Messages marked as read")
}

// StreamMessages 处理 GET /api/chat/:chatId/ws，把该会话的实时消息
// 推送到 WebSocket 连接，直到客户端断开。
func (h *ChatHandler) StreamMessages(c *gin.Context) {
	chatID := c.Param("chatId")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("升级 WebSocket 失败: chatId=%s, err=%v", chatID, err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	ch, unsubscribe := h.chatService.SubscribeMessages(ctx, chatID)
	defer unsubscribe()

	// 消费读通道以感知客户端断开
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
