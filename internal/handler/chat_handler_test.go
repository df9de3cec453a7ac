package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"roomie-match-go/internal/handler"
	"roomie-match-go/internal/middleware"
	"roomie-match-go/internal/repository"
	"roomie-match-go/internal/service"
	"roomie-match-go/internal/store"
	"roomie-match-go/pkg/token"
)

func newChatRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	docs, err := store.NewGormDocumentStore(db)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	stream := store.NewRedisKeyedStream(rdb)

	chatRepo := repository.NewChatRepository(docs, stream)
	userRepo := repository.NewUserRepository(docs)
	chatHandler := handler.NewChatHandler(service.NewChatService(chatRepo, userRepo))

	jwtManager := token.NewJWTManager("test-secret", 1)
	tok, err := jwtManager.GenerateToken("u1", false)
	require.NoError(t, err)

	r := gin.New()
	chat := r.Group("/api/chat")
	chat.Use(middleware.AuthMiddleware(jwtManager))
	{
		chat.POST("/:chatId/messages", chatHandler.SendMessage)
		chat.GET("/:chatId/messages", chatHandler.GetMessages)
		chat.GET("/user/:userId", chatHandler.GetUserChats)
		chat.PUT("/:chatId/read/:userId", chatHandler.MarkAsRead)
	}
	return r, tok
}

func doJSON(t *testing.T, r *gin.Engine, tok, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendMessageEndpoint(t *testing.T) {
	r, tok := newChatRouter(t)

	w := doJSON(t, r, tok, http.MethodPost, "/api/chat/c1/messages",
		`{"text":"hello","senderId":"u1","receiverId":"u2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			ID         string `json:"id"`
			Text       string `json:"text"`
			SenderName string `json:"senderName"`
			Read       bool   `json:"read"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Message sent successfully", body.Message)
	assert.NotEmpty(t, body.Data.ID)
	assert.Equal(t, "Anonymous", body.Data.SenderName)
	assert.False(t, body.Data.Read)
}

func TestSendMessageEndpointValidation(t *testing.T) {
	r, tok := newChatRouter(t)

	w := doJSON(t, r, tok, http.MethodPost, "/api/chat/c1/messages",
		`{"text":"","senderId":"u1","receiverId":"u2"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Errors, "text")
}

func TestSendMessageEndpointUnauthorized(t *testing.T) {
	r, _ := newChatRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat/c1/messages",
		strings.NewReader(`{"text":"hi","senderId":"u1","receiverId":"u2"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMessagesEndpoint(t *testing.T) {
	r, tok := newChatRouter(t)

	for _, text := range []string{"one", "two", "three"} {
		w := doJSON(t, r, tok, http.MethodPost, "/api/chat/c1/messages",
			`{"text":"`+text+`","senderId":"u1","receiverId":"u2"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, tok, http.MethodGet, "/api/chat/c1/messages", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 3)
}

func TestGetMessagesEndpointBadLimit(t *testing.T) {
	r, tok := newChatRouter(t)

	w := doJSON(t, r, tok, http.MethodGet, "/api/chat/c1/messages?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkAsReadAndUserChatsEndpoints(t *testing.T) {
	r, tok := newChatRouter(t)

	w := doJSON(t, r, tok, http.MethodPost, "/api/chat/c1/messages",
		`{"text":"hi","senderId":"u1","receiverId":"u2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, tok, http.MethodGet, "/api/chat/user/u2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Data []struct {
			ID          string `json:"id"`
			UnreadCount int64  `json:"unreadCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, int64(1), list.Data[0].UnreadCount)

	w = doJSON(t, r, tok, http.MethodPut, "/api/chat/c1/read/u2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Messages marked as read")

	w = doJSON(t, r, tok, http.MethodGet, "/api/chat/user/u2", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, int64(0), list.Data[0].UnreadCount)
}
