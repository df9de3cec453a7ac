package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/store"
)

const chatsCollection = "chats"

// ChatRepository 定义了消息日志、会话摘要和未读计数三类数据的持久化操作。
// 消息日志与未读计数落在 KeyedStream，摘要落在 DocumentStore。
type ChatRepository interface {
	// AppendMessage 追加一条消息到会话日志，是发送链路中唯一不可缺的写入。
	AppendMessage(ctx context.Context, msg *model.Message) error
	// Messages 返回某会话的全部消息，按时间升序。
	Messages(ctx context.Context, chatID string) ([]model.Message, error)
	// UpsertSummary 合并写入会话摘要字段。
	UpsertSummary(ctx context.Context, chatID string, fields map[string]interface{}) error
	// Summaries 返回全部会话摘要，键为会话 ID。
	Summaries(ctx context.Context) (map[string]model.Chat, error)
	IncrementUnread(ctx context.Context, chatID, userID string) (int64, error)
	ResetUnread(ctx context.Context, chatID, userID string) error
	UnreadCount(ctx context.Context, chatID, userID string) (int64, error)
	// MarkMessagesRead 把会话里发给 userID 的未读消息批量置为已读，返回置位条数。
	MarkMessagesRead(ctx context.Context, chatID, userID string) (int, error)
	// PublishMessage 把消息广播给该会话的实时订阅者。
	PublishMessage(ctx context.Context, chatID string, msg *model.Message) error
	SubscribeMessages(ctx context.Context, chatID string) (<-chan []byte, func())
}

type chatRepository struct {
	docs   store.DocumentStore
	stream store.KeyedStream
}

// NewChatRepository 创建一个新的 ChatRepository 实例。
func NewChatRepository(docs store.DocumentStore, stream store.KeyedStream) ChatRepository {
	return &chatRepository{docs: docs, stream: stream}
}

func messagesPath(chatID string) string {
	return fmt.Sprintf("chats/%s/messages", chatID)
}

func unreadPath(chatID string) string {
	return fmt.Sprintf("chats/%s/unreadCounts", chatID)
}

func chatChannel(chatID string) string {
	return "chat:" + chatID
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *model.Message) error {
	return r.stream.SetChild(ctx, messagesPath(msg.ChatID), msg.ID, msg)
}

func (r *chatRepository) Messages(ctx context.Context, chatID string) ([]model.Message, error) {
	raw, err := r.stream.Children(ctx, messagesPath(chatID))
	if err != nil {
		return nil, err
	}

	msgs := make([]model.Message, 0, len(raw))
	for id, data := range raw {
		var msg model.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("decode message %s: %w", id, err)
		}
		if msg.ID == "" {
			msg.ID = id
		}
		msgs = append(msgs, msg)
	}
	// 时间升序，时间相同再按 ID 保证排序稳定
	sort.Slice(msgs, func(i, j int) bool {
		ti, tj := model.ParseISO(msgs[i].Timestamp), model.ParseISO(msgs[j].Timestamp)
		if ti.Equal(tj) {
			return msgs[i].ID < msgs[j].ID
		}
		return ti.Before(tj)
	})
	return msgs, nil
}

func (r *chatRepository) UpsertSummary(ctx context.Context, chatID string, fields map[string]interface{}) error {
	return r.docs.Set(ctx, chatsCollection, chatID, fields, true)
}

func (r *chatRepository) Summaries(ctx context.Context) (map[string]model.Chat, error) {
	raw, err := r.docs.List(ctx, chatsCollection)
	if err != nil {
		return nil, err
	}

	chats := make(map[string]model.Chat, len(raw))
	for chatID, data := range raw {
		var chat model.Chat
		if err := json.Unmarshal(data, &chat); err != nil {
			return nil, fmt.Errorf("decode chat %s: %w", chatID, err)
		}
		if chat.ID == "" {
			chat.ID = chatID
		}
		chats[chatID] = chat
	}
	return chats, nil
}

func (r *chatRepository) IncrementUnread(ctx context.Context, chatID, userID string) (int64, error) {
	return r.stream.IncrChild(ctx, unreadPath(chatID), userID, 1)
}

func (r *chatRepository) ResetUnread(ctx context.Context, chatID, userID string) error {
	return r.stream.SetChild(ctx, unreadPath(chatID), userID, 0)
}

func (r *chatRepository) UnreadCount(ctx context.Context, chatID, userID string) (int64, error) {
	var count int64
	err := r.stream.GetChild(ctx, unreadPath(chatID), userID, &count)
	if errors.Is(err, model.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *chatRepository) MarkMessagesRead(ctx context.Context, chatID, userID string) (int, error) {
	msgs, err := r.Messages(ctx, chatID)
	if err != nil {
		return 0, err
	}

	updates := make(map[string]interface{})
	for i := range msgs {
		if msgs[i].ReceiverID == userID && !msgs[i].Read {
			msgs[i].Read = true
			updates[msgs[i].ID] = msgs[i]
		}
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if err := r.stream.UpdateChildren(ctx, messagesPath(chatID), updates); err != nil {
		return 0, err
	}
	return len(updates), nil
}

func (r *chatRepository) PublishMessage(ctx context.Context, chatID string, msg *model.Message) error {
	return r.stream.Publish(ctx, chatChannel(chatID), msg)
}

func (r *chatRepository) SubscribeMessages(ctx context.Context, chatID string) (<-chan []byte, func()) {
	return r.stream.Subscribe(ctx, chatChannel(chatID))
}
