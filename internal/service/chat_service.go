// Package service 实现了各模块的业务逻辑。
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/repository"
	"roomie-match-go/pkg/events"
	"roomie-match-go/pkg/kafka"
	"roomie-match-go/pkg/log"
)

// DefaultMessageLimit 是单次拉取消息的默认条数上限。
const DefaultMessageLimit = 50

// SendMessageInput 是发送消息的入参。Timestamp 为空时由服务端补当前时间。
type SendMessageInput struct {
	Text       string `json:"text"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	ReceiverID string `json:"receiverId"`
	Timestamp  string `json:"timestamp"`
}

// ChatService 定义了消息子系统的业务操作。
type ChatService interface {
	SendMessage(ctx context.Context, chatID string, in SendMessageInput) (*model.Message, error)
	GetMessages(ctx context.Context, chatID string, limit int) ([]model.Message, error)
	GetUserChats(ctx context.Context, userID string) ([]model.ChatListItem, error)
	MarkAsRead(ctx context.Context, chatID, userID string) error
	SubscribeMessages(ctx context.Context, chatID string) (<-chan []byte, func())
}

type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository) ChatService {
	return &chatService{chatRepo: chatRepo, userRepo: userRepo}
}

// SendMessage 校验入参后依次完成：写消息日志、合并会话摘要、
// 接收方未读数 +1。日志写入失败则整体失败；摘要和计数属于
// 可重建的衍生数据，失败只告警不回滚。
func (s *chatService) SendMessage(ctx context.Context, chatID string, in SendMessageInput) (*model.Message, error) {
	senderName := strings.TrimSpace(in.SenderName)
	if senderName == "" {
		senderName = "Anonymous"
	}
	timestamp := in.Timestamp
	if timestamp == "" {
		timestamp = model.NowISO()
	}

	msg := &model.Message{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		Text:       strings.TrimSpace(in.Text),
		SenderID:   in.SenderID,
		SenderName: senderName,
		ReceiverID: in.ReceiverID,
		Timestamp:  timestamp,
		Read:       false,
	}
	// 任何校验失败都发生在第一笔写入之前
	if fields := msg.Validate(); len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}

	if err := s.chatRepo.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	if err := s.chatRepo.UpsertSummary(ctx, chatID, map[string]interface{}{
		"participants":         []string{msg.SenderID, msg.ReceiverID},
		"lastMessage":          msg.Text,
		"lastMessageTimestamp": msg.Timestamp,
		"lastMessageSenderId":  msg.SenderID,
		"updatedAt":            model.NowISO(),
	}); err != nil {
		log.Errorf("更新会话摘要失败: chatId=%s, err=%v", chatID, err)
	}

	if _, err := s.chatRepo.IncrementUnread(ctx, chatID, msg.ReceiverID); err != nil {
		log.Errorf("递增未读计数失败: chatId=%s, userId=%s, err=%v", chatID, msg.ReceiverID, err)
	}

	// 实时广播与事件发布都是尽力而为
	if err := s.chatRepo.PublishMessage(ctx, chatID, msg); err != nil {
		log.Errorf("广播消息失败: chatId=%s, err=%v", chatID, err)
	}
	if kafka.Enabled() {
		if err := kafka.ProduceMessageSent(ctx, events.MessageSent{
			ChatID:     chatID,
			MessageID:  msg.ID,
			SenderID:   msg.SenderID,
			ReceiverID: msg.ReceiverID,
			Timestamp:  msg.Timestamp,
		}); err != nil {
			log.Errorf("发布消息事件失败: chatId=%s, err=%v", chatID, err)
		}
	}

	return msg, nil
}

// GetMessages 返回某会话时间升序的最近 limit 条消息。
// limit 不是正数时用默认值。
func (s *chatService) GetMessages(ctx context.Context, chatID string, limit int) ([]model.Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	msgs, err := s.chatRepo.Messages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	// 截尾保留最新的 limit 条，仍按升序返回
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// GetUserChats 返回用户参与的全部会话摘要，并带上对方的
// 档案信息和该用户的未读数，按最后一条消息时间倒序。
func (s *chatService) GetUserChats(ctx context.Context, userID string) ([]model.ChatListItem, error) {
	chats, err := s.chatRepo.Summaries(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.ChatListItem, 0, len(chats))
	for chatID, chat := range chats {
		if !chat.HasParticipant(userID) {
			continue
		}
		otherID := chat.OtherParticipant(userID)

		item := model.ChatListItem{
			ID:                   chatID,
			ParticipantID:        otherID,
			ParticipantName:      "Unknown User",
			LastMessage:          chat.LastMessage,
			LastMessageTimestamp: chat.LastMessageTimestamp,
		}

		if otherID != "" {
			other, err := s.userRepo.Get(ctx, otherID)
			if err == nil {
				if other.DisplayName != "" {
					item.ParticipantName = other.DisplayName
				}
				item.ParticipantPhoto = other.PhotoURL
			}
		}

		count, err := s.chatRepo.UnreadCount(ctx, chatID, userID)
		if err != nil {
			log.Errorf("读取未读计数失败: chatId=%s, userId=%s, err=%v", chatID, userID, err)
		}
		item.UnreadCount = count

		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		ti := model.ParseISO(items[i].LastMessageTimestamp)
		tj := model.ParseISO(items[j].LastMessageTimestamp)
		if ti.Equal(tj) {
			return items[i].ID < items[j].ID
		}
		return ti.After(tj)
	})
	return items, nil
}

// MarkAsRead 先把该用户在会话里的未读数清零，再批量把发给
// 他的消息置为已读。两步都幂等，重复调用无副作用。
func (s *chatService) MarkAsRead(ctx context.Context, chatID, userID string) error {
	if err := s.chatRepo.ResetUnread(ctx, chatID, userID); err != nil {
		return fmt.Errorf("reset unread: %w", err)
	}
	if _, err := s.chatRepo.MarkMessagesRead(ctx, chatID, userID); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

func (s *chatService) SubscribeMessages(ctx context.Context, chatID string) (<-chan []byte, func()) {
	return s.chatRepo.SubscribeMessages(ctx, chatID)
}
