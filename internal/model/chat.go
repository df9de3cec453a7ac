package model

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLen 限制单条消息文本的最大长度。
const MaxMessageLen = 1000

// Chat 是会话的摘要视图：参与者加上最后一条消息的冗余字段。
// 它是可以从消息日志重建的缓存，消息日志才是事实来源。
type Chat struct {
	ID                   string   `json:"id"`
	Participants         []string `json:"participants"`
	LastMessage          string   `json:"lastMessage"`
	LastMessageTimestamp string   `json:"lastMessageTimestamp"`
	LastMessageSenderID  string   `json:"lastMessageSenderId"`
	CreatedAt            string   `json:"createdAt,omitempty"`
	UpdatedAt            string   `json:"updatedAt,omitempty"`
}

// HasParticipant 判断用户是否是该会话的参与者。
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant 返回会话中除给定用户以外的另一方。
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// Message 是消息日志中的一条消息。除 read 标记外永不修改。
type Message struct {
	ID         string `json:"id"`
	ChatID     string `json:"chatId"`
	Text       string `json:"text"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	ReceiverID string `json:"receiverId"`
	Timestamp  string `json:"timestamp"`
	Read       bool   `json:"read"`
}

// Validate 校验消息，返回字段错误表。必须在任何写入之前调用。
func (m *Message) Validate() map[string]string {
	errs := make(map[string]string)
	if m.ChatID == "" {
		errs["chatId"] = "Chat ID is required"
	}
	if strings.TrimSpace(m.Text) == "" {
		errs["text"] = "Message text is required"
	} else if utf8.RuneCountInString(m.Text) > MaxMessageLen {
		errs["text"] = "Message text cannot exceed 1000 characters"
	}
	if m.SenderID == "" {
		errs["senderId"] = "Sender ID is required"
	}
	if m.ReceiverID == "" {
		errs["receiverId"] = "Receiver ID is required"
	} else if m.ReceiverID == m.SenderID {
		errs["receiverId"] = "Sender and receiver must be different users"
	}
	return errs
}

// ChatListItem 是会话列表里的一项：对方信息 + 最后消息 + 未读数。
type ChatListItem struct {
	ID                   string `json:"id"`
	ParticipantID        string `json:"participantId"`
	ParticipantName      string `json:"participantName"`
	ParticipantPhoto     string `json:"participantPhoto"`
	LastMessage          string `json:"lastMessage"`
	LastMessageTimestamp string `json:"lastMessageTimestamp"`
	UnreadCount          int64  `json:"unreadCount"`
}
