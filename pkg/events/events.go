// Package events 定义了对外广播的领域事件结构。
package events

// MessageSent 在一条消息成功写入日志后发出。
type MessageSent struct {
	ChatID     string `json:"chatId"`
	MessageID  string `json:"messageId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Timestamp  string `json:"timestamp"`
}
