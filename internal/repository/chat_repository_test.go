package repository_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/repository"
	"roomie-match-go/internal/store"
)

func setupChatRepo(t *testing.T) repository.ChatRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	docs, err := store.NewGormDocumentStore(db)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return repository.NewChatRepository(docs, store.NewRedisKeyedStream(rdb))
}

func msg(id, chatID, text, sender, receiver, ts string) *model.Message {
	return &model.Message{
		ID:         id,
		ChatID:     chatID,
		Text:       text,
		SenderID:   sender,
		SenderName: "Anonymous",
		ReceiverID: receiver,
		Timestamp:  ts,
	}
}

func TestChatRepositoryAppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := setupChatRepo(t)

	// 故意乱序写入，读取时应按时间升序
	require.NoError(t, repo.AppendMessage(ctx, msg("m2", "c1", "second", "u1", "u2", "2026-08-28T10:01:00.000Z")))
	require.NoError(t, repo.AppendMessage(ctx, msg("m1", "c1", "first", "u1", "u2", "2026-08-28T10:00:00.000Z")))
	require.NoError(t, repo.AppendMessage(ctx, msg("m3", "c1", "third", "u2", "u1", "2026-08-28T10:02:00.000Z")))

	msgs, err := repo.Messages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, "third", msgs[2].Text)
	assert.False(t, msgs[0].Read)
}

func TestChatRepositoryUnreadCounter(t *testing.T) {
	ctx := context.Background()
	repo := setupChatRepo(t)

	n, err := repo.IncrementUnread(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.IncrementUnread(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := repo.UnreadCount(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.ResetUnread(ctx, "c1", "u2"))
	count, err = repo.UnreadCount(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

// 从未计过数的用户未读数应为 0，而不是报错。
func TestChatRepositoryUnreadCountMissing(t *testing.T) {
	repo := setupChatRepo(t)
	count, err := repo.UnreadCount(context.Background(), "c1", "stranger")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestChatRepositoryMarkMessagesRead(t *testing.T) {
	ctx := context.Background()
	repo := setupChatRepo(t)

	require.NoError(t, repo.AppendMessage(ctx, msg("m1", "c1", "a", "u1", "u2", "2026-08-28T10:00:00.000Z")))
	require.NoError(t, repo.AppendMessage(ctx, msg("m2", "c1", "b", "u1", "u2", "2026-08-28T10:01:00.000Z")))
	require.NoError(t, repo.AppendMessage(ctx, msg("m3", "c1", "c", "u2", "u1", "2026-08-28T10:02:00.000Z")))

	n, err := repo.MarkMessagesRead(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	msgs, err := repo.Messages(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, msgs[0].Read)
	assert.True(t, msgs[1].Read)
	// 自己发出的消息不受影响
	assert.False(t, msgs[2].Read)

	// 重复调用幂等，没有可置位的消息
	n, err = repo.MarkMessagesRead(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestChatRepositorySummaries(t *testing.T) {
	ctx := context.Background()
	repo := setupChatRepo(t)

	require.NoError(t, repo.UpsertSummary(ctx, "c1", map[string]interface{}{
		"participants":         []string{"u1", "u2"},
		"lastMessage":          "hey",
		"lastMessageTimestamp": "2026-08-28T10:00:00.000Z",
		"lastMessageSenderId":  "u1",
	}))
	require.NoError(t, repo.UpsertSummary(ctx, "c1", map[string]interface{}{
		"lastMessage":          "newer",
		"lastMessageTimestamp": "2026-08-28T10:05:00.000Z",
		"lastMessageSenderId":  "u2",
	}))

	chats, err := repo.Summaries(ctx)
	require.NoError(t, err)
	require.Contains(t, chats, "c1")

	c1 := chats["c1"]
	assert.Equal(t, "newer", c1.LastMessage)
	// 合并写入不会丢掉 participants
	assert.ElementsMatch(t, []string{"u1", "u2"}, c1.Participants)
	assert.True(t, c1.HasParticipant("u1"))
	assert.Equal(t, "u2", c1.OtherParticipant("u1"))
}
