package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/repository"
	"roomie-match-go/internal/service"
	"roomie-match-go/internal/store"
)

type quizFixture struct {
	quiz     service.QuizService
	userRepo repository.UserRepository
}

func setupQuiz(t *testing.T) *quizFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	docs, err := store.NewGormDocumentStore(db)
	require.NoError(t, err)

	quizRepo := repository.NewQuizRepository(docs)
	userRepo := repository.NewUserRepository(docs)
	return &quizFixture{
		quiz:     service.NewQuizService(quizRepo, userRepo),
		userRepo: userRepo,
	}
}

func TestSubmitAnswers(t *testing.T) {
	ctx := context.Background()
	f := setupQuiz(t)

	result, err := f.quiz.SubmitAnswers(ctx, "u1", map[int]string{1: "night", 2: "daily"})
	require.NoError(t, err)
	assert.Equal(t, "u1", result.UserID)
	assert.NotEmpty(t, result.Timestamp)
}

func TestSubmitAnswersEmpty(t *testing.T) {
	f := setupQuiz(t)
	_, err := f.quiz.SubmitAnswers(context.Background(), "u1", map[int]string{})
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
}

// 重复提交整体覆盖旧答案集。
func TestSubmitAnswersReplaces(t *testing.T) {
	ctx := context.Background()
	f := setupQuiz(t)

	_, err := f.quiz.SubmitAnswers(ctx, "u1", map[int]string{1: "night"})
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswers(ctx, "u1", map[int]string{1: "morning", 2: "daily"})
	require.NoError(t, err)

	_, err = f.quiz.SubmitAnswers(ctx, "u2", map[int]string{1: "morning"})
	require.NoError(t, err)

	entries, err := f.quiz.GetCompatibility(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// u1 的最新答案是 morning，问题 1 应当匹配
	assert.Equal(t, 100, entries[0].Score.Categories["lifestyle"])
}

func TestGetCompatibilityNoAnswers(t *testing.T) {
	f := setupQuiz(t)
	_, err := f.quiz.GetCompatibility(context.Background(), "stranger")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetCompatibilityRanking(t *testing.T) {
	ctx := context.Background()
	f := setupQuiz(t)

	require.NoError(t, f.userRepo.Upsert(ctx, "u2", map[string]interface{}{"displayName": "Bob"}))
	require.NoError(t, f.userRepo.Upsert(ctx, "u3", map[string]interface{}{"displayName": "Carol"}))

	mine := map[int]string{1: "night", 2: "daily", 3: "often"}
	_, err := f.quiz.SubmitAnswers(ctx, "u1", mine)
	require.NoError(t, err)

	// u2 全部一致，u3 只有一题一致
	_, err = f.quiz.SubmitAnswers(ctx, "u2", map[int]string{1: "night", 2: "daily", 3: "often"})
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswers(ctx, "u3", map[int]string{1: "night", 2: "weekly", 3: "never"})
	require.NoError(t, err)

	entries, err := f.quiz.GetCompatibility(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// 自己不会出现在结果里
	for _, entry := range entries {
		assert.NotEqual(t, "u1", entry.UserID)
	}

	assert.Equal(t, "u2", entries[0].UserID)
	assert.Equal(t, "Bob", entries[0].DisplayName)
	assert.Equal(t, 100, entries[0].Score.Overall)

	assert.Equal(t, "u3", entries[1].UserID)
	assert.Less(t, entries[1].Score.Overall, entries[0].Score.Overall)
}

// 对方答过题但还没有档案时，昵称回退占位名而不是留空。
func TestGetCompatibilityMissingProfileFallback(t *testing.T) {
	ctx := context.Background()
	f := setupQuiz(t)

	_, err := f.quiz.SubmitAnswers(ctx, "u1", map[int]string{1: "night"})
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswers(ctx, "u2", map[int]string{1: "night"})
	require.NoError(t, err)

	entries, err := f.quiz.GetCompatibility(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Unknown User", entries[0].DisplayName)
	assert.Empty(t, entries[0].PhotoURL)
}

func TestQuestionsCatalog(t *testing.T) {
	f := setupQuiz(t)

	questions := f.quiz.Questions()
	require.Len(t, questions, 10)
	for _, q := range questions {
		assert.NotEmpty(t, q.Question)
		assert.NotEmpty(t, q.Options)
		assert.NotEmpty(t, q.Category)
	}
}
