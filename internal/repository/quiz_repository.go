package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/store"
)

const quizCollection = "quizResults"

// QuizRepository 定义了问卷答案集的持久化操作。
type QuizRepository interface {
	Get(ctx context.Context, userID string) (*model.QuizResult, error)
	// Save 整体覆盖合并同一用户的答案集。
	Save(ctx context.Context, result *model.QuizResult) error
	// FindAll 返回全部用户的答案集，键为用户 ID。
	FindAll(ctx context.Context) (map[string]model.QuizResult, error)
}

type quizRepository struct {
	docs store.DocumentStore
}

// NewQuizRepository 创建一个新的 QuizRepository 实例。
func NewQuizRepository(docs store.DocumentStore) QuizRepository {
	return &quizRepository{docs: docs}
}

func (r *quizRepository) Get(ctx context.Context, userID string) (*model.QuizResult, error) {
	var result model.QuizResult
	if err := r.docs.Get(ctx, quizCollection, userID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *quizRepository) Save(ctx context.Context, result *model.QuizResult) error {
	return r.docs.Set(ctx, quizCollection, result.UserID, result, true)
}

func (r *quizRepository) FindAll(ctx context.Context) (map[string]model.QuizResult, error) {
	raw, err := r.docs.List(ctx, quizCollection)
	if err != nil {
		return nil, err
	}

	results := make(map[string]model.QuizResult, len(raw))
	for userID, data := range raw {
		var result model.QuizResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("decode quiz result %s: %w", userID, err)
		}
		if result.UserID == "" {
			result.UserID = userID
		}
		results[userID] = result
	}
	return results, nil
}
