package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/store"
)

const moodsCollection = "moods"

// MoodRepository 定义了心情记录的持久化操作。每个用户一条，覆盖合并。
type MoodRepository interface {
	Get(ctx context.Context, userID string) (*model.Mood, error)
	Upsert(ctx context.Context, mood *model.Mood) error
	FindAll(ctx context.Context) ([]model.Mood, error)
}

type moodRepository struct {
	docs store.DocumentStore
}

// NewMoodRepository 创建一个新的 MoodRepository 实例。
func NewMoodRepository(docs store.DocumentStore) MoodRepository {
	return &moodRepository{docs: docs}
}

func (r *moodRepository) Get(ctx context.Context, userID string) (*model.Mood, error) {
	var mood model.Mood
	if err := r.docs.Get(ctx, moodsCollection, userID, &mood); err != nil {
		return nil, err
	}
	return &mood, nil
}

func (r *moodRepository) Upsert(ctx context.Context, mood *model.Mood) error {
	return r.docs.Set(ctx, moodsCollection, mood.UserID, mood, true)
}

func (r *moodRepository) FindAll(ctx context.Context) ([]model.Mood, error) {
	raw, err := r.docs.List(ctx, moodsCollection)
	if err != nil {
		return nil, err
	}

	moods := make([]model.Mood, 0, len(raw))
	for userID, data := range raw {
		var mood model.Mood
		if err := json.Unmarshal(data, &mood); err != nil {
			return nil, fmt.Errorf("decode mood %s: %w", userID, err)
		}
		if mood.UserID == "" {
			mood.UserID = userID
		}
		moods = append(moods, mood)
	}
	return moods, nil
}
