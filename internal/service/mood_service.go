package service

import (
	"context"
	"sort"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/repository"
)

// MoodService 定义了心情分享模块的业务操作。
type MoodService interface {
	UpdateMood(ctx context.Context, userID, mood, status, timestamp string) (*model.Mood, error)
	GetUserMood(ctx context.Context, userID string) (*model.Mood, error)
	// GetAllMoods 返回全部用户的心情，带档案信息，按时间倒序。
	GetAllMoods(ctx context.Context) ([]model.MoodWithUser, error)
	Options() []model.MoodOption
}

type moodService struct {
	moodRepo repository.MoodRepository
	userRepo repository.UserRepository
}

// NewMoodService 创建一个新的 MoodService 实例。
func NewMoodService(moodRepo repository.MoodRepository, userRepo repository.UserRepository) MoodService {
	return &moodService{moodRepo: moodRepo, userRepo: userRepo}
}

func (s *moodService) UpdateMood(ctx context.Context, userID, mood, status, timestamp string) (*model.Mood, error) {
	if timestamp == "" {
		timestamp = model.NowISO()
	}
	record := &model.Mood{
		UserID:    userID,
		Mood:      mood,
		Status:    status,
		Timestamp: timestamp,
		UpdatedAt: model.NowISO(),
	}
	if fields := record.Validate(); len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}
	if err := s.moodRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *moodService) GetUserMood(ctx context.Context, userID string) (*model.Mood, error) {
	return s.moodRepo.Get(ctx, userID)
}

func (s *moodService) GetAllMoods(ctx context.Context) ([]model.MoodWithUser, error) {
	moods, err := s.moodRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	joined := make([]model.MoodWithUser, 0, len(moods))
	for _, mood := range moods {
		item := model.MoodWithUser{Mood: mood}
		if user, err := s.userRepo.Get(ctx, mood.UserID); err == nil {
			item.DisplayName = user.DisplayName
			item.PhotoURL = user.PhotoURL
		}
		joined = append(joined, item)
	}

	sort.Slice(joined, func(i, j int) bool {
		ti := model.ParseISO(joined[i].Timestamp)
		tj := model.ParseISO(joined[j].Timestamp)
		if ti.Equal(tj) {
			return joined[i].UserID < joined[j].UserID
		}
		return ti.After(tj)
	})
	return joined, nil
}

func (s *moodService) Options() []model.MoodOption {
	return model.MoodOptions()
}
