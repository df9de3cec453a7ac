package service

import (
	"context"
	"sort"

	"roomie-match-go/internal/compat"
	"roomie-match-go/internal/model"
	"roomie-match-go/internal/repository"
)

// CompatibilityEntry 是兼容度排行榜里的一条记录。
type CompatibilityEntry struct {
	UserID      string         `json:"userId"`
	DisplayName string         `json:"displayName"`
	PhotoURL    string         `json:"photoURL,omitempty"`
	Score       compat.Score   `json:"score"`
	Categories  map[string]int `json:"categories"`
}

// QuizService 定义了问卷与兼容度模块的业务操作。
type QuizService interface {
	// SubmitAnswers 整体覆盖保存用户的答案集。
	SubmitAnswers(ctx context.Context, userID string, answers map[int]string) (*model.QuizResult, error)
	// GetCompatibility 返回该用户与所有其他已答题用户的兼容度，按总分倒序。
	GetCompatibility(ctx context.Context, userID string) ([]CompatibilityEntry, error)
	Questions() []model.Question
}

type quizService struct {
	quizRepo repository.QuizRepository
	userRepo repository.UserRepository
}

// NewQuizService 创建一个新的 QuizService 实例。
func NewQuizService(quizRepo repository.QuizRepository, userRepo repository.UserRepository) QuizService {
	return &quizService{quizRepo: quizRepo, userRepo: userRepo}
}

func (s *quizService) SubmitAnswers(ctx context.Context, userID string, answers map[int]string) (*model.QuizResult, error) {
	result := &model.QuizResult{
		UserID:    userID,
		Answers:   answers,
		Timestamp: model.NowISO(),
		UpdatedAt: model.NowISO(),
	}
	if fields := result.Validate(); len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}
	if err := s.quizRepo.Save(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *quizService) GetCompatibility(ctx context.Context, userID string) ([]CompatibilityEntry, error) {
	mine, err := s.quizRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.quizRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]CompatibilityEntry, 0, len(all))
	for otherID, other := range all {
		if otherID == userID {
			continue
		}
		score := compat.Compute(mine.Answers, other.Answers)

		entry := CompatibilityEntry{
			UserID:      otherID,
			DisplayName: "Unknown User",
			Score:       score,
			Categories:  score.Categories,
		}
		if user, err := s.userRepo.Get(ctx, otherID); err == nil {
			if user.DisplayName != "" {
				entry.DisplayName = user.DisplayName
			}
			entry.PhotoURL = user.PhotoURL
		}
		entries = append(entries, entry)
	}

	// 总分倒序，同分按用户 ID 升序保证稳定
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score.Overall == entries[j].Score.Overall {
			return entries[i].UserID < entries[j].UserID
		}
		return entries[i].Score.Overall > entries[j].Score.Overall
	})
	return entries, nil
}

func (s *quizService) Questions() []model.Question {
	return model.Questions()
}
