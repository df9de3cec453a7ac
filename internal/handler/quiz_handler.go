package handler

import (
	"github.com/gin-gonic/gin"

	"roomie-match-go/internal/service"
)

// QuizHandler 处理问卷与兼容度相关的接口。
type QuizHandler struct {
	quizService service.QuizService
}

// NewQuizHandler 创建一个新的 QuizHandler 实例。
func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// SubmitQuiz 处理 POST /api/quiz/:userId。
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID := c.Param("userId")

	var body struct {
		Answers map[int]string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Quiz answers are required")
		return
	}

	result, err := h.quizService.SubmitAnswers(c.Request.Context(), userID, body.Answers)
	if err != nil {
		respondError(c, err, "Failed to save quiz results")
		return
	}
	respondOK(c, result, "Quiz results saved successfully")
}

// GetCompatibility 处理 GET /api/quiz/compatibility/:userId。
func (h *QuizHandler) GetCompatibility(c *gin.Context) {
	userID := c.Param("userId")

	entries, err := h.quizService.GetCompatibility(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "No quiz results found for this user")
		return
	}
	respondOK(c, entries, "")
}

// GetQuestions 处理 GET /api/quiz/questions，无需认证。
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	respondOK(c, h.quizService.Questions(), "")
}
