package handler

import (
	"github.com/gin-gonic/gin"

	"roomie-match-go/internal/service"
)

// MoodHandler 处理心情分享相关的接口。
type MoodHandler struct {
	moodService service.MoodService
}

// NewMoodHandler 创建一个新的 MoodHandler 实例。
func NewMoodHandler(moodService service.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

// UpdateMood 处理 POST /api/mood/:userId。
func (h *MoodHandler) UpdateMood(c *gin.Context) {
	userID := c.Param("userId")

	var body struct {
		Mood      string `json:"mood"`
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Mood is required")
		return
	}

	mood, err := h.moodService.UpdateMood(c.Request.Context(), userID, body.Mood, body.Status, body.Timestamp)
	if err != nil {
		respondError(c, err, "Failed to update mood")
		return
	}
	respondOK(c, mood, "Mood updated successfully")
}

// GetUserMood 处理 GET /api/mood/:userId。
func (h *MoodHandler) GetUserMood(c *gin.Context) {
	userID := c.Param("userId")

	mood, err := h.moodService.GetUserMood(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "No mood found for this user")
		return
	}
	respondOK(c, mood, "")
}

// GetAllMoods 处理 GET /api/mood。
func (h *MoodHandler) GetAllMoods(c *gin.Context) {
	moods, err := h.moodService.GetAllMoods(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get moods")
		return
	}
	respondOK(c, moods, "")
}

// GetMoodOptions 处理 GET /api/mood/options，无需认证。
func (h *MoodHandler) GetMoodOptions(c *gin.Context) {
	respondOK(c, h.moodService.Options(), "")
}
