package handler

import (
	"github.com/gin-gonic/gin"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/service"
)

const maxAvatarSize = 5 << 20 // 5MB

// UserHandler 处理用户档案相关的接口。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser 处理 GET /api/auth/user/:userId。
func (h *UserHandler) GetUser(c *gin.Context) {
	uid := c.Param("userId")

	user, err := h.userService.GetUser(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	respondOK(c, user, "")
}

// UpdateUser 处理 PUT /api/auth/user/:userId。
func (h *UserHandler) UpdateUser(c *gin.Context) {
	uid := c.Param("userId")

	var upd model.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), uid, &upd)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	respondOK(c, user, "Profile updated successfully")
}

// ListUsers 处理 GET /api/auth/users?q=。
func (h *UserHandler) ListUsers(c *gin.Context) {
	entries, err := h.userService.ListUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "Failed to get users")
		return
	}
	// 目录里的空昵称统一回退占位名
	for i := range entries {
		if entries[i].DisplayName == "" {
			entries[i].DisplayName = "Anonymous"
		}
	}
	respondOK(c, entries, "")
}

// UploadPhoto 处理 POST /api/auth/user/:userId/photo，multipart 字段名 photo。
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	uid := c.Param("userId")

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respondBadRequest(c, "Photo file is required")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		respondBadRequest(c, "Photo cannot exceed 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err, "Failed to read photo")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	photoURL, err := h.userService.UploadAvatar(
		c.Request.Context(), uid, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		respondError(c, err, "Failed to upload photo")
		return
	}
	respondOK(c, gin.H{"photoURL": photoURL}, "Photo uploaded successfully")
}
