package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/repository"
	"roomie-match-go/pkg/es"
	"roomie-match-go/pkg/log"
	"roomie-match-go/pkg/storage"
)

const directorySearchSize = 50

// UserService 定义了用户档案模块的业务操作。
type UserService interface {
	GetUser(ctx context.Context, uid string) (*model.User, error)
	// UpdateProfile 合并更新白名单内的档案字段，返回更新后的完整档案。
	UpdateProfile(ctx context.Context, uid string, upd *model.ProfileUpdate) (*model.User, error)
	// ListUsers 返回用户目录。query 非空时按关键词检索。
	ListUsers(ctx context.Context, query string) ([]model.DirectoryEntry, error)
	// UploadAvatar 把头像存入对象存储并更新档案里的 photoURL。
	UploadAvatar(ctx context.Context, uid, filename, contentType string, size int64, r io.Reader) (string, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, uid string) (*model.User, error) {
	return s.userRepo.Get(ctx, uid)
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, upd *model.ProfileUpdate) (*model.User, error) {
	if fields := upd.Validate(); len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}

	merged := upd.Fields()
	if len(merged) == 0 {
		return nil, model.NewValidationError(map[string]string{
			"body": "No valid fields to update",
		})
	}
	merged["updatedAt"] = model.NowISO()

	if err := s.userRepo.Upsert(ctx, uid, merged); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	s.indexUser(ctx, user)
	return user, nil
}

// indexUser 把档案同步到搜索索引，失败只告警。
func (s *userService) indexUser(ctx context.Context, user *model.User) {
	if !es.Enabled() {
		return
	}
	if err := es.IndexUser(ctx, es.UserDoc{
		UID:         user.UID,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
	}); err != nil {
		log.Errorf("同步用户索引失败: uid=%s, err=%v", user.UID, err)
	}
}

func (s *userService) ListUsers(ctx context.Context, query string) ([]model.DirectoryEntry, error) {
	query = strings.TrimSpace(query)

	if query != "" && es.Enabled() {
		uids, err := es.SearchUsers(ctx, query, directorySearchSize)
		if err != nil {
			log.Errorf("搜索用户失败，回退内存过滤: err=%v", err)
		} else {
			entries := make([]model.DirectoryEntry, 0, len(uids))
			for _, uid := range uids {
				user, err := s.userRepo.Get(ctx, uid)
				if err != nil {
					continue
				}
				entries = append(entries, toDirectoryEntry(user))
			}
			return entries, nil
		}
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.DirectoryEntry, 0, len(users))
	needle := strings.ToLower(query)
	for i := range users {
		if needle != "" &&
			!strings.Contains(strings.ToLower(users[i].DisplayName), needle) &&
			!strings.Contains(strings.ToLower(users[i].Bio), needle) {
			continue
		}
		entries = append(entries, toDirectoryEntry(&users[i]))
	}
	return entries, nil
}

func toDirectoryEntry(user *model.User) model.DirectoryEntry {
	return model.DirectoryEntry{
		UID:         user.UID,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Bio:         user.Bio,
		CreatedAt:   user.CreatedAt,
	}
}

func (s *userService) UploadAvatar(ctx context.Context, uid, filename, contentType string, size int64, r io.Reader) (string, error) {
	if !storage.Enabled() {
		return "", fmt.Errorf("object storage is not configured")
	}

	ext := filepath.Ext(filename)
	objectName := fmt.Sprintf("avatars/%s%s", uid, ext)

	photoURL, err := storage.UploadObject(ctx, objectName, r, size, contentType)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.userRepo.Upsert(ctx, uid, map[string]interface{}{
		"photoURL":  photoURL,
		"updatedAt": model.NowISO(),
	}); err != nil {
		return "", err
	}

	if user, err := s.userRepo.Get(ctx, uid); err == nil {
		s.indexUser(ctx, user)
	}
	return photoURL, nil
}
