// Package repository 提供了数据访问层的实现。
// 每个实体一个仓库，全部只依赖 store 包的两个存储契约。
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"roomie-match-go/internal/model"
	"roomie-match-go/internal/store"
)

const usersCollection = "users"

// UserRepository 定义了用户档案的持久化操作。
type UserRepository interface {
	Get(ctx context.Context, uid string) (*model.User, error)
	// Upsert 合并写入给定字段，未提交的字段保持不动。
	Upsert(ctx context.Context, uid string, fields map[string]interface{}) error
	FindAll(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	docs store.DocumentStore
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(docs store.DocumentStore) UserRepository {
	return &userRepository{docs: docs}
}

func (r *userRepository) Get(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := r.docs.Get(ctx, usersCollection, uid, &user); err != nil {
		return nil, err
	}
	if user.UID == "" {
		user.UID = uid
	}
	return &user, nil
}

func (r *userRepository) Upsert(ctx context.Context, uid string, fields map[string]interface{}) error {
	if fields["uid"] == nil {
		fields["uid"] = uid
	}
	return r.docs.Set(ctx, usersCollection, uid, fields, true)
}

// FindAll 返回全部用户档案，按 uid 升序保证输出稳定。
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	raw, err := r.docs.List(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(raw))
	for uid, data := range raw {
		var user model.User
		if err := json.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", uid, err)
		}
		if user.UID == "" {
			user.UID = uid
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UID < users[j].UID })
	return users, nil
}
