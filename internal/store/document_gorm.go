package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomie-match-go/internal/model"
)

// Document 是文档存储的底层表结构：一行一个 JSON 文档。
type Document struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"size:64;not null;uniqueIndex:idx_collection_doc"`
	DocID      string `gorm:"size:128;not null;uniqueIndex:idx_collection_doc"`
	Data       []byte `gorm:"type:json;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}

type gormDocumentStore struct {
	db *gorm.DB
}

// NewGormDocumentStore 创建基于 GORM 的 DocumentStore 并确保表结构存在。
func NewGormDocumentStore(db *gorm.DB) (DocumentStore, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &gormDocumentStore{db: db}, nil
}

func (s *gormDocumentStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	var doc Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(doc.Data, out); err != nil {
		return fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *gormDocumentStore) Set(ctx context.Context, collection, id string, doc interface{}, merge bool) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}

	// 合并是读-改-写，放进事务里避免并发写同一文档时互相覆盖。
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Document
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&Document{Collection: collection, DocID: id, Data: payload}).Error
		}
		if err != nil {
			return err
		}

		data := payload
		if merge {
			merged, err := mergeJSON(existing.Data, payload)
			if err != nil {
				return fmt.Errorf("merge document %s/%s: %w", collection, id, err)
			}
			data = merged
		}
		return tx.Model(&existing).Update("data", data).Error
	})
}

func (s *gormDocumentStore) List(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	var docs []Document
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list collection %s: %w", collection, err)
	}

	result := make(map[string]json.RawMessage, len(docs))
	for _, d := range docs {
		result[d.DocID] = json.RawMessage(d.Data)
	}
	return result, nil
}

func (s *gormDocumentStore) Delete(ctx context.Context, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&Document{}).Error
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// mergeJSON 对两个 JSON 对象做顶层浅合并，incoming 的字段覆盖 existing。
func mergeJSON(existing, incoming []byte) ([]byte, error) {
	var base map[string]interface{}
	if err := json.Unmarshal(existing, &base); err != nil {
		return nil, err
	}
	var overlay map[string]interface{}
	if err := json.Unmarshal(incoming, &overlay); err != nil {
		return nil, err
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}
