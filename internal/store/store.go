// Package store 定义了核心业务依赖的两个窄存储契约及其实现。
// DocumentStore 对应按集合+文档 ID 寻址的文档库（档案、问卷、心情、会话摘要），
// KeyedStream 对应按路径寻址、支持子项更新与原子自增的实时键值库（消息日志、未读计数）。
// 上层只依赖这两个接口，测试用 sqlite 内存库与 miniredis 替换。
package store

import (
	"context"
	"encoding/json"
)

// DocumentStore 以集合+文档 ID 的方式读写 JSON 文档。
type DocumentStore interface {
	// Get 读取一个文档并反序列化到 out，不存在时返回 model.ErrNotFound。
	Get(ctx context.Context, collection, id string, out interface{}) error
	// Set 写入一个文档。merge 为 true 时与已有文档做浅合并，只覆盖提交的顶层字段；
	// 文档不存在时两种模式都等价于创建。
	Set(ctx context.Context, collection, id string, doc interface{}, merge bool) error
	// List 返回集合内全部文档，键为文档 ID。
	List(ctx context.Context, collection string) (map[string]json.RawMessage, error)
	// Delete 删除一个文档，文档不存在时不报错。
	Delete(ctx context.Context, collection, id string) error
}

// KeyedStream 以路径寻址读写子项集合，并提供变更广播。
// 路径下的每个子项是一条独立的 JSON 值，IncrChild 是存储端的原子自增。
type KeyedStream interface {
	// SetChild 写入路径下的一个子项。
	SetChild(ctx context.Context, path, key string, value interface{}) error
	// GetChild 读取路径下的一个子项，不存在时返回 model.ErrNotFound。
	GetChild(ctx context.Context, path, key string, out interface{}) error
	// Children 返回路径下的全部子项，键为子项 key。
	Children(ctx context.Context, path string) (map[string]json.RawMessage, error)
	// UpdateChildren 批量写入路径下的多个子项。
	UpdateChildren(ctx context.Context, path string, updates map[string]interface{}) error
	// IncrChild 对路径下的一个整数子项做原子自增，返回自增后的值。
	IncrChild(ctx context.Context, path, key string, delta int64) (int64, error)
	// Remove 删除整个路径及其所有子项。
	Remove(ctx context.Context, path string) error
	// Publish 向频道广播一条 JSON 值。
	Publish(ctx context.Context, channel string, value interface{}) error
	// Subscribe 订阅频道，返回消息通道和取消函数。
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func())
}
