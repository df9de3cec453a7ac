// Package es 提供了与 Elasticsearch 交互的客户端功能，
// 用于用户目录的全文检索。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"roomie-match-go/internal/config"
	"roomie-match-go/pkg/log"
)

var ESClient *elasticsearch.Client

var indexName string

// UserDoc 是写入用户索引的文档结构。
type UserDoc struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
}

// InitES 初始化 Elasticsearch 客户端。addresses 为空时跳过，
// 用户搜索退化为内存子串过滤。
func InitES(esCfg config.ElasticsearchConfig) error {
	if esCfg.Addresses == "" {
		log.Info("Elasticsearch 未配置，用户搜索使用内存过滤")
		return nil
	}

	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	indexName = esCfg.IndexName
	return createIndexIfNotExists(indexName)
}

// Enabled 报告全文检索是否可用。
func Enabled() bool {
	return ESClient != nil
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(name string) error {
	res, err := ESClient.Indices.Exists([]string{name})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", name)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	mapping := `{
		"mappings": {
			"properties": {
				"uid": { "type": "keyword" },
				"displayName": { "type": "text" },
				"bio": { "type": "text" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		name,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", name, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", name, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", name)
	return nil
}

// IndexUser 把一份用户档案索引到 Elasticsearch。
func IndexUser(ctx context.Context, doc UserDoc) error {
	if ESClient == nil {
		return nil
	}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: doc.UID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("索引用户 %s 失败: %s", doc.UID, res.String())
	}
	return nil
}

// SearchUsers 按关键词检索用户，返回命中的用户 ID 列表（按相关性排序）。
func SearchUsers(ctx context.Context, query string, size int) ([]string, error) {
	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"displayName^2", "bio"},
			},
		},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(indexName),
		ESClient.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("搜索用户失败: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, err
	}

	uids := make([]string, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		uids = append(uids, hit.ID)
	}
	return uids, nil
}
