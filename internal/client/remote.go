package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"carmart_za_v1/internal/model"
)

// ==================== 远程实现 ====================

// RemoteConfig 远程后端配置
type RemoteConfig struct {
	BaseURL string
	APIKey  string
}

// RemoteClient 基于 HTTP 的数据访问客户端，指向托管后端
type RemoteClient struct {
	http *resty.Client
}

var _ Client = (*RemoteClient)(nil)

// NewRemoteClient 创建远程客户端
// 统一配置超时、重试与 API Key，业务代码不再关心网络细节
func NewRemoteClient(cfg *RemoteConfig) *RemoteClient {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(20 * time.Second). // 上传图片可能比较慢，给 20s
		SetRetryCount(3).
		SetHeader("User-Agent", "CarMart-Go-App/1.0")

	if cfg.APIKey != "" {
		c.SetHeader("x-api-key", cfg.APIKey)
	}

	return &RemoteClient{http: c}
}

// errorEnvelope 后端统一错误响应体
type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// filterRequest 服务端过滤请求体
type filterRequest struct {
	Filters Filters `json:"filters"`
	Sort    string  `json:"sort,omitempty"`
	Limit   int     `json:"limit,omitempty"`
}

// Filter 按服务端条件查询车源
func (c *RemoteClient) Filter(ctx context.Context, filters Filters, sortHint string, limit int) ([]model.Listing, error) {
	var result []model.Listing

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(filterRequest{Filters: filters, Sort: sortHint, Limit: limit}).
		SetResult(&result).
		SetError(&errorEnvelope{}).
		Post("/api/listings/filter")
	if err != nil {
		return nil, fmt.Errorf("查询车源失败: %v", err)
	}
	if resp.IsError() {
		return nil, remoteError(resp)
	}

	return result, nil
}

// Create 持久化新车源
func (c *RemoteClient) Create(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	var created model.Listing

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(listing).
		SetResult(&created).
		SetError(&errorEnvelope{}).
		Post("/api/listings")
	if err != nil {
		return nil, fmt.Errorf("创建车源失败: %v", err)
	}
	if resp.IsError() {
		return nil, remoteError(resp)
	}

	return &created, nil
}

// Update 按字段更新
func (c *RemoteClient) Update(ctx context.Context, id string, patch map[string]interface{}) (*model.Listing, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	var updated model.Listing

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(patch).
		SetResult(&updated).
		SetError(&errorEnvelope{}).
		Patch("/api/listings/" + id)
	if err != nil {
		return nil, fmt.Errorf("更新车源失败: %v", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, remoteError(resp)
	}

	return &updated, nil
}

// Delete 删除车源
func (c *RemoteClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorEnvelope{}).
		Delete("/api/listings/" + id)
	if err != nil {
		return fmt.Errorf("删除车源失败: %v", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.IsError() {
		return remoteError(resp)
	}

	return nil
}

// uploadResult 上传接口响应体
type uploadResult struct {
	FileURL string `json:"file_url"`
}

// UploadFile 上传文件并返回可访问 URL
func (c *RemoteClient) UploadFile(ctx context.Context, file File) (string, error) {
	var result uploadResult

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", file.Name, bytes.NewReader(file.Data)).
		SetResult(&result).
		SetError(&errorEnvelope{}).
		Post("/api/uploads")
	if err != nil {
		return "", fmt.Errorf("上传文件失败: %v", err)
	}
	if resp.IsError() {
		return "", remoteError(resp)
	}
	if result.FileURL == "" {
		return "", fmt.Errorf("上传响应缺少 file_url")
	}

	return result.FileURL, nil
}

// remoteError 把后端错误响应转成本地错误
func remoteError(resp *resty.Response) error {
	if env, ok := resp.Error().(*errorEnvelope); ok && env.Message != "" {
		return fmt.Errorf("后端返回错误 (HTTP %d): %s", resp.StatusCode(), env.Message)
	}
	return fmt.Errorf("后端返回错误 (HTTP %d)", resp.StatusCode())
}
