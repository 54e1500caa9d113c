package client

import (
	"context"
	"fmt"

	"carmart_za_v1/internal/model"
	"carmart_za_v1/internal/repository"
)

// ==================== 本地实现 ====================

// Storage 文件存储依赖（由 service.StorageService 实现）
type Storage interface {
	Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error)
}

// LocalClient 进程内数据访问客户端
// 直接落在本地仓储与存储上，是自带后端的部署形态；
// 暴露的语义与远程客户端完全一致
type LocalClient struct {
	repo    repository.ListingRepository
	storage Storage
}

var _ Client = (*LocalClient)(nil)

// NewLocalClient 创建本地客户端
func NewLocalClient(repo repository.ListingRepository, storage Storage) *LocalClient {
	return &LocalClient{repo: repo, storage: storage}
}

// Filter 按服务端条件查询车源
// 支持的键：id / status / featured / make / province，其余键忽略
func (c *LocalClient) Filter(ctx context.Context, filters Filters, sortHint string, limit int) ([]model.Listing, error) {
	f := repository.ListingFilter{
		SortHint: sortHint,
		Limit:    limit,
	}
	if v, ok := filters["id"].(string); ok {
		f.ID = v
	}
	if v, ok := filters["status"].(string); ok {
		f.Status = v
	}
	if v, ok := filters["make"].(string); ok {
		f.Make = v
	}
	if v, ok := filters["province"].(string); ok {
		f.Province = v
	}
	if v, ok := filters["featured"].(bool); ok {
		f.Featured = &v
	}

	return c.repo.List(ctx, f)
}

// Create 持久化新车源
// ID / 状态 / 创建时间由仓储层赋值，提交方给出的值被覆盖
func (c *LocalClient) Create(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	created := *listing
	created.ID = ""
	created.Status = model.ListingStatusPending
	created.Featured = false

	if err := created.Validate(); err != nil {
		return nil, err
	}
	if err := c.repo.Create(ctx, &created); err != nil {
		return nil, fmt.Errorf("保存车源失败: %v", err)
	}
	return &created, nil
}

// Update 按字段更新
func (c *LocalClient) Update(ctx context.Context, id string, patch map[string]interface{}) (*model.Listing, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	if err := c.repo.UpdateFields(ctx, id, patch); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c.repo.GetByID(ctx, id)
}

// Delete 删除车源
func (c *LocalClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	err := c.repo.Delete(ctx, id)
	if repository.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

// UploadFile 存储文件并返回可访问 URL
func (c *LocalClient) UploadFile(ctx context.Context, file File) (string, error) {
	if len(file.Data) == 0 {
		return "", fmt.Errorf("文件内容为空")
	}
	return c.storage.Upload(ctx, file.Data, file.Name, file.ContentType)
}
