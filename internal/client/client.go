package client

import (
	"context"
	"errors"

	"carmart_za_v1/internal/model"
)

// ==================== 接口定义 ====================

// Filters 服务端过滤条件（键值对，比浏览页的客户端筛选简单得多）
// 支持的键由具体实现决定，约定至少包含 id / status / featured / make / province
type Filters map[string]interface{}

// File 待上传的文件
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Client 数据访问客户端
// 核心流程依赖的唯一外部边界：读写全部经由这里
type Client interface {
	// Filter 按服务端条件查询车源
	// sortHint 为排序提示（如 "-created_date"），limit <= 0 表示不限
	Filter(ctx context.Context, filters Filters, sortHint string, limit int) ([]model.Listing, error)

	// Create 持久化新车源，由实现方赋予 ID / 状态 / 创建时间
	Create(ctx context.Context, listing *model.Listing) (*model.Listing, error)

	// Update 按字段更新
	Update(ctx context.Context, id string, patch map[string]interface{}) (*model.Listing, error)

	// Delete 删除车源
	Delete(ctx context.Context, id string) error

	// UploadFile 存储二进制资源并返回可访问 URL
	UploadFile(ctx context.Context, file File) (string, error)
}

// ==================== 错误 ====================

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")

	// ErrMissingID 未提供标识符就发起单条查询，属于调用方违反前置条件
	ErrMissingID = errors.New("缺少车源 ID")
)
