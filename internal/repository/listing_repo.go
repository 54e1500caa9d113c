package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"carmart_za_v1/internal/model"
)

// ==================== 接口定义 ====================

// ListingRepository 车源仓储接口
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListingFilter) ([]model.Listing, error)

	// 统计
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ==================== 过滤条件 ====================

// ListingFilter 服务端过滤条件
// 只支持少量索引字段，复杂筛选在浏览页的查询引擎里做
type ListingFilter struct {
	ID       string
	Status   string
	Make     string
	Province string
	Featured *bool
	SortHint string // "-created_date" / "price" / "-price" / "-year" / "mileage"
	Limit    int
}

// ==================== 仓储实现 ====================

type listingRepo struct {
	db *gorm.DB
}

// NewListingRepository 创建车源仓储
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepo{db: db}
}

func (r *listingRepo) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepo) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) Update(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listingRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Listing{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listingRepo) List(ctx context.Context, filter ListingFilter) ([]model.Listing, error) {
	var listings []model.Listing

	query := r.db.WithContext(ctx).Model(&model.Listing{})

	if filter.ID != "" {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Make != "" {
		query = query.Where("make = ?", filter.Make)
	}
	if filter.Province != "" {
		query = query.Where("province = ?", filter.Province)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	query = query.Order(orderClause(filter.SortHint))

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Find(&listings).Error
	return listings, err
}

// orderClause 排序提示到 SQL 的映射，未知提示回落到最新优先
func orderClause(hint string) string {
	switch hint {
	case "price":
		return "price ASC"
	case "-price":
		return "price DESC"
	case "-year":
		return "year DESC"
	case "mileage":
		return "mileage ASC"
	case "", "-created_date":
		return "created_at DESC"
	default:
		return "created_at DESC"
	}
}

func (r *listingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64)
	for _, r := range rows {
		stats[r.Status] = r.Count
	}
	return stats, nil
}

// IsNotFound 是否为记录不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
