package service

import (
	"context"
	"fmt"

	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/model"
	"carmart_za_v1/internal/search"
)

// 浏览页一次拉取的记录上限，更丰富的筛选在拉取结果上做
const browseFetchLimit = 100

// ==================== 服务实现 ====================

// BrowseService 浏览与详情服务
// 经由数据访问客户端取回已上架车源，再交给查询引擎做客户端筛选排序
type BrowseService struct {
	client client.Client
}

// NewBrowseService 创建浏览服务
func NewBrowseService(c client.Client) *BrowseService {
	return &BrowseService{client: c}
}

// BrowseResult 浏览结果
type BrowseResult struct {
	Listings      []model.Listing
	Total         int // 筛选后的数量
	ActiveFilters int // 生效的筛选项数量
}

// Browse 浏览车源
// 服务端只按 status=approved 粗筛，细筛与排序由查询引擎完成；
// 拉取失败原样上抛，空结果对引擎而言是合法输入
func (s *BrowseService) Browse(ctx context.Context, criteria search.Criteria, key search.SortKey) (*BrowseResult, error) {
	records, err := s.client.Filter(ctx,
		client.Filters{"status": model.ListingStatusApproved},
		string(search.SortNewest), browseFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("拉取车源失败: %v", err)
	}

	result := search.Query(records, criteria, key)
	return &BrowseResult{
		Listings:      result,
		Total:         len(result),
		ActiveFilters: criteria.ActiveCount(),
	}, nil
}

// GetListing 按 ID 获取单条车源
// 空 ID 属于调用方违反前置条件，直接快速失败，不发起查询
func (s *BrowseService) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, client.ErrMissingID
	}

	records, err := s.client.Filter(ctx, client.Filters{"id": id}, "", 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, client.ErrNotFound
	}
	return &records[0], nil
}

// Featured 首页精选车源
// 优先取 featured 的已上架车源，不足时用最新已上架车源补齐
func (s *BrowseService) Featured(ctx context.Context, limit int) ([]model.Listing, error) {
	if limit <= 0 {
		limit = 8
	}

	featured, err := s.client.Filter(ctx,
		client.Filters{"status": model.ListingStatusApproved, "featured": true},
		string(search.SortNewest), limit)
	if err != nil {
		return nil, err
	}

	if len(featured) >= limit {
		return featured, nil
	}

	// 补齐时按完整 limit 拉取：最新的已上架车源可能本身就在精选里，
	// 按差额拉取的话去重后会凑不满
	more, err := s.client.Filter(ctx,
		client.Filters{"status": model.ListingStatusApproved},
		string(search.SortNewest), limit)
	if err != nil {
		return featured, nil // 补齐失败不影响已有结果
	}

	// 去掉已在精选里的记录
	seen := make(map[string]bool, len(featured))
	for _, l := range featured {
		seen[l.ID] = true
	}
	for _, l := range more {
		if !seen[l.ID] && len(featured) < limit {
			featured = append(featured, l)
		}
	}
	return featured, nil
}
