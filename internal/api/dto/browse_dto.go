package dto

import (
	"strconv"

	"carmart_za_v1/internal/search"
)

// ==================== 请求 DTO ====================

// BrowseListingsRequest 浏览页查询请求
// 枚举类筛选项沿用前端约定：空串或 "all" 表示不过滤
type BrowseListingsRequest struct {
	Make         string `form:"make"`
	Model        string `form:"model"`
	MinPrice     string `form:"min_price"`
	MaxPrice     string `form:"max_price"`
	YearFrom     string `form:"year_from"`
	YearTo       string `form:"year_to"`
	BodyType     string `form:"body_type"`
	Transmission string `form:"transmission"`
	FuelType     string `form:"fuel_type"`
	Province     string `form:"province"`
	Sort         string `form:"sort"`
}

// ToCriteria 转为查询引擎的筛选条件
// 数值参数解析失败按未提供处理，不报错
func (r *BrowseListingsRequest) ToCriteria() search.Criteria {
	c := search.DefaultCriteria()
	c.Make = search.FromParam(r.Make)
	c.Model = r.Model
	c.BodyType = search.FromParam(r.BodyType)
	c.Transmission = search.FromParam(r.Transmission)
	c.FuelType = search.FromParam(r.FuelType)
	c.Province = search.FromParam(r.Province)

	if n, err := strconv.Atoi(r.MinPrice); err == nil && n >= 0 {
		c.MinPrice = n
	}
	if n, err := strconv.Atoi(r.MaxPrice); err == nil && n >= 0 {
		c.MaxPrice = n
	}
	if n, err := strconv.Atoi(r.YearFrom); err == nil {
		c.YearFrom = &n
	}
	if n, err := strconv.Atoi(r.YearTo); err == nil {
		c.YearTo = &n
	}
	return c
}

// FilterListingsRequest 数据访问端筛选请求（供应用侧客户端调用）
type FilterListingsRequest struct {
	Filters map[string]interface{} `json:"filters"`
	Sort    string                 `json:"sort"`
	Limit   int                    `json:"limit"`
}

// UpdateListingRequest 部分更新请求
type UpdateListingRequest struct {
	Fields map[string]interface{} `json:"fields" binding:"required"`
}

// ==================== 响应 DTO ====================

// BrowseListingsResponse 浏览页响应
type BrowseListingsResponse struct {
	Listings      interface{} `json:"listings"`
	Total         int         `json:"total"`
	ActiveFilters int         `json:"active_filters"`
}

// ReferenceDataResponse 表单与筛选用的参考数据
type ReferenceDataResponse struct {
	Makes         []string `json:"makes"`
	BodyTypes     []string `json:"body_types"`
	Provinces     []string `json:"provinces"`
	Transmissions []string `json:"transmissions"`
	FuelTypes     []string `json:"fuel_types"`
	SellerTypes   []string `json:"seller_types"`
	Features      []string `json:"features"`
	SortOptions   []string `json:"sort_options"`
}
