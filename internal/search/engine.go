package search

import (
	"sort"

	"carmart_za_v1/internal/model"
)

// ==================== 排序键 ====================

// SortKey 排序键，取值与前端下拉框一致
type SortKey string

const (
	SortNewest     SortKey = "-created_date" // 最新发布
	SortPriceAsc   SortKey = "price"         // 价格从低到高
	SortPriceDesc  SortKey = "-price"        // 价格从高到低
	SortYearDesc   SortKey = "-year"         // 年份从新到旧
	SortMileageAsc SortKey = "mileage"       // 里程从低到高
)

// ParseSortKey 解析排序参数，未知值回落到最新发布
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortYearDesc, SortMileageAsc:
		return SortKey(s)
	default:
		return SortNewest
	}
}

// ==================== 查询引擎 ====================

// Query 对车源集合执行筛选 + 排序，返回新切片，不改动输入
// 纯函数：同样的输入永远得到同样的输出
func Query(records []model.Listing, c Criteria, key SortKey) []model.Listing {
	result := make([]model.Listing, 0, len(records))
	for _, l := range records {
		if Matches(&l, c) {
			result = append(result, l)
		}
	}
	sortListings(result, key)
	return result
}

// Matches 单条记录是否满足全部筛选条件
// 各条件相互独立，命中任意一条不满足即淘汰
func Matches(l *model.Listing, c Criteria) bool {
	if !c.Make.Match(l.Make) {
		return false
	}
	if !c.matchModel(l.Model) {
		return false
	}
	if l.Price < c.MinPrice || l.Price > c.MaxPrice {
		return false
	}
	if c.YearFrom != nil && l.Year < *c.YearFrom {
		return false
	}
	if c.YearTo != nil && l.Year > *c.YearTo {
		return false
	}
	if !c.BodyType.Match(l.BodyType) {
		return false
	}
	if !c.Transmission.Match(l.Transmission) {
		return false
	}
	if !c.FuelType.Match(l.FuelType) {
		return false
	}
	if !c.Province.Match(l.Province) {
		return false
	}
	return true
}

// sortListings 按排序键原地排序（稳定排序，平局保持输入顺序）
// 最新发布按创建时间倒序，零值时间自然排到最后
func sortListings(list []model.Listing, key SortKey) {
	var less func(a, b *model.Listing) bool

	switch key {
	case SortPriceAsc:
		less = func(a, b *model.Listing) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b *model.Listing) bool { return a.Price > b.Price }
	case SortYearDesc:
		less = func(a, b *model.Listing) bool { return a.Year > b.Year }
	case SortMileageAsc:
		less = func(a, b *model.Listing) bool { return a.Mileage < b.Mileage }
	default: // SortNewest
		less = func(a, b *model.Listing) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(list, func(i, j int) bool {
		return less(&list[i], &list[j])
	})
}
