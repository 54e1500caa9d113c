package search

import "strings"

// ==================== 通配匹配字段 ====================

// Term 单个筛选字段：要么是通配（匹配任何值），要么是精确值
// 显式建模通配状态，避免用 "" / "all" 这类哨兵字符串与真实数据冲突
type Term struct {
	value string
	exact bool
}

// Any 通配项
func Any() Term {
	return Term{}
}

// Exact 精确匹配项
func Exact(v string) Term {
	return Term{value: v, exact: true}
}

// FromParam 解析 HTTP 查询参数
// 前端约定空串和 "all" 都表示不过滤，该约定只在这一个边界上存在
func FromParam(s string) Term {
	if s == "" || s == "all" {
		return Any()
	}
	return Exact(s)
}

// Match 是否匹配给定值（通配项匹配一切）
func (t Term) Match(v string) bool {
	return !t.exact || t.value == v
}

// IsWildcard 是否为通配项
func (t Term) IsWildcard() bool {
	return !t.exact
}

// Value 精确值（通配项返回空串）
func (t Term) Value() string {
	return t.value
}

// ==================== 筛选条件 ====================

// 价格区间默认边界（ZAR）
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 2000000
)

// Criteria 浏览页筛选条件
// 除 Model 外均为精确匹配；Model 为大小写不敏感的子串匹配
type Criteria struct {
	Make         Term
	Model        string // 空串 = 不过滤
	MinPrice     int
	MaxPrice     int
	YearFrom     *int // nil = 不限
	YearTo       *int // nil = 不限
	BodyType     Term
	Transmission Term
	FuelType     Term
	Province     Term
}

// DefaultCriteria 重置后的初始条件：所有字段通配
func DefaultCriteria() Criteria {
	return Criteria{
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
	}
}

// ActiveCount 当前生效的筛选项数量（给界面角标用）
// 价格区间只要窄于默认区间即记为一项
func (c Criteria) ActiveCount() int {
	count := 0
	if !c.Make.IsWildcard() {
		count++
	}
	if c.Model != "" {
		count++
	}
	if c.MinPrice > DefaultMinPrice || c.MaxPrice < DefaultMaxPrice {
		count++
	}
	if !c.BodyType.IsWildcard() {
		count++
	}
	if !c.Transmission.IsWildcard() {
		count++
	}
	if !c.FuelType.IsWildcard() {
		count++
	}
	if !c.Province.IsWildcard() {
		count++
	}
	return count
}

// matchModel 型号子串匹配，大小写不敏感
func (c Criteria) matchModel(model string) bool {
	if c.Model == "" {
		return true
	}
	return strings.Contains(strings.ToLower(model), strings.ToLower(c.Model))
}
