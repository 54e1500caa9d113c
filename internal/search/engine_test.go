package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"carmart_za_v1/internal/model"
)

// ==================== 测试数据 ====================

func sampleListings() []model.Listing {
	return []model.Listing{
		{
			ID: "l1", Make: "Toyota", Model: "Corolla", Year: 2018,
			Price: 100000, Mileage: 85000,
			Transmission: model.TransmissionManual, FuelType: model.FuelPetrol,
			BodyType: "Sedan", Province: "Gauteng",
			CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "l2", Make: "BMW", Model: "320i", Year: 2020,
			Price: 300000, Mileage: 40000,
			Transmission: model.TransmissionAutomatic, FuelType: model.FuelPetrol,
			BodyType: "Sedan", Province: "Western Cape",
			CreatedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "l3", Make: "Ford", Model: "Ranger", Year: 2016,
			Price: 250000, Mileage: 120000,
			Transmission: model.TransmissionManual, FuelType: model.FuelDiesel,
			BodyType: "Bakkie", Province: "Gauteng",
			CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func ids(list []model.Listing) []string {
	out := make([]string, len(list))
	for i, l := range list {
		out[i] = l.ID
	}
	return out
}

// ==================== 筛选 ====================

func TestQuery_FilterByMake(t *testing.T) {
	records := []model.Listing{
		{ID: "t", Make: "Toyota", Price: 100000, Year: 2018},
		{ID: "b", Make: "BMW", Price: 300000, Year: 2020},
	}

	c := DefaultCriteria()
	c.Make = Exact("Toyota")

	result := Query(records, c, SortNewest)
	assert.Equal(t, []string{"t"}, ids(result))
}

func TestQuery_FilterByPriceRange(t *testing.T) {
	records := []model.Listing{
		{ID: "t", Make: "Toyota", Price: 100000, Year: 2018},
		{ID: "b", Make: "BMW", Price: 300000, Year: 2020},
	}

	c := DefaultCriteria()
	c.MinPrice = 150000
	c.MaxPrice = 2000000

	result := Query(records, c, SortNewest)
	assert.Equal(t, []string{"b"}, ids(result))
}

func TestQuery_PriceRangeInclusive(t *testing.T) {
	records := []model.Listing{{ID: "x", Price: 150000}}

	c := DefaultCriteria()
	c.MinPrice = 150000
	c.MaxPrice = 150000

	result := Query(records, c, SortNewest)
	assert.Len(t, result, 1)
}

func TestQuery_ModelSubstringCaseInsensitive(t *testing.T) {
	c := DefaultCriteria()
	c.Model = "coro"

	result := Query(sampleListings(), c, SortNewest)
	assert.Equal(t, []string{"l1"}, ids(result))

	c.Model = "COROLLA"
	result = Query(sampleListings(), c, SortNewest)
	assert.Equal(t, []string{"l1"}, ids(result))
}

func TestQuery_YearBounds(t *testing.T) {
	from, to := 2017, 2019

	c := DefaultCriteria()
	c.YearFrom = &from
	result := Query(sampleListings(), c, SortYearDesc)
	assert.Equal(t, []string{"l2", "l1"}, ids(result))

	c = DefaultCriteria()
	c.YearTo = &to
	result = Query(sampleListings(), c, SortYearDesc)
	assert.Equal(t, []string{"l1", "l3"}, ids(result))
}

func TestQuery_CombinedEnumFilters(t *testing.T) {
	c := DefaultCriteria()
	c.Transmission = Exact(model.TransmissionManual)
	c.Province = Exact("Gauteng")

	result := Query(sampleListings(), c, SortPriceAsc)
	assert.Equal(t, []string{"l1", "l3"}, ids(result))

	c.FuelType = Exact(model.FuelDiesel)
	result = Query(sampleListings(), c, SortPriceAsc)
	assert.Equal(t, []string{"l3"}, ids(result))
}

// 通配性质：重置条件下返回全部记录，只是重新排序
func TestQuery_WildcardReturnsAll(t *testing.T) {
	records := sampleListings()
	for _, key := range []SortKey{SortNewest, SortPriceAsc, SortPriceDesc, SortYearDesc, SortMileageAsc} {
		result := Query(records, DefaultCriteria(), key)
		assert.Len(t, result, len(records), "sort key %s", key)
	}
}

// 幂等性质：对已筛选结果再次用同一条件筛选，结果不变
func TestQuery_Idempotent(t *testing.T) {
	c := DefaultCriteria()
	c.Province = Exact("Gauteng")
	c.MaxPrice = 260000

	once := Query(sampleListings(), c, SortPriceAsc)
	twice := Query(once, c, SortPriceAsc)
	assert.Equal(t, once, twice)
}

// 查询不得改动输入切片
func TestQuery_DoesNotMutateInput(t *testing.T) {
	records := sampleListings()
	original := ids(records)

	Query(records, DefaultCriteria(), SortPriceDesc)
	assert.Equal(t, original, ids(records))
}

// ==================== 排序 ====================

func TestQuery_SortPriceDesc(t *testing.T) {
	records := []model.Listing{
		{ID: "t", Make: "Toyota", Price: 100000, Year: 2018},
		{ID: "b", Make: "BMW", Price: 300000, Year: 2020},
	}

	result := Query(records, DefaultCriteria(), SortPriceDesc)
	assert.Equal(t, []string{"b", "t"}, ids(result))
}

func TestQuery_SortNewestFirst(t *testing.T) {
	result := Query(sampleListings(), DefaultCriteria(), SortNewest)
	assert.Equal(t, []string{"l2", "l3", "l1"}, ids(result))
}

// 无创建时间的记录按最新排序时排在最后
func TestQuery_SortNewest_ZeroTimestampLast(t *testing.T) {
	records := []model.Listing{
		{ID: "none"}, // 零值时间
		{ID: "old", CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "new", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	result := Query(records, DefaultCriteria(), SortNewest)
	assert.Equal(t, "none", result[len(result)-1].ID)
}

// 排序全序性质：结果中任意相邻对都符合该键的比较器
func TestQuery_SortTotality(t *testing.T) {
	records := sampleListings()

	checks := map[SortKey]func(a, b model.Listing) bool{
		SortPriceAsc:   func(a, b model.Listing) bool { return a.Price <= b.Price },
		SortPriceDesc:  func(a, b model.Listing) bool { return a.Price >= b.Price },
		SortYearDesc:   func(a, b model.Listing) bool { return a.Year >= b.Year },
		SortMileageAsc: func(a, b model.Listing) bool { return a.Mileage <= b.Mileage },
		SortNewest:     func(a, b model.Listing) bool { return !a.CreatedAt.Before(b.CreatedAt) },
	}

	for key, ok := range checks {
		result := Query(records, DefaultCriteria(), key)
		for i := 0; i+1 < len(result); i++ {
			if !ok(result[i], result[i+1]) {
				t.Fatalf("排序键 %s 在位置 %d 出现逆序", key, i)
			}
		}
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortKey("price"))
	assert.Equal(t, SortNewest, ParseSortKey("-created_date"))
	assert.Equal(t, SortNewest, ParseSortKey("bogus"))
	assert.Equal(t, SortNewest, ParseSortKey(""))
}

// ==================== 条件辅助 ====================

func TestTerm_FromParam(t *testing.T) {
	assert.True(t, FromParam("").IsWildcard())
	assert.True(t, FromParam("all").IsWildcard())
	assert.False(t, FromParam("Toyota").IsWildcard())
	assert.True(t, FromParam("Toyota").Match("Toyota"))
	assert.False(t, FromParam("Toyota").Match("BMW"))
}

func TestCriteria_ActiveCount(t *testing.T) {
	c := DefaultCriteria()
	assert.Equal(t, 0, c.ActiveCount())

	c.Make = Exact("Toyota")
	c.Model = "cor"
	assert.Equal(t, 2, c.ActiveCount())

	// 价格区间窄于默认区间算一项，年份区间不计入
	c.MinPrice = 50000
	year := 2018
	c.YearFrom = &year
	assert.Equal(t, 3, c.ActiveCount())

	c.BodyType = Exact("Sedan")
	c.Transmission = Exact(model.TransmissionManual)
	c.FuelType = Exact(model.FuelPetrol)
	c.Province = Exact("Gauteng")
	assert.Equal(t, 7, c.ActiveCount())
}

func TestDefaultCriteria_Reset(t *testing.T) {
	c := DefaultCriteria()
	assert.Equal(t, DefaultMinPrice, c.MinPrice)
	assert.Equal(t, DefaultMaxPrice, c.MaxPrice)
	assert.Nil(t, c.YearFrom)
	assert.Nil(t, c.YearTo)
	assert.True(t, c.Make.IsWildcard())
	assert.True(t, c.Province.IsWildcard())
}
