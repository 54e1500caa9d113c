package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"carmart_za_v1/internal/model"
)

// ==================== 草稿 ====================

// Draft 提交流程中逐步累积的车源草稿
// 数值字段在编辑期间保持字符串（对应表单输入），提交时统一解析
type Draft struct {
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Variant      string   `json:"variant"`
	Year         string   `json:"year"`
	Price        string   `json:"price"`
	Mileage      string   `json:"mileage"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuel_type"`
	BodyType     string   `json:"body_type"`
	Colour       string   `json:"colour"`
	Province     string   `json:"province"`
	City         string   `json:"city"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	SellerName   string   `json:"seller_name"`
	SellerPhone  string   `json:"seller_phone"`
	SellerEmail  string   `json:"seller_email"`
	SellerType   string   `json:"seller_type"`
}

// emptyDraft 初始草稿，卖家类型默认私人卖家
func emptyDraft() Draft {
	return Draft{SellerType: model.SellerTypePrivate}
}

// DraftPatch 草稿字段更新（nil 表示不改动）
type DraftPatch struct {
	Make         *string  `json:"make,omitempty"`
	Model        *string  `json:"model,omitempty"`
	Variant      *string  `json:"variant,omitempty"`
	Year         *string  `json:"year,omitempty"`
	Price        *string  `json:"price,omitempty"`
	Mileage      *string  `json:"mileage,omitempty"`
	Transmission *string  `json:"transmission,omitempty"`
	FuelType     *string  `json:"fuel_type,omitempty"`
	BodyType     *string  `json:"body_type,omitempty"`
	Colour       *string  `json:"colour,omitempty"`
	Province     *string  `json:"province,omitempty"`
	City         *string  `json:"city,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	SellerName   *string  `json:"seller_name,omitempty"`
	SellerPhone  *string  `json:"seller_phone,omitempty"`
	SellerEmail  *string  `json:"seller_email,omitempty"`
	SellerType   *string  `json:"seller_type,omitempty"`
}

// apply 把补丁合并进草稿
func (d *Draft) apply(p DraftPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.Make, p.Make)
	set(&d.Model, p.Model)
	set(&d.Variant, p.Variant)
	set(&d.Year, p.Year)
	set(&d.Price, p.Price)
	set(&d.Mileage, p.Mileage)
	set(&d.Transmission, p.Transmission)
	set(&d.FuelType, p.FuelType)
	set(&d.BodyType, p.BodyType)
	set(&d.Colour, p.Colour)
	set(&d.Province, p.Province)
	set(&d.City, p.City)
	set(&d.Description, p.Description)
	set(&d.SellerName, p.SellerName)
	set(&d.SellerPhone, p.SellerPhone)
	set(&d.SellerEmail, p.SellerEmail)
	set(&d.SellerType, p.SellerType)
	if p.Features != nil {
		d.Features = append([]string(nil), p.Features...)
	}
}

// ==================== 解析错误 ====================

// InvalidDraftError 提交时数值字段解析失败
// 显式列出问题字段，让前端能逐项提示
type InvalidDraftError struct {
	Fields []string
}

func (e *InvalidDraftError) Error() string {
	return fmt.Sprintf("草稿数值字段无效: %s", strings.Join(e.Fields, ", "))
}

// ==================== 转换 ====================

// toListing 草稿转为提交载荷
// 状态强制为 pending，featured 不设置，年份/价格/里程解析为整数
func (d *Draft) toListing(images []string) (*model.Listing, error) {
	var bad []string

	year, err := parseNonNegative(d.Year)
	if err != nil {
		bad = append(bad, "year")
	}
	price, err := parseNonNegative(d.Price)
	if err != nil {
		bad = append(bad, "price")
	}
	mileage, err := parseNonNegative(d.Mileage)
	if err != nil {
		bad = append(bad, "mileage")
	}
	if len(bad) > 0 {
		return nil, &InvalidDraftError{Fields: bad}
	}

	return &model.Listing{
		Make:         d.Make,
		Model:        d.Model,
		Variant:      d.Variant,
		Year:         year,
		Colour:       d.Colour,
		BodyType:     d.BodyType,
		Price:        price,
		Mileage:      mileage,
		Transmission: d.Transmission,
		FuelType:     d.FuelType,
		Province:     d.Province,
		City:         d.City,
		Images:       datatypes.JSONSlice[string](append([]string(nil), images...)),
		Description:  d.Description,
		Features:     datatypes.JSONSlice[string](append([]string(nil), d.Features...)),
		SellerName:   d.SellerName,
		SellerPhone:  d.SellerPhone,
		SellerEmail:  d.SellerEmail,
		SellerType:   d.SellerType,
		Status:       model.ListingStatusPending,
	}, nil
}

func parseNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("负数: %d", n)
	}
	return n, nil
}
