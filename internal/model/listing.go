package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ==================== 状态常量 ====================

const (
	// 车源状态
	ListingStatusPending  = "pending"  // 待审核
	ListingStatusApproved = "approved" // 已上架

	// 变速箱
	TransmissionManual    = "Manual"
	TransmissionAutomatic = "Automatic"
	TransmissionSemiAuto  = "Semi-Automatic"

	// 燃料类型
	FuelPetrol   = "Petrol"
	FuelDiesel   = "Diesel"
	FuelHybrid   = "Hybrid"
	FuelElectric = "Electric"

	// 卖家类型
	SellerTypePrivate = "Private"
	SellerTypeDealer  = "Dealer"
)

// MaxListingImages 单个车源最多允许的图片数量
const MaxListingImages = 10

// ==================== 数据库模型 ====================

// Listing 车源
type Listing struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_date"`
	UpdatedAt time.Time `json:"updated_date"`

	// 车辆信息
	Make     string `gorm:"size:64;index;not null" json:"make"`
	Model    string `gorm:"size:128;index" json:"model"`
	Variant  string `gorm:"size:128" json:"variant,omitempty"`
	Year     int    `gorm:"index" json:"year"`
	Colour   string `gorm:"size:64" json:"colour,omitempty"`
	BodyType string `gorm:"size:32;index" json:"body_type"`

	// 商业信息（价格单位：南非兰特整数，里程单位：公里）
	Price   int `gorm:"index" json:"price"`
	Mileage int `json:"mileage"`

	// 机械信息
	Transmission string `gorm:"size:32" json:"transmission"`
	FuelType     string `gorm:"size:32" json:"fuel_type"`

	// 位置
	Province string `gorm:"size:32;index" json:"province"`
	City     string `gorm:"size:64" json:"city,omitempty"`

	// 展示信息
	Images      datatypes.JSONSlice[string] `gorm:"type:json" json:"images"`
	Description string                      `gorm:"type:text" json:"description,omitempty"`
	Features    datatypes.JSONSlice[string] `gorm:"type:json" json:"features"`

	// 卖家信息
	SellerName  string `gorm:"size:128" json:"seller_name"`
	SellerPhone string `gorm:"size:32" json:"seller_phone"`
	SellerEmail string `gorm:"size:128" json:"seller_email"`
	SellerType  string `gorm:"size:16;default:Private" json:"seller_type"`

	// 生命周期标记（由后端/审核流程赋值，提交方不可控制）
	Status   string `gorm:"size:16;index;default:pending" json:"status"`
	Featured bool   `gorm:"index;default:false" json:"featured"`
}

func (*Listing) TableName() string {
	return "listings"
}

// BeforeCreate ID 与状态由后端统一赋值
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = ListingStatusPending
	}
	return nil
}

// ==================== 校验 ====================

var requiredFieldErr = func(field string) error {
	return fmt.Errorf("缺少必填字段: %s", field)
}

// Validate 提交前的完整性校验
// 必填字段非空、数值非负、图片数量不超过上限
func (l *Listing) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"make", l.Make},
		{"model", l.Model},
		{"transmission", l.Transmission},
		{"fuel_type", l.FuelType},
		{"body_type", l.BodyType},
		{"province", l.Province},
		{"seller_name", l.SellerName},
		{"seller_phone", l.SellerPhone},
		{"seller_email", l.SellerEmail},
	}
	for _, f := range required {
		if f.value == "" {
			return requiredFieldErr(f.name)
		}
	}

	if !IsValidProvince(l.Province) {
		return fmt.Errorf("未知省份: %s", l.Province)
	}
	for _, f := range l.Features {
		if !IsValidFeature(f) {
			return fmt.Errorf("未知配置项: %s", f)
		}
	}

	if l.Year < 0 {
		return errors.New("年份不能为负数")
	}
	if l.Year == 0 {
		return requiredFieldErr("year")
	}
	if l.Price < 0 {
		return errors.New("价格不能为负数")
	}
	if l.Mileage < 0 {
		return errors.New("里程不能为负数")
	}
	if len(l.Images) > MaxListingImages {
		return fmt.Errorf("图片数量不能超过 %d 张", MaxListingImages)
	}
	return nil
}

// IsApproved 是否已上架
func (l *Listing) IsApproved() bool {
	return l.Status == ListingStatusApproved
}
