package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carmart_za_v1/internal/api/dto"
	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/model"
	"carmart_za_v1/internal/search"
	"carmart_za_v1/internal/service"
)

// ==================== 控制器 ====================

// ListingController 车源浏览控制器
type ListingController struct {
	browseService *service.BrowseService
}

func NewListingController(browseService *service.BrowseService) *ListingController {
	return &ListingController{browseService: browseService}
}

// ==================== API 方法 ====================

// Browse 浏览车源
// @Summary 按条件筛选排序浏览车源
// @Tags Listing
// @Produce json
// @Param make query string false "品牌，空或 all 表示不限"
// @Param model query string false "型号子串"
// @Param min_price query int false "最低价" default(0)
// @Param max_price query int false "最高价" default(2000000)
// @Param year_from query int false "最早年份"
// @Param year_to query int false "最晚年份"
// @Param body_type query string false "车身类型"
// @Param transmission query string false "变速箱"
// @Param fuel_type query string false "燃料类型"
// @Param province query string false "省份"
// @Param sort query string false "排序键" default(-created_date)
// @Success 200 {object} dto.BrowseListingsResponse
// @Router /api/listings [get]
func (ctrl *ListingController) Browse(c *gin.Context) {
	var req dto.BrowseListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	result, err := ctrl.browseService.Browse(ctx, req.ToCriteria(), search.ParseSortKey(req.Sort))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.BrowseListingsResponse{
			Listings:      result.Listings,
			Total:         result.Total,
			ActiveFilters: result.ActiveFilters,
		},
	})
}

// GetDetail 车源详情
// @Summary 按 ID 获取单条车源
// @Tags Listing
// @Param id path string true "车源ID"
// @Success 200 {object} model.Listing
// @Router /api/listings/{id} [get]
func (ctrl *ListingController) GetDetail(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	listing, err := ctrl.browseService.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrMissingID) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "缺少车源ID",
			})
			return
		}
		if errors.Is(err, client.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": "车源不存在",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    listing,
	})
}

// Featured 首页精选
// @Summary 获取首页精选车源，不足时用最新车源补齐
// @Tags Listing
// @Param limit query int false "数量" default(8)
// @Success 200 {array} model.Listing
// @Router /api/listings/featured [get]
func (ctrl *ListingController) Featured(c *gin.Context) {
	limit := 8
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	ctx := c.Request.Context()
	listings, err := ctrl.browseService.Featured(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    listings,
	})
}

// Reference 参考数据
// @Summary 获取筛选与表单用的参考数据
// @Tags Listing
// @Success 200 {object} dto.ReferenceDataResponse
// @Router /api/reference [get]
func (ctrl *ListingController) Reference(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.ReferenceDataResponse{
			Makes:         model.Makes,
			BodyTypes:     model.BodyTypes,
			Provinces:     model.Provinces,
			Transmissions: model.Transmissions,
			FuelTypes:     model.FuelTypes,
			SellerTypes:   model.SellerTypes,
			Features:      model.Features,
			SortOptions: []string{
				string(search.SortNewest),
				string(search.SortPriceAsc),
				string(search.SortPriceDesc),
				string(search.SortYearDesc),
				string(search.SortMileageAsc),
			},
		},
	})
}
