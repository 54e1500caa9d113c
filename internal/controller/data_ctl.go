package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"carmart_za_v1/internal/api/dto"
	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/model"
)

// ==================== 控制器 ====================

// DataController 数据访问端控制器
// 暴露应用侧客户端依赖的原始数据接口：
// 成功时直接返回数据本体（应用侧 SetResult 反序列化用），失败时返回 code/message
type DataController struct {
	client client.Client
}

func NewDataController(c client.Client) *DataController {
	return &DataController{client: c}
}

// ==================== API 方法 ====================

// FilterListings 服务端条件查询
// @Summary 按服务端条件查询车源
// @Tags Data
// @Accept json
// @Param body body dto.FilterListingsRequest true "查询条件"
// @Success 200 {array} model.Listing
// @Router /api/listings/filter [post]
func (ctrl *DataController) FilterListings(c *gin.Context) {
	var req dto.FilterListingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	listings, err := ctrl.client.Filter(ctx, client.Filters(req.Filters), req.Sort, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败: " + err.Error(),
		})
		return
	}
	if listings == nil {
		listings = []model.Listing{}
	}

	c.JSON(http.StatusOK, listings)
}

// CreateListing 持久化新车源
// @Summary 创建车源记录（状态强制 pending）
// @Tags Data
// @Accept json
// @Param body body model.Listing true "车源"
// @Success 201 {object} model.Listing
// @Router /api/listings [post]
func (ctrl *DataController) CreateListing(c *gin.Context) {
	var listing model.Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	created, err := ctrl.client.Create(ctx, &listing)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "创建失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateListing 按字段更新
// @Summary 部分更新车源字段
// @Tags Data
// @Accept json
// @Param id path string true "车源ID"
// @Param body body map[string]interface{} true "更新字段"
// @Success 200 {object} model.Listing
// @Router /api/listings/{id} [patch]
func (ctrl *DataController) UpdateListing(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	updated, err := ctrl.client.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": "车源不存在",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "更新失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteListing 删除车源
// @Summary 删除车源记录
// @Tags Data
// @Param id path string true "车源ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/listings/{id} [delete]
func (ctrl *DataController) DeleteListing(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	if err := ctrl.client.Delete(ctx, id); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": "车源不存在",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "删除失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "删除成功",
	})
}

// Upload 上传文件
// @Summary 上传文件并返回可访问 URL
// @Tags Data
// @Accept multipart/form-data
// @Param file formData file true "文件"
// @Success 200 {object} dto.UploadResponse
// @Router /api/uploads [post]
func (ctrl *DataController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "缺少文件: " + err.Error(),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "读取文件失败: " + err.Error(),
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "读取文件失败: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	url, err := ctrl.client.UploadFile(ctx, client.File{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "上传失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{FileURL: url})
}
