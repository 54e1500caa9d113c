package controller

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carmart_za_v1/internal/api/dto"
	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/middleware"
	"carmart_za_v1/internal/model"
	"carmart_za_v1/internal/service"
)

// ==================== 控制器 ====================

// AdminController 后台审核控制器
// 审核动作经由数据访问客户端落库，与应用侧共用同一套数据接口
type AdminController struct {
	auth   *service.AdminAuthService
	client client.Client
}

func NewAdminController(auth *service.AdminAuthService, c client.Client) *AdminController {
	return &AdminController{auth: auth, client: c}
}

// ==================== 登录 ====================

// Login 后台登录
// @Summary 后台账号登录，签发 Token 对
// @Tags Admin
// @Accept json
// @Param body body dto.AdminLoginRequest true "登录请求"
// @Success 200 {object} dto.AdminLoginResponse
// @Router /api/admin/login [post]
func (ctrl *AdminController) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	role, err := ctrl.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "用户名或密码错误",
		})
		return
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(req.Username, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "签发 Token 失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.AdminLoginResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			Role:         role,
		},
	})
}

// ==================== 审核队列 ====================

// ListPending 待审核列表
// @Summary 获取待审核车源列表
// @Tags Admin
// @Param status query string false "状态" default(pending)
// @Param limit query int false "数量" default(50)
// @Success 200 {array} model.Listing
// @Router /api/admin/listings [get]
func (ctrl *AdminController) ListPending(c *gin.Context) {
	status := c.DefaultQuery("status", model.ListingStatusPending)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	ctx := c.Request.Context()
	listings, err := ctrl.client.Filter(ctx, client.Filters{"status": status}, "-created_date", limit)
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

// ==================== 审核动作 ====================

// Approve 审核通过
// @Summary 将车源状态置为 approved
// @Tags Admin
// @Param id path string true "车源ID"
// @Success 200 {object} model.Listing
// @Router /api/admin/listings/{id}/approve [post]
func (ctrl *AdminController) Approve(c *gin.Context) {
	ctrl.patchListing(c, map[string]interface{}{"status": model.ListingStatusApproved})
}

// Feature 设为精选
// @Summary 将车源标记为首页精选
// @Tags Admin
// @Param id path string true "车源ID"
// @Success 200 {object} model.Listing
// @Router /api/admin/listings/{id}/feature [post]
func (ctrl *AdminController) Feature(c *gin.Context) {
	ctrl.patchListing(c, map[string]interface{}{"featured": true})
}

// Unfeature 取消精选
// @Summary 取消车源的首页精选标记
// @Tags Admin
// @Param id path string true "车源ID"
// @Success 200 {object} model.Listing
// @Router /api/admin/listings/{id}/feature [delete]
func (ctrl *AdminController) Unfeature(c *gin.Context) {
	ctrl.patchListing(c, map[string]interface{}{"featured": false})
}

// Remove 删除车源
// @Summary 删除车源（驳回或下架）
// @Tags Admin
// @Param id path string true "车源ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/listings/{id} [delete]
func (ctrl *AdminController) Remove(c *gin.Context) {
	id := c.Param("id")

	log.Printf("[审核] %s(%s) 删除车源 %s",
		middleware.GetUsername(c), middleware.GetUserRole(c), id)

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

// patchListing 统一的字段更新处理，记录操作人便于追溯
func (ctrl *AdminController) patchListing(c *gin.Context, patch map[string]interface{}) {
	id := c.Param("id")
	log.Printf("[审核] %s(%s) 更新车源 %s: %v",
		middleware.GetUsername(c), middleware.GetUserRole(c), id, patch)

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

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    updated,
	})
}
