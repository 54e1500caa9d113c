package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carmart_za_v1/internal/api/dto"
	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/middleware"
	"carmart_za_v1/internal/service"
	"carmart_za_v1/internal/wizard"
)

// ==================== 控制器 ====================

// SubmissionController 车源提交向导控制器
type SubmissionController struct {
	submissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// ==================== API 方法 ====================

// StartSession 开启提交会话
// @Summary 开启新的提交会话
// @Tags Submission
// @Success 201 {object} dto.StartSessionResponse
// @Router /api/submissions [post]
func (ctrl *SubmissionController) StartSession(c *gin.Context) {
	id := ctrl.submissionService.Start()

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.StartSessionResponse{
			SessionID: id,
			Step:      int(wizard.StepVehicle),
		},
	})
}

// GetState 查询会话状态
// @Summary 查询会话的步骤、草稿与图片
// @Tags Submission
// @Param id path string true "会话ID"
// @Success 200 {object} service.SessionState
// @Router /api/submissions/{id} [get]
func (ctrl *SubmissionController) GetState(c *gin.Context) {
	state, err := ctrl.submissionService.State(c.Param("id"))
	if err != nil {
		ctrl.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    state,
	})
}

// UpdateDraft 更新草稿
// @Summary 更新会话草稿字段
// @Tags Submission
// @Accept json
// @Param id path string true "会话ID"
// @Param body body dto.UpdateDraftRequest true "更新字段"
// @Success 200 {object} service.SessionState
// @Router /api/submissions/{id}/draft [patch]
func (ctrl *SubmissionController) UpdateDraft(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	id := c.Param("id")
	if err := ctrl.submissionService.UpdateDraft(id, req); err != nil {
		ctrl.sessionError(c, err)
		return
	}

	ctrl.respondState(c, id)
}

// Next 前进一步
// @Summary 当前步骤完成时前进一步，未完成时原地不动
// @Tags Submission
// @Param id path string true "会话ID"
// @Success 200 {object} service.SessionState
// @Router /api/submissions/{id}/next [post]
func (ctrl *SubmissionController) Next(c *gin.Context) {
	id := c.Param("id")
	if _, err := ctrl.submissionService.Advance(id); err != nil {
		ctrl.sessionError(c, err)
		return
	}

	ctrl.respondState(c, id)
}

// Back 后退一步
// @Summary 后退一步，第一步与终态不动
// @Tags Submission
// @Param id path string true "会话ID"
// @Success 200 {object} service.SessionState
// @Router /api/submissions/{id}/back [post]
func (ctrl *SubmissionController) Back(c *gin.Context) {
	id := c.Param("id")
	if _, err := ctrl.submissionService.Back(id); err != nil {
		ctrl.sessionError(c, err)
		return
	}

	ctrl.respondState(c, id)
}

// AddImages 上传图片批次
// @Summary 上传一批图片，超出上限整批拒绝
// @Tags Submission
// @Accept multipart/form-data
// @Param id path string true "会话ID"
// @Param files formData file true "图片文件（可多个）"
// @Success 200 {object} service.SessionState
// @Router /api/submissions/{id}/images [post]
func (ctrl *SubmissionController) AddImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "未提供图片文件",
		})
		return
	}

	files := make([]client.File, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "读取文件失败: " + err.Error(),
			})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "读取文件失败: " + err.Error(),
			})
			return
		}
		files = append(files, client.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	id := c.Param("id")
	ctx := c.Request.Context()
	if err := ctrl.submissionService.AddImages(ctx, id, files); err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			ctrl.sessionError(c, err)
		case errors.Is(err, wizard.ErrTooManyImages),
			errors.Is(err, wizard.ErrUploadInFlight),
			errors.Is(err, wizard.ErrWrongStep):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": "上传失败: " + err.Error(),
			})
		}
		return
	}

	ctrl.respondState(c, id)
}

// RemoveImage 移除图片
// @Summary 按下标移除已上传的图片
// @Tags Submission
// @Param id path string true "会话ID"
// @Param index path int true "图片下标"
// @Success 200 {object} service.SessionState
// @Router /api/submissions/{id}/images/{index} [delete]
func (ctrl *SubmissionController) RemoveImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的图片下标",
		})
		return
	}

	id := c.Param("id")
	if err := ctrl.submissionService.RemoveImage(id, index); err != nil {
		if errors.Is(err, service.ErrBadImageIndex) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的图片下标",
			})
			return
		}
		ctrl.sessionError(c, err)
		return
	}

	ctrl.respondState(c, id)
}

// Submit 提交车源
// @Summary 提交车源进入待审核队列
// @Tags Submission
// @Param id path string true "会话ID"
// @Success 200 {object} model.Listing
// @Router /api/submissions/{id}/submit [post]
func (ctrl *SubmissionController) Submit(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	created, err := ctrl.submissionService.Submit(ctx, id)
	if err != nil {
		var invalid *wizard.InvalidDraftError
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			ctrl.sessionError(c, err)
		case errors.As(err, &invalid):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
				"data": gin.H{
					"invalid_fields": invalid.Fields,
				},
			})
		case errors.Is(err, wizard.ErrWrongStep):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": "提交失败: " + err.Error(),
			})
		}
		return
	}

	// 提交成功后清掉开启会话的冷却，用户可以立即再发一辆车
	middleware.GetLimiter().Reset(middleware.ClientKey(c.ClientIP(), middleware.ActionSessionStart))

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "提交成功，等待审核",
		"data":    created,
	})
}

// DiscardSession 丢弃会话
// @Summary 丢弃提交会话
// @Tags Submission
// @Param id path string true "会话ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/submissions/{id} [delete]
func (ctrl *SubmissionController) DiscardSession(c *gin.Context) {
	ctrl.submissionService.Discard(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "会话已丢弃",
	})
}

// ==================== 辅助 ====================

// respondState 操作成功后统一回最新会话状态
func (ctrl *SubmissionController) respondState(c *gin.Context, id string) {
	state, err := ctrl.submissionService.State(id)
	if err != nil {
		ctrl.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    state,
	})
}

func (ctrl *SubmissionController) sessionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "会话不存在或已过期",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    500,
		"message": err.Error(),
	})
}
