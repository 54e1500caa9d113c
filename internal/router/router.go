package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"carmart_za_v1/internal/controller"
	"carmart_za_v1/internal/middleware"

	_ "carmart_za_v1/docs"
)

// Controllers 路由依赖的控制器集合
type Controllers struct {
	Listing    *controller.ListingController
	Submission *controller.SubmissionController
	Data       *controller.DataController
	Admin      *controller.AdminController
}

// Options 路由选项
type Options struct {
	DataAPIKey     string // 数据接口 API Key，空则不校验
	LocalUploadDir string // 本地存储目录，非空时挂载静态访问
}

// SetupRouter 创建引擎并注册所有路由
func SetupRouter(ctls *Controllers, opts Options) *gin.Engine {
	r := gin.Default()
	InitRoutes(r, ctls, opts)

	if opts.LocalUploadDir != "" {
		r.Static("/uploads", opts.LocalUploadDir)
	}
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls *Controllers, opts Options) {
	dataAuth := middleware.APIKeyAuth(opts.DataAPIKey)
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// 浏览与详情
		listings := api.Group("/listings")
		{
			// GET /api/listings
			listings.GET("", ctls.Listing.Browse)
			listings.GET("/featured", ctls.Listing.Featured)
			listings.GET("/:id", ctls.Listing.GetDetail)

			// 数据访问端接口（应用侧客户端调用）
			listings.POST("/filter", dataAuth, ctls.Data.FilterListings)
			listings.POST("", dataAuth, ctls.Data.CreateListing)
			listings.PATCH("/:id", dataAuth, ctls.Data.UpdateListing)
			listings.DELETE("/:id", dataAuth, ctls.Data.DeleteListing)
		}

		// 参考数据
		api.GET("/reference", ctls.Listing.Reference)

		// 文件上传（数据访问端）
		api.POST("/uploads", dataAuth, middleware.Cooldown(middleware.ActionUpload), ctls.Data.Upload)

		// 提交向导会话
		submissions := api.Group("/submissions")
		{
			// POST /api/submissions
			submissions.POST("", middleware.Cooldown(middleware.ActionSessionStart), ctls.Submission.StartSession)
			submissions.GET("/:id", ctls.Submission.GetState)
			submissions.DELETE("/:id", ctls.Submission.DiscardSession)
			submissions.PATCH("/:id/draft", ctls.Submission.UpdateDraft)
			submissions.POST("/:id/next", ctls.Submission.Next)
			submissions.POST("/:id/back", ctls.Submission.Back)
			submissions.POST("/:id/images", middleware.Cooldown(middleware.ActionUpload), ctls.Submission.AddImages)
			submissions.DELETE("/:id/images/:index", ctls.Submission.RemoveImage)
			submissions.POST("/:id/submit", middleware.Cooldown(middleware.ActionSubmit), ctls.Submission.Submit)
		}

		// 后台审核
		admin := api.Group("/admin")
		{
			admin.POST("/login", ctls.Admin.Login)

			moderation := admin.Group("", middleware.JWTAuth(),
				middleware.RequireRole(middleware.RoleAdmin, middleware.RoleModerator))
			{
				moderation.GET("/listings", ctls.Admin.ListPending)
				moderation.POST("/listings/:id/approve", ctls.Admin.Approve)
				moderation.POST("/listings/:id/feature", ctls.Admin.Feature)
				moderation.DELETE("/listings/:id/feature", ctls.Admin.Unfeature)
				moderation.DELETE("/listings/:id", ctls.Admin.Remove)
			}
		}
	}
}
