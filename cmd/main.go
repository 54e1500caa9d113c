package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/controller"
	"carmart_za_v1/internal/middleware"
	"carmart_za_v1/internal/model"
	"carmart_za_v1/internal/repository"
	"carmart_za_v1/internal/router"
	"carmart_za_v1/internal/service"
	"carmart_za_v1/internal/task"
	"carmart_za_v1/pkg/database"
)

func main() {
	// 1. 初始化依赖
	deps := initDependencies()

	// 2. 启动定时任务
	initTasks(deps)

	// 3. 初始化路由
	r := router.SetupRouter(deps.Controllers, router.Options{
		DataAPIKey:     getEnv("DATA_API_KEY", ""),
		LocalUploadDir: deps.LocalUploadDir,
	})

	// 4. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB             *gorm.DB
	Client         client.Client
	Services       *Services
	Controllers    *router.Controllers
	LocalUploadDir string
}

// Services 服务集合
type Services struct {
	Browse     *service.BrowseService
	Submission *service.SubmissionService
	Storage    *service.StorageService
	AdminAuth  *service.AdminAuthService
}

// ==================== 初始化函数 ====================

// initDependencies 初始化所有依赖
// 数据访问有两种形态：配置了 CARMART_BACKEND_URL 时走托管后端，
// 否则本地建库，所有数据操作进程内完成
func initDependencies() *Dependencies {
	deps := &Dependencies{}

	// -------- JWT 配置 --------
	jwtCfg := middleware.DefaultJWTConfig()
	jwtCfg.SecretKey = getEnv("JWT_SECRET", jwtCfg.SecretKey)
	middleware.SetJWTConfig(jwtCfg)

	// -------- 数据访问客户端 --------
	if backendURL := getEnv("CARMART_BACKEND_URL", ""); backendURL != "" {
		deps.Client = client.NewRemoteClient(&client.RemoteConfig{
			BaseURL: backendURL,
			APIKey:  getEnv("CARMART_API_KEY", ""),
		})
		log.Printf("数据访问：托管后端 %s", backendURL)
	} else {
		deps.DB = initDatabase()
		storageSvc := initStorageService()
		deps.Client = client.NewLocalClient(repository.NewListingRepository(deps.DB), storageSvc)

		deps.Services = &Services{Storage: storageSvc}
		if local, ok := storageSvc.GetProvider().(*service.LocalStorage); ok {
			deps.LocalUploadDir = local.BaseDir()
		}
		log.Println("数据访问：本地数据库")
	}

	// -------- 业务服务 --------
	if deps.Services == nil {
		deps.Services = &Services{}
	}
	deps.Services.Browse = service.NewBrowseService(deps.Client)
	deps.Services.Submission = service.NewSubmissionService(deps.Client, fileDeleter(deps.Services.Storage))
	deps.Services.AdminAuth = service.NewAdminAuthService(adminAccounts())

	// -------- Controller 层 --------
	deps.Controllers = &router.Controllers{
		Listing:    controller.NewListingController(deps.Services.Browse),
		Submission: controller.NewSubmissionController(deps.Services.Submission),
		Data:       controller.NewDataController(deps.Client),
		Admin:      controller.NewAdminController(deps.Services.AdminAuth, deps.Client),
	}

	return deps
}

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=carmart port=5432 sslmode=disable")
	debug := getEnv("DB_DEBUG", "") != ""

	return database.InitDB(dsn, debug, &model.Listing{})
}

// initStorageService 初始化存储服务
func initStorageService() *service.StorageService {
	provider := getEnv("STORAGE_PROVIDER", "local")
	basePathDefault := "carmart"
	if provider == "local" {
		basePathDefault = "./uploads"
	}

	storageSvc, err := service.NewStorageService(&service.StorageConfig{
		Provider:  provider,
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", basePathDefault),
		LocalURL:  getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/uploads"),
	})
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	return storageSvc
}

// fileDeleter 存储服务可能为空（托管后端形态），避免接口装空指针
func fileDeleter(s *service.StorageService) service.FileDeleter {
	if s == nil {
		return nil
	}
	return s
}

// adminAccounts 从环境变量读后台账号
func adminAccounts() []service.AdminAccount {
	return []service.AdminAccount{
		{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Role:     middleware.RoleAdmin,
		},
		{
			Username: getEnv("MODERATOR_USERNAME", ""),
			Password: getEnv("MODERATOR_PASSWORD", ""),
			Role:     middleware.RoleModerator,
		},
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	maxIdleMinutes, _ := strconv.Atoi(getEnv("SESSION_MAX_IDLE_MINUTES", "120"))

	cleanupTask := task.NewSessionCleanupTask(
		deps.Services.Submission,
		time.Duration(maxIdleMinutes)*time.Minute,
	)
	cleanupTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
