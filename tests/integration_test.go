package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/controller"
	"carmart_za_v1/internal/middleware"
	"carmart_za_v1/internal/model"
	"carmart_za_v1/internal/repository"
	"carmart_za_v1/internal/router"
	"carmart_za_v1/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 测试装配 ====================

// memStorage 进程内存储，替代 S3
type memStorage struct {
	files map[string][]byte
	count int
}

func (m *memStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.count++
	url := fmt.Sprintf("https://cdn.test/%d-%s", m.count, filename)
	m.files[url] = data
	return url, nil
}

type testApp struct {
	engine *gin.Engine
	db     *gorm.DB
	client client.Client
}

func newTestApp(t *testing.T) *testApp {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Listing{}))

	localClient := client.NewLocalClient(repository.NewListingRepository(db), &memStorage{})

	browseSvc := service.NewBrowseService(localClient)
	submissionSvc := service.NewSubmissionService(localClient, nil)
	authSvc := service.NewAdminAuthService([]service.AdminAccount{
		{Username: "admin", Password: "secret", Role: middleware.RoleAdmin},
	})

	engine := gin.New()
	router.InitRoutes(engine, &router.Controllers{
		Listing:    controller.NewListingController(browseSvc),
		Submission: controller.NewSubmissionController(submissionSvc),
		Data:       controller.NewDataController(localClient),
		Admin:      controller.NewAdminController(authSvc, localClient),
	}, router.Options{})

	return &testApp{engine: engine, db: db, client: localClient}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *testApp) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (a *testApp) adminToken(t *testing.T) string {
	w, env := a.do(http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin", "password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.AccessToken
}

// seedListing 直接经数据接口创建一条车源，返回 ID
func (a *testApp) seedListing(t *testing.T, make_, model_ string, price int) string {
	listing := model.Listing{
		Make: make_, Model: model_, Year: 2020, Price: price, Mileage: 50000,
		BodyType: "Sedan", Transmission: model.TransmissionManual,
		FuelType: model.FuelPetrol, Province: "Gauteng",
		SellerName: "Seed", SellerPhone: "000", SellerEmail: "s@s.co",
		SellerType: model.SellerTypePrivate,
	}

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(listing)
	req, _ := http.NewRequest(http.MethodPost, "/api/listings", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

// ==================== 浏览与审核流程 ====================

func TestIntegration_ModerationThenBrowse(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)

	toyotaID := app.seedListing(t, "Toyota", "Corolla", 250000)
	bmwID := app.seedListing(t, "BMW", "3 Series", 450000)

	// 新建车源是 pending，浏览页看不到
	_, env := app.do(http.MethodGet, "/api/listings", "", nil)
	var browse struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &browse))
	assert.Equal(t, 0, browse.Total)

	// 审核通过一条
	w, _ := app.do(http.MethodPost, "/api/admin/listings/"+toyotaID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = app.do(http.MethodGet, "/api/listings", "", nil)
	var browseData struct {
		Listings []model.Listing `json:"listings"`
		Total    int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &browseData))
	assert.Equal(t, 1, browseData.Total)
	assert.Equal(t, toyotaID, browseData.Listings[0].ID)

	// 第二条也通过后，品牌筛选只剩 BMW
	_, _ = app.do(http.MethodPost, "/api/admin/listings/"+bmwID+"/approve", token, nil)
	_, env = app.do(http.MethodGet, "/api/listings?make=BMW", "", nil)
	require.NoError(t, json.Unmarshal(env.Data, &browseData))
	assert.Equal(t, 1, browseData.Total)
	assert.Equal(t, bmwID, browseData.Listings[0].ID)

	// 详情
	w, env = app.do(http.MethodGet, "/api/listings/"+bmwID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var detail model.Listing
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "BMW", detail.Make)

	// 未知 ID
	w, _ = app.do(http.MethodGet, "/api/listings/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_FeaturedBackfill(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		id := app.seedListing(t, "Toyota", fmt.Sprintf("Model-%d", i), 200000+i)
		_, _ = app.do(http.MethodPost, "/api/admin/listings/"+id+"/approve", token, nil)
		ids = append(ids, id)
	}

	// 只精选一条，limit=3 时用最新已上架车源补齐
	w, _ := app.do(http.MethodPost, "/api/admin/listings/"+ids[0]+"/feature", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env := app.do(http.MethodGet, "/api/listings/featured?limit=3", "", nil)
	var featured []model.Listing
	require.NoError(t, json.Unmarshal(env.Data, &featured))
	assert.Len(t, featured, 3)
	assert.Equal(t, ids[0], featured[0].ID)
}

// ==================== 提交向导流程 ====================

func TestIntegration_SubmissionWizard(t *testing.T) {
	app := newTestApp(t)

	// 开会话
	w, env := app.do(http.MethodPost, "/api/submissions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	base := "/api/submissions/" + session.SessionID

	// 第一步填车辆信息
	_, _ = app.do(http.MethodPatch, base+"/draft", "", map[string]string{
		"make": "Ford", "model": "Ranger", "year": "2019",
		"transmission": model.TransmissionAutomatic,
		"fuel_type":    model.FuelDiesel, "body_type": "Bakkie",
	})
	_, _ = app.do(http.MethodPost, base+"/next", "", nil)

	// 第二步：价格里程与图片
	_, _ = app.do(http.MethodPatch, base+"/draft", "", map[string]string{
		"price": "380000", "mileage": "90000", "province": "Western Cape",
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("files", "front.jpg")
	_, _ = fw.Write([]byte("jpeg-bytes"))
	mw.Close()
	req, _ := http.NewRequest(http.MethodPost, base+"/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// 第三步：联系方式并提交
	_, _ = app.do(http.MethodPost, base+"/next", "", nil)
	_, _ = app.do(http.MethodPatch, base+"/draft", "", map[string]string{
		"seller_name": "Pieter", "seller_phone": "0731112222",
		"seller_email": "pieter@example.co.za",
	})

	w, env = app.do(http.MethodPost, base+"/submit", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var created model.Listing
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, model.ListingStatusPending, created.Status)
	assert.Equal(t, 380000, created.Price)
	assert.Len(t, created.Images, 1)

	// 落库校验：pending 状态，不出现在浏览页
	_, env = app.do(http.MethodGet, "/api/listings", "", nil)
	var browse struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &browse))
	assert.Equal(t, 0, browse.Total)

	var count int64
	app.db.Model(&model.Listing{}).Where("status = ?", model.ListingStatusPending).Count(&count)
	assert.Equal(t, int64(1), count)
}
