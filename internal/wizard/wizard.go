package wizard

import (
	"context"
	"fmt"

	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/model"
)

// ==================== 步骤定义 ====================

// Step 提交向导步骤
type Step int

const (
	StepVehicle Step = 1 // 车辆信息
	StepDetails Step = 2 // 照片与价格
	StepContact Step = 3 // 联系方式
	StepDone    Step = 4 // 提交完成（终态）
)

// ==================== 外部依赖 ====================

// Backend 向导依赖的数据访问操作（由 client.Client 实现）
type Backend interface {
	Create(ctx context.Context, listing *model.Listing) (*model.Listing, error)
	UploadFile(ctx context.Context, file client.File) (string, error)
}

// ==================== 错误 ====================

var (
	// ErrTooManyImages 整批拒绝：加入后会超过图片上限
	ErrTooManyImages = fmt.Errorf("最多允许 %d 张图片", model.MaxListingImages)

	// ErrUploadInFlight 上一批还在上传中
	ErrUploadInFlight = fmt.Errorf("图片正在上传中，请稍候")

	// ErrWrongStep 当前步骤不允许该操作
	ErrWrongStep = fmt.Errorf("当前步骤不允许提交")
)

// ==================== 向导 ====================

// Wizard 车源提交向导
// 四步状态机：持有草稿与已上传图片，草稿由向导独占，
// 提交成功后转为载荷交给 Create 并丢弃
// 非并发安全，单个会话内串行使用（并发控制在会话层）
type Wizard struct {
	backend Backend

	step      Step
	draft     Draft
	images    []string
	uploading bool
}

// New 创建向导，从第一步、空草稿开始
func New(backend Backend) *Wizard {
	return &Wizard{
		backend: backend,
		step:    StepVehicle,
		draft:   emptyDraft(),
	}
}

// ==================== 状态查询 ====================

// Step 当前步骤
func (w *Wizard) Step() Step {
	return w.step
}

// Draft 草稿副本
func (w *Wizard) Draft() Draft {
	d := w.draft
	d.Features = append([]string(nil), w.draft.Features...)
	return d
}

// Images 已上传图片 URL 副本（提交顺序）
func (w *Wizard) Images() []string {
	return append([]string(nil), w.images...)
}

// Uploading 是否有图片批次在上传中
func (w *Wizard) Uploading() bool {
	return w.uploading
}

// ==================== 草稿编辑 ====================

// Apply 更新草稿字段
// 终态后忽略一切编辑
func (w *Wizard) Apply(p DraftPatch) {
	if w.step == StepDone {
		return
	}
	w.draft.apply(p)
}

// ==================== 步骤导航 ====================

// StepComplete 某一步的完成判定（只查非空，不做格式校验）
func (w *Wizard) StepComplete(s Step) bool {
	d := &w.draft
	switch s {
	case StepVehicle:
		return d.Make != "" && d.Model != "" && d.Year != "" &&
			d.Transmission != "" && d.FuelType != "" && d.BodyType != ""
	case StepDetails:
		return d.Price != "" && d.Mileage != "" && d.Province != ""
	case StepContact:
		return d.SellerName != "" && d.SellerPhone != "" && d.SellerEmail != ""
	default:
		return true
	}
}

// Next 前进一步
// 仅当当前步骤完成判定通过才前进，否则静默不动；
// 第三步到第四步只能经由 Submit 成功触达
func (w *Wizard) Next() bool {
	if w.step >= StepContact {
		return false
	}
	if !w.StepComplete(w.step) {
		return false
	}
	w.step++
	return true
}

// Back 后退一步，无条件允许（终态除外）
func (w *Wizard) Back() bool {
	if w.step <= StepVehicle || w.step == StepDone {
		return false
	}
	w.step--
	return true
}

// ==================== 图片管理 ====================

// AddImages 上传一批图片并按提交顺序追加 URL
// 超过上限整批拒绝，不做部分添加；批次内逐个串行上传，
// 中途失败保留已追加的 URL、放弃剩余文件并返回错误
func (w *Wizard) AddImages(ctx context.Context, files []client.File) error {
	if w.step == StepDone {
		return ErrWrongStep
	}
	if w.uploading {
		return ErrUploadInFlight
	}
	if len(files)+len(w.images) > model.MaxListingImages {
		return ErrTooManyImages
	}

	w.uploading = true
	defer func() { w.uploading = false }()

	for i, f := range files {
		url, err := w.backend.UploadFile(ctx, f)
		if err != nil {
			return fmt.Errorf("第 %d 张图片上传失败: %v", i+1, err)
		}
		w.images = append(w.images, url)
	}
	return nil
}

// RemoveImage 移除指定位置的图片，其余相对顺序不变
func (w *Wizard) RemoveImage(index int) bool {
	if index < 0 || index >= len(w.images) {
		return false
	}
	w.images = append(w.images[:index], w.images[index+1:]...)
	return true
}

// ==================== 提交 ====================

// Submit 提交车源
// 仅在第三步且完成判定通过时生效；成功后进入终态并丢弃草稿，
// 失败时草稿、图片、步骤全部保持原样以便重试
func (w *Wizard) Submit(ctx context.Context) (*model.Listing, error) {
	if w.step != StepContact {
		return nil, ErrWrongStep
	}
	if !w.StepComplete(StepContact) {
		return nil, ErrWrongStep
	}

	payload, err := w.draft.toListing(w.images)
	if err != nil {
		return nil, err
	}

	created, err := w.backend.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	w.step = StepDone
	w.draft = emptyDraft()
	w.images = nil
	return created, nil
}
