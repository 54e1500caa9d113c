package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/model"
	"carmart_za_v1/internal/wizard"
)

// ==================== 错误 ====================

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = client.ErrNotFound

// ErrBadImageIndex 图片下标越界
var ErrBadImageIndex = errors.New("image index out of range")

// ==================== 服务实现 ====================

// FileDeleter 孤儿文件清理依赖（由 StorageService 实现）
type FileDeleter interface {
	Delete(ctx context.Context, url string) error
}

// session 单个提交会话
// 每个会话独占一个向导，向导本身不做并发控制，锁在这里
type session struct {
	mu        sync.Mutex
	wiz       *wizard.Wizard
	updatedAt time.Time
}

// SubmissionService 提交会话服务
// 按会话 ID 管理服务端的向导实例
type SubmissionService struct {
	backend wizard.Backend
	deleter FileDeleter

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSubmissionService 创建提交服务
func NewSubmissionService(backend wizard.Backend, deleter FileDeleter) *SubmissionService {
	return &SubmissionService{
		backend:  backend,
		deleter:  deleter,
		sessions: make(map[string]*session),
	}
}

// ==================== 会话生命周期 ====================

// Start 开启新会话，返回会话 ID
func (s *SubmissionService) Start() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{
		wiz:       wizard.New(s.backend),
		updatedAt: time.Now(),
	}
	return id
}

// get 取会话
func (s *SubmissionService) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Discard 丢弃会话
func (s *SubmissionService) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// withSession 在会话锁内执行操作并刷新活跃时间
func (s *SubmissionService) withSession(id string, fn func(w *wizard.Wizard) error) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.updatedAt = time.Now()
	return fn(sess.wiz)
}

// ==================== 会话状态 ====================

// SessionState 会话状态快照
// 会话锁把图片批次上传串行化了，快照里不会出现"上传中"的中间态
type SessionState struct {
	ID         string       `json:"id"`
	Step       wizard.Step  `json:"step"`
	Draft      wizard.Draft `json:"draft"`
	Images     []string     `json:"images"`
	CanProceed bool         `json:"can_proceed"`
}

// State 读取会话状态
func (s *SubmissionService) State(id string) (*SessionState, error) {
	var state *SessionState
	err := s.withSession(id, func(w *wizard.Wizard) error {
		state = &SessionState{
			ID:         id,
			Step:       w.Step(),
			Draft:      w.Draft(),
			Images:     w.Images(),
			CanProceed: w.StepComplete(w.Step()),
		}
		return nil
	})
	return state, err
}

// ==================== 向导操作 ====================

// UpdateDraft 更新草稿字段
func (s *SubmissionService) UpdateDraft(id string, patch wizard.DraftPatch) error {
	return s.withSession(id, func(w *wizard.Wizard) error {
		w.Apply(patch)
		return nil
	})
}

// Advance 前进一步，返回是否真的前进了
func (s *SubmissionService) Advance(id string) (moved bool, err error) {
	err = s.withSession(id, func(w *wizard.Wizard) error {
		moved = w.Next()
		return nil
	})
	return moved, err
}

// Back 后退一步
func (s *SubmissionService) Back(id string) (moved bool, err error) {
	err = s.withSession(id, func(w *wizard.Wizard) error {
		moved = w.Back()
		return nil
	})
	return moved, err
}

// AddImages 上传一批图片
func (s *SubmissionService) AddImages(ctx context.Context, id string, files []client.File) error {
	return s.withSession(id, func(w *wizard.Wizard) error {
		return w.AddImages(ctx, files)
	})
}

// RemoveImage 移除指定位置的图片
func (s *SubmissionService) RemoveImage(id string, index int) error {
	return s.withSession(id, func(w *wizard.Wizard) error {
		if !w.RemoveImage(index) {
			return ErrBadImageIndex
		}
		return nil
	})
}

// Submit 提交车源
func (s *SubmissionService) Submit(ctx context.Context, id string) (*model.Listing, error) {
	var created *model.Listing
	err := s.withSession(id, func(w *wizard.Wizard) error {
		var err error
		created, err = w.Submit(ctx)
		return err
	})
	return created, err
}

// ==================== 过期清理 ====================

// CleanupStale 清理长时间不活跃的会话
// 未提交会话里已上传的图片属于孤儿资源，一并删掉；返回清理的会话数
func (s *SubmissionService) CleanupStale(ctx context.Context, maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		if sess.updatedAt.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.mu.Lock()
		images := sess.wiz.Images()
		sess.mu.Unlock()

		if s.deleter == nil {
			continue
		}
		for _, url := range images {
			if err := s.deleter.Delete(ctx, url); err != nil {
				log.Printf("[Submission] 清理孤儿图片失败 %s: %v", url, err)
			}
		}
	}

	return len(stale)
}

// SessionCount 当前会话数（给日志与测试用）
func (s *SubmissionService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
