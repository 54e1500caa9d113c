package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"carmart_za_v1/internal/service"
)

// ==================== 会话清理任务 ====================

// SessionCleanupTask 过期提交会话清理任务
// 匿名访客开了会话不提交就走人，草稿与孤儿图片需要定期回收
type SessionCleanupTask struct {
	SubmissionService *service.SubmissionService
	MaxIdle           time.Duration
	Cron              *cron.Cron
}

func NewSessionCleanupTask(submissionService *service.SubmissionService, maxIdle time.Duration) *SessionCleanupTask {
	if maxIdle <= 0 {
		maxIdle = 2 * time.Hour
	}
	return &SessionCleanupTask{
		SubmissionService: submissionService,
		MaxIdle:           maxIdle,
		Cron:              cron.New(cron.WithSeconds()), // 支持秒级控制
	}
}

// Start 启动定时任务
func (t *SessionCleanupTask) Start() {
	// 首次执行自动清理
	go func() {
		log.Println("[Task] 服务启动，正在执行首次会话清理...")
		t.cleanupJob()
	}()

	// 策略：每 15 分钟执行一次清理
	// Cron 表达式: "0 0/15 * * * *" (秒 分 时 日 月 周)
	_, err := t.Cron.AddFunc("0 0/15 * * * *", func() {
		t.cleanupJob()
	})
	if err != nil {
		log.Fatalf("无法启动会话清理定时任务: %v", err)
	}

	t.Cron.Start()
	log.Printf("会话清理任务已启动 (每15分钟清理一次，闲置阈值 %s)", t.MaxIdle)
}

// Stop 停止定时任务
func (t *SessionCleanupTask) Stop() {
	if t.Cron != nil {
		t.Cron.Stop()
	}
}

// 清理逻辑
func (t *SessionCleanupTask) cleanupJob() {
	// 清理涉及远端删图，给单次运行兜个底
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed := t.SubmissionService.CleanupStale(ctx, t.MaxIdle)
	if removed > 0 {
		log.Printf("[Cron] 已清理 %d 个过期提交会话", removed)
	}
}
