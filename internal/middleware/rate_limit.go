package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 冷却限流器 ====================

// CooldownLimiter 按键冷却限流器
// 防止匿名访客高频开会话、刷上传把存储打满
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &CooldownLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *CooldownLimiter {
	return globalLimiter
}

// ==================== 限流检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行
// key: 限流键，如 "ip:1.2.3.4:session_start"
// interval: 冷却间隔
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{
		Allowed:    true,
		RetryAfter: 0,
	}
}

// Reset 重置指定 key 的限流
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Key 生成工具 ====================

// ActionType 限流动作类型
type ActionType string

const (
	ActionSessionStart ActionType = "session_start"
	ActionUpload       ActionType = "upload"
	ActionSubmit       ActionType = "submit"
)

// ClientKey 生成客户端级限流 Key
func ClientKey(clientIP string, action ActionType) string {
	return fmt.Sprintf("ip:%s:%s", clientIP, action)
}

// ==================== 默认冷却间隔 ====================

// DefaultIntervals 默认冷却间隔配置
var DefaultIntervals = map[ActionType]time.Duration{
	ActionSessionStart: 2 * time.Second,
	ActionUpload:       time.Second,
	ActionSubmit:       5 * time.Second,
}

// GetInterval 获取动作的默认冷却间隔
func GetInterval(action ActionType) time.Duration {
	if interval, ok := DefaultIntervals[action]; ok {
		return interval
	}
	return time.Second
}

// ==================== Gin 中间件 ====================

// Cooldown 按客户端 IP 做动作冷却
func Cooldown(action ActionType) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientKey(c.ClientIP(), action)
		result := globalLimiter.Check(key, GetInterval(action))
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":        429,
				"message":     "操作过于频繁，请稍后再试",
				"retry_after": result.RetryAfter.Seconds(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
