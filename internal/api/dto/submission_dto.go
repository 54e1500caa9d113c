package dto

import "carmart_za_v1/internal/wizard"

// ==================== 请求 DTO ====================

// UpdateDraftRequest 草稿字段更新请求
// 直接复用向导的补丁类型，nil 字段表示不改动
type UpdateDraftRequest = wizard.DraftPatch

// AdminLoginRequest 后台登录请求
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ==================== 响应 DTO ====================

// StartSessionResponse 开启会话响应
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Step      int    `json:"step"`
}

// AdminLoginResponse 后台登录响应
type AdminLoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
}

// UploadResponse 文件上传响应
type UploadResponse struct {
	FileURL string `json:"file_url"`
}
