package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"carmart_za_v1/internal/middleware"
)

// ==================== 错误 ====================

var ErrBadCredentials = errors.New("用户名或密码错误")

// ==================== 服务实现 ====================

// AdminAccount 后台账号
type AdminAccount struct {
	Username string
	Password string
	Role     string
}

// AdminAuthService 后台认证服务
// 账号从环境变量注入，不落库；口令比较走常数时间
type AdminAuthService struct {
	accounts map[string]AdminAccount
}

// NewAdminAuthService 创建认证服务
func NewAdminAuthService(accounts []AdminAccount) *AdminAuthService {
	m := make(map[string]AdminAccount, len(accounts))
	for _, a := range accounts {
		if a.Username == "" || a.Password == "" {
			continue
		}
		if a.Role == "" {
			a.Role = middleware.RoleModerator
		}
		m[a.Username] = a
	}
	return &AdminAuthService{accounts: m}
}

// Authenticate 校验账号口令，成功返回角色
func (s *AdminAuthService) Authenticate(username, password string) (string, error) {
	account, ok := s.accounts[username]
	if !ok {
		// 账号不存在也走一次比较，拉平响应时间
		compareSecret("", password)
		return "", ErrBadCredentials
	}

	if !compareSecret(account.Password, password) {
		return "", ErrBadCredentials
	}
	return account.Role, nil
}

func compareSecret(want, got string) bool {
	w := sha256.Sum256([]byte(want))
	g := sha256.Sum256([]byte(got))
	return subtle.ConstantTimeCompare(w[:], g[:]) == 1
}
