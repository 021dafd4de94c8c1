package types

import "time"

// Principal 是通过令牌校验后的调用者身份
type Principal struct {
	UserID       uint
	Username     string
	HashedSecret string `json:"-"` // 不能离开服务端，也不能写入日志
	Role         Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Identity 由认证中间件挂到请求上下文中
type Identity struct {
	Principal *Principal
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
