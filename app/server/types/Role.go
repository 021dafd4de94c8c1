package types

import "fmt"

type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

// RoleFromInt 将数据库中的 0/1 映射为角色，未知值按普通用户处理
func RoleFromInt(v int) Role {
	if v == int(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) Int() int {
	return int(r)
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "USER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}
