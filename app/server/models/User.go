package models

import "time"

type User struct {
	ID uint `gorm:"column:user_id;primaryKey" json:"userId"`

	// 基础信息
	Username   string `gorm:"column:username;uniqueIndex;not null" json:"username"` // 用户名，全局唯一
	Email      string `gorm:"column:email" json:"email"`
	AvatarPath string `gorm:"column:avatar_path" json:"avatarPath"`   // 头像路径
	Nickname   string `gorm:"column:nickname" json:"nickname"`        // 显示名称
	UserRole   int    `gorm:"column:user_role;default:0" json:"role"` // 0 普通用户， 1 管理员

	// 登录相关
	Password string `gorm:"column:password;not null" json:"-"` // 密码哈希（ bcrypt 或 argon2id ），永不返回给客户端

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
