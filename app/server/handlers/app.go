package handlers

import (
	"personal-blog/app/server/auth"
	"personal-blog/app/server/password"
	"personal-blog/app/server/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	l      *zap.Logger         // 日志
	db     *gorm.DB            // 数据库
	auth   *auth.Authenticator // 登录、退出与会话吊销
	hasher *password.Hasher    // 密码哈希
	media  storage.Store       // 媒体文件存储
}

func NewApp(l *zap.Logger, db *gorm.DB, authenticator *auth.Authenticator, hasher *password.Hasher, media storage.Store) *App {
	return &App{
		l:      l,
		db:     db,
		auth:   authenticator,
		hasher: hasher,
		media:  media,
	}
}
