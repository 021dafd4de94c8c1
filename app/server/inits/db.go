package inits

import (
	"errors"
	"fmt"
	"strings"

	"personal-blog/app/server/models"
	"personal-blog/app/server/password"
	"personal-blog/app/server/types"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func DB(driver string, conn string) (db *gorm.DB, err error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", "postgres":
		dialector = postgres.Open(conn)
	case "sqlite":
		dialector = sqlite.Open(conn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	// 打开连接
	if db, err = gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 返回
	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Category{},
		&models.Tag{},
		&models.Comment{},
		&models.Media{},
	)
}

// InitData 在用户表为空时创建初始管理员，没有配置密码则跳过
func InitData(db *gorm.DB, hasher *password.Hasher, username string, pass string, l *zap.Logger) (err error) {
	// 查询现有记录数量
	var counter int64

	// 初始化用户
	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter > 0 {
		return nil
	}

	if pass == "" {
		l.Warn("user table is empty and INIT_ADMIN_PASSWORD is not set, skip creating admin user")
		return nil
	}
	if username == "" {
		return errors.New("init admin username is empty")
	}

	// 创建密码
	var hashed string
	if hashed, err = hasher.Hash(pass); err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}

	// 插入记录
	if err = db.Create(&models.User{
		Username: username,
		Nickname: "Blog Admin",
		UserRole: types.RoleAdmin.Int(),
		Password: hashed,
	}).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	l.Info("admin user created", zap.String("username", username))

	return nil
}
