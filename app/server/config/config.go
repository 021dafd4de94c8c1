package config

import "time"

type Config struct {
	System struct {
		IsProd                bool          // 是否为生产环境
		Listen                string        // 监听地址
		OpsListen             string        // 运维监听地址（指标与健康检查），留空则不启动
		DBDriver              string        // 数据库驱动： postgres 或 sqlite
		DBConnectionString    string        // 数据库的连接字符串
		SessionStore          string        // 会话存储： redis 或 memory （仅用于开发）
		RedisConnectionString string        // Redis 数据库的连接字符串（会话存储）
		StoreTimeout          time.Duration // 查询会话与用户时的超时时间，超时返回 503
	}
	Security struct {
		SignatureSecretKey  string            // 签名密钥，用于签发 JWT ，更新会导致旧有会话失效
		SignatureKeyVersion string            // 当前签名密钥的版本，写入 JWT 头部的 kid
		RetiredKeys         map[string]string // 已轮换下来的旧密钥（版本 -> 密钥），宽限期内仍可验证
		TokenTTL            time.Duration     // 令牌有效期
		RefreshThreshold    time.Duration     // 剩余有效期低于此值时自动续签
		HashWorkFactor      int               // 密码哈希强度（ bcrypt cost ），不小于 10
		PasswordScheme      string            // 新密码使用的哈希算法： bcrypt 或 argon2id
		InitAdminUsername   string            // 用户表为空时创建的管理员用户名
		InitAdminPassword   string            // 用户表为空时创建的管理员密码，留空则不创建
	}
	Storage struct {
		Driver      string // 媒体文件存储： local 或 s3
		LocalDir    string // 本地存储目录
		S3Bucket    string
		S3Region    string
		S3Endpoint  string // 兼容 S3 的服务地址（例如 MinIO ），留空使用 AWS 默认
		S3AccessKey string
		S3SecretKey string
		S3PathStyle bool
	}
}
