package inits

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"personal-blog/app/server/config"
	"personal-blog/app/server/constants"
	"personal-blog/app/server/password"
)

func Config() (*config.Config, error) {
	var cfg config.Config

	// 手动配置映射，基于环境变量
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	cfg.System.Listen = envOr("LISTEN", ":1323")
	cfg.System.OpsListen = envOr("OPS_LISTEN", ":9090")
	cfg.System.DBDriver = strings.ToLower(envOr("DB_DRIVER", "postgres"))

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	cfg.System.SessionStore = strings.ToLower(envOr("SESSION_STORE", "redis"))
	switch cfg.System.SessionStore {
	case "redis":
		if redisconn, exist := os.LookupEnv("REDIS_CONN"); !exist {
			return nil, fmt.Errorf("REDIS_CONN environment variable not set")
		} else {
			cfg.System.RedisConnectionString = redisconn
		}
	case "memory":
		if cfg.System.IsProd {
			return nil, fmt.Errorf("memory session store is not allowed in production")
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE: %s", cfg.System.SessionStore)
	}

	var err error
	if cfg.System.StoreTimeout, err = envDuration("STORE_TIMEOUT", constants.DefaultStoreTimeout); err != nil {
		return nil, err
	}

	// 安全相关
	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist || sigsk == "" {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}
	cfg.Security.SignatureKeyVersion = envOr("SIGNATURE_KEY_VERSION", "1")

	if cfg.Security.RetiredKeys, err = parseRetiredKeys(os.Getenv("SIGNATURE_RETIRED_KEYS")); err != nil {
		return nil, err
	}

	if cfg.Security.TokenTTL, err = envMinutes("TOKEN_TTL_MINUTES", constants.DefaultTokenTTL); err != nil {
		return nil, err
	}
	if cfg.Security.RefreshThreshold, err = envMinutes("REFRESH_THRESHOLD_MINUTES", constants.DefaultRefreshThreshold); err != nil {
		return nil, err
	}
	if cfg.Security.RefreshThreshold >= cfg.Security.TokenTTL {
		return nil, fmt.Errorf("REFRESH_THRESHOLD_MINUTES must be less than TOKEN_TTL_MINUTES")
	}

	if cfg.Security.HashWorkFactor, err = envInt("HASH_WORK_FACTOR", password.MinWorkFactor); err != nil {
		return nil, err
	}
	if cfg.Security.HashWorkFactor < password.MinWorkFactor {
		return nil, fmt.Errorf("HASH_WORK_FACTOR must be at least %d", password.MinWorkFactor)
	}
	cfg.Security.PasswordScheme = strings.ToLower(envOr("PASSWORD_SCHEME", password.SchemeBcrypt))

	cfg.Security.InitAdminUsername = envOr("INIT_ADMIN_USERNAME", "admin")
	cfg.Security.InitAdminPassword = os.Getenv("INIT_ADMIN_PASSWORD")

	// 媒体存储
	cfg.Storage.Driver = strings.ToLower(envOr("MEDIA_STORE", "local"))
	switch cfg.Storage.Driver {
	case "local":
		cfg.Storage.LocalDir = envOr("MEDIA_DIR", constants.MediaPathPrefix)
	case "s3":
		if bucket, exist := os.LookupEnv("S3_BUCKET"); !exist {
			return nil, fmt.Errorf("S3_BUCKET environment variable not set")
		} else {
			cfg.Storage.S3Bucket = bucket
		}
		cfg.Storage.S3Region = envOr("S3_REGION", "us-east-1")
		cfg.Storage.S3Endpoint = os.Getenv("S3_ENDPOINT")
		cfg.Storage.S3AccessKey = os.Getenv("S3_ACCESS_KEY")
		cfg.Storage.S3SecretKey = os.Getenv("S3_SECRET_KEY")
		cfg.Storage.S3PathStyle, _ = strconv.ParseBool(os.Getenv("S3_PATH_STYLE"))
	default:
		return nil, fmt.Errorf("unknown MEDIA_STORE: %s", cfg.Storage.Driver)
	}

	return &cfg, nil
}

func envOr(key string, def string) string {
	if v, exist := os.LookupEnv(key); exist && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, exist := os.LookupEnv(key)
	if !exist || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envMinutes(key string, def time.Duration) (time.Duration, error) {
	n, err := envInt(key, int(def/time.Minute))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return time.Duration(n) * time.Minute, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v, exist := os.LookupEnv(key)
	if !exist || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

// parseRetiredKeys 格式为 kid:secret,kid:secret
func parseRetiredKeys(raw string) (map[string]string, error) {
	keys := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kid, secret, ok := strings.Cut(pair, ":")
		if !ok || kid == "" || secret == "" {
			return nil, fmt.Errorf("invalid SIGNATURE_RETIRED_KEYS entry: %q", kid)
		}
		keys[kid] = secret
	}
	return keys, nil
}
