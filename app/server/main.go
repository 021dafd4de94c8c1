package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personal-blog/app/server/apidocs"
	"personal-blog/app/server/auth"
	"personal-blog/app/server/handlers"
	"personal-blog/app/server/identity"
	"personal-blog/app/server/inits"
	"personal-blog/app/server/jwt"
	"personal-blog/app/server/metrics"
	"personal-blog/app/server/middlewares"
	"personal-blog/app/server/password"
	"personal-blog/app/server/policy"
	"personal-blog/app/server/session"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer l.Sync()

	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBDriver, cfg.System.DBConnectionString)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 密码哈希
	hasher, err := password.New(cfg.Security.PasswordScheme, cfg.Security.HashWorkFactor)
	if err != nil {
		l.Fatal("error initializing password hasher", zap.Error(err))
	}

	// 初始化数据
	if err = inits.InitData(db, hasher, cfg.Security.InitAdminUsername, cfg.Security.InitAdminPassword, l); err != nil {
		l.Fatal("error initializing data", zap.Error(err))
	}

	// 会话存储
	var sessions session.Store
	switch cfg.System.SessionStore {
	case "memory":
		l.Warn("using in-memory session store, sessions will be lost on restart")
		sessions = session.NewMemoryStore(time.Now)
	default:
		rdb, err := inits.Redis(cfg.System.RedisConnectionString)
		if err != nil {
			l.Fatal("error initializing Redis connection", zap.Error(err))
		}
		sessions = session.NewRedisStore(rdb)
	}

	// 媒体存储
	media, err := inits.Storage(context.Background(), cfg)
	if err != nil {
		l.Fatal("error initializing media store", zap.Error(err))
	}

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey, cfg.Security.SignatureKeyVersion,
		jwt.WithRetiredKeys(cfg.Security.RetiredKeys),
		jwt.WithTTL(cfg.Security.TokenTTL),
	)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	m := metrics.New()
	resolver := identity.NewResolver(db)
	authenticator := auth.New(l, hasher, j, sessions, resolver, m, cfg.System.StoreTimeout)
	table := policy.Default()

	// 准备 handler app
	handlerApp := handlers.NewApp(l, db, authenticator, hasher, media)

	// 准备 echo 服务
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlerApp.HTTPErrorHandler
	e.Use(middlewares.RequestLogger(l, m))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{echo.HeaderAuthorization},
	}))
	e.Use(middlewares.Auth(middlewares.AuthConfig{
		Logger:           l,
		Codec:            j,
		Sessions:         sessions,
		Resolver:         resolver,
		Policy:           table,
		Metrics:          m,
		RefreshThreshold: cfg.Security.RefreshThreshold,
		StoreTimeout:     cfg.System.StoreTimeout,
	}))

	// 绑定 echo 服务
	handlerApp.Register(e)

	// 添加 API 文档
	if !cfg.System.IsProd {
		doc := apidocs.Build("Personal Blog", "1.0.0", e.Routes(), table)
		if docJson, err := doc.MarshalJSON(); err != nil {
			l.Error("error initializing api docs", zap.Error(err))
		} else {
			e.Pre(apidocs.Doc("/docs", docJson, apidocs.WithAuthorizer(apidocs.PrivateNetworkOnly)))
		}
	}

	// 运维服务：指标与健康检查
	var ops *echo.Echo
	if cfg.System.OpsListen != "" {
		ops = echo.New()
		ops.HideBanner = true
		ops.HidePort = true
		ops.GET("/metrics", echo.WrapHandler(m.Handler()))
		ops.GET("/healthz", handlerApp.HealthCheck)
		go func() {
			if err := ops.Start(cfg.System.OpsListen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Error("ops server stopped", zap.Error(err))
			}
		}()
	}

	// 启动 echo 服务
	go func() {
		if err := e.Start(cfg.System.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	l.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		l.Error("error shutting down the server", zap.Error(err))
	}
	if ops != nil {
		if err := ops.Shutdown(ctx); err != nil {
			l.Error("error shutting down the ops server", zap.Error(err))
		}
	}
}
