package handlers

import (
	"errors"
	"net/http"
	"strings"

	"personal-blog/app/server/auth"
	"personal-blog/app/server/constants"
	"personal-blog/app/server/middlewares"
	"personal-blog/app/server/models"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *App) UserRegister(c echo.Context) error {
	// 绑定请求体
	var req types.RegisterRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 没有写用户名或密码
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return a.er(c, http.StatusBadRequest)
	}

	if _, err := a.createUser(c, &req, types.RoleUser); err != nil {
		return a.createUserError(c, err)
	}

	return a.ok(c, constants.MsgRegisterSuccess, nil)
}

var errDuplicateUsername = errors.New("duplicate username")

// createUser 注册和管理员添加用户共用
func (a *App) createUser(c echo.Context, req *types.RegisterRequest, role types.Role) (*models.User, error) {
	rctx := c.Request().Context()

	// 检查用户名是否已存在
	var counter int64
	if err := a.db.WithContext(rctx).Model(&models.User{}).Where("username = ?", req.Username).Count(&counter).Error; err != nil {
		return nil, err
	} else if counter > 0 {
		return nil, errDuplicateUsername
	}

	// 处理密码
	hashed, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Nickname: req.Nickname,
		UserRole: role.Int(),
		Password: hashed,
	}
	if err = a.db.WithContext(rctx).Create(&user).Error; err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateUsername
		}
		return nil, err
	}

	return &user, nil
}

func (a *App) createUserError(c echo.Context, err error) error {
	if errors.Is(err, errDuplicateUsername) {
		return a.fail(c, constants.MsgDuplicateUser)
	}
	a.l.Error("failed to create user", zap.Error(err))
	return a.fail(c, constants.MsgAddFailed)
}

func (a *App) UserLogin(c echo.Context) error {
	return a.login(c, nil)
}

func (a *App) UserAdminLogin(c echo.Context) error {
	role := types.RoleAdmin
	return a.login(c, &role)
}

func (a *App) login(c echo.Context, requiredRole *types.Role) error {
	// 绑定请求体
	var req types.LoginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 没有写用户名或密码
	if req.Username == "" || req.Password == "" {
		return a.fail(c, constants.MsgBadCredentials)
	}

	token, err := a.auth.Authenticate(c.Request().Context(), req.Username, req.Password, requiredRole)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			return a.fail(c, constants.MsgBadCredentials)
		}
		a.l.Error("failed to authenticate", zap.String("username", req.Username), zap.Error(err))
		return a.er(c, http.StatusServiceUnavailable)
	}

	// 返回
	return a.ok(c, constants.MsgSuccess, &types.LoginToken{
		Token: token,
	})
}

func (a *App) UserLogout(c echo.Context) error {
	id := middlewares.GetIdentity(c)
	if id == nil {
		return a.er(c, http.StatusUnauthorized)
	}

	if err := a.auth.Logout(c.Request().Context(), id.Token); err != nil {
		a.l.Error("failed to logout", zap.String("username", id.Principal.Username), zap.Error(err))
		return a.er(c, http.StatusServiceUnavailable)
	}

	// 本次请求中续签的令牌也一并作废
	c.Response().Header().Del(echo.HeaderAuthorization)

	return a.ok(c, constants.MsgLogoutSuccess, nil)
}
