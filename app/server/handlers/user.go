package handlers

import (
	"errors"
	"net/http"
	"strings"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/models"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *App) UserAdd(c echo.Context) error {
	// 绑定请求体
	var req types.AddUserRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return a.er(c, http.StatusBadRequest)
	}

	user, err := a.createUser(c, &req.RegisterRequest, types.RoleFromInt(req.Role))
	if err != nil {
		return a.createUserError(c, err)
	}

	return a.ok(c, constants.MsgAddSuccess, user)
}

func (a *App) UserDelete(c echo.Context) error {
	id, err := a.pathID(c, "userId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgUserNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	// 删除用户
	if err := a.db.WithContext(rctx).Delete(&user).Error; err != nil {
		a.l.Error("failed to delete user", zap.Uint("id", id), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	// 账号已删除，会话也要立即失效
	if err := a.auth.Revoke(rctx, user.Username); err != nil {
		a.l.Error("failed to revoke session of deleted user", zap.String("username", user.Username), zap.Error(err))
	}

	return a.ok(c, constants.MsgDeleteSuccess, nil)
}

func (a *App) UserUpdate(c echo.Context) error {
	me := a.principal(c)

	// 绑定请求体
	var req types.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 不指定时修改自己
	if req.UserID == 0 {
		req.UserID = me.UserID
	}

	// 普通用户只能修改自己，且不能修改角色
	if !me.IsAdmin() && (req.UserID != me.UserID || req.Role != nil) {
		return a.er(c, http.StatusForbidden)
	}

	rctx := c.Request().Context()

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "user_id = ?", req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgUserNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", req.UserID), zap.Error(err))
		return a.fail(c, constants.MsgUpdateFailed)
	}

	// 映射字段
	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.AvatarPath != nil {
		updates["avatar_path"] = *req.AvatarPath
	}
	if req.Role != nil {
		updates["user_role"] = types.RoleFromInt(*req.Role).Int()
	}
	passwordChanged := req.Password != nil && *req.Password != ""
	if passwordChanged {
		hashed, err := a.hasher.Hash(*req.Password)
		if err != nil {
			a.l.Error("failed to hash password", zap.Error(err))
			return a.fail(c, constants.MsgUpdateFailed)
		}
		updates["password"] = hashed
	}

	if len(updates) > 0 {
		// 更新用户信息
		if err := a.db.WithContext(rctx).Model(&user).Updates(updates).Error; err != nil {
			a.l.Error("failed to update user", zap.Uint("id", user.ID), zap.Error(err))
			return a.fail(c, constants.MsgUpdateFailed)
		}
	}

	// 修改密码后需要重新登录
	if passwordChanged {
		if err := a.auth.Revoke(rctx, user.Username); err != nil {
			a.l.Error("failed to revoke session after password change", zap.String("username", user.Username), zap.Error(err))
		}
		if user.ID == me.UserID {
			c.Response().Header().Del(echo.HeaderAuthorization)
		}
	}

	return a.ok(c, constants.MsgUpdateSuccess, &user)
}

func (a *App) UserGet(c echo.Context) error {
	username := c.QueryParam("username")
	email := c.QueryParam("email")
	if username == "" && email == "" {
		return a.er(c, http.StatusBadRequest)
	}

	query := a.db.WithContext(c.Request().Context())
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if email != "" {
		query = query.Where("email = ?", email)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgUserNotFound)
		}
		a.l.Error("failed to get user", zap.Error(err))
		return a.fail(c, constants.MsgQueryFailed)
	}

	return a.ok(c, constants.MsgSuccess, &user)
}

func (a *App) UserList(c echo.Context) error {
	res, err := paginate[models.User](a, c, a.db.WithContext(c.Request().Context()).Model(&models.User{}), "user_id ASC")
	if err != nil {
		return a.pageError(c, err)
	}

	return a.ok(c, constants.MsgSuccess, res)
}

func (a *App) UserInfoGetSelf(c echo.Context) error {
	me := a.principal(c)

	var user models.User
	if err := a.db.WithContext(c.Request().Context()).First(&user, "user_id = ?", me.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgUserNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", me.UserID), zap.Error(err))
		return a.fail(c, constants.MsgQueryFailed)
	}

	return a.ok(c, constants.MsgSuccess, &user)
}
