package handlers

import (
	"errors"
	"net/http"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/middlewares"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ok 业务成功
func (a *App) ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, &types.Result{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// fail 业务失败，HTTP 状态码依然是 200
func (a *App) fail(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, &types.Result{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

// er HTTP 层面的错误
func (a *App) er(c echo.Context, statusCode int) error {
	message := http.StatusText(statusCode)
	switch statusCode {
	case http.StatusBadRequest:
		message = constants.MsgBadRequest
	case http.StatusForbidden:
		message = constants.MsgForbidden
	case http.StatusServiceUnavailable:
		message = constants.MsgUnavailable
	}

	return c.JSON(statusCode, &types.Result{
		Code:    statusCode,
		Message: message,
	})
}

// HTTPErrorHandler 让路由不存在、方法不允许等错误也使用统一的响应结构
func (a *App) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	statusCode := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		statusCode = he.Code
	} else {
		a.l.Error("unhandled error", zap.String("URI", c.Request().RequestURI), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(statusCode)
	} else {
		err = a.er(c, statusCode)
	}
	if err != nil {
		a.l.Error("failed to write error response", zap.Error(err))
	}
}

// principal 当前登录的用户，认证中间件保证非公开接口上不为 nil
func (a *App) principal(c echo.Context) *types.Principal {
	if id := middlewares.GetIdentity(c); id != nil {
		return id.Principal
	}
	return nil
}

func (a *App) pathID(c echo.Context, name string) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).MustUint(name, &id).BindError(); err != nil {
		return 0, err
	}
	return id, nil
}

// queryUint 参数不存在时返回 nil
func (a *App) queryUint(c echo.Context, name string) (*uint, error) {
	if !c.QueryParams().Has(name) {
		return nil, nil
	}

	var v uint
	if err := echo.QueryParamsBinder(c).Uint(name, &v).BindError(); err != nil {
		return nil, err
	}
	return &v, nil
}
