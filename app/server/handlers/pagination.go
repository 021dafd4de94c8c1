package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *App) pageParams(c echo.Context) (page *uint, limit *uint, err error) {
	if page, err = a.queryUint(c, "page"); err != nil {
		return nil, nil, err
	}
	if limit, err = a.queryUint(c, "limit"); err != nil {
		return nil, nil, err
	}
	return page, limit, nil
}

func (a *App) parsePagination(page *uint, limit *uint) (bool, int, int) {
	if page != nil && *page == 0 && limit != nil && *limit == 0 {
		// 特殊参数：展示全部
		return true, -1, -1
	}
	// 映射前：第几页，每页限制多少个
	// 映射后：页减一，限制不变
	var parsedPage, parsedLimit uint

	if page == nil || *page < 1 {
		parsedPage = 0
	} else {
		parsedPage = *page - 1
	}

	if limit == nil || *limit <= 0 {
		parsedLimit = 100
	} else {
		parsedLimit = *limit
	}

	return false, int(parsedPage), int(parsedLimit)
}

func (a *App) calcMaxPage(count int64, showAll bool, limit int) int64 {
	if showAll {
		return 1
	} else {
		pageMax := count / int64(limit)
		if (count % int64(limit)) != 0 {
			pageMax++
		}
		return pageMax
	}
}

var errBadQuery = errors.New("bad query parameters")

// 方法不能有类型形参，所以这个不能用 (a *App)
func paginate[M any](a *App, c echo.Context, query *gorm.DB, order string) (*types.PageResult, error) {
	page, limit, err := a.pageParams(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadQuery, err)
	}

	showAll, page0, limitN := a.parsePagination(page, limit)
	base := query.Session(&gorm.Session{})

	var count int64
	if err = base.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	list := []M{}
	queryList := base.Order(order)
	if !showAll {
		queryList = queryList.Limit(limitN).Offset(page0 * limitN)
	}
	if err = queryList.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	return &types.PageResult{
		List:    list,
		Limit:   limitN,
		PageMax: a.calcMaxPage(count, showAll, limitN),
	}, nil
}

// pageError 参数错误返回 400 ，其余记录日志后返回查询失败
func (a *App) pageError(c echo.Context, err error) error {
	if errors.Is(err, errBadQuery) {
		return a.er(c, http.StatusBadRequest)
	}
	a.l.Error("failed to query list", zap.String("URI", c.Request().RequestURI), zap.Error(err))
	return a.fail(c, constants.MsgQueryFailed)
}
